package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMarshalJSON_LiteralText(t *testing.T) {
	got, err := MarshalJSON(map[string]any{"name": "חיפה & <Haifa>", "n": 1})
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	want := "{\n  \"n\": 1,\n  \"name\": \"חיפה & <Haifa>\"\n}"
	if string(got) != want {
		t.Errorf("MarshalJSON() = %q, want %q", got, want)
	}
}

func TestMarshalJSON_LineSeparators(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "line separator", in: "a\u2028b", want: "\"a\u2028b\""},
		{name: "paragraph separator", in: "a\u2029b", want: "\"a\u2029b\""},
		{name: "escaped backslash", in: `a\u2028b`, want: `"a\\u2028b"`},
		{name: "backslash before separator", in: "a\\\u2028b", want: "\"a\\\\\u2028b\""},
		{name: "plain escapes", in: "a\n\"b", want: `"a\n\"b"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalJSON(tt.in)
			if err != nil {
				t.Fatalf("MarshalJSON() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("MarshalJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSaveJSON_Overwrites(t *testing.T) {
	s := &Storage{}
	path := filepath.Join(t.TempDir(), "out.json")

	if err := s.SaveJSON(path, map[string]int{"a": 1}); err != nil {
		t.Fatalf("SaveJSON() error = %v", err)
	}
	if err := s.SaveJSON(path, map[string]int{"b": 2}); err != nil {
		t.Fatalf("SaveJSON() second call error = %v", err)
	}

	var got map[string]int
	if err := s.ReadJSON(path, &got); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if len(got) != 1 || got["b"] != 2 {
		t.Errorf("ReadJSON() = %v, want map[b:2]", got)
	}
}

func TestHasFile(t *testing.T) {
	s := &Storage{}
	dir := t.TempDir()
	file := filepath.Join(dir, "plan_details.json")
	if err := os.WriteFile(file, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	if !s.HasFile(file) {
		t.Error("HasFile() = false for an existing file")
	}
	if s.HasFile(dir) {
		t.Error("HasFile() = true for a directory")
	}
	if s.HasFile(filepath.Join(dir, "missing.json")) {
		t.Error("HasFile() = true for a missing file")
	}
}
