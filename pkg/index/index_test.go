package index

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dtnitsch/planning-repo/pkg/artifact_manager"
	dbpkg "github.com/dtnitsch/planning-repo/pkg/db"
	"github.com/dtnitsch/planning-repo/pkg/processor"
)

const planA = `{
  "planNumber": "552-0137539",
  "cityText": "תל אביב",
  "status": "מאושר",
  "statusDate": "03/08/2025",
  "mahut": "מגורים",
  "relationType": "כפיפות",
  "documentsSet": {
    "takanon": {"path": "takanon.pdf", "info": "תקנון"},
    "nispachim": [{"info": "נספח בינוי", "path": "n1.pdf"}],
    "map": {"path": "https://www.govmap.gov.il/?c=1"}
  }
}`

const planB = `{"planNumber": "552-0999999", "cityText": "תל אביב", "status": "בהפקדה"}`

const planC = `{"planNumber": "301-0011223", "cityText": "חיפה", "status": "מאושר", "mahut": "מגורים",
  "documentsSet": {"tasritim": [{"info": "תשריט", "path": "t.pdf"}]}}`

func frozenClock() time.Time {
	return time.Date(2025, 8, 3, 12, 0, 0, 0, time.Local)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, content string, parts ...string) {
	t.Helper()
	path := filepath.Join(parts...)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

// processedTree runs the processor over two cities and adds one plan
// directory without metadata.
func processedTree(t *testing.T) string {
	t.Helper()
	src := t.TempDir()
	writeFile(t, planA, src, "תל_אביב-5000_20250101", "552-0137539", "plan_details.json")
	writeFile(t, planB, src, "תל_אביב-5000_20250101", "552-0999999", "plan_details.json")
	writeFile(t, planC, src, "חיפה-4000", "301-0011223", "plan_details.json")

	target := t.TempDir()
	p, err := processor.New(target, processor.Options{Logger: quietLogger(), Now: frozenClock})
	if err != nil {
		t.Fatalf("processor.New() error = %v", err)
	}
	if _, err := p.Run(context.Background(), src); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if err := os.MkdirAll(filepath.Join(target, "cities", "תל-אביב", "plans", "pending"), 0755); err != nil {
		t.Fatal(err)
	}
	return target
}

type fakeStore struct {
	cities []dbpkg.CityRow
	plans  []dbpkg.PlanRow
}

func (f *fakeStore) UpsertCity(c dbpkg.CityRow) error {
	f.cities = append(f.cities, c)
	return nil
}

func (f *fakeStore) UpsertPlan(p dbpkg.PlanRow) (int64, error) {
	f.plans = append(f.plans, p)
	return int64(len(f.plans)), nil
}

func newBuilder(t *testing.T, target string, store Store) *Builder {
	t.Helper()
	b, err := New(target, Options{Logger: quietLogger(), Now: frozenClock, Store: store})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return b
}

func TestBuild(t *testing.T) {
	target := processedTree(t)
	idx, warnings, err := newBuilder(t, target, nil).Build(context.Background())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("Build() warnings = %v, want none", warnings)
	}

	wantInfo := RepositoryInfo{
		TotalPlans:       4,
		TotalCities:      2,
		ProcessedPlans:   3,
		ProcessingStatus: StatusPartial,
		SourceSystem:     "מערכת תוכניות תב״ע",
		ProcessorVersion: "1.0",
		GeneratedAt:      "2025-08-03T12:00:00",
	}
	if diff := cmp.Diff(wantInfo, idx.RepositoryInfo); diff != "" {
		t.Errorf("RepositoryInfo mismatch (-want +got):\n%s", diff)
	}

	wantCities := []CityEntry{
		{Name: "חיפה", NameEN: "Haifa", Code: 4000, Language: "he", PlanCount: 1, LastProcessed: "2025-08-03T12:00:00", Path: "cities/חיפה"},
		{Name: "תל אביב", NameEN: "Tel Aviv", Code: 5000, Language: "he", PlanCount: 3, LastProcessed: "2025-08-03T12:00:00", Path: "cities/תל-אביב"},
	}
	if diff := cmp.Diff(wantCities, idx.Cities); diff != "" {
		t.Errorf("Cities mismatch (-want +got):\n%s", diff)
	}

	wantA := PlanEntry{
		PlanNumber:         "552-0137539",
		City:               "תל אביב",
		CityEN:             "Tel Aviv",
		CityCode:           5000,
		Status:             "מאושר",
		Type:               "מגורים",
		StatusDate:         "03/08/2025",
		RelationType:       "כפיפות",
		Keywords:           []string{"552-0137539", "תל אביב", "מגורים", "מאושר", "נספח בינוי"},
		Documents:          DocumentFlags{Takanon: true, Nispachim: true, GovernmentMap: true},
		AppendixCount:      1,
		Path:               "cities/תל-אביב/plans/552-0137539",
		LastUpdated:        "2025-08-03T12:00:00",
		ProcessingComplete: true,
	}
	if diff := cmp.Diff(wantA, idx.QuickAccess["552-0137539"]); diff != "" {
		t.Errorf("QuickAccess[552-0137539] mismatch (-want +got):\n%s", diff)
	}

	pending, ok := idx.QuickAccess["pending"]
	if !ok {
		t.Fatal("plan directory without metadata missing from index")
	}
	if pending.ProcessingComplete || pending.City != "תל אביב" {
		t.Errorf("pending entry = %+v, want incomplete plan of תל אביב", pending)
	}

	if diff := cmp.Diff([]string{"301-0011223", "552-0137539"}, idx.SearchKeywords["מאושר"]); diff != "" {
		t.Errorf("SearchKeywords[מאושר] mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"301-0011223", "552-0137539"}, idx.SearchOptimization.ByType["מגורים"]); diff != "" {
		t.Errorf("ByType[מגורים] mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_PendingPlanDatedByMtime(t *testing.T) {
	target := processedTree(t)
	mtime := time.Date(2025, 9, 1, 8, 30, 0, 0, time.Local)
	if err := os.Chtimes(filepath.Join(target, "cities", "תל-אביב", "plans", "pending"), mtime, mtime); err != nil {
		t.Fatal(err)
	}

	idx, _, err := newBuilder(t, target, nil).Build(context.Background())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got := idx.QuickAccess["pending"].LastUpdated; got != "2025-09-01T08:30:00" {
		t.Errorf("pending LastUpdated = %q, want directory mtime", got)
	}
}

func TestWrite(t *testing.T) {
	target := processedTree(t)
	store := &fakeStore{}

	res, err := newBuilder(t, target, store).Write(context.Background())
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if res.Path != artifact_manager.MasterIndexPath(target) {
		t.Errorf("Path = %q, want %q", res.Path, artifact_manager.MasterIndexPath(target))
	}

	data, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatalf("failed to read master index: %v", err)
	}
	var decoded MasterIndex
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("master index is not valid JSON: %v", err)
	}
	if decoded.RepositoryInfo.TotalPlans != 4 {
		t.Errorf("written total_plans = %d, want 4", decoded.RepositoryInfo.TotalPlans)
	}

	if !res.DBUpdated || len(store.cities) != 2 || len(store.plans) != 4 {
		t.Errorf("store got %d cities, %d plans (updated=%v), want 2, 4", len(store.cities), len(store.plans), res.DBUpdated)
	}
}

func TestWrite_SQLite(t *testing.T) {
	target := processedTree(t)
	db, err := dbpkg.Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	b := newBuilder(t, target, db)
	for i := 0; i < 2; i++ {
		if _, err := b.Write(context.Background()); err != nil {
			t.Fatalf("Write() #%d error = %v", i+1, err)
		}
	}

	plans, err := db.QueryPlans("has_takanon = 1", nil, 0)
	if err != nil {
		t.Fatalf("QueryPlans() error = %v", err)
	}
	if len(plans) != 1 || plans[0].PlanNumber != "552-0137539" {
		t.Errorf("QueryPlans(has_takanon) = %+v, want only 552-0137539", plans)
	}

	cities, err := db.ListCities()
	if err != nil {
		t.Fatalf("ListCities() error = %v", err)
	}
	if len(cities) != 2 {
		t.Errorf("ListCities() returned %d cities after two writes, want 2", len(cities))
	}
}

func TestBuild_MissingTarget(t *testing.T) {
	b := newBuilder(t, filepath.Join(t.TempDir(), "missing"), nil)
	if _, _, err := b.Build(context.Background()); err == nil {
		t.Error("Build() error = nil, want error for missing target")
	}
}

func TestDetector(t *testing.T) {
	d := NewDetector()
	tests := []struct {
		text string
		want string
	}{
		{"תל אביב", "he"},
		{"אבו גוש", "he"},
		{"أبو سنان", "ar"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := d.Detect(tt.text); got != tt.want {
			t.Errorf("Detect(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}
