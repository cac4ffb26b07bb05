package transform

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/dtnitsch/planning-repo/models"
	"github.com/google/go-cmp/cmp"
)

func mustRecord(t *testing.T, raw string) models.RawPlanRecord {
	t.Helper()
	rec, err := models.DecodePlanRecord([]byte(raw))
	if err != nil {
		t.Fatalf("DecodePlanRecord() error = %v", err)
	}
	return rec
}

func fixedClock() time.Time {
	return time.Date(2025, 8, 3, 10, 30, 0, 0, time.Local)
}

func TestBasicInfo_CopiesFieldsAndTrimsStatusDate(t *testing.T) {
	rec := mustRecord(t, `{
		"planNumber": "552-0137539",
		"planId": 1002345,
		"cityText": "אור יהודה",
		"status": "מאושר",
		"statusDate": "  03/08/2025 \n",
		"mahut": "מגורים",
		"relationType": "כפיפות"
	}`)

	got := BasicInfo(rec, fixedClock())
	want := models.BasicInfo{
		PlanNumber:     "552-0137539",
		PlanID:         json.Number("1002345"),
		City:           "אור יהודה",
		Status:         "מאושר",
		StatusDate:     "03/08/2025",
		PlanType:       "מגורים",
		RelationType:   "כפיפות",
		ProcessingDate: "2025-08-03T10:30:00",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BasicInfo() mismatch (-want +got):\n%s", diff)
	}
}

func TestBasicInfo_MissingFields(t *testing.T) {
	rec := mustRecord(t, `{"planNumber": "101"}`)

	got := BasicInfo(rec, fixedClock())
	if got.StatusDate != "" {
		t.Errorf("StatusDate = %q, want empty", got.StatusDate)
	}
	if got.City != nil || got.Status != nil || got.PlanType != nil || got.PlanID != nil {
		t.Errorf("missing fields should stay nil, got %+v", got)
	}

	data, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"city":null`) {
		t.Errorf("missing city should be written as null, got %s", data)
	}
}

func TestISOTimestamp(t *testing.T) {
	whole := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	if got := ISOTimestamp(whole); got != "2025-01-02T03:04:05" {
		t.Errorf("ISOTimestamp() = %q", got)
	}
	frac := time.Date(2025, 1, 2, 3, 4, 5, 123456789, time.UTC)
	if got := ISOTimestamp(frac); got != "2025-01-02T03:04:05.123456" {
		t.Errorf("ISOTimestamp() = %q", got)
	}
}

func TestClassifyDocuments(t *testing.T) {
	rec := mustRecord(t, `{"documentsSet": {
		"takanon": {"path": "docs/takanon.pdf"},
		"nispachim": [
			{"info": "נספח בינוי", "path": "n1.pdf", "codeMismach": 7},
			{"info": "נספח תנועה", "path": "n2.pdf"}
		],
		"tasritim": [{"info": "תשריט מצב מוצע", "path": "t1.pdf"}],
		"mmg": {"path": "mmg.zip", "info": "קבצי ממ\"ג"},
		"map": {"path": "https://www.govmap.gov.il/?c=1", "info": "מפה"}
	}}`)
	docs, err := rec.DocumentsSet()
	if err != nil {
		t.Fatalf("DocumentsSet() error = %v", err)
	}

	got, err := ClassifyDocuments(docs)
	if err != nil {
		t.Fatalf("ClassifyDocuments() error = %v", err)
	}

	want := models.DocumentsInventory{
		Takanon: &models.RegulationDoc{Available: true, Path: "docs/takanon.pdf", Description: TakanonFallback},
		Nispachim: []models.Appendix{
			{Type: "נספח בינוי", Path: "n1.pdf", Code: json.Number("7")},
			{Type: "נספח תנועה", Path: "n2.pdf", Code: nil},
		},
		Tasritim:      []models.Drawing{{Type: "תשריט מצב מוצע", Path: "t1.pdf"}},
		MMG:           &models.GeoData{Available: true, Path: "mmg.zip", Description: `קבצי ממ"ג`},
		GovernmentMap: &models.MapLink{URL: "https://www.govmap.gov.il/?c=1", Description: "מפה"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ClassifyDocuments() mismatch (-want +got):\n%s", diff)
	}
}

func TestClassifyDocuments_AbsentCategoriesHaveNoKey(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "missing documentsSet", raw: `{}`},
		{name: "null documentsSet", raw: `{"documentsSet": null}`},
		{name: "empty values", raw: `{"documentsSet": {"takanon": {}, "nispachim": [], "tasritim": null, "mmg": "", "map": {}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := mustRecord(t, tt.raw).DocumentsSet()
			if err != nil {
				t.Fatalf("DocumentsSet() error = %v", err)
			}
			inv, err := ClassifyDocuments(docs)
			if err != nil {
				t.Fatalf("ClassifyDocuments() error = %v", err)
			}
			if diff := cmp.Diff(models.DocumentsInventory{}, inv); diff != "" {
				t.Errorf("inventory mismatch (-want +got):\n%s", diff)
			}
			data, _ := json.Marshal(inv)
			if string(data) != "{}" {
				t.Errorf("json = %s, want {}", data)
			}
		})
	}
}

func TestClassifyDocuments_PreservesAppendixOrder(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(`{"documentsSet": {"nispachim": [`)
	labels := []string{"ג", "א", "ב", "א"}
	for i, l := range labels {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(`{"info": "` + l + `"}`)
	}
	sb.WriteString(`]}}`)

	docs, _ := mustRecord(t, sb.String()).DocumentsSet()
	inv, err := ClassifyDocuments(docs)
	if err != nil {
		t.Fatalf("ClassifyDocuments() error = %v", err)
	}
	if len(inv.Nispachim) != len(labels) {
		t.Fatalf("len(Nispachim) = %d, want %d", len(inv.Nispachim), len(labels))
	}
	for i, l := range labels {
		if inv.Nispachim[i].Type != l {
			t.Errorf("Nispachim[%d].Type = %v, want %s", i, inv.Nispachim[i].Type, l)
		}
	}
}

func TestClassifyDocuments_TakanonInfoPresentButNull(t *testing.T) {
	docs, _ := mustRecord(t, `{"documentsSet": {"takanon": {"path": "a.pdf", "info": null}}}`).DocumentsSet()
	inv, err := ClassifyDocuments(docs)
	if err != nil {
		t.Fatalf("ClassifyDocuments() error = %v", err)
	}
	if inv.Takanon.Description != nil {
		t.Errorf("Description = %v, want nil when info is present but null", inv.Takanon.Description)
	}
}

func TestClassifyDocuments_BadShape(t *testing.T) {
	tests := []string{
		`{"documentsSet": {"takanon": "a.pdf"}}`,
		`{"documentsSet": {"nispachim": {"info": "x"}}}`,
		`{"documentsSet": {"tasritim": ["t1.pdf"]}}`,
	}
	for _, raw := range tests {
		docs, err := mustRecord(t, raw).DocumentsSet()
		if err != nil {
			t.Fatalf("DocumentsSet() error = %v", err)
		}
		if _, err := ClassifyDocuments(docs); err == nil {
			t.Errorf("ClassifyDocuments(%s) error = nil, want shape error", raw)
		}
	}
}

func TestSearchKeywords(t *testing.T) {
	rec := mustRecord(t, `{
		"planNumber": "101",
		"cityText": "Lod",
		"mahut": "Residential",
		"status": "Approved",
		"documentsSet": {
			"nispachim": [{"info": "Map A"}, {"info": "Map B"}],
			"tasritim": [{"info": "Drawing"}]
		}
	}`)

	got, err := SearchKeywords(rec)
	if err != nil {
		t.Fatalf("SearchKeywords() error = %v", err)
	}
	want := []string{"101", "Lod", "Residential", "Approved", "Map A", "Map B"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SearchKeywords() mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchKeywords_KeepsDuplicatesAndSkipsEmpty(t *testing.T) {
	rec := mustRecord(t, `{
		"planNumber": "101",
		"cityText": "",
		"status": "Approved",
		"documentsSet": {"nispachim": [{"info": "Approved"}, {"path": "x"}, {"info": "Approved"}]}
	}`)

	got, err := SearchKeywords(rec)
	if err != nil {
		t.Fatalf("SearchKeywords() error = %v", err)
	}
	want := []string{"101", "Approved", "Approved", "Approved"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SearchKeywords() mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanMetadata(t *testing.T) {
	tr := New(nil, fixedClock)
	rec := mustRecord(t, `{"planNumber": "101", "statusDate": " 01/01/2024 "}`)

	md, err := tr.PlanMetadata(rec)
	if err != nil {
		t.Fatalf("PlanMetadata() error = %v", err)
	}
	if md.BasicInfo.StatusDate != "01/01/2024" {
		t.Errorf("StatusDate = %q", md.BasicInfo.StatusDate)
	}
	if md.ProcessingMetadata.SourceSystem != models.DefaultSourceSystem {
		t.Errorf("SourceSystem = %q", md.ProcessingMetadata.SourceSystem)
	}
	if md.ProcessingMetadata.Status != "processed" {
		t.Errorf("Status = %q", md.ProcessingMetadata.Status)
	}
	if diff := cmp.Diff([]string{"101"}, md.SearchKeywords); diff != "" {
		t.Errorf("SearchKeywords mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanMetadata_BadDocumentsSet(t *testing.T) {
	tr := New(nil, fixedClock)
	if _, err := tr.PlanMetadata(mustRecord(t, `{"documentsSet": []}`)); err == nil {
		t.Error("PlanMetadata() error = nil, want error for array documentsSet")
	}
}
