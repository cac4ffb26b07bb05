package db

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dtnitsch/planning-repo/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	// Use in-memory database for tests
	database := &DB{path: ":memory:"}
	var err error
	database.DB, err = openDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	// Every pooled connection would get its own in-memory database
	database.SetMaxOpenConns(1)

	if err := database.InitSchema(); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}

	return database
}

func TestOpen_CreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ledger.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	if db.Path() != path {
		t.Errorf("Path() = %q, want %q", db.Path(), path)
	}

	for _, table := range []string{"runs", "run_results", "cities", "plans", "plan_keywords"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}

	// Reopening an initialized database must not fail
	db2, err := Open(path)
	if err != nil {
		t.Fatalf("second Open() error = %v", err)
	}
	db2.Close()
}

func TestRunLedger(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	started := time.Date(2025, 8, 3, 10, 0, 0, 0, time.UTC)
	if err := db.StartRun("run-1", "/src", "/dst", started); err != nil {
		t.Fatalf("StartRun() error = %v", err)
	}

	results := []models.PlanResult{
		{City: "לוד-7000", PlanDir: "101", PlanNumber: "101", TargetDir: "/dst/cities/לוד/plans/101", Written: true},
		{City: "לוד-7000", PlanDir: "102", TargetDir: "/dst/cities/לוד/plans/102"},
		{City: "לוד-7000", PlanDir: "103", Error: errors.New("invalid character"), ErrorType: models.ErrorTypeParse},
	}
	for _, r := range results {
		if err := db.RecordPlan("run-1", r); err != nil {
			t.Fatalf("RecordPlan() error = %v", err)
		}
	}

	summary := &models.RunSummary{
		RunID:      "run-1",
		FinishedAt: started.Add(time.Second),
		Cities:     []models.CityResult{{Name: "לוד"}},
		Processed:  2,
		Errors:     1,
	}
	if err := db.FinishRun(summary); err != nil {
		t.Fatalf("FinishRun() error = %v", err)
	}

	runID, err := db.GetLatestRunID()
	if err != nil {
		t.Fatalf("GetLatestRunID() error = %v", err)
	}

	run, err := db.GetRunByID(runID)
	if err != nil {
		t.Fatalf("GetRunByID() error = %v", err)
	}
	if run.UUID != "run-1" || run.CityCount != 1 || run.ProcessedCount != 2 || run.ErrorCount != 1 {
		t.Errorf("run = %+v, want run-1 with 1 city, 2 processed, 1 error", run)
	}
	if !run.FinishedAt.Valid {
		t.Error("run.FinishedAt not set")
	}

	got, err := db.GetRunResults(runID, "")
	if err != nil {
		t.Fatalf("GetRunResults() error = %v", err)
	}
	var statuses []string
	for _, r := range got {
		statuses = append(statuses, r.Status)
	}
	if diff := cmp.Diff([]string{StatusSuccess, StatusSkipped, StatusFailed}, statuses); diff != "" {
		t.Errorf("statuses mismatch (-want +got):\n%s", diff)
	}
	if got[2].ErrorType != models.ErrorTypeParse || got[2].ErrorMessage != "invalid character" {
		t.Errorf("failed result = %+v", got[2])
	}

	failed, err := db.GetRunResults(runID, StatusFailed)
	if err != nil {
		t.Fatalf("GetRunResults(failed) error = %v", err)
	}
	if len(failed) != 1 || failed[0].PlanDir != "103" {
		t.Errorf("failed results = %+v, want only 103", failed)
	}
}

func TestRecordPlan_UnknownRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	err := db.RecordPlan("missing", models.PlanResult{City: "x", PlanDir: "y"})
	if err == nil {
		t.Fatal("RecordPlan() error = nil, want error for unknown run")
	}
}

func TestListRuns(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if _, err := db.GetLatestRunID(); err == nil {
		t.Error("GetLatestRunID() on empty db error = nil, want error")
	}

	base := time.Date(2025, 8, 3, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		if err := db.StartRun(id, "/src", "/dst", base.Add(time.Duration(i)*time.Hour)); err != nil {
			t.Fatalf("StartRun(%s) error = %v", id, err)
		}
	}

	runs, err := db.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	var got []string
	for _, r := range runs {
		got = append(got, r.UUID)
	}
	if diff := cmp.Diff([]string{"c", "b"}, got); diff != "" {
		t.Errorf("ListRuns() mismatch (-want +got):\n%s", diff)
	}
}

func TestUpsertCity(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := db.UpsertCity(CityRow{Name: "חיפה", NameEN: "Haifa", Code: 4000, Language: "he", TotalPlans: 1}); err != nil {
		t.Fatalf("UpsertCity() error = %v", err)
	}
	if err := db.UpsertCity(CityRow{Name: "חיפה", NameEN: "Haifa", Code: 4000, Language: "he", TotalPlans: 5}); err != nil {
		t.Fatalf("UpsertCity() update error = %v", err)
	}

	cities, err := db.ListCities()
	if err != nil {
		t.Fatalf("ListCities() error = %v", err)
	}
	want := []CityRow{{Name: "חיפה", NameEN: "Haifa", Code: 4000, Language: "he", TotalPlans: 5}}
	if diff := cmp.Diff(want, cities); diff != "" {
		t.Errorf("ListCities() mismatch (-want +got):\n%s", diff)
	}
}

func TestUpsertPlan(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	plan := PlanRow{
		Path:          "cities/לוד/plans/101",
		PlanNumber:    "101",
		City:          "לוד",
		CityEN:        "Lod",
		CityCode:      7000,
		Status:        "מאושר",
		PlanType:      "מגורים",
		HasTakanon:    true,
		HasNispachim:  true,
		AppendixCount: 2,
		Keywords:      []string{"101", "לוד", "Map A", "Map A"},
	}
	id1, err := db.UpsertPlan(plan)
	if err != nil {
		t.Fatalf("UpsertPlan() error = %v", err)
	}

	plan.Status = "בתוקף"
	plan.Keywords = []string{"101"}
	id2, err := db.UpsertPlan(plan)
	if err != nil {
		t.Fatalf("UpsertPlan() update error = %v", err)
	}
	if id1 != id2 {
		t.Errorf("UpsertPlan() ids = %d, %d, want same row", id1, id2)
	}

	plans, err := db.QueryPlans("", nil, 0)
	if err != nil {
		t.Fatalf("QueryPlans() error = %v", err)
	}
	if len(plans) != 1 {
		t.Fatalf("QueryPlans() returned %d plans, want 1", len(plans))
	}
	if diff := cmp.Diff(plan, plans[0]); diff != "" {
		t.Errorf("QueryPlans() mismatch (-want +got):\n%s", diff)
	}
}

func TestQueryPlans_Where(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	for _, p := range []PlanRow{
		{Path: "a", PlanNumber: "1", City: "לוד", Status: "מאושר", Keywords: []string{"x"}},
		{Path: "b", PlanNumber: "2", City: "לוד", Status: "בתכנון", Keywords: []string{}},
		{Path: "c", PlanNumber: "3", City: "חיפה", Status: "מאושר", Keywords: []string{}},
	} {
		if _, err := db.UpsertPlan(p); err != nil {
			t.Fatalf("UpsertPlan(%s) error = %v", p.Path, err)
		}
	}

	plans, err := db.QueryPlans("status = ?", []any{"מאושר"}, 1)
	if err != nil {
		t.Fatalf("QueryPlans() error = %v", err)
	}
	if len(plans) != 1 || plans[0].PlanNumber != "3" {
		t.Errorf("QueryPlans() = %+v, want only plan 3 (חיפה sorts first)", plans)
	}
}
