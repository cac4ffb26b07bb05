package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dtnitsch/planning-repo/models"
)

// Run represents one processing run in the ledger.
type Run struct {
	RunID          int64
	UUID           string
	SourceRoot     string
	TargetRoot     string
	StartedAt      time.Time
	FinishedAt     sql.NullTime
	CityCount      int
	ProcessedCount int
	ErrorCount     int
}

// RunResult is one plan outcome recorded for a run.
type RunResult struct {
	ResultID     int64
	City         string
	PlanDir      string
	PlanNumber   string
	Status       string
	ErrorType    string
	ErrorMessage string
	TargetDir    string
}

// Result statuses.
const (
	StatusSuccess = "success"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// StartRun inserts a new run row.
func (db *DB) StartRun(runUUID, sourceRoot, targetRoot string, startedAt time.Time) error {
	_, err := db.Exec(`
		INSERT INTO runs (run_uuid, source_root, target_root, started_at)
		VALUES (?, ?, ?, ?)
	`, runUUID, sourceRoot, targetRoot, startedAt)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// RecordPlan stores one plan outcome under the run identified by runUUID.
func (db *DB) RecordPlan(runUUID string, res models.PlanResult) error {
	status := StatusSuccess
	var errorType, errorMessage string
	switch {
	case res.Error != nil:
		status = StatusFailed
		errorType = res.ErrorType
		errorMessage = res.Error.Error()
	case !res.Written:
		status = StatusSkipped
	}

	result, err := db.Exec(`
		INSERT INTO run_results (run_id, city, plan_dir, plan_number, status, error_type, error_message, target_dir)
		SELECT run_id, ?, ?, ?, ?, ?, ?, ? FROM runs WHERE run_uuid = ?
	`, res.City, res.PlanDir, NewNullString(res.PlanNumber), status,
		NewNullString(errorType), NewNullString(errorMessage), NewNullString(res.TargetDir), runUUID)
	if err != nil {
		return fmt.Errorf("failed to insert run result: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check run result insert: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("run not found: %s", runUUID)
	}
	return nil
}

// FinishRun stores the final counters of a run.
func (db *DB) FinishRun(summary *models.RunSummary) error {
	_, err := db.Exec(`
		UPDATE runs
		SET finished_at = ?, city_count = ?, processed_count = ?, error_count = ?
		WHERE run_uuid = ?
	`, summary.FinishedAt, len(summary.Cities), summary.Processed, summary.Errors, summary.RunID)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

const runColumns = `run_id, run_uuid, source_root, target_root, started_at, finished_at, city_count, processed_count, error_count`

func scanRun(row interface{ Scan(...any) error }) (*Run, error) {
	var r Run
	err := row.Scan(&r.RunID, &r.UUID, &r.SourceRoot, &r.TargetRoot, &r.StartedAt, &r.FinishedAt,
		&r.CityCount, &r.ProcessedCount, &r.ErrorCount)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRuns returns the most recent runs first.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, run_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// GetRunByID returns one run.
func (db *DB) GetRunByID(runID int64) (*Run, error) {
	r, err := scanRun(db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found: %d", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return r, nil
}

// GetRunResults returns the per-plan outcomes of a run in insertion order.
// An empty status returns every result.
func (db *DB) GetRunResults(runID int64, status string) ([]RunResult, error) {
	query := `
		SELECT result_id, city, plan_dir, plan_number, status, error_type, error_message, target_dir
		FROM run_results WHERE run_id = ?`
	args := []any{runID}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY result_id`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get run results: %w", err)
	}
	defer rows.Close()

	var results []RunResult
	for rows.Next() {
		var r RunResult
		var planNumber, errorType, errorMessage, targetDir sql.NullString
		if err := rows.Scan(&r.ResultID, &r.City, &r.PlanDir, &planNumber, &r.Status,
			&errorType, &errorMessage, &targetDir); err != nil {
			return nil, fmt.Errorf("failed to scan run result: %w", err)
		}
		r.PlanNumber = planNumber.String
		r.ErrorType = errorType.String
		r.ErrorMessage = errorMessage.String
		r.TargetDir = targetDir.String
		results = append(results, r)
	}
	return results, rows.Err()
}

// NewNullString converts empty strings to NULL.
func NewNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// GetLatestRunID returns the id of the most recently started run.
func (db *DB) GetLatestRunID() (int64, error) {
	var runID int64
	err := db.QueryRow(`SELECT run_id FROM runs ORDER BY started_at DESC, run_id DESC LIMIT 1`).Scan(&runID)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("no runs found")
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get latest run: %w", err)
	}
	return runID, nil
}
