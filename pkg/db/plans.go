package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// CityRow is one indexed city.
type CityRow struct {
	Name          string `json:"name" yaml:"name"`
	NameEN        string `json:"name_en" yaml:"name_en"`
	Code          int    `json:"city_code" yaml:"city_code"`
	Language      string `json:"language" yaml:"language"`
	TotalPlans    int    `json:"total_plans" yaml:"total_plans"`
	LastProcessed string `json:"last_processed" yaml:"last_processed"`
}

// PlanRow is the flattened, queryable form of a plan_metadata.json file.
type PlanRow struct {
	Path          string
	PlanNumber    string
	City          string
	CityEN        string
	CityCode      int
	Status        string
	PlanType      string
	StatusDate    string
	RelationType  string
	HasTakanon    bool
	HasTasritim   bool
	HasNispachim  bool
	HasMMG        bool
	HasMap        bool
	AppendixCount int
	DrawingCount  int
	LastUpdated   string
	Keywords      []string
}

// UpsertCity inserts or updates a city by name.
func (db *DB) UpsertCity(c CityRow) error {
	_, err := db.Exec(`
		INSERT INTO cities (name, name_en, city_code, language, total_plans, last_processed)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			name_en = excluded.name_en,
			city_code = excluded.city_code,
			language = excluded.language,
			total_plans = excluded.total_plans,
			last_processed = excluded.last_processed
	`, c.Name, NewNullString(c.NameEN), c.Code, NewNullString(c.Language), c.TotalPlans, NewNullString(c.LastProcessed))
	if err != nil {
		return fmt.Errorf("failed to upsert city: %w", err)
	}
	return nil
}

// ListCities returns every indexed city ordered by name.
func (db *DB) ListCities() ([]CityRow, error) {
	rows, err := db.Query(`
		SELECT name, name_en, city_code, language, total_plans, last_processed
		FROM cities ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cities: %w", err)
	}
	defer rows.Close()

	var cities []CityRow
	for rows.Next() {
		var c CityRow
		var nameEN, language, lastProcessed sql.NullString
		if err := rows.Scan(&c.Name, &nameEN, &c.Code, &language, &c.TotalPlans, &lastProcessed); err != nil {
			return nil, fmt.Errorf("failed to scan city: %w", err)
		}
		c.NameEN = nameEN.String
		c.Language = language.String
		c.LastProcessed = lastProcessed.String
		cities = append(cities, c)
	}
	return cities, rows.Err()
}

// UpsertPlan inserts or updates a plan by path and replaces its keywords.
func (db *DB) UpsertPlan(p PlanRow) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op after commit

	var planID int64
	err = tx.QueryRow(`
		INSERT INTO plans (path, plan_number, city, city_en, city_code, status, plan_type, status_date,
			relation_type, has_takanon, has_tasritim, has_nispachim, has_mmg, has_map,
			appendix_count, drawing_count, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			plan_number = excluded.plan_number,
			city = excluded.city,
			city_en = excluded.city_en,
			city_code = excluded.city_code,
			status = excluded.status,
			plan_type = excluded.plan_type,
			status_date = excluded.status_date,
			relation_type = excluded.relation_type,
			has_takanon = excluded.has_takanon,
			has_tasritim = excluded.has_tasritim,
			has_nispachim = excluded.has_nispachim,
			has_mmg = excluded.has_mmg,
			has_map = excluded.has_map,
			appendix_count = excluded.appendix_count,
			drawing_count = excluded.drawing_count,
			last_updated = excluded.last_updated
		RETURNING plan_id
	`, p.Path, NewNullString(p.PlanNumber), NewNullString(p.City), NewNullString(p.CityEN), p.CityCode,
		NewNullString(p.Status), NewNullString(p.PlanType), NewNullString(p.StatusDate), NewNullString(p.RelationType),
		p.HasTakanon, p.HasTasritim, p.HasNispachim, p.HasMMG, p.HasMap,
		p.AppendixCount, p.DrawingCount, NewNullString(p.LastUpdated)).Scan(&planID)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert plan: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM plan_keywords WHERE plan_id = ?`, planID); err != nil {
		return 0, fmt.Errorf("failed to clear plan keywords: %w", err)
	}
	for i, kw := range p.Keywords {
		if _, err := tx.Exec(`
			INSERT INTO plan_keywords (plan_id, position, keyword) VALUES (?, ?, ?)
		`, planID, i, kw); err != nil {
			return 0, fmt.Errorf("failed to insert plan keyword: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit plan: %w", err)
	}
	return planID, nil
}

const planColumns = `plan_id, path, plan_number, city, city_en, city_code, status, plan_type, status_date,
	relation_type, has_takanon, has_tasritim, has_nispachim, has_mmg, has_map,
	appendix_count, drawing_count, last_updated`

// QueryPlans returns plans matching a WHERE clause built by the caller.
// An empty where returns every plan. Keywords are loaded for each row.
func (db *DB) QueryPlans(where string, args []any, limit int) ([]PlanRow, error) {
	query := `SELECT ` + planColumns + ` FROM plans`
	if strings.TrimSpace(where) != "" {
		query += ` WHERE ` + where
	}
	query += ` ORDER BY city, plan_number, path`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query plans: %w", err)
	}

	var ids []int64
	var plans []PlanRow
	for rows.Next() {
		var id int64
		var p PlanRow
		var planNumber, city, cityEN, status, planType, statusDate, relationType, lastUpdated sql.NullString
		if err := rows.Scan(&id, &p.Path, &planNumber, &city, &cityEN, &p.CityCode, &status, &planType,
			&statusDate, &relationType, &p.HasTakanon, &p.HasTasritim, &p.HasNispachim, &p.HasMMG, &p.HasMap,
			&p.AppendixCount, &p.DrawingCount, &lastUpdated); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		p.PlanNumber = planNumber.String
		p.City = city.String
		p.CityEN = cityEN.String
		p.Status = status.String
		p.PlanType = planType.String
		p.StatusDate = statusDate.String
		p.RelationType = relationType.String
		p.LastUpdated = lastUpdated.String
		ids = append(ids, id)
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("failed to iterate plans: %w", err)
	}
	_ = rows.Close()

	for i, id := range ids {
		kws, err := db.planKeywords(id)
		if err != nil {
			return nil, err
		}
		plans[i].Keywords = kws
	}
	return plans, nil
}

func (db *DB) planKeywords(planID int64) ([]string, error) {
	rows, err := db.Query(`SELECT keyword FROM plan_keywords WHERE plan_id = ? ORDER BY position`, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan keywords: %w", err)
	}
	defer rows.Close()

	kws := []string{}
	for rows.Next() {
		var kw string
		if err := rows.Scan(&kw); err != nil {
			return nil, fmt.Errorf("failed to scan keyword: %w", err)
		}
		kws = append(kws, kw)
	}
	return kws, rows.Err()
}
