package query

import (
	"fmt"

	dbpkg "github.com/dtnitsch/planning-repo/pkg/db"
)

// Result is a single plan matching the query.
type Result struct {
	PlanNumber    string   `json:"plan_number" yaml:"plan_number"`
	City          string   `json:"city" yaml:"city"`
	CityEN        string   `json:"city_en,omitempty" yaml:"city_en,omitempty"`
	CityCode      int      `json:"city_code" yaml:"city_code"`
	Status        string   `json:"status,omitempty" yaml:"status,omitempty"`
	PlanType      string   `json:"plan_type,omitempty" yaml:"plan_type,omitempty"`
	StatusDate    string   `json:"status_date,omitempty" yaml:"status_date,omitempty"`
	Path          string   `json:"path" yaml:"path"`
	AppendixCount int      `json:"appendix_count,omitempty" yaml:"appendix_count,omitempty"`
	DrawingCount  int      `json:"drawing_count,omitempty" yaml:"drawing_count,omitempty"`
	Keywords      []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// Response is the data returned by a query.
type Response struct {
	Filter      string   `json:"filter" yaml:"filter"`
	MatchCount  int      `json:"match_count" yaml:"match_count"`
	TotalCount  int      `json:"total_count" yaml:"total_count"`
	Coverage    float64  `json:"coverage" yaml:"coverage"`
	Matches     []Result `json:"matches" yaml:"matches"`
	WhereClause string   `json:"where_clause,omitempty" yaml:"where_clause,omitempty"`
}

// Execute runs a filter against the plan index. A limit <= 0 returns every match.
func Execute(db *dbpkg.DB, filter string, limit int) (*Response, error) {
	filterResult, err := ParseFilter(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to parse filter: %w", err)
	}

	plans, err := db.QueryPlans(filterResult.WhereClause, filterResult.Args, limit)
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}

	matches := make([]Result, 0, len(plans))
	for _, p := range plans {
		matches = append(matches, Result{
			PlanNumber:    p.PlanNumber,
			City:          p.City,
			CityEN:        p.CityEN,
			CityCode:      p.CityCode,
			Status:        p.Status,
			PlanType:      p.PlanType,
			StatusDate:    p.StatusDate,
			Path:          p.Path,
			AppendixCount: p.AppendixCount,
			DrawingCount:  p.DrawingCount,
			Keywords:      p.Keywords,
		})
	}

	var totalCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM plans").Scan(&totalCount); err != nil {
		totalCount = 0 // Non-fatal
	}

	coverage := 0.0
	if totalCount > 0 {
		coverage = float64(len(matches)) / float64(totalCount)
	}

	return &Response{
		Filter:      filter,
		MatchCount:  len(matches),
		TotalCount:  totalCount,
		Coverage:    coverage,
		Matches:     matches,
		WhereClause: filterResult.WhereClause,
	}, nil
}
