package search

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/dtnitsch/planning-repo/pkg/index"
)

// statusDateLayout is the day-first format used by the planning portal.
const statusDateLayout = "02/01/2006"

// parseDate reads a status or processing date. Unparseable input is the zero time.
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	if t, err := time.ParseInLocation(statusDateLayout, s, time.Local); err == nil {
		return t
	}
	t, err := dateparse.ParseLocal(s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// parseBound parses a user-supplied date bound. Empty input is no bound.
func parseBound(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.ParseInLocation(statusDateLayout, s, time.Local); err == nil {
		return t, nil
	}
	return dateparse.ParseLocal(s)
}

// planDate returns the status date, or the processing date when the plan has none.
func planDate(p index.PlanEntry) (time.Time, bool) {
	raw := p.StatusDate
	if strings.TrimSpace(raw) == "" {
		raw = p.LastUpdated
	}
	t := parseDate(raw)
	return t, !t.IsZero()
}
