// Package search answers queries over the master index of a processed repository.
package search

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dtnitsch/planning-repo/pkg/artifact_manager"
	"github.com/dtnitsch/planning-repo/pkg/index"
	"github.com/dtnitsch/planning-repo/pkg/storage"
)

// Fallback wording used in summaries and distributions.
const (
	DefaultType   = "תוכנית"
	DefaultStatus = "בעיבוד"
	Unknown       = "לא ידוע"
	OtherType     = "אחר"
	ApprovedState = "מאושר"

	DefaultLimit = 20
)

// Result is one plan returned by a search.
type Result struct {
	PlanNumber         string   `json:"plan_number" yaml:"plan_number"`
	City               string   `json:"city" yaml:"city"`
	CityEN             string   `json:"city_en" yaml:"city_en"`
	Status             string   `json:"status" yaml:"status"`
	Type               string   `json:"type" yaml:"type"`
	Keywords           []string `json:"keywords" yaml:"keywords"`
	Summary            string   `json:"summary" yaml:"summary"`
	DetailsPath        string   `json:"details_path" yaml:"details_path"`
	LastUpdated        string   `json:"last_updated" yaml:"last_updated"`
	ProcessingComplete bool     `json:"processing_complete" yaml:"processing_complete"`

	Context *Context `json:"context,omitempty" yaml:"context,omitempty"`
	Related []Result `json:"related,omitempty" yaml:"related,omitempty"`
}

// Searcher holds a loaded master index. It is read-only and safe for concurrent use.
type Searcher struct {
	idx   *index.MasterIndex
	keys  []string
	plans []index.PlanEntry
}

// Load reads the master index of targetRoot.
func Load(targetRoot string) (*Searcher, error) {
	var idx index.MasterIndex
	store := &storage.Storage{}
	if err := store.ReadJSON(artifact_manager.MasterIndexPath(targetRoot), &idx); err != nil {
		return nil, fmt.Errorf("failed to load master index: %w", err)
	}
	return New(&idx), nil
}

// New wraps an in-memory master index.
func New(idx *index.MasterIndex) *Searcher {
	keys := make([]string, 0, len(idx.QuickAccess))
	for k := range idx.QuickAccess {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	plans := make([]index.PlanEntry, len(keys))
	for i, k := range keys {
		plans[i] = idx.QuickAccess[k]
	}
	return &Searcher{idx: idx, keys: keys, plans: plans}
}

// Info returns the repository block of the loaded index.
func (s *Searcher) Info() index.RepositoryInfo {
	return s.idx.RepositoryInfo
}

// QuickOptions narrow a quick search. Empty fields do not filter.
type QuickOptions struct {
	City     string
	Status   string
	PlanType string
	Limit    int
}

// QuickSearch filters plans by the options, then keeps plans where any
// whitespace-separated term of query appears in the keywords, city names,
// plan number or type. Completed plans sort first, newest first.
func (s *Searcher) QuickSearch(query string, opts QuickOptions) []Result {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	terms := strings.Fields(strings.ToLower(query))

	var matches []index.PlanEntry
	for _, p := range s.plans {
		if opts.City != "" && p.City != opts.City && p.CityEN != opts.City {
			continue
		}
		if opts.Status != "" && p.Status != opts.Status {
			continue
		}
		if opts.PlanType != "" && p.Type != opts.PlanType {
			continue
		}
		if len(terms) > 0 && !matchesAny(p, terms) {
			continue
		}
		matches = append(matches, p)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.ProcessingComplete != b.ProcessingComplete {
			return a.ProcessingComplete
		}
		return parseDate(a.LastUpdated).After(parseDate(b.LastUpdated))
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return toResults(matches)
}

func matchesAny(p index.PlanEntry, terms []string) bool {
	fields := []string{
		strings.ToLower(p.City),
		strings.ToLower(p.CityEN),
		strings.ToLower(p.PlanNumber),
		strings.ToLower(p.Type),
	}
	for _, term := range terms {
		for _, kw := range p.Keywords {
			if strings.Contains(strings.ToLower(kw), term) {
				return true
			}
		}
		for _, f := range fields {
			if strings.Contains(f, term) {
				return true
			}
		}
	}
	return false
}

// Filters narrow a structured search. Zero values do not filter.
type Filters struct {
	CityCode int
	Statuses []string
	// DateFrom and DateTo bound the status date, or the processing date
	// when a plan has none. Plans without a usable date are excluded.
	DateFrom string
	DateTo   string
	// HasDocuments keeps plans with (true) or without (false) a takanon,
	// drawings or appendices.
	HasDocuments *bool
}

// StructuredSearch applies exact filters and returns every match in key order.
func (s *Searcher) StructuredSearch(f Filters) ([]Result, error) {
	from, err := parseBound(f.DateFrom)
	if err != nil {
		return nil, fmt.Errorf("invalid date_from: %w", err)
	}
	to, err := parseBound(f.DateTo)
	if err != nil {
		return nil, fmt.Errorf("invalid date_to: %w", err)
	}

	var matches []index.PlanEntry
	for _, p := range s.plans {
		if f.CityCode != 0 && p.CityCode != f.CityCode {
			continue
		}
		if len(f.Statuses) > 0 && !contains(f.Statuses, p.Status) {
			continue
		}
		if !from.IsZero() || !to.IsZero() {
			d, ok := planDate(p)
			if !ok {
				continue
			}
			if !from.IsZero() && d.Before(from) {
				continue
			}
			if !to.IsZero() && d.After(to) {
				continue
			}
		}
		if f.HasDocuments != nil && hasDocuments(p) != *f.HasDocuments {
			continue
		}
		matches = append(matches, p)
	}
	return toResults(matches), nil
}

func hasDocuments(p index.PlanEntry) bool {
	return p.Documents.Takanon || p.Documents.Tasritim || p.Documents.Nispachim
}

// Summary is the one-line description of a plan.
func Summary(p index.PlanEntry) string {
	typ := p.Type
	if typ == "" {
		typ = DefaultType
	}
	status := p.Status
	if status == "" {
		status = DefaultStatus
	}
	return fmt.Sprintf("%s ב%s - %s", typ, p.City, status)
}

func toResult(p index.PlanEntry) Result {
	keywords := p.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return Result{
		PlanNumber:         p.PlanNumber,
		City:               p.City,
		CityEN:             p.CityEN,
		Status:             p.Status,
		Type:               p.Type,
		Keywords:           keywords,
		Summary:            Summary(p),
		DetailsPath:        p.Path,
		LastUpdated:        p.LastUpdated,
		ProcessingComplete: p.ProcessingComplete,
	}
}

func toResults(plans []index.PlanEntry) []Result {
	results := make([]Result, 0, len(plans))
	for _, p := range plans {
		results = append(results, toResult(p))
	}
	return results
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
