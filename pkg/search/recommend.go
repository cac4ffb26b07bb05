package search

import (
	"sort"

	"github.com/dtnitsch/planning-repo/pkg/index"
)

const maxRecommendations = 5

// Recommendations returns up to five plans related to planNumber: same city,
// same type or a shared keyword. Same city scores 3 and same type scores 2.
// An unknown plan number yields no recommendations.
func (s *Searcher) Recommendations(planNumber string) []Result {
	current, ok := s.idx.QuickAccess[planNumber]
	if !ok {
		return []Result{}
	}

	type scored struct {
		plan  index.PlanEntry
		score int
	}
	var candidates []scored
	for i, p := range s.plans {
		if s.keys[i] == planNumber {
			continue
		}
		sameCity := p.City == current.City
		sameType := p.Type != "" && p.Type == current.Type
		if !sameCity && !sameType && !sharesKeyword(p.Keywords, current.Keywords) {
			continue
		}
		score := 0
		if sameCity {
			score += 3
		}
		if sameType {
			score += 2
		}
		candidates = append(candidates, scored{plan: p, score: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > maxRecommendations {
		candidates = candidates[:maxRecommendations]
	}

	results := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, toResult(c.plan))
	}
	return results
}

func sharesKeyword(a, b []string) bool {
	set := make(map[string]struct{}, len(b))
	for _, kw := range b {
		set[kw] = struct{}{}
	}
	for _, kw := range a {
		if _, ok := set[kw]; ok {
			return true
		}
	}
	return false
}

// Context describes a plan relative to the rest of its city.
type Context struct {
	CityTotalPlans    int    `json:"city_total_plans" yaml:"city_total_plans"`
	CityApprovedPlans int    `json:"city_approved_plans" yaml:"city_approved_plans"`
	SimilarTypePlans  int    `json:"similar_type_plans" yaml:"similar_type_plans"`
	CityDominantType  string `json:"city_dominant_type" yaml:"city_dominant_type"`
}

// PlanContext returns city-level context for planNumber, or nil when unknown.
func (s *Searcher) PlanContext(planNumber string) *Context {
	plan, ok := s.idx.QuickAccess[planNumber]
	if !ok {
		return nil
	}

	ctx := &Context{CityDominantType: s.CityDominantType(plan.City)}
	for _, p := range s.plans {
		if p.City != plan.City {
			continue
		}
		ctx.CityTotalPlans++
		if p.Status == ApprovedState {
			ctx.CityApprovedPlans++
		}
		if p.Type == plan.Type {
			ctx.SimilarTypePlans++
		}
	}
	return ctx
}

// CityDominantType returns the most common plan type of a city.
// Plans without a type count as "אחר"; ties resolve alphabetically.
func (s *Searcher) CityDominantType(city string) string {
	counts := map[string]int{}
	for _, p := range s.plans {
		if p.City != city {
			continue
		}
		typ := p.Type
		if typ == "" {
			typ = OtherType
		}
		counts[typ]++
	}

	best, bestCount := OtherType, 0
	for typ, n := range counts {
		if n > bestCount || (n == bestCount && typ < best) {
			best, bestCount = typ, n
		}
	}
	return best
}

// ContextualSearch runs a quick search and attaches context and up to three
// related plans to every result.
func (s *Searcher) ContextualSearch(query string, opts QuickOptions) []Result {
	results := s.QuickSearch(query, opts)
	for i := range results {
		key := s.keyOf(results[i])
		results[i].Context = s.PlanContext(key)
		related := s.Recommendations(key)
		if len(related) > 3 {
			related = related[:3]
		}
		results[i].Related = related
	}
	return results
}

// keyOf finds the quick_access key of a result.
func (s *Searcher) keyOf(r Result) string {
	if _, ok := s.idx.QuickAccess[r.PlanNumber]; ok {
		return r.PlanNumber
	}
	return r.DetailsPath
}
