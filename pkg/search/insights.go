package search

import (
	"sort"
	"strconv"

	"github.com/dtnitsch/planning-repo/pkg/index"
	"github.com/dtnitsch/planning-repo/pkg/mapreduce"
)

const (
	recentPlansLimit = 10
	topKeywordsLimit = 10
)

// Insights summarizes the plans of the repository or of one city.
type Insights struct {
	City               string                   `json:"city,omitempty" yaml:"city,omitempty"`
	TotalPlans         int                      `json:"total_plans" yaml:"total_plans"`
	ProcessingRate     float64                  `json:"processing_rate" yaml:"processing_rate"`
	StatusDistribution map[string]int           `json:"status_distribution" yaml:"status_distribution"`
	TypeDistribution   map[string]int           `json:"type_distribution" yaml:"type_distribution"`
	YearDistribution   map[string]int           `json:"year_distribution" yaml:"year_distribution"`
	RecentPlans        []Result                 `json:"recent_plans" yaml:"recent_plans"`
	TopKeywords        []mapreduce.KeywordCount `json:"top_keywords" yaml:"top_keywords"`
}

// Insights computes distributions over every plan, or only the plans of city.
func (s *Searcher) Insights(city string) Insights {
	var plans []index.PlanEntry
	for _, p := range s.plans {
		if city == "" || p.City == city {
			plans = append(plans, p)
		}
	}

	ins := Insights{
		City:               city,
		TotalPlans:         len(plans),
		StatusDistribution: map[string]int{},
		TypeDistribution:   map[string]int{},
		YearDistribution:   map[string]int{},
	}

	complete := 0
	counts := make([]map[string]int, 0, len(plans))
	for _, p := range plans {
		if p.ProcessingComplete {
			complete++
		}
		ins.StatusDistribution[orUnknown(p.Status)]++
		ins.TypeDistribution[orUnknown(p.Type)]++
		year := Unknown
		if d, ok := planDate(p); ok {
			year = strconv.Itoa(d.Year())
		}
		ins.YearDistribution[year]++
		counts = append(counts, mapreduce.Map(p.Keywords))
	}
	if len(plans) > 0 {
		ins.ProcessingRate = float64(complete) / float64(len(plans))
	}

	recent := append([]index.PlanEntry(nil), plans...)
	sort.SliceStable(recent, func(i, j int) bool {
		return parseDate(recent[i].LastUpdated).After(parseDate(recent[j].LastUpdated))
	})
	if len(recent) > recentPlansLimit {
		recent = recent[:recentPlansLimit]
	}
	ins.RecentPlans = toResults(recent)
	ins.TopKeywords = mapreduce.TopKeywords(mapreduce.Reduce(counts), topKeywordsLimit)
	return ins
}

func orUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}
