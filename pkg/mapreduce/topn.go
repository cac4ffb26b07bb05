package mapreduce

import (
	"fmt"
	"sort"
)

// KeywordCount is one entry of a ranked keyword list.
type KeywordCount struct {
	Keyword string `json:"keyword" yaml:"keyword"`
	Count   int    `json:"count" yaml:"count"`
}

// String formats the entry as "keyword:count".
func (k KeywordCount) String() string {
	return fmt.Sprintf("%s:%d", k.Keyword, k.Count)
}

// TopKeywords returns the top N keywords from aggregated counts.
// Ties are broken alphabetically so output is stable.
func TopKeywords(wordCounts map[string]int, n int) []KeywordCount {
	ss := make([]KeywordCount, 0, len(wordCounts))
	for k, v := range wordCounts {
		ss = append(ss, KeywordCount{Keyword: k, Count: v})
	}

	sort.Slice(ss, func(i, j int) bool {
		if ss[i].Count != ss[j].Count {
			return ss[i].Count > ss[j].Count
		}
		return ss[i].Keyword < ss[j].Keyword
	})

	limit := n
	if len(ss) < n {
		limit = len(ss)
	}
	if limit < 0 {
		limit = 0
	}
	return ss[:limit]
}
