// Package mapreduce counts search keywords across plans.
package mapreduce

// Map generates a keyword frequency map for a single plan's keywords.
// Blank keywords are ignored.
func Map(keywords []string) map[string]int {
	counts := make(map[string]int, len(keywords))
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		counts[kw]++
	}
	return counts
}

// Reduce aggregates a slice of keyword frequency maps into a single map.
func Reduce(intermediate []map[string]int) map[string]int {
	finalResults := make(map[string]int)

	for _, counts := range intermediate {
		for word, count := range counts {
			finalResults[word] += count
		}
	}

	return finalResults
}
