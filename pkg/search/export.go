package search

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/dtnitsch/planning-repo/pkg/storage"
)

// Export formats.
const (
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "md"
)

var csvHeader = []string{"Plan Number", "City", "Type", "Status", "Last Updated"}

// Export renders results as json, csv or md ("markdown" is accepted too).
func Export(results []Result, format string) (string, error) {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		if results == nil {
			results = []Result{}
		}
		data, err := storage.MarshalJSON(results)
		if err != nil {
			return "", fmt.Errorf("failed to encode results: %w", err)
		}
		return string(data), nil
	case FormatCSV:
		return exportCSV(results)
	case FormatMarkdown, "markdown":
		return exportMarkdown(results), nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", format)
	}
}

// exportCSV writes one row per result. No results yields an empty string.
func exportCSV(results []Result) (string, error) {
	if len(results) == 0 {
		return "", nil
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return "", err
	}
	for _, r := range results {
		if err := w.Write([]string{r.PlanNumber, r.City, r.Type, r.Status, r.LastUpdated}); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.String(), nil
}

func exportMarkdown(results []Result) string {
	var b strings.Builder
	b.WriteString("# Search Results\n\n")
	for _, r := range results {
		fmt.Fprintf(&b, "## %s - %s\n", r.PlanNumber, r.City)
		fmt.Fprintf(&b, "- **Type:** %s\n", r.Type)
		fmt.Fprintf(&b, "- **Status:** %s\n", r.Status)
		fmt.Fprintf(&b, "- **Summary:** %s\n", r.Summary)
		if len(r.Keywords) > 0 {
			fmt.Fprintf(&b, "- **Keywords:** %s\n", strings.Join(r.Keywords, ", "))
		}
		b.WriteString("\n")
	}
	return b.String()
}
