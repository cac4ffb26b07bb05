package search

import (
	"fmt"
	"strings"

	"github.com/dtnitsch/planning-repo/internal/common"
	searchpkg "github.com/dtnitsch/planning-repo/pkg/search"
	"github.com/urfave/cli/v2"
)

// structuredFlags switch search into exact filtering.
var structuredFlags = []string{"city-code", "statuses", "from", "to", "has-documents"}

// SearchAction searches the master index of a target tree.
// Free text goes through the quick search; any structured flag switches to
// exact filtering instead.
func SearchAction(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("Usage: planrepo search <target_path> [query...]", 1)
	}
	s, err := searchpkg.Load(c.Args().First())
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	logger := common.NewLogger(c)

	var results []searchpkg.Result
	if isStructured(c) {
		filters := searchpkg.Filters{
			CityCode: c.Int("city-code"),
			Statuses: c.StringSlice("statuses"),
			DateFrom: c.String("from"),
			DateTo:   c.String("to"),
		}
		if c.IsSet("has-documents") {
			v := c.Bool("has-documents")
			filters.HasDocuments = &v
		}
		results, err = s.StructuredSearch(filters)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
	} else {
		query := strings.Join(c.Args().Tail(), " ")
		if q := c.String("query"); q != "" {
			query = strings.TrimSpace(q + " " + query)
		}
		opts := searchpkg.QuickOptions{
			City:     c.String("city"),
			Status:   c.String("status"),
			PlanType: c.String("type"),
			Limit:    c.Int("limit"),
		}
		if c.Bool("context") {
			results = s.ContextualSearch(query, opts)
		} else {
			results = s.QuickSearch(query, opts)
		}
	}
	logger.Debug("Search complete", "matches", len(results))

	return printResults(c, results)
}

// RecommendAction lists plans related to one plan number.
func RecommendAction(c *cli.Context) error {
	if c.NArg() < 2 {
		return cli.Exit("Usage: planrepo recommend <target_path> <plan_number>", 1)
	}
	s, err := searchpkg.Load(c.Args().Get(0))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	planNumber := c.Args().Get(1)
	results := s.Recommendations(planNumber)
	if len(results) == 0 && s.PlanContext(planNumber) == nil {
		return cli.Exit(fmt.Sprintf("plan not found: %s", planNumber), 1)
	}
	return printResults(c, results)
}

// InsightsAction prints distributions for the repository or one city.
func InsightsAction(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("Usage: planrepo insights <target_path> [--city <name>]", 1)
	}
	s, err := searchpkg.Load(c.Args().First())
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	return common.Print(c.App.Writer, s.Insights(c.String("city")), c.String("format"))
}

func isStructured(c *cli.Context) bool {
	for _, name := range structuredFlags {
		if c.IsSet(name) {
			return true
		}
	}
	return false
}

func printResults(c *cli.Context, results []searchpkg.Result) error {
	if format := c.String("export"); format != "" {
		out, err := searchpkg.Export(results, format)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		fmt.Fprint(c.App.Writer, out)
		if out != "" && !strings.HasSuffix(out, "\n") {
			fmt.Fprintln(c.App.Writer)
		}
		return nil
	}
	return common.Print(c.App.Writer, common.FilterResultsFields(results, c.String("fields")), c.String("format"))
}
