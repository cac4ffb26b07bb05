package db

import (
	"fmt"
	"strings"

	"github.com/dtnitsch/planning-repo/internal/common"
	"github.com/dtnitsch/planning-repo/pkg/query"
	"github.com/urfave/cli/v2"
)

const timeLayout = "2006-01-02 15:04:05"

// RunsAction lists recorded processing runs.
func RunsAction(c *cli.Context) error {
	database, err := common.RequireDB(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runs, err := database.ListRuns(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintln(c.App.Writer, "No runs found")
		return nil
	}

	w := c.App.Writer
	fmt.Fprintf(w, "%-6s %-20s %-8s %-10s %-8s %-30s\n",
		"ID", "Started", "Cities", "Processed", "Errors", "Target")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for _, r := range runs {
		fmt.Fprintf(w, "%-6d %-20s %-8d %-10d %-8d %-30s\n",
			r.RunID,
			r.StartedAt.Format(timeLayout),
			r.CityCount,
			r.ProcessedCount,
			r.ErrorCount,
			r.TargetRoot,
		)
	}

	fmt.Fprintf(w, "\nTotal: %d runs\n", len(runs))
	fmt.Fprintf(w, "\nTip: Use 'planrepo runs show <id>' to see details\n")

	return nil
}

// RunAction shows the per-plan results of one run, or of the latest run.
func RunAction(c *cli.Context) error {
	database, err := common.RequireDB(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runID, err := GetRunIDOrLatest(c, database)
	if err != nil {
		return err
	}

	run, err := database.GetRunByID(runID)
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}

	status := ""
	if c.Bool("failed") {
		status = "failed"
	}
	results, err := database.GetRunResults(runID, status)
	if err != nil {
		return fmt.Errorf("failed to get run results: %w", err)
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Run %d (%s)\n", run.RunID, run.UUID)
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Started:     %s\n", run.StartedAt.Format(timeLayout))
	if run.FinishedAt.Valid {
		fmt.Fprintf(w, "Finished:    %s\n", run.FinishedAt.Time.Format(timeLayout))
	} else {
		fmt.Fprintf(w, "Finished:    (interrupted)\n")
	}
	fmt.Fprintf(w, "Source:      %s\n", run.SourceRoot)
	fmt.Fprintf(w, "Target:      %s\n", run.TargetRoot)
	fmt.Fprintf(w, "Plans:       %d processed, %d errors in %d cities\n",
		run.ProcessedCount, run.ErrorCount, run.CityCount)

	if len(results) > 0 {
		fmt.Fprintf(w, "\nResults (%d):\n", len(results))
		fmt.Fprintln(w, strings.Repeat("-", 60))
		for i, r := range results {
			fmt.Fprintf(w, "%2d. [%s] %s/%s\n", i+1, r.Status, r.City, r.PlanDir)
			if r.Status == "failed" {
				fmt.Fprintf(w, "    Error: [%s] %s\n", r.ErrorType, r.ErrorMessage)
			} else if r.TargetDir != "" {
				fmt.Fprintf(w, "    Target: %s\n", r.TargetDir)
			}
		}
	}

	return nil
}

// QueryAction filters the sqlite plan index built by 'planrepo index --db'.
// With --cities it lists the indexed cities instead.
func QueryAction(c *cli.Context) error {
	database, err := common.RequireDB(c)
	if err != nil {
		return err
	}
	defer database.Close()

	if c.Bool("cities") {
		cities, err := database.ListCities()
		if err != nil {
			return fmt.Errorf("failed to list cities: %w", err)
		}
		return common.Print(c.App.Writer, cities, c.String("format"))
	}

	resp, err := query.Execute(database, c.String("filter"), c.Int("limit"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if !c.Bool("debug") {
		resp.WhereClause = ""
	}
	return common.Print(c.App.Writer, resp, c.String("format"))
}
