package main

import (
	"fmt"
	"os"

	dbcmd "github.com/dtnitsch/planning-repo/internal/db"
	indexcmd "github.com/dtnitsch/planning-repo/internal/index"
	"github.com/dtnitsch/planning-repo/internal/process"
	searchcmd "github.com/dtnitsch/planning-repo/internal/search"
	"github.com/dtnitsch/planning-repo/pkg/help"
	"github.com/urfave/cli/v2"
)

var version = "1.0"

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func formatFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "format",
		Usage: "Output format: yaml or json",
		Value: "yaml",
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "planrepo",
		Usage:     "Normalize scraped urban-planning records into a searchable repository",
		Version:   version,
		ArgsUsage: "<source_path> <target_path>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "YAML file overriding provenance values and city translations",
				EnvVars: []string{"PLANREPO_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "db",
				Usage:   "SQLite file for the run ledger and plan index",
				EnvVars: []string{"PLANREPO_DB"},
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Only log errors",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log every plan",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Log format: text or json",
				Value: "text",
			},
			formatFlag(),
		},
		Action: process.ProcessAction,
		Commands: []*cli.Command{
			{
				Name:      "process",
				Usage:     "Convert a source tree into the target repository tree",
				ArgsUsage: "<source_path> <target_path>",
				Flags:     []cli.Flag{formatFlag()},
				Action:    process.ProcessAction,
			},
			{
				Name:      "index",
				Usage:     "Build metadata/plans_master_index.json from a processed tree",
				ArgsUsage: "<target_path>",
				Flags:     []cli.Flag{formatFlag()},
				Action:    indexcmd.IndexAction,
			},
			{
				Name:      "search",
				Usage:     "Search the master index",
				ArgsUsage: "<target_path> [query...]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "query", Usage: "Free-text terms (any term matches)"},
					&cli.StringFlag{Name: "city", Usage: "City name (Hebrew or English)"},
					&cli.StringFlag{Name: "status", Usage: "Exact plan status"},
					&cli.StringFlag{Name: "type", Usage: "Exact plan type"},
					&cli.IntFlag{Name: "limit", Usage: "Maximum results", Value: 20},
					&cli.BoolFlag{Name: "context", Usage: "Attach city context and related plans"},
					&cli.IntFlag{Name: "city-code", Usage: "Structured: city code"},
					&cli.StringSliceFlag{Name: "statuses", Usage: "Structured: allowed statuses"},
					&cli.StringFlag{Name: "from", Usage: "Structured: earliest status date"},
					&cli.StringFlag{Name: "to", Usage: "Structured: latest status date"},
					&cli.BoolFlag{Name: "has-documents", Usage: "Structured: require (or, =false, exclude) documents"},
					&cli.StringFlag{Name: "export", Usage: "Export results as json, csv or md"},
					&cli.StringFlag{Name: "fields", Usage: "Comma-separated result fields to print"},
					formatFlag(),
				},
				Action: searchcmd.SearchAction,
			},
			{
				Name:      "recommend",
				Usage:     "List plans related to a plan",
				ArgsUsage: "<target_path> <plan_number>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "export", Usage: "Export results as json, csv or md"},
					&cli.StringFlag{Name: "fields", Usage: "Comma-separated result fields to print"},
					formatFlag(),
				},
				Action: searchcmd.RecommendAction,
			},
			{
				Name:      "insights",
				Usage:     "Show status, type and year distributions",
				ArgsUsage: "<target_path>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "city", Usage: "Restrict to one city"},
					formatFlag(),
				},
				Action: searchcmd.InsightsAction,
			},
			{
				Name:   "runs",
				Usage:  "List recorded runs",
				Flags:  []cli.Flag{&cli.IntFlag{Name: "limit", Value: 20}},
				Action: dbcmd.RunsAction,
				Subcommands: []*cli.Command{
					{
						Name:      "show",
						Usage:     "Show the plan results of a run (latest when no id is given)",
						ArgsUsage: "[run_id]",
						Flags:     []cli.Flag{&cli.BoolFlag{Name: "failed", Usage: "Only failed plans"}},
						Action:    dbcmd.RunAction,
					},
				},
			},
			{
				Name:  "coldstart",
				Usage: "Print a quick-start reference",
				Action: func(c *cli.Context) error {
					fmt.Fprint(c.App.Writer, help.ColdstartYAML)
					return nil
				},
			},
			{
				Name:  "query",
				Usage: "Filter the sqlite plan index, e.g. --filter 'status=מאושר AND city_code=5000'",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "filter", Aliases: []string{"f"}},
					&cli.IntFlag{Name: "limit", Value: 0, Usage: "Maximum results (0 = all)"},
					&cli.BoolFlag{Name: "debug", Usage: "Print the generated WHERE clause"},
					&cli.BoolFlag{Name: "cities", Usage: "List the indexed cities instead of plans"},
					formatFlag(),
				},
				Action: dbcmd.QueryAction,
			},
		},
	}
}
