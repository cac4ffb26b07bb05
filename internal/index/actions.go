package index

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/dtnitsch/planning-repo/internal/common"
	indexpkg "github.com/dtnitsch/planning-repo/pkg/index"
	"github.com/urfave/cli/v2"
)

type indexOutput struct {
	Path        string   `yaml:"path" json:"path"`
	TotalPlans  int      `yaml:"total_plans" json:"total_plans"`
	TotalCities int      `yaml:"total_cities" json:"total_cities"`
	Processed   int      `yaml:"processed_plans" json:"processed_plans"`
	Status      string   `yaml:"processing_status" json:"processing_status"`
	Database    string   `yaml:"database,omitempty" json:"database,omitempty"`
	DBErrors    int      `yaml:"db_errors,omitempty" json:"db_errors,omitempty"`
	Warnings    []string `yaml:"warnings,omitempty" json:"warnings,omitempty"`
}

// IndexAction writes metadata/plans_master_index.json for a processed target
// tree and, with --db, mirrors it into the sqlite plan index.
func IndexAction(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("Usage: planrepo index <target_path>", 1)
	}
	logger := common.NewLogger(c)

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	opts := indexpkg.Options{Config: cfg, Logger: logger}
	database, err := common.OpenDB(c)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	if database != nil {
		defer database.Close()
		opts.Store = database
	}

	b, err := indexpkg.New(c.Args().First(), opts)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := b.Write(ctx)
	if err != nil {
		return err
	}

	out := indexOutput{
		Path:        res.Path,
		TotalPlans:  res.Index.RepositoryInfo.TotalPlans,
		TotalCities: res.Index.RepositoryInfo.TotalCities,
		Processed:   res.Index.RepositoryInfo.ProcessedPlans,
		Status:      res.Index.RepositoryInfo.ProcessingStatus,
		DBErrors:    res.PlanErrors,
		Warnings:    res.Warnings,
	}
	if database != nil {
		out.Database = database.Path()
	}
	return common.Print(c.App.Writer, out, c.String("format"))
}
