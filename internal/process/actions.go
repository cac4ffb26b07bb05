package process

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dtnitsch/planning-repo/internal/common"
	"github.com/dtnitsch/planning-repo/pkg/processor"
	"github.com/urfave/cli/v2"
)

// Usage is printed when the source or target path is missing.
const Usage = "Usage: planrepo <source_path> <target_path>"

// ProcessAction converts a scraped source tree into the normalized target tree
// and prints the run report. Per-item errors do not change the exit status.
func ProcessAction(c *cli.Context) error {
	if c.NArg() < 2 {
		fmt.Fprintln(c.App.Writer, Usage)
		return cli.Exit("", 1)
	}
	sourceRoot := c.Args().Get(0)
	targetRoot := c.Args().Get(1)

	logger := common.NewLogger(c)

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	opts := processor.Options{Config: cfg, Logger: logger}
	database, err := common.OpenDB(c)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	if database != nil {
		defer database.Close()
		opts.Ledger = database
		logger.Debug("Recording run", "db", database.Path())
	}

	p, err := processor.New(targetRoot, opts)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, runErr := p.Run(ctx, sourceRoot)
	if err := common.Print(c.App.Writer, summary.Report(), c.String("format")); err != nil {
		return err
	}
	if runErr != nil {
		if errors.Is(runErr, ctx.Err()) {
			return cli.Exit(runErr.Error(), 130)
		}
		return runErr
	}
	return nil
}
