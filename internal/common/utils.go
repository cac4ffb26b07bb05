// Package common holds helpers shared by the command actions.
package common

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dtnitsch/planning-repo/models"
	dbpkg "github.com/dtnitsch/planning-repo/pkg/db"
	"github.com/dtnitsch/planning-repo/pkg/storage"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// NewLogger builds the stderr logger from the global flags.
// --quiet wins over --verbose.
func NewLogger(c *cli.Context) *slog.Logger {
	return newLogger(os.Stderr, c.String("log-format"), c.Bool("quiet"), c.Bool("verbose"))
}

func newLogger(w io.Writer, format string, quiet, verbose bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	if quiet {
		logLevel = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: logLevel}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// LoadConfig reads the --config file, or returns the defaults.
func LoadConfig(c *cli.Context) (*models.Config, error) {
	return models.LoadConfig(c.String("config"))
}

// OpenDB opens the --db database. It returns nil without error when the flag is unset.
func OpenDB(c *cli.Context) (*dbpkg.DB, error) {
	path := c.String("db")
	if path == "" {
		return nil, nil
	}
	database, err := dbpkg.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

// RequireDB opens the --db database, falling back to the default location.
func RequireDB(c *cli.Context) (*dbpkg.DB, error) {
	database, err := dbpkg.Open(c.String("db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

// Print writes v to w as yaml (default) or json.
func Print(w io.Writer, v interface{}, format string) error {
	var (
		out []byte
		err error
	)
	switch strings.ToLower(format) {
	case "", "yaml":
		out, err = yaml.Marshal(v)
	case "json":
		out, err = storage.MarshalJSON(v)
		out = append(out, '\n')
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = w.Write(out)
	return err
}

// FilterResultFields keeps only the comma-separated fields of result.
// An empty field list returns every field.
func FilterResultFields(result interface{}, fieldsStr string) map[string]interface{} {
	fullMap := structToMap(result)
	if strings.TrimSpace(fieldsStr) == "" {
		return fullMap
	}

	includeFields := make(map[string]bool)
	for _, field := range strings.Split(fieldsStr, ",") {
		includeFields[strings.TrimSpace(field)] = true
	}

	filtered := make(map[string]interface{})
	for key, value := range fullMap {
		if includeFields[key] {
			filtered[key] = value
		}
	}
	return filtered
}

// FilterResultsFields applies FilterResultFields to every element of a slice.
func FilterResultsFields[T any](results []T, fieldsStr string) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(results))
	for _, r := range results {
		out = append(out, FilterResultFields(r, fieldsStr))
	}
	return out
}

// structToMap converts a struct to map[string]interface{} using JSON marshaling.
func structToMap(obj interface{}) map[string]interface{} {
	data, _ := json.Marshal(obj)
	var result map[string]interface{}
	_ = json.Unmarshal(data, &result)
	return result
}
