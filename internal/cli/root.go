// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/presto/internal/config"
	"github.com/tomtom215/presto/internal/database"
	"github.com/tomtom215/presto/internal/logging"
	"github.com/tomtom215/presto/internal/recommend"
)

// options are the persistent flags shared by every subcommand.
type options struct {
	configPath string
	driver     string
	dbPath     string
	logLevel   string
	jsonOutput bool
}

// NewRootCmd builds the presto command tree.
func NewRootCmd(version string) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "presto",
		Short: "Product recommendations from review graphs",
		Long: `presto finds the product matching a search term, walks the review graph
to the people who reviewed it and the other products they reviewed, and
ranks those products by how similarly they were rated.

Data is loaded from JSONL exports with 'presto ingest'.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML config file (default: CONFIG_PATH or ./config.yaml)")
	flags.StringVar(&opts.driver, "driver", "", "store driver: duckdb or sqlite")
	flags.StringVar(&opts.dbPath, "db", "", "database file")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level")
	flags.BoolVar(&opts.jsonOutput, "json", false, "print JSON instead of tables")

	cmd.AddCommand(
		newRecommendCmd(opts),
		newSearchCmd(opts),
		newReviewsCmd(opts),
		newIngestCmd(opts),
		newSchemaCmd(opts),
	)
	return cmd
}

// load reads configuration, applies flag overrides and initializes
// logging on stderr so stdout carries only command output.
func (o *options) load() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
	} else {
		cfg, err = config.LoadWithKoanf()
	}
	if err != nil {
		return nil, err
	}

	if o.driver != "" {
		cfg.Database.Driver = o.driver
	}
	if o.dbPath != "" {
		cfg.Database.Path = o.dbPath
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: "console",
		Caller: cfg.Logging.Caller,
		Output: os.Stderr,
	})
	return cfg, nil
}

// withStore runs fn against an open store and closes it afterwards.
func (o *options) withStore(fn func(cfg *config.Config, db *database.DB) error) (err error) {
	cfg, err := o.load()
	if err != nil {
		return err
	}
	db, err := database.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn(cfg, db)
}

// withEngine runs fn with a recommendation engine over the store.
func (o *options) withEngine(fn func(e *recommend.Engine) error) error {
	return o.withStore(func(cfg *config.Config, db *database.DB) error {
		engine, err := recommend.NewEngine(recommend.ConfigFrom(cfg.Recommend), db, logging.WithComponent("recommend"))
		if err != nil {
			return err
		}
		return fn(engine)
	})
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
