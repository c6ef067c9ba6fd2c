package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"beginnings/internal/app"
	"beginnings/internal/config"
	"beginnings/internal/db"
	"beginnings/internal/logging"
)

type options struct {
	configPath string
	dbURL      string
	verbose    bool
}

// NewRootCmd assembles the command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "sitectl",
		Short:         "Beginnings Schools site tool",
		Long:          "Build the static site, check the site datasets, and manage staff accounts and inquiries.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "config.yaml", "path to config file")
	root.PersistentFlags().StringVar(&opts.dbURL, "db", "", "override database connection URL")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(newBuildCmd(opts))
	root.AddCommand(newCheckCmd(opts))
	root.AddCommand(newAdminCmd(opts))
	root.AddCommand(newInquiriesCmd(opts))
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// load reads the config file; a missing file falls back to the defaults.
func (o *options) load(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		if cfg == nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v; using defaults\n", err)
	}
	return cfg, nil
}

func (o *options) logger(w io.Writer, cfg *config.Config) *slog.Logger {
	level := cfg.Logging.Level
	if o.verbose {
		level = "debug"
	}
	return logging.New(logging.Options{Level: level, Format: "text", Output: w})
}

// pool opens the application database, migrating it first unless an explicit
// URL was given.
func (o *options) pool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	if strings.TrimSpace(o.dbURL) != "" {
		return db.NewPool(ctx, o.dbURL)
	}
	if cfg.Database.Disabled {
		return nil, fmt.Errorf("database is disabled in %s", o.configPath)
	}
	return app.OpenDB(ctx, cfg)
}
