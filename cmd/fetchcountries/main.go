// cmd/fetchcountries/main.go
//
// One-shot synchronizer run from the command line.
//
// Context
// -------
// Loads the same configuration as cmd/web, opens the configured store, runs
// one Sync against the upstream, and prints:
//
//	Successfully processed countries data: X created, Y updated, Z total
//
// Flags override the matching `upstream.*` settings for this run only.
// Exit status is non-zero on any fetch, processing, or store failure, which
// makes the command safe to drive from cron.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yanizio/countries/internal/app"
	"github.com/yanizio/countries/internal/config"
	"github.com/yanizio/countries/internal/logger"
)

// options holds per-run overrides.
type options struct {
	URL     string
	Workers int
	Timeout time.Duration
	Verbose bool
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "fetchcountries",
		Short: "Fetch and store countries data from the REST Countries API",
		Long: `Fetch the full REST Countries dataset and upsert every entry by its
alpha-3 code.  Existing rows are updated in place; nothing is deleted.

Example:
  fetchcountries
  fetchcountries --url https://restcountries.com/v3.1/all --workers 4`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.URL, "url", "", "upstream dataset URL (default from config)")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "parallel record writers (default from config)")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "per-attempt HTTP timeout (default from config)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging, teed to the console")

	return cmd
}

func run(ctx context.Context, opts *options, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.URL != "" {
		cfg.Upstream.URL = opts.URL
	}
	if opts.Workers > 0 {
		cfg.Upstream.Workers = opts.Workers
	}
	if opts.Timeout > 0 {
		cfg.Upstream.Timeout = opts.Timeout
	}

	level := cfg.Log.Level
	if opts.Verbose {
		level = "debug"
	}
	log, err := logger.New(cfg.Log.Dir, level, opts.Verbose)
	if err != nil {
		return fmt.Errorf("start logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	a, err := app.Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.Sync.Sync(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Successfully processed countries data: %d created, %d updated, %d total\n",
		res.Created, res.Updated, res.Total)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error fetching countries data:", err)
		os.Exit(1)
	}
}
