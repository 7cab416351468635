// Snapsort groups photos in a directory into bursts by capture time.
//
// It reads the EXIF DateTime field from every matching file, sorts by
// timestamp, and splits the sequence wherever two adjacent photos are more
// than a threshold apart. The resulting clusters are written to a text
// report and can optionally be packaged as per-cluster zip archives.
//
// Usage:
//
//	# Cluster photos with the defaults (3s threshold, 4 workers)
//	snapsort ~/Pictures/import
//
//	# Wider threshold, package each cluster as a zip
//	snapsort --threshold 10 --package ~/Pictures/import
//
//	# Keep running and re-cluster whenever the directory changes
//	snapsort --watch ~/Pictures/import
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/snapsort/internal/config"
	"github.com/fyrsmithlabs/snapsort/internal/logging"
	"github.com/fyrsmithlabs/snapsort/internal/run"
	"github.com/fyrsmithlabs/snapsort/internal/scan"
	"github.com/fyrsmithlabs/snapsort/internal/watch"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

var (
	flagConfig      string
	flagThreshold   int64
	flagConcurrency int
	flagExport      string
	flagPackage     bool
	flagWatch       bool
	flagVerbose     int
	flagLogFormat   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Pre-pipeline failures (flag, config, logger construction) happen
		// before any logger exists; stderr is the only place to report them.
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snapsort [path]",
	Short: "Group photos into bursts by capture time",
	Long: `Snapsort scans a directory of photos, reads each file's EXIF capture
timestamp, and groups chronologically adjacent photos into bursts: any two
neighbors more than the threshold apart start a new group.

Files that are not readable images, or whose timestamp is missing or
malformed, are kept and collected into one leading group rather than dropped.`,
	Args:          cobra.ExactArgs(1),
	RunE:          runRoot,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("snapsort %s (commit %s, built %s)\n", version, gitCommit, buildDate)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default ~/.config/snapsort/config.yaml)")
	rootCmd.Flags().Int64VarP(&flagThreshold, "threshold", "t", config.DefaultThresholdSeconds, "maximum gap in seconds within a group")
	rootCmd.Flags().IntVarP(&flagConcurrency, "concurrency", "c", config.DefaultConcurrency, "extraction worker count")
	rootCmd.Flags().StringVarP(&flagExport, "export", "e", "", "report path (default result.txt under the scanned directory)")
	rootCmd.Flags().BoolVarP(&flagPackage, "package", "p", false, "write one zip archive per group")
	rootCmd.Flags().BoolVarP(&flagWatch, "watch", "w", false, "re-run whenever the directory changes")
	rootCmd.Flags().CountVarP(&flagVerbose, "verbose", "v", "increase log verbosity (-v info, -vv debug)")
	rootCmd.Flags().StringVar(&flagLogFormat, "log-format", "", "log output format: console or json")
	rootCmd.AddCommand(versionCmd)
}

// runRoot loads configuration, builds the pipeline, and executes either a
// single run or a watch session.
func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Config{
		Verbosity: cfg.Verbosity,
		Format:    cfg.LogFormat,
	})
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck // stderr sync failures are harmless

	runner, err := run.New(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Watch {
		return runWatch(ctx, cfg, runner, logger)
	}

	if _, err := runner.Once(ctx); err != nil {
		logger.Error("run failed", zap.Error(err))
		return err
	}
	fmt.Println("Done!")
	return nil
}

// loadConfig merges file, environment, and flag configuration. Flags win
// when explicitly set.
func loadConfig(cmd *cobra.Command, path string) (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}

	cfg.Path = path
	cfg.Verbosity = flagVerbose
	if cmd.Flags().Changed("threshold") {
		cfg.ThresholdSeconds = flagThreshold
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency = flagConcurrency
	}
	if cmd.Flags().Changed("export") {
		cfg.Export = flagExport
	}
	if cmd.Flags().Changed("package") {
		cfg.Package = flagPackage
	}
	if cmd.Flags().Changed("watch") {
		cfg.Watch = flagWatch
	}
	if cmd.Flags().Changed("log-format") {
		cfg.LogFormat = flagLogFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runWatch runs the pipeline once, then keeps re-running it as the directory
// changes until interrupted. Packaging is disabled while watching: archiving
// half-copied files helps nobody.
func runWatch(ctx context.Context, cfg *config.Config, runner *run.Runner, logger *zap.Logger) error {
	if cfg.Package {
		logger.Warn("packaging is disabled in watch mode")
		cfg.Package = false
	}

	if _, err := runner.Once(ctx); err != nil {
		logger.Error("initial run failed", zap.Error(err))
		return err
	}

	matcher, err := scan.NewLister(cfg.Extensions, logger.Named("scan"))
	if err != nil {
		return err
	}
	watcher, err := watch.New(cfg.Path, matcher, logger.Named("watch"))
	if err != nil {
		return err
	}

	err = watcher.Run(ctx, func(ctx context.Context) error {
		_, err := runner.Once(ctx)
		return err
	})
	if errors.Is(err, context.Canceled) {
		logger.Info("watch stopped")
		return nil
	}
	return err
}
