package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/wcagcatalog/internal/catalog"
	"github.com/nao1215/wcagcatalog/internal/config"
	"github.com/nao1215/wcagcatalog/internal/extract"
	"github.com/nao1215/wcagcatalog/internal/history"
	applog "github.com/nao1215/wcagcatalog/internal/log"
	"github.com/nao1215/wcagcatalog/internal/model"
	"github.com/nao1215/wcagcatalog/internal/pipeline"
	"github.com/nao1215/wcagcatalog/internal/reconcile"
	"github.com/nao1215/wcagcatalog/internal/report"
)

const generateLong = `Generate scans the master index of a test page directory, extracts the
annotations embedded in every listed page, reconciles them with the index
descriptors and writes a single catalog (test-catalog.json by default).

Pages that cannot be processed are skipped and reported; they never stop
the run. Only a missing or empty index, or a failure writing the catalog,
ends with a non-zero exit status.

Examples:
  # Generate from the current directory
  wcagcatalog generate

  # Generate from another directory with a custom base URL
  wcagcatalog generate -r ./test-pages --base-url https://pages.example.org/

  # Leave drafts out and also write a Markdown summary to a file
  wcagcatalog generate --exclude 'drafts/**' --markdown --summary-file summary.md

  # Record the run so 'wcagcatalog history --diff' can compare it later
  wcagcatalog generate --record

Configuration file (.wcagcatalog) example:
  root: ./test-pages
  baseUrl: https://pages.example.org/
  exclude:
    - drafts/**
  history: true`

// NewGenerateCmd creates the generate command.
func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the test catalog",
		Long:  generateLong,
		Args:  cobra.NoArgs,
		RunE:  runGenerateCmd,
	}
	addGenerateFlags(cmd)
	return cmd
}

// addGenerateFlags registers the generation flags on cmd. The root
// command carries them too so that a bare invocation generates.
func addGenerateFlags(cmd *cobra.Command) {
	// Input flags
	cmd.Flags().StringP("root", "r", ".",
		"Directory holding the index and the test pages")
	cmd.Flags().String("index", config.DefaultIndexFile,
		"Index file, relative to the root")
	cmd.Flags().StringSlice("exclude", nil,
		"Glob pattern of pages to leave out, relative to the root (repeatable)")
	cmd.Flags().String("item-class", config.DefaultItemClass,
		"Class name identifying listing items on the index")

	// Output flags
	cmd.Flags().StringP("output", "o", config.DefaultOutputFile,
		"Catalog path; relative paths resolve against the root")
	cmd.Flags().String("base-url", config.DefaultBaseURL,
		"Base URL the test pages are served from")

	// Configuration sources
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .wcagcatalog in current directory or XDG config)")
	cmd.Flags().String("env-file", ".env",
		"Dotenv file with WCAGCATALOG_* overrides")

	// Summary flags
	cmd.Flags().BoolP("json", "j", false,
		"Print the run summary as JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Print the run summary as Markdown (mutually exclusive with --json)")
	cmd.Flags().String("summary-file", "",
		"Also write the run summary to this file; stdout keeps the plain summary")
	cmd.Flags().Bool("json-logs", false,
		"Write logs to stderr as JSON")

	// History flags
	cmd.Flags().Bool("record", false,
		"Record the run in the history database")
	cmd.Flags().String("db-dir", "",
		"History database directory (default: XDG data directory)")
}

// runGenerateCmd executes the generate command.
func runGenerateCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return fmt.Errorf("failed to resolve root %s: %w", cfg.Root, err)
	}
	cfg.Root = root

	logger := setupLogger(cmd.ErrOrStderr(), cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run, err := runGenerate(ctx, cfg, logger)
	if run != nil {
		if serr := outputSummary(cmd.OutOrStdout(), cfg, model.NewRunSummary(run)); serr != nil {
			logger.Error("failed to write run summary", "error", serr)
		}
	}
	return err
}

// buildConfig layers defaults, the config file, the environment and
// explicitly set flags, in that order.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicit config path must exist; a searched one is optional.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cf.Apply(cfg, filepath.Dir(configPath))
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	cfg.EnvFile, err = flags.GetString("env-file")
	if err != nil {
		return nil, err
	}
	if err := config.LoadEnvFile(cfg.EnvFile); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	strFlags := map[string]*string{
		"root":         &cfg.Root,
		"index":        &cfg.IndexFile,
		"output":       &cfg.OutputFile,
		"base-url":     &cfg.BaseURL,
		"item-class":   &cfg.ItemClass,
		"summary-file": &cfg.SummaryFile,
		"db-dir":       &cfg.DBDir,
	}
	for name, dst := range strFlags {
		if !flags.Changed(name) {
			continue
		}
		if *dst, err = flags.GetString(name); err != nil {
			return nil, err
		}
	}

	boolFlags := map[string]*bool{
		"json":      &cfg.JSONSummary,
		"markdown":  &cfg.MarkdownSummary,
		"json-logs": &cfg.JSONLogs,
		"record":    &cfg.Record,
	}
	for name, dst := range boolFlags {
		if !flags.Changed(name) {
			continue
		}
		if *dst, err = flags.GetBool(name); err != nil {
			return nil, err
		}
	}

	if flags.Changed("exclude") {
		if cfg.Exclude, err = flags.GetStringSlice("exclude"); err != nil {
			return nil, err
		}
	}

	if getVerboseFlag(cmd) {
		cfg.Verbose = true
	}
	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates a structured logger that reports paths relative
// to the catalog root.
func setupLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	if cfg.JSONLogs {
		return applog.NewJSONLogger(w, cfg.Root, cfg.Verbose)
	}
	return applog.NewLogger(w, cfg.Root, cfg.Verbose)
}

// newPipeline assembles the generation steps for cfg. The returned
// closer releases the history database when recording is enabled.
func newPipeline(cfg *config.Config, logger *slog.Logger) (*pipeline.Pipeline, func(), error) {
	fsys := os.DirFS(cfg.Root)

	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddSteps(
		pipeline.NewScanIndexStep(fsys,
			extract.NewIndexScanner(
				extract.WithItemClass(cfg.ItemClass),
				extract.WithIndexLogger(logger),
			), logger),
		pipeline.NewExtractPagesStep(
			extract.NewPageExtractor(fsys,
				extract.WithExcludePatterns(cfg.Exclude),
				extract.WithPageLogger(logger),
			), logger),
		pipeline.NewReconcileStep(
			reconcile.New(cfg.BaseURL, reconcile.WithLogger(logger)), logger),
		pipeline.NewAggregateStep(
			catalog.New(cfg.BaseURL,
				catalog.WithVersion(cfg.CatalogVersion),
				catalog.WithLogger(logger),
			), logger),
		pipeline.NewWriteCatalogStep(
			report.NewCatalogWriter(report.WithCatalogLogger(logger)),
			cfg.OutputPath(), logger),
	)

	closer := func() {}
	if !cfg.Record {
		return p, closer, nil
	}

	store, err := history.Open(cfg.HistoryDBPath(), history.DefaultOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history database: %w", err)
	}
	p.AddStep(pipeline.NewRecordHistoryStep(store, cfg.Root, logger))
	closer = func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close history database", "error", err)
		}
	}
	return p, closer, nil
}

// runGenerate executes one generation. The returned run is non-nil
// whenever the pipeline started, even if it failed.
func runGenerate(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*model.Run, error) {
	p, closeStore, err := newPipeline(cfg, logger)
	if err != nil {
		return nil, err
	}
	defer closeStore()

	logger.Info("starting generation",
		"root", cfg.Root,
		"index", cfg.IndexFile,
		"output", cfg.OutputPath(),
		"record", cfg.Record,
	)

	run := model.NewRun(cfg.Root, cfg.IndexFile, time.Now())
	if err := p.Execute(ctx, run); err != nil {
		if errors.Is(err, context.Canceled) {
			return run, errors.New("generation interrupted")
		}
		return run, fmt.Errorf("%s failed: %w", run.FailedStep, err)
	}
	return run, nil
}

// outputSummary writes the run summary in the configured format. With a
// summary file the formatted summary goes to the file and stdout still gets
// the plain text one.
func outputSummary(stdout io.Writer, cfg *config.Config, summary *model.RunSummary) error {
	if cfg.SummaryFile == "" {
		_, err := summaryWriter(stdout, cfg).Write(summary)
		return err
	}

	dir := filepath.Dir(cfg.SummaryFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create summary directory: %w", err)
		}
	}
	f, err := os.OpenFile(cfg.SummaryFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	defer f.Close()

	w := report.NewMultiWriter(
		report.NewSimpleWriter(stdout, report.WithVerbose(cfg.Verbose)),
		summaryWriter(f, cfg),
	)
	_, err = w.Write(summary)
	return err
}

// summaryWriter selects the Writer for the configured summary format.
func summaryWriter(output io.Writer, cfg *config.Config) report.Writer {
	switch {
	case cfg.JSONSummary:
		return report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownSummary:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}
}
