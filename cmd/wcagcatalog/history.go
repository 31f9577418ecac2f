package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/nao1215/wcagcatalog/internal/config"
	"github.com/nao1215/wcagcatalog/internal/history"
)

// NewHistoryCmd creates the history command.
// This command reads runs recorded by 'generate --record'.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded catalog runs",
		Long: `History lists catalog runs recorded with 'wcagcatalog generate --record'
for a catalog root, newest first.

With --diff it reports the entries added, removed or changed between the
latest two runs, or between --with-run-id and the latest run. Entries are
compared by a SHA3-256 fingerprint of their catalog JSON.

Examples:
  # List recorded runs for the current directory
  wcagcatalog history

  # Compare the latest two runs
  wcagcatalog history --diff

  # Compare a specific run with the latest one, as JSON
  wcagcatalog history --diff --with-run-id 3 --json`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().StringP("root", "r", ".",
		"Catalog root whose runs are shown")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"History database directory")
	cmd.Flags().IntP("limit", "n", 20,
		"Maximum number of runs to list (0 lists all)")

	cmd.Flags().BoolP("diff", "d", false,
		"Compare two runs instead of listing")
	cmd.Flags().Int64P("with-run-id", "i", 0,
		"Compare this run with the latest one (implies --diff)")

	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output in Markdown format")

	return cmd
}

// historyOptions holds the parsed flags of the history command.
type historyOptions struct {
	root      string
	dbDir     string
	limit     int
	diff      bool
	withRunID int64
	json      bool
	markdown  bool
}

func parseHistoryFlags(cmd *cobra.Command) (*historyOptions, error) {
	var (
		opts historyOptions
		err  error
	)
	flags := cmd.Flags()
	if opts.root, err = flags.GetString("root"); err != nil {
		return nil, err
	}
	if opts.dbDir, err = flags.GetString("db-dir"); err != nil {
		return nil, err
	}
	if opts.limit, err = flags.GetInt("limit"); err != nil {
		return nil, err
	}
	if opts.diff, err = flags.GetBool("diff"); err != nil {
		return nil, err
	}
	if opts.withRunID, err = flags.GetInt64("with-run-id"); err != nil {
		return nil, err
	}
	if opts.json, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if opts.markdown, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}

	if opts.json && opts.markdown {
		return nil, config.ErrConflictingSummaryFormats
	}
	if opts.withRunID < 0 {
		return nil, fmt.Errorf("invalid run id: %d", opts.withRunID)
	}
	if opts.withRunID > 0 {
		opts.diff = true
	}

	// Runs are keyed by absolute root, matching what generate records.
	if opts.root, err = filepath.Abs(opts.root); err != nil {
		return nil, fmt.Errorf("failed to resolve root: %w", err)
	}
	return &opts, nil
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	// Validate flags before opening the database.
	opts, err := parseHistoryFlags(cmd)
	if err != nil {
		return err
	}

	dbPath := filepath.Join(opts.dbDir, config.DefaultHistoryDB)
	store, err := history.Open(dbPath, history.Options{EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open history database: %w (record a run with 'wcagcatalog generate --record')", err)
	}
	defer store.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	if opts.diff {
		d, err := diffRuns(ctx, store, opts)
		if err != nil {
			return err
		}
		return outputDiff(out, opts, d)
	}

	runs, err := store.ListRuns(ctx, opts.root, opts.limit)
	if err != nil {
		return err
	}
	return outputRuns(out, opts, runs)
}

// diffRuns selects the two runs to compare and diffs them.
func diffRuns(ctx context.Context, store *history.Store, opts *historyOptions) (*history.RunDiff, error) {
	runs, err := store.ListRuns(ctx, opts.root, 2)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("no recorded runs for %s", opts.root)
	}
	latest := runs[0].ID

	if opts.withRunID == 0 {
		if len(runs) < 2 {
			return nil, fmt.Errorf("at least 2 runs are required for comparison (found %d)", len(runs))
		}
		return store.Diff(ctx, runs[1].ID, latest)
	}

	from, err := store.GetRun(ctx, opts.withRunID)
	if err != nil {
		if errors.Is(err, history.ErrRunNotFound) {
			return nil, fmt.Errorf("run with ID %d not found", opts.withRunID)
		}
		return nil, err
	}
	if from.Root != opts.root {
		return nil, fmt.Errorf("run ID %d belongs to %s, not %s", from.ID, from.Root, opts.root)
	}
	return store.Diff(ctx, from.ID, latest)
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputRuns prints the run list in the requested format.
func outputRuns(out io.Writer, opts *historyOptions, runs []history.RunRecord) error {
	if opts.json {
		return writeJSON(out, runs)
	}

	if len(runs) == 0 {
		fmt.Fprintf(out, "No recorded runs for %s\n", opts.root)
		fmt.Fprintln(out, "\nUse 'wcagcatalog generate --record' to record a run.")
		return nil
	}

	if opts.markdown {
		rows := make([][]string, 0, len(runs))
		for _, r := range runs {
			rows = append(rows, []string{
				strconv.FormatInt(r.ID, 10),
				r.StartedAt.Format("2006-01-02 15:04:05"),
				strconv.Itoa(r.TotalPages),
				strconv.Itoa(r.TotalTestCases),
				strconv.Itoa(r.TotalCriteria),
				strconv.Itoa(r.Skipped),
				strconv.Itoa(r.Diagnostics),
			})
		}
		return markdown.NewMarkdown(out).
			H1("Catalog Runs").
			PlainTextf("Root: `%s`", opts.root).
			PlainText("").
			Table(markdown.TableSet{
				Header: []string{"ID", "Started", "Pages", "Cases", "Criteria", "Skipped", "Diagnostics"},
				Rows:   rows,
			}).
			Build()
	}

	fmt.Fprintf(out, "Run history for %s (%d runs):\n\n", opts.root, len(runs))
	fmt.Fprintf(out, "  %-6s  %-20s  %6s  %6s  %8s  %7s  %s\n",
		"ID", "Started", "Pages", "Cases", "Criteria", "Skipped", "Diagnostics")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 76))
	for _, r := range runs {
		fmt.Fprintf(out, "  %-6d  %-20s  %6d  %6d  %8d  %7d  %d\n",
			r.ID,
			r.StartedAt.Format("2006-01-02 15:04:05"),
			r.TotalPages,
			r.TotalTestCases,
			r.TotalCriteria,
			r.Skipped,
			r.Diagnostics,
		)
	}
	fmt.Fprintln(out, "\nUse 'wcagcatalog history --diff' to compare the latest two runs.")
	return nil
}

// outputDiff prints a run diff in the requested format.
func outputDiff(out io.Writer, opts *historyOptions, d *history.RunDiff) error {
	if opts.json {
		return writeJSON(out, d)
	}

	if opts.markdown {
		md := markdown.NewMarkdown(out).
			H1(fmt.Sprintf("Catalog Changes: run %d to run %d", d.From, d.To)).
			PlainText("")
		if d.Empty() {
			md.Tip("No entries changed.")
			return md.Build()
		}
		rows := make([][]string, 0, len(d.Added)+len(d.Removed)+len(d.Changed))
		for _, group := range []struct {
			label string
			ids   []string
		}{
			{"added", d.Added},
			{"removed", d.Removed},
			{"changed", d.Changed},
		} {
			for _, id := range group.ids {
				rows = append(rows, []string{"`" + id + "`", group.label})
			}
		}
		return md.Table(markdown.TableSet{
			Header: []string{"Entry", "Change"},
			Rows:   rows,
		}).Build()
	}

	fmt.Fprintf(out, "Changes from run %d to run %d:\n\n", d.From, d.To)
	if d.Empty() {
		fmt.Fprintln(out, "  No entries changed.")
		return nil
	}
	printIDs(out, "Added", "+", d.Added)
	printIDs(out, "Removed", "-", d.Removed)
	printIDs(out, "Changed", "~", d.Changed)
	return nil
}

func printIDs(out io.Writer, title, marker string, ids []string) {
	if len(ids) == 0 {
		return
	}
	fmt.Fprintf(out, "%s (%d):\n", title, len(ids))
	for _, id := range ids {
		fmt.Fprintf(out, "  %s %s\n", marker, id)
	}
	fmt.Fprintln(out)
}
