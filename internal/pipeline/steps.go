package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"

	"github.com/nao1215/wcagcatalog/internal/catalog"
	"github.com/nao1215/wcagcatalog/internal/extract"
	"github.com/nao1215/wcagcatalog/internal/history"
	"github.com/nao1215/wcagcatalog/internal/model"
	"github.com/nao1215/wcagcatalog/internal/reconcile"
	"github.com/nao1215/wcagcatalog/internal/report"
)

// Step names.
const (
	StepScanIndex     = "scan_index"
	StepExtractPages  = "extract_pages"
	StepReconcile     = "reconcile"
	StepAggregate     = "aggregate"
	StepWriteCatalog  = "write_catalog"
	StepRecordHistory = "record_history"
)

func logDiagnostics(logger *slog.Logger, diags []model.Diagnostic) {
	for _, d := range diags {
		logger.Warn(d.Message,
			"kind", string(d.Kind),
			"file", d.Filename,
			"field", d.Field,
		)
	}
}

// ScanIndexStep reads the master index and records its descriptors.
type ScanIndexStep struct {
	fsys    fs.FS
	scanner *extract.IndexScanner
	logger  *slog.Logger
}

// NewScanIndexStep creates a step reading run.IndexFile from fsys.
func NewScanIndexStep(fsys fs.FS, scanner *extract.IndexScanner, logger *slog.Logger) *ScanIndexStep {
	return &ScanIndexStep{fsys: fsys, scanner: scanner, logger: orDefault(logger)}
}

// Name returns the step name.
func (s *ScanIndexStep) Name() string {
	return StepScanIndex
}

// Do executes the index scan.
func (s *ScanIndexStep) Do(_ context.Context, run *model.Run) error {
	f, err := s.fsys.Open(run.IndexFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", extract.ErrIndexNotFound, run.IndexFile)
		}
		return fmt.Errorf("%w: %w", extract.ErrIndexUnreadable, err)
	}
	defer f.Close()

	result, err := s.scanner.Scan(f)
	if err != nil {
		return fmt.Errorf("%s: %w", run.IndexFile, err)
	}

	run.Descriptors = append(run.Descriptors, result.Descriptors...)
	run.Diagnostics = append(run.Diagnostics, result.Diagnostics...)
	logDiagnostics(s.logger, result.Diagnostics)

	s.logger.Info("index scanned",
		"file", run.IndexFile,
		"descriptors", len(result.Descriptors),
		"templateRows", result.TemplateRows,
	)
	return nil
}

// ExtractPagesStep loads every descriptor's page and resolves its metadata.
type ExtractPagesStep struct {
	extractor *extract.PageExtractor
	logger    *slog.Logger
}

// NewExtractPagesStep creates a page extraction step.
func NewExtractPagesStep(extractor *extract.PageExtractor, logger *slog.Logger) *ExtractPagesStep {
	return &ExtractPagesStep{extractor: extractor, logger: orDefault(logger)}
}

// Name returns the step name.
func (s *ExtractPagesStep) Name() string {
	return StepExtractPages
}

// Do extracts pages in index order. Hrefs resolve against the index
// file's directory.
func (s *ExtractPagesStep) Do(ctx context.Context, run *model.Run) error {
	dir := path.Dir(run.IndexFile)
	for _, d := range run.Descriptors {
		if err := ctx.Err(); err != nil {
			return err
		}
		run.Pages = append(run.Pages, s.extractor.Extract(dir, d))
	}
	return nil
}

// ReconcileStep turns extracted pages into catalog entries.
type ReconcileStep struct {
	reconciler *reconcile.Reconciler
	logger     *slog.Logger
}

// NewReconcileStep creates a reconciliation step.
func NewReconcileStep(reconciler *reconcile.Reconciler, logger *slog.Logger) *ReconcileStep {
	return &ReconcileStep{reconciler: reconciler, logger: orDefault(logger)}
}

// Name returns the step name.
func (s *ReconcileStep) Name() string {
	return StepReconcile
}

// Do reconciles every page and logs its diagnostics.
func (s *ReconcileStep) Do(_ context.Context, run *model.Run) error {
	for i := range run.Pages {
		run.Pages[i] = s.reconciler.Reconcile(run.Pages[i])
		logDiagnostics(s.logger, run.Pages[i].Diagnostics)
	}
	return nil
}

// AggregateStep builds the catalog.
type AggregateStep struct {
	aggregator *catalog.Aggregator
	logger     *slog.Logger
}

// NewAggregateStep creates an aggregation step.
func NewAggregateStep(aggregator *catalog.Aggregator, logger *slog.Logger) *AggregateStep {
	return &AggregateStep{aggregator: aggregator, logger: orDefault(logger)}
}

// Name returns the step name.
func (s *AggregateStep) Name() string {
	return StepAggregate
}

// Do assembles the catalog from reconciled pages.
func (s *AggregateStep) Do(_ context.Context, run *model.Run) error {
	res := s.aggregator.Aggregate(run.Pages, run.GenerationDate())
	run.Catalog = res.Catalog
	run.Skipped = append(run.Skipped, res.Skipped...)
	run.Diagnostics = append(run.Diagnostics, res.Diagnostics...)
	logDiagnostics(s.logger, res.Diagnostics)
	return nil
}

// WriteCatalogStep commits the catalog to disk.
type WriteCatalogStep struct {
	writer *report.CatalogWriter
	path   string
	logger *slog.Logger
}

// NewWriteCatalogStep creates a step writing the catalog to path.
func NewWriteCatalogStep(writer *report.CatalogWriter, path string, logger *slog.Logger) *WriteCatalogStep {
	return &WriteCatalogStep{writer: writer, path: path, logger: orDefault(logger)}
}

// Name returns the step name.
func (s *WriteCatalogStep) Name() string {
	return StepWriteCatalog
}

// Do writes the catalog. It fails when no catalog was built.
func (s *WriteCatalogStep) Do(_ context.Context, run *model.Run) error {
	if run.Catalog == nil {
		return errors.New("no catalog to write")
	}
	if err := s.writer.WriteFile(s.path, run.Catalog); err != nil {
		return err
	}
	run.OutputPath = s.path
	s.logger.Info("catalog written",
		"path", s.path,
		"pages", run.Catalog.Metadata.TotalPages,
		"testCases", run.Catalog.Metadata.TotalTestCases,
	)
	return nil
}

// RecordHistoryStep saves the finished run to the history database.
// Failures are logged and never fail the run.
type RecordHistoryStep struct {
	store  *history.Store
	root   string
	logger *slog.Logger
}

// NewRecordHistoryStep creates a step recording runs for root.
func NewRecordHistoryStep(store *history.Store, root string, logger *slog.Logger) *RecordHistoryStep {
	return &RecordHistoryStep{store: store, root: root, logger: orDefault(logger)}
}

// Name returns the step name.
func (s *RecordHistoryStep) Name() string {
	return StepRecordHistory
}

// Do records the run.
func (s *RecordHistoryStep) Do(ctx context.Context, run *model.Run) error {
	id, err := s.store.SaveRun(ctx, s.root, run)
	if err != nil {
		s.logger.Warn("failed to record run history", "error", err)
		return nil
	}
	s.logger.Info("run recorded", "id", id, "db", s.store.Path())
	return nil
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
