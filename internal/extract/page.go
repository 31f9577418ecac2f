package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/nao1215/wcagcatalog/internal/model"
)

// Structured annotation names (<meta name="..." content="...">).
const (
	MetaCriteria           = "wcag-criteria"
	MetaTotalCases         = "total-test-cases"
	MetaExpectedViolations = "expected-violations"
	MetaDescription        = "description"
)

// Per-case data attributes.
const (
	AttrTestID     = "data-test-id"
	AttrCriterion  = "data-wcag"
	AttrExpected   = "data-expected"
	AttrConfidence = "data-confidence"

	ExpectedViolation = "violation"
	ExpectedPass      = "pass"
)

// PageExtractor loads test pages from a root filesystem and extracts
// their metadata.
type PageExtractor struct {
	fsys    fs.FS
	exclude []string
	logger  *slog.Logger
}

// PageOption configures a PageExtractor.
type PageOption func(*PageExtractor)

// WithExcludePatterns skips pages whose root-relative path matches any of
// the given doublestar glob patterns.
func WithExcludePatterns(patterns []string) PageOption {
	return func(e *PageExtractor) {
		e.exclude = append(e.exclude, patterns...)
	}
}

// WithPageLogger sets a custom logger.
func WithPageLogger(logger *slog.Logger) PageOption {
	return func(e *PageExtractor) {
		e.logger = logger
	}
}

// NewPageExtractor creates a PageExtractor reading pages from fsys.
func NewPageExtractor(fsys fs.FS, opts ...PageOption) *PageExtractor {
	e := &PageExtractor{
		fsys:    fsys,
		exclude: make([]string, 0),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract loads the page referenced by d, whose href is relative to
// indexDir, and resolves its metadata. Problems are reported on the
// returned result; Extract never fails the run.
func (e *PageExtractor) Extract(indexDir string, d model.PageDescriptor) model.PageResult {
	result := model.PageResult{Descriptor: d}

	filename, err := normalizeHref(indexDir, d.Filename)
	if err != nil {
		return skip(result, d.Filename, model.SkipReasonInvalidHref, model.KindInvalidHref,
			fmt.Sprintf("href %q does not reference a page inside the catalog root", d.Filename))
	}
	result.Descriptor.Filename = filename

	if pattern, ok := e.excluded(filename); ok {
		return skip(result, filename, model.SkipReasonExcluded, model.KindExcluded,
			fmt.Sprintf("matches exclude pattern %q", pattern))
	}

	data, err := fs.ReadFile(e.fsys, filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return skip(result, filename, model.SkipReasonMissingFile, model.KindMissingFile,
				"referenced page does not exist")
		}
		return skip(result, filename, model.SkipReasonUnreadable, model.KindUnreadableFile,
			fmt.Sprintf("referenced page cannot be read: %v", err))
	}

	h := newPageHandler()
	if err := stream(bytes.NewReader(data), h); err != nil {
		return skip(result, filename, model.SkipReasonUnreadable, model.KindUnreadableFile,
			fmt.Sprintf("referenced page cannot be tokenized: %v", err))
	}

	meta, diags := h.resolve(filename)
	result.Metadata = &meta
	result.Diagnostics = append(result.Diagnostics, diags...)

	e.logger.Debug("page extracted",
		"file", filename,
		"criteria", meta.Criteria.Source.String(),
		"totalCases", meta.TotalCases.Source.String(),
		"expectedViolations", meta.ExpectedViolations.Source.String(),
		"machineReadable", meta.MachineReadable,
	)
	return result
}

func (e *PageExtractor) excluded(filename string) (string, bool) {
	for _, p := range e.exclude {
		if ok, err := doublestar.Match(p, filename); err == nil && ok {
			return p, true
		}
	}
	return "", false
}

func skip(r model.PageResult, filename, reason string, kind model.DiagnosticKind, msg string) model.PageResult {
	r.Skip = &model.Skip{Filename: filename, Reason: reason}
	r.Diagnostics = append(r.Diagnostics, model.Diagnostic{
		Kind:     kind,
		Filename: filename,
		Message:  msg,
	})
	return r
}

// pageHandler records what a single streaming pass observes on a page.
type pageHandler struct {
	title *element
	h1    *element
	metas map[string]string

	caseIDs          int
	inlineCriterion  string
	violationMarkers int
	passMarkers      int
	confidence       bool
}

func newPageHandler() *pageHandler {
	return &pageHandler{metas: make(map[string]string)}
}

func (h *pageHandler) open(el *element, _ int) {
	switch el.name {
	case "title":
		if h.title == nil {
			h.title = el
			el.collect()
		}
	case "h1":
		if h.h1 == nil {
			h.h1 = el
			el.collect()
		}
	case "meta":
		name, _ := el.attr("name")
		name = strings.ToLower(strings.TrimSpace(name))
		if content, ok := el.attr("content"); ok && name != "" {
			if _, seen := h.metas[name]; !seen {
				h.metas[name] = content
			}
		}
	}

	if _, ok := el.attr(AttrTestID); ok {
		h.caseIDs++
	}
	if v, ok := el.attr(AttrCriterion); ok && h.inlineCriterion == "" {
		h.inlineCriterion = strings.TrimSpace(v)
	}
	if v, ok := el.attr(AttrExpected); ok {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case ExpectedViolation:
			h.violationMarkers++
		case ExpectedPass:
			h.passMarkers++
		}
	}
	if _, ok := el.attr(AttrConfidence); ok {
		h.confidence = true
	}
}

func (h *pageHandler) close(*element, int) {}

// resolve applies the field precedence to what the stream observed.
func (h *pageHandler) resolve(filename string) (model.PageMetadata, []model.Diagnostic) {
	var diags []model.Diagnostic
	inconsistent := func(field, format string, args ...any) {
		diags = append(diags, model.Diagnostic{
			Kind:     model.KindInconsistentCounts,
			Filename: filename,
			Field:    field,
			Message:  fmt.Sprintf(format, args...),
		})
	}
	declared := func(name string) (int, bool) {
		raw, ok := h.metas[name]
		if !ok {
			return 0, false
		}
		n, ok := parseCount(raw)
		if !ok {
			diags = append(diags, model.Diagnostic{
				Kind:     model.KindUnresolvedField,
				Filename: filename,
				Field:    name,
				Message:  fmt.Sprintf("annotation %q has non-numeric value %q", name, raw),
			})
		}
		return n, ok
	}

	meta := model.PageMetadata{
		CaseIDCount:         h.caseIDs,
		ViolationMarkers:    h.violationMarkers,
		PassMarkers:         h.passMarkers,
		MachineReadable:     h.caseIDs > 0,
		HasConfidenceScores: h.confidence,
	}

	if t := cleanTitle(h.title.collected()); t != "" {
		meta.Title = model.Declare(t)
	} else if t := cleanTitle(h.h1.collected()); t != "" {
		meta.Title = model.Infer(t)
	}
	if d := cleanText(h.metas[MetaDescription]); d != "" {
		meta.Description = model.Declare(d)
	}

	structured := false

	if raw, ok := h.metas[MetaCriteria]; ok {
		structured = true
		if list := SplitCriteria(raw); len(list) > 0 {
			meta.Criteria = model.Declare(list)
		}
	}
	if !meta.Criteria.Known() && h.inlineCriterion != "" {
		if list := SplitCriteria(h.inlineCriterion); len(list) > 0 {
			meta.Criteria = model.Infer(list)
		}
	}

	if _, ok := h.metas[MetaTotalCases]; ok {
		structured = true
	}
	if n, ok := declared(MetaTotalCases); ok {
		meta.TotalCases = model.Declare(n)
		if h.caseIDs > 0 && n != h.caseIDs {
			inconsistent("totalCases",
				"declared %d test cases but counted %d %s attributes (%d-case discrepancy)",
				n, h.caseIDs, AttrTestID, absDiff(n, h.caseIDs))
		}
	} else if h.caseIDs > 0 {
		meta.TotalCases = model.Infer(h.caseIDs)
	}

	markers := h.violationMarkers+h.passMarkers > 0
	if _, ok := h.metas[MetaExpectedViolations]; ok {
		structured = true
	}
	if n, ok := declared(MetaExpectedViolations); ok {
		meta.ExpectedViolations = model.Declare(n)
		if markers && n != h.violationMarkers {
			inconsistent("expectedViolations",
				"declared %d expected violations but counted %d violation markers (%d-case discrepancy)",
				n, h.violationMarkers, absDiff(n, h.violationMarkers))
		}
		if markers {
			meta.ExpectedPasses = model.Infer(h.passMarkers)
		}
	} else if markers {
		meta.ExpectedViolations = model.Infer(h.violationMarkers)
		meta.ExpectedPasses = model.Infer(h.passMarkers)
	}

	if meta.TotalCases.Known() && meta.ExpectedViolations.Known() {
		total, violations := meta.TotalCases.Value, meta.ExpectedViolations.Value
		if total >= violations {
			derived := total - violations
			if meta.ExpectedPasses.Known() && meta.ExpectedPasses.Value != derived {
				inconsistent("expectedPasses",
					"counted %d pass markers but %d total cases minus %d violations leaves %d",
					meta.ExpectedPasses.Value, total, violations, derived)
			}
			meta.ExpectedPasses = model.Infer(derived)
		} else {
			inconsistent("expectedPasses",
				"%d expected violations exceed %d total cases; expected passes left unresolved",
				violations, total)
			meta.ExpectedPasses = model.Field[int]{}
		}
	}

	meta.HasStructuredMetaTags = structured
	return meta, diags
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
