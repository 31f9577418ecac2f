package catalog

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/nao1215/wcagcatalog/internal/model"
	"github.com/nao1215/wcagcatalog/internal/wcag"
)

// DefaultVersion is the catalog format version.
const DefaultVersion = "1.0.0"

// Aggregator builds a Catalog from per-page results.
type Aggregator struct {
	version string
	baseURL string
	logger  *slog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithVersion overrides the catalog format version.
func WithVersion(version string) Option {
	return func(a *Aggregator) {
		a.version = version
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

// New creates an Aggregator recording baseURL in the catalog metadata.
func New(baseURL string, opts ...Option) *Aggregator {
	a := &Aggregator{
		version: DefaultVersion,
		baseURL: baseURL,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Result is the outcome of aggregation.
type Result struct {
	Catalog     *model.Catalog
	Skipped     []model.Skip
	Diagnostics []model.Diagnostic
}

// Aggregate partitions pages into entries and skips and assembles the
// catalog. generated is the YYYY-MM-DD generation date.
func (a *Aggregator) Aggregate(pages []model.PageResult, generated string) Result {
	res := Result{
		Skipped:     make([]model.Skip, 0),
		Diagnostics: make([]model.Diagnostic, 0),
	}

	entries := make([]model.CatalogEntry, 0, len(pages))
	seen := make(map[string]string)
	for _, p := range pages {
		if !p.OK() || p.Entry == nil {
			continue
		}
		e := *p.Entry
		if first, dup := seen[e.ID]; dup {
			res.Skipped = append(res.Skipped, model.Skip{Filename: e.Filename, Reason: model.SkipReasonDuplicateID})
			res.Diagnostics = append(res.Diagnostics, model.Diagnostic{
				Kind:     model.KindDuplicateID,
				Filename: e.Filename,
				Message:  fmt.Sprintf("id %q already used by %s", e.ID, first),
			})
			continue
		}
		seen[e.ID] = e.Filename
		entries = append(entries, e)
	}

	meta := model.CatalogMetadata{
		Version:     a.version,
		Generated:   generated,
		WCAGVersion: wcag.Version,
		BaseURL:     a.baseURL,
		TotalPages:  len(entries),
	}

	pagesByCriterion := make(map[string][]string)
	for _, e := range entries {
		if e.TotalCases == nil {
			meta.PagesMissingCaseCounts++
			res.Diagnostics = append(res.Diagnostics, model.Diagnostic{
				Kind:     model.KindCoverageGap,
				Filename: e.Filename,
				Field:    "totalCases",
				Message:  "case count unknown; counted as 0 in totalTestCases",
			})
		}
		meta.TotalTestCases += e.CaseCount()
		if e.MachineReadable {
			meta.MachineReadablePages++
		}
		if e.HasMetadata {
			meta.PagesWithMetadata++
		}
		for _, id := range e.WCAGCriteria {
			pagesByCriterion[id] = append(pagesByCriterion[id], e.Filename)
		}
	}
	meta.TotalWCAGCriteria = len(pagesByCriterion)

	res.Catalog = &model.Catalog{
		Metadata:              meta,
		TestPages:             entries,
		WCAGCriteriaReference: criterionReference(pagesByCriterion),
		Usage:                 DefaultUsage(),
	}

	a.logger.Debug("catalog aggregated",
		"pages", meta.TotalPages,
		"testCases", meta.TotalTestCases,
		"criteria", meta.TotalWCAGCriteria,
		"duplicates", len(res.Skipped),
	)
	return res
}

// criterionReference lists registry criteria present in the catalog, in
// numeric id order. Ids outside the registry are left out.
func criterionReference(pagesByCriterion map[string][]string) []model.CriterionReference {
	ids := make([]string, 0, len(pagesByCriterion))
	for id := range pagesByCriterion {
		if _, ok := wcag.Lookup(id); ok {
			ids = append(ids, id)
		}
	}
	slices.SortFunc(ids, wcag.CompareIDs)

	refs := make([]model.CriterionReference, 0, len(ids))
	for _, id := range ids {
		c, _ := wcag.Lookup(id)
		refs = append(refs, model.CriterionReference{
			ID:        c.ID,
			Name:      c.Name,
			Level:     c.Level,
			Principle: c.Principle,
			Guideline: c.Guideline,
			TestPages: slices.Compact(pagesByCriterion[id]),
		})
	}
	return refs
}
