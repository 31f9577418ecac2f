package reconcile

import (
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"github.com/nao1215/wcagcatalog/internal/extract"
	"github.com/nao1215/wcagcatalog/internal/model"
	"github.com/nao1215/wcagcatalog/internal/wcag"
)

// Entry field names used in diagnostics and provenance records.
const (
	FieldTitle              = "title"
	FieldCriteria           = "wcagCriteria"
	FieldLevel              = "wcagLevel"
	FieldCategory           = "category"
	FieldTestType           = "testType"
	FieldDescription        = "description"
	FieldTotalCases         = "totalCases"
	FieldExpectedViolations = "expectedViolations"
	FieldExpectedPasses     = "expectedPasses"
)

// Reconciler turns extracted pages into catalog entries.
type Reconciler struct {
	baseURL string
	logger  *slog.Logger
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reconciler) {
		r.logger = logger
	}
}

// New creates a Reconciler that builds entry URLs under baseURL.
func New(baseURL string, opts ...Option) *Reconciler {
	r := &Reconciler{
		baseURL: strings.TrimSuffix(baseURL, "/") + "/",
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile fills in result.Entry and result.Sources for an extracted page.
// Skipped pages are returned unchanged.
func (r *Reconciler) Reconcile(result model.PageResult) model.PageResult {
	if !result.OK() || result.Metadata == nil {
		return result
	}

	d := result.Descriptor
	meta := result.Metadata
	filename := d.Filename

	var diags []model.Diagnostic
	var sources []model.FieldSource
	record := func(field string, p model.Provenance) {
		sources = append(sources, model.FieldSource{Field: field, Source: p})
		if p == model.Missing {
			diags = append(diags, model.Diagnostic{
				Kind:     model.KindUnresolvedField,
				Filename: filename,
				Field:    field,
				Message:  "no page annotation, page content or index value resolves this field",
			})
		}
	}

	title := meta.Title.Or(indexText(d.Title))
	record(FieldTitle, title.Source)

	criteria := meta.Criteria.Or(indexCriteria(d.DeclaredCriterionText))
	record(FieldCriteria, criteria.Source)
	list := criteria.Value
	if list == nil {
		list = make([]string, 0)
	}
	for _, id := range list {
		var msg string
		switch _, ok := wcag.Lookup(id); {
		case ok:
			continue
		case !wcag.IsCriterionID(id):
			msg = fmt.Sprintf("%q is not a criterion id", id)
		default:
			msg = fmt.Sprintf("%q is not a WCAG %s success criterion", id, wcag.Version)
		}
		diags = append(diags, model.Diagnostic{
			Kind:     model.KindUnknownCriterion,
			Filename: filename,
			Field:    FieldCriteria,
			Message:  msg,
		})
	}

	category := categoryFor(list, criteria.Source, filename)
	sources = append(sources, model.FieldSource{Field: FieldCategory, Source: category.Source})

	badge, known := wcag.LookupBadge(d.BadgeToken)
	badgeSource := model.Indexed
	switch {
	case d.BadgeToken == "":
		badgeSource = model.Missing
		record(FieldLevel, model.Missing)
	case !known:
		badgeSource = model.Missing
		diags = append(diags, model.Diagnostic{
			Kind:     model.KindUnknownBadge,
			Filename: filename,
			Field:    FieldLevel,
			Message:  fmt.Sprintf("badge %q is not recognized; classified as %s with no level", d.BadgeToken, badge.TestType),
		})
		sources = append(sources, model.FieldSource{Field: FieldLevel, Source: model.Missing})
	default:
		sources = append(sources, model.FieldSource{Field: FieldLevel, Source: model.Indexed})
	}
	sources = append(sources, model.FieldSource{Field: FieldTestType, Source: badgeSource})

	description := indexText(d.Description).Or(meta.Description)
	record(FieldDescription, description.Source)

	record(FieldTotalCases, meta.TotalCases.Source)
	record(FieldExpectedViolations, meta.ExpectedViolations.Source)
	record(FieldExpectedPasses, meta.ExpectedPasses.Source)

	var level *string
	if badge.Level != "" {
		level = &badge.Level
	}

	entry := &model.CatalogEntry{
		ID:                  EntryID(filename),
		Filename:            filename,
		URL:                 r.url(filename),
		Title:               title.Ptr(),
		WCAGCriteria:        list,
		WCAGLevel:           level,
		Category:            category.Value,
		TestType:            badge.TestType,
		LayoutPattern:       wcag.LayoutFor(badge.TestType, list),
		Description:         description.Ptr(),
		TotalCases:          meta.TotalCases.Ptr(),
		ExpectedViolations:  meta.ExpectedViolations.Ptr(),
		ExpectedPasses:      meta.ExpectedPasses.Ptr(),
		MachineReadable:     meta.MachineReadable,
		HasMetadata:         meta.HasStructuredMetaTags,
		HasExpectedResults:  meta.ExpectedViolations.Known() || meta.ExpectedPasses.Known(),
		HasConfidenceScores: meta.HasConfidenceScores,
	}

	result.Entry = entry
	result.Sources = sources
	result.Diagnostics = append(result.Diagnostics, diags...)

	r.logger.Debug("page reconciled",
		"id", entry.ID,
		"category", entry.Category,
		"testType", entry.TestType,
		"layout", entry.LayoutPattern,
	)
	return result
}

// EntryID derives the catalog id from a page filename: the path without its
// extension and without a trailing "-test". Directory separators become
// dashes, so "forms/labels-test.html" has id "forms-labels".
func EntryID(filename string) string {
	id := strings.TrimSuffix(filename, path.Ext(filename))
	id = strings.TrimSuffix(id, "-test")
	return strings.ReplaceAll(id, "/", "-")
}

func (r *Reconciler) url(filename string) string {
	return r.baseURL + strings.TrimPrefix((&url.URL{Path: filename}).EscapedPath(), "/")
}

func indexText(s string) model.Field[string] {
	if s == "" {
		return model.Field[string]{}
	}
	return model.Index(s)
}

// indexCriteria splits the index criterion line and drops placeholder labels.
func indexCriteria(text string) model.Field[[]string] {
	list := make([]string, 0)
	for _, tok := range extract.SplitCriteria(text) {
		if !wcag.IsPlaceholder(tok) {
			list = append(list, tok)
		}
	}
	if len(list) == 0 {
		return model.Field[[]string]{}
	}
	return model.Index(list)
}

// categoryFor maps the first criterion through the category table. Filename
// keywords are consulted only when no criteria are known; known but
// unmapped criteria fall to the catch-all category.
func categoryFor(criteria []string, p model.Provenance, filename string) model.Field[string] {
	if len(criteria) == 0 {
		return model.Infer(wcag.CategoryForFilename(filename))
	}
	if c, ok := wcag.CategoryFor(criteria[0]); ok {
		return model.Field[string]{Value: c, Source: p}
	}
	return model.Field[string]{Value: wcag.CategoryGeneral, Source: p}
}
