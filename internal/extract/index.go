package extract

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/nao1215/wcagcatalog/internal/model"
)

// DefaultItemClass marks listing items on the index.
const DefaultItemClass = "test-card"

// criterionClasses, descriptionClass and badgeClass name the parts of a listing item.
var criterionClasses = []string{"wcag-criteria", "criteria", "wcag"}

const (
	descriptionClass = "description"
	badgeClass       = "badge"
	badgeClassPrefix = "badge-"
)

// templateClasses mark header or template rows that look like listing items.
var templateClasses = []string{"template", "header", "test-card-header"}

// IndexScanner extracts page descriptors from the master index.
type IndexScanner struct {
	itemClass string
	logger    *slog.Logger
}

// IndexOption configures an IndexScanner.
type IndexOption func(*IndexScanner)

// WithItemClass overrides the class that marks listing items.
func WithItemClass(class string) IndexOption {
	return func(s *IndexScanner) {
		if class != "" {
			s.itemClass = class
		}
	}
}

// WithIndexLogger sets a custom logger.
func WithIndexLogger(logger *slog.Logger) IndexOption {
	return func(s *IndexScanner) {
		s.logger = logger
	}
}

// NewIndexScanner creates an IndexScanner.
func NewIndexScanner(opts ...IndexOption) *IndexScanner {
	s := &IndexScanner{
		itemClass: DefaultItemClass,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IndexResult is the outcome of scanning the index.
type IndexResult struct {
	// Descriptors are the accepted listing items in document order.
	Descriptors []model.PageDescriptor

	// Diagnostics report listing items that were skipped.
	Diagnostics []model.Diagnostic

	// TemplateRows counts header/template rows that were ignored.
	TemplateRows int
}

// Scan reads the index document and returns its descriptors.
// It fails with ErrIndexUnreadable if the stream cannot be read and with
// ErrNoListingItems if no listing item yields a descriptor.
func (s *IndexScanner) Scan(r io.Reader) (*IndexResult, error) {
	h := &indexHandler{
		itemClass: s.itemClass,
		result: &IndexResult{
			Descriptors: make([]model.PageDescriptor, 0),
			Diagnostics: make([]model.Diagnostic, 0),
		},
	}

	if err := stream(r, h); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIndexUnreadable, err)
	}

	s.logger.Debug("index scanned",
		"items", len(h.result.Descriptors),
		"skipped", len(h.result.Diagnostics),
		"templateRows", h.result.TemplateRows,
	)

	if len(h.result.Descriptors) == 0 {
		return nil, ErrNoListingItems
	}
	return h.result, nil
}

// listingBlock accumulates the parts of one listing item.
type listingBlock struct {
	root        *element
	number      int
	template    bool
	href        string
	link        *element
	criterion   *element
	description *element
	paragraph   *element
	badge       *element
	badgeToken  string
}

type indexHandler struct {
	itemClass string
	current   *listingBlock
	blocks    int
	result    *IndexResult
}

func (h *indexHandler) open(el *element, _ int) {
	if h.current == nil {
		if !el.hasClass(h.itemClass) {
			return
		}
		h.blocks++
		h.current = &listingBlock{
			root:     el,
			number:   h.blocks,
			template: isTemplateRow(el),
		}
	}
	h.current.visit(el)
}

func (h *indexHandler) close(el *element, _ int) {
	if h.current == nil || h.current.root != el {
		return
	}
	b := h.current
	h.current = nil

	if b.template || strings.Contains(b.href, "{{") || strings.Contains(b.href, "${") {
		h.result.TemplateRows++
		return
	}

	href := strings.TrimSpace(b.href)
	label := b.link.collected()
	if href == "" || label == "" {
		h.result.Diagnostics = append(h.result.Diagnostics, model.Diagnostic{
			Kind:    model.KindSkippedBlock,
			Message: fmt.Sprintf("listing item %d has no link href and label", b.number),
		})
		return
	}

	description := b.description.collected()
	if description == "" {
		description = b.paragraph.collected()
	}
	badge := b.badgeToken
	if badge == "" {
		badge = strings.ToLower(b.badge.collected())
	}

	h.result.Descriptors = append(h.result.Descriptors, model.PageDescriptor{
		Position:              len(h.result.Descriptors),
		Filename:              href,
		Title:                 label,
		DeclaredCriterionText: cleanCriterionText(b.criterion.collected()),
		Description:           description,
		BadgeToken:            badge,
	})
}

// visit assigns el to the first unfilled part it matches.
func (b *listingBlock) visit(el *element) {
	if el.name == "a" && b.link == nil {
		if href, ok := el.attr("href"); ok {
			b.href = href
			b.link = el
			el.collect()
		}
	}
	if b.criterion == nil && el.hasAnyClass(criterionClasses...) {
		b.criterion = el
		el.collect()
	}
	if b.description == nil && el.hasClass(descriptionClass) {
		b.description = el
		el.collect()
	}
	if b.paragraph == nil && el.name == "p" && len(el.classes) == 0 {
		b.paragraph = el
		el.collect()
	}
	if b.badge == nil && el.hasClass(badgeClass) {
		b.badge = el
		for _, c := range el.classes {
			if strings.HasPrefix(c, badgeClassPrefix) {
				b.badgeToken = strings.ToLower(strings.TrimPrefix(c, badgeClassPrefix))
				break
			}
		}
		if b.badgeToken == "" {
			el.collect()
		}
	}
}

func isTemplateRow(el *element) bool {
	if _, ok := el.attr("data-template"); ok {
		return true
	}
	return el.hasAnyClass(templateClasses...)
}
