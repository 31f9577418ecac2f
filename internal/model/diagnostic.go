package model

import "fmt"

// DiagnosticKind classifies a recoverable, per-entry problem.
type DiagnosticKind string

// Diagnostic kinds.
const (
	KindSkippedBlock       DiagnosticKind = "skipped-block"
	KindMissingFile        DiagnosticKind = "missing-file"
	KindUnreadableFile     DiagnosticKind = "unreadable-file"
	KindExcluded           DiagnosticKind = "excluded"
	KindInvalidHref        DiagnosticKind = "invalid-href"
	KindUnresolvedField    DiagnosticKind = "unresolved-field"
	KindInconsistentCounts DiagnosticKind = "inconsistent-counts"
	KindUnknownBadge       DiagnosticKind = "unknown-badge"
	KindUnknownCriterion   DiagnosticKind = "unknown-criterion"
	KindDuplicateID        DiagnosticKind = "duplicate-id"
	KindCoverageGap        DiagnosticKind = "coverage-gap"
)

// Diagnostic describes a recoverable problem found while generating the catalog.
// Diagnostics never abort a run.
type Diagnostic struct {
	Kind     DiagnosticKind `json:"kind"`
	Filename string         `json:"filename,omitempty"`
	Field    string         `json:"field,omitempty"`
	Message  string         `json:"message"`
}

// String formats the diagnostic for terminal output.
func (d Diagnostic) String() string {
	switch {
	case d.Filename != "" && d.Field != "":
		return fmt.Sprintf("[%s] %s (%s): %s", d.Kind, d.Filename, d.Field, d.Message)
	case d.Filename != "":
		return fmt.Sprintf("[%s] %s: %s", d.Kind, d.Filename, d.Message)
	default:
		return fmt.Sprintf("[%s] %s", d.Kind, d.Message)
	}
}

// Skip reasons reported in the run summary.
const (
	SkipReasonMissingFile = "missing file"
	SkipReasonExcluded    = "excluded"
	SkipReasonInvalidHref = "invalid href"
	SkipReasonUnreadable  = "unreadable file"
	SkipReasonDuplicateID = "duplicate id"
)

// Skip records a page that was left out of the catalog.
type Skip struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// PageResult is the outcome of processing one descriptor: either an entry
// or a skip, plus any diagnostics raised along the way.
type PageResult struct {
	Descriptor  PageDescriptor
	Metadata    *PageMetadata
	Entry       *CatalogEntry
	Sources     []FieldSource
	Skip        *Skip
	Diagnostics []Diagnostic
}

// OK reports whether the page produced (or will produce) a catalog entry.
func (r PageResult) OK() bool {
	return r.Skip == nil
}
