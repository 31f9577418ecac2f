package model

import "time"

// Run is the state passed from step to step during one generation.
// Nothing in a Run outlives the process.
type Run struct {
	// Root is the directory holding the index and the test pages.
	Root string

	// IndexFile is the index filename relative to Root.
	IndexFile string

	// StartedAt is the generation timestamp; only its date reaches the output.
	StartedAt time.Time

	Descriptors []PageDescriptor
	Pages       []PageResult
	Catalog     *Catalog

	// Diagnostics collects run-level problems not tied to a PageResult,
	// such as skipped index blocks and aggregation gaps.
	Diagnostics []Diagnostic

	// Skipped lists pages dropped after extraction, e.g. duplicate ids.
	Skipped []Skip

	// OutputPath is set once the catalog has been committed to disk.
	OutputPath string

	// PerformedSteps lists completed pipeline step names in order.
	PerformedSteps []string

	// FailedStep names the step that returned a fatal error, if any.
	FailedStep string
}

// NewRun creates an empty Run for the given root and index file.
func NewRun(root, indexFile string, startedAt time.Time) *Run {
	return &Run{
		Root:           root,
		IndexFile:      indexFile,
		StartedAt:      startedAt,
		Descriptors:    make([]PageDescriptor, 0),
		Pages:          make([]PageResult, 0),
		Diagnostics:    make([]Diagnostic, 0),
		Skipped:        make([]Skip, 0),
		PerformedSteps: make([]string, 0),
	}
}

// AllDiagnostics returns run-level diagnostics followed by per-page ones in
// index order.
func (r *Run) AllDiagnostics() []Diagnostic {
	all := make([]Diagnostic, 0, len(r.Diagnostics))
	all = append(all, r.Diagnostics...)
	for _, p := range r.Pages {
		all = append(all, p.Diagnostics...)
	}
	return all
}

// AllSkips returns every page left out of the catalog, in index order,
// followed by pages dropped during aggregation.
func (r *Run) AllSkips() []Skip {
	skips := make([]Skip, 0)
	for _, p := range r.Pages {
		if p.Skip != nil {
			skips = append(skips, *p.Skip)
		}
	}
	return append(skips, r.Skipped...)
}

// GenerationDate formats StartedAt the way it appears in the catalog.
func (r *Run) GenerationDate() string {
	return r.StartedAt.UTC().Format(time.DateOnly)
}
