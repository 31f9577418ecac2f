package model

// RunSummary is the human-facing account of one generation.
type RunSummary struct {
	Generated         string       `json:"generated"`
	OutputPath        string       `json:"outputPath"`
	PagesListed       int          `json:"pagesListed"`
	PagesProcessed    int          `json:"pagesProcessed"`
	Skipped           []Skip       `json:"skipped"`
	Diagnostics       []Diagnostic `json:"diagnostics"`
	TotalTestCases    int          `json:"totalTestCases"`
	TotalWCAGCriteria int          `json:"totalWCAGCriteria"`

	// Categories counts entries per category in first-seen order.
	Categories []CategoryCount `json:"categories"`
}

// CategoryCount is the number of catalog entries in one category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// NewRunSummary builds a summary from a finished run.
// A run whose catalog was never built yields zero totals.
func NewRunSummary(run *Run) *RunSummary {
	s := &RunSummary{
		Generated:   run.GenerationDate(),
		OutputPath:  run.OutputPath,
		PagesListed: len(run.Descriptors),
		Skipped:     run.AllSkips(),
		Diagnostics: run.AllDiagnostics(),
		Categories:  make([]CategoryCount, 0),
	}
	if run.Catalog == nil {
		return s
	}

	s.PagesProcessed = len(run.Catalog.TestPages)
	s.TotalTestCases = run.Catalog.Metadata.TotalTestCases
	s.TotalWCAGCriteria = run.Catalog.Metadata.TotalWCAGCriteria

	index := make(map[string]int)
	for _, e := range run.Catalog.TestPages {
		i, ok := index[e.Category]
		if !ok {
			i = len(s.Categories)
			index[e.Category] = i
			s.Categories = append(s.Categories, CategoryCount{Category: e.Category})
		}
		s.Categories[i].Count++
	}
	return s
}

// HasSkips reports whether any page was left out.
func (s *RunSummary) HasSkips() bool {
	return len(s.Skipped) > 0
}

// SkipCounts groups skipped pages by reason, keyed by reason.
func (s *RunSummary) SkipCounts() map[string]int {
	counts := make(map[string]int)
	for _, sk := range s.Skipped {
		counts[sk.Reason]++
	}
	return counts
}
