package model

// PageMetadata holds everything extracted from one test page body.
// Each annotated field carries its provenance; unresolved fields are Missing
// and are never guessed.
type PageMetadata struct {
	Title       Field[string]
	Description Field[string]
	Criteria    Field[[]string]

	TotalCases         Field[int]
	ExpectedViolations Field[int]
	ExpectedPasses     Field[int]

	// HasStructuredMetaTags is true when any of the criteria, total cases or
	// expected violations annotations was present.
	HasStructuredMetaTags bool

	// MachineReadable is true when at least one per-case identifier
	// attribute appears in the document.
	MachineReadable bool

	// HasConfidenceScores is true when any test case carries a
	// confidence attribute.
	HasConfidenceScores bool

	// Raw counts observed while streaming the page.
	CaseIDCount      int
	ViolationMarkers int
	PassMarkers      int
}
