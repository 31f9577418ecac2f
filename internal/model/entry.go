package model

// CatalogEntry is the reconciled description of one test page.
// Pointer fields are nullable and serialize as JSON null when unknown.
type CatalogEntry struct {
	ID                  string   `json:"id"`
	Filename            string   `json:"filename"`
	URL                 string   `json:"url"`
	Title               *string  `json:"title"`
	WCAGCriteria        []string `json:"wcagCriteria"`
	WCAGLevel           *string  `json:"wcagLevel"`
	Category            string   `json:"category"`
	TestType            string   `json:"testType"`
	LayoutPattern       string   `json:"layoutPattern"`
	Description         *string  `json:"description"`
	TotalCases          *int     `json:"totalCases"`
	ExpectedViolations  *int     `json:"expectedViolations"`
	ExpectedPasses      *int     `json:"expectedPasses"`
	MachineReadable     bool     `json:"machineReadable"`
	HasMetadata         bool     `json:"hasMetadata"`
	HasExpectedResults  bool     `json:"hasExpectedResults"`
	HasConfidenceScores bool     `json:"hasConfidenceScores"`
}

// CaseCount returns TotalCases, treating null as zero.
func (e CatalogEntry) CaseCount() int {
	if e.TotalCases == nil {
		return 0
	}
	return *e.TotalCases
}

// FieldSource pairs an entry field name with the tier that resolved it.
type FieldSource struct {
	Field  string
	Source Provenance
}
