package model

// Catalog is the aggregate artifact written at the end of a run.
// Field order here is the field order of the JSON output.
type Catalog struct {
	Metadata              CatalogMetadata      `json:"metadata"`
	TestPages             []CatalogEntry       `json:"testPages"`
	WCAGCriteriaReference []CriterionReference `json:"wcagCriteriaReference"`
	Usage                 Usage                `json:"usage"`
}

// CatalogMetadata carries catalog-wide totals.
// Generated is the only value that differs between runs on unchanged input.
type CatalogMetadata struct {
	Version                string `json:"version"`
	Generated              string `json:"generated"`
	WCAGVersion            string `json:"wcagVersion"`
	BaseURL                string `json:"baseUrl"`
	TotalPages             int    `json:"totalPages"`
	TotalTestCases         int    `json:"totalTestCases"`
	TotalWCAGCriteria      int    `json:"totalWCAGCriteria"`
	MachineReadablePages   int    `json:"machineReadablePages"`
	PagesWithMetadata      int    `json:"pagesWithMetadata"`
	PagesMissingCaseCounts int    `json:"pagesMissingCaseCounts"`
}

// CriterionReference cross-references one registry criterion with the
// pages that test it.
type CriterionReference struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Level     string   `json:"level"`
	Principle string   `json:"principle"`
	Guideline string   `json:"guideline"`
	TestPages []string `json:"testPages"`
}

// Usage documents how consumers should read the catalog and the test pages.
type Usage struct {
	Description    string       `json:"description"`
	DataAttributes []UsageField `json:"dataAttributes"`
	MetaTags       []UsageField `json:"metaTags"`
	Workflow       []string     `json:"workflow"`
}

// UsageField documents one attribute or meta tag.
type UsageField struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
