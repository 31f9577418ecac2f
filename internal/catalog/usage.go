package catalog

import (
	"github.com/nao1215/wcagcatalog/internal/extract"
	"github.com/nao1215/wcagcatalog/internal/model"
)

// DefaultUsage documents the annotations consumers can rely on.
func DefaultUsage() model.Usage {
	return model.Usage{
		Description: "Catalog of accessibility test pages. Each page holds test cases with known expected results " +
			"so an automated scanner can be validated against them.",
		DataAttributes: []model.UsageField{
			{Name: extract.AttrTestID, Description: "Unique identifier of a single test case"},
			{Name: extract.AttrCriterion, Description: "WCAG success criterion the test case targets"},
			{Name: extract.AttrExpected, Description: `Expected scanner result: "violation" or "pass"`},
			{Name: extract.AttrConfidence, Description: "Confidence that the expected result is correct, from 0 to 1"},
		},
		MetaTags: []model.UsageField{
			{Name: extract.MetaCriteria, Description: "Comma-separated WCAG success criteria covered by the page"},
			{Name: extract.MetaTotalCases, Description: "Number of test cases on the page"},
			{Name: extract.MetaExpectedViolations, Description: "Number of test cases expected to be reported as violations"},
		},
		Workflow: []string{
			"Load test-catalog.json and select pages by category, wcagCriteria or wcagLevel",
			"Open each page by url and run the scanner under test",
			"Match reported issues to elements by data-test-id",
			"Compare results with data-expected and the page's expectedViolations and expectedPasses",
		},
	}
}
