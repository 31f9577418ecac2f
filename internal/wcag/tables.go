package wcag

import (
	"regexp"
	"strings"
)

// Test types.
const (
	TestTypeBasic         = "basic"
	TestTypeComplex       = "complex"
	TestTypeMultiCriteria = "multi-criteria"
	TestTypeLayout        = "layout"
)

// Layout patterns.
const (
	LayoutIndependentGrid = "independent-grid"
	LayoutSideBySide      = "side-by-side"
	LayoutSequentialFlow  = "sequential-flow"
	LayoutGroupedSections = "grouped-sections"
	LayoutFullPage        = "full-page"
)

// CategoryGeneral is the catch-all category.
const CategoryGeneral = "general"

// Badge is the classification attached to a badge token.
// An empty Level means the badge carries no conformance level.
type Badge struct {
	Level    string
	TestType string
}

var badges = map[string]Badge{
	"a":        {Level: "A", TestType: TestTypeBasic},
	"aa":       {Level: "AA", TestType: TestTypeBasic},
	"aaa":      {Level: "AAA", TestType: TestTypeBasic},
	"complex":  {TestType: TestTypeComplex},
	"multi":    {TestType: TestTypeMultiCriteria},
	"multiple": {TestType: TestTypeMultiCriteria},
	"layout":   {TestType: TestTypeLayout},
}

// LookupBadge classifies a badge token. Unknown tokens return
// {Level: "", TestType: "basic"} and ok == false.
func LookupBadge(token string) (Badge, bool) {
	b, ok := badges[strings.ToLower(strings.TrimSpace(token))]
	if !ok {
		return Badge{TestType: TestTypeBasic}, false
	}
	return b, true
}

var categories = map[string]string{
	"1.1.1":  "images",
	"1.2.1":  "media",
	"1.2.2":  "media",
	"1.2.3":  "media",
	"1.2.4":  "media",
	"1.2.5":  "media",
	"1.3.1":  "structure",
	"1.3.2":  "structure",
	"1.3.3":  "sensory",
	"1.3.4":  "responsive",
	"1.3.5":  "forms",
	"1.4.1":  "color-contrast",
	"1.4.2":  "media",
	"1.4.3":  "color-contrast",
	"1.4.4":  "text",
	"1.4.5":  "images",
	"1.4.6":  "color-contrast",
	"1.4.10": "responsive",
	"1.4.11": "color-contrast",
	"1.4.12": "text",
	"1.4.13": "interactive",
	"2.1.1":  "keyboard",
	"2.1.2":  "keyboard",
	"2.1.4":  "keyboard",
	"2.2.1":  "timing",
	"2.2.2":  "timing",
	"2.3.1":  "motion",
	"2.3.3":  "motion",
	"2.4.1":  "navigation",
	"2.4.2":  "structure",
	"2.4.3":  "focus",
	"2.4.4":  "links",
	"2.4.5":  "navigation",
	"2.4.6":  "structure",
	"2.4.7":  "focus",
	"2.4.9":  "links",
	"2.4.11": "focus",
	"2.4.13": "focus",
	"2.5.1":  "pointer",
	"2.5.2":  "pointer",
	"2.5.3":  "forms",
	"2.5.7":  "pointer",
	"2.5.8":  "pointer",
	"3.1.1":  "language",
	"3.1.2":  "language",
	"3.2.1":  "predictable",
	"3.2.2":  "predictable",
	"3.2.3":  "navigation",
	"3.2.4":  "predictable",
	"3.2.6":  "predictable",
	"3.3.1":  "forms",
	"3.3.2":  "forms",
	"3.3.3":  "forms",
	"3.3.4":  "forms",
	"3.3.7":  "forms",
	"3.3.8":  "forms",
	"4.1.2":  "aria",
	"4.1.3":  "aria",
}

// CategoryFor returns the category mapped to a criterion id.
func CategoryFor(criterion string) (string, bool) {
	c, ok := categories[criterion]
	return c, ok
}

// filenameKeywords is matched in order; the first substring found wins.
var filenameKeywords = []struct {
	keyword  string
	category string
}{
	{"contrast", "color-contrast"},
	{"color", "color-contrast"},
	{"focus", "focus"},
	{"keyboard", "keyboard"},
	{"form", "forms"},
	{"label", "forms"},
	{"aria", "aria"},
	{"image", "images"},
	{"img", "images"},
	{"heading", "structure"},
	{"landmark", "structure"},
	{"table", "structure"},
	{"link", "links"},
	{"modal", "interactive"},
	{"dialog", "interactive"},
	{"video", "media"},
	{"audio", "media"},
}

// CategoryForFilename applies the filename keyword heuristics and falls
// back to CategoryGeneral.
func CategoryForFilename(filename string) string {
	lower := strings.ToLower(filename)
	for _, k := range filenameKeywords {
		if strings.Contains(lower, k.keyword) {
			return k.category
		}
	}
	return CategoryGeneral
}

var layoutOverrides = map[string]string{
	TestTypeComplex:       LayoutSequentialFlow,
	TestTypeMultiCriteria: LayoutGroupedSections,
	TestTypeLayout:        LayoutFullPage,
}

// sideBySide criteria compare a failing and a passing rendition next to
// each other.
var sideBySide = map[string]bool{
	"1.4.1":  true,
	"1.4.3":  true,
	"1.4.6":  true,
	"1.4.11": true,
	"2.4.7":  true,
	"2.4.11": true,
	"2.4.13": true,
}

// LayoutFor selects the layout pattern for a test type and criteria list.
func LayoutFor(testType string, criteria []string) string {
	if layout, ok := layoutOverrides[testType]; ok {
		return layout
	}
	for _, c := range criteria {
		if sideBySide[c] {
			return LayoutSideBySide
		}
	}
	return LayoutIndependentGrid
}

// placeholders are index criterion labels that are not criterion ids.
// Compared case-insensitively after trimming.
var placeholders = []string{
	"Multiple",
	"Multiple Criteria",
	"Various",
	"Complex Interaction",
	"Complex Interactions",
	"Complex interaction patterns",
	"N/A",
}

// IsPlaceholder reports whether token is one of the known placeholder labels.
func IsPlaceholder(token string) bool {
	t := strings.TrimSpace(token)
	for _, p := range placeholders {
		if strings.EqualFold(t, p) {
			return true
		}
	}
	return false
}

var criterionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// IsCriterionID reports whether s is shaped like a dotted criterion id.
func IsCriterionID(s string) bool {
	return criterionPattern.MatchString(s)
}
