package model

// PageDescriptor is one listing item scanned from the master index.
// Descriptors are produced in document order, and that order becomes the
// canonical order of the catalog.
type PageDescriptor struct {
	// Position is the zero-based index of the listing item among the
	// accepted items of the index document.
	Position int

	// Filename is the href of the item's link, relative to the catalog root.
	Filename string

	// Title is the text label of the item's link.
	Title string

	// DeclaredCriterionText is the raw criterion line, e.g. "2.4.7" or
	// "1.4.3, 1.4.11". It may also hold a placeholder such as "Multiple".
	DeclaredCriterionText string

	// Description is the item's description line.
	Description string

	// BadgeToken is the lower-cased badge classification, e.g. "aa" or "complex".
	BadgeToken string
}
