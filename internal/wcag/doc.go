// Package wcag holds the fixed lookup tables used to classify test pages:
// the WCAG 2.2 success criterion registry, the badge table, the
// criterion-to-category table and the layout pattern tables.
//
// All tables are package-level values built once at program start and are
// never modified afterwards. Accessors return copies or plain values so
// callers cannot mutate shared state.
package wcag
