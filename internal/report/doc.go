// Package report writes generation results.
//
// CatalogWriter commits the catalog JSON atomically: the document is written
// to a temporary file in the destination directory, synced and renamed over
// the target, so readers see either the previous catalog or the new one.
//
// Run summaries go through the Writer interface:
//   - SimpleWriter: plain text for the terminal
//   - JSONWriter: the summary as JSON for tooling
//   - MarkdownWriter: a Markdown page with a category chart
package report
