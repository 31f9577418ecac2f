package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/wcagcatalog/internal/model"
)

// MarkdownWriter outputs the run summary as a Markdown document.
type MarkdownWriter struct {
	baseWriter
	title cases.Caser
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		title:      cases.Title(language.English),
	}
}

// Write outputs the summary in Markdown format.
func (w *MarkdownWriter) Write(summary *model.RunSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeCategories(md, summary)
	w.writeSkipped(md, summary)
	w.writeDiagnostics(md, summary)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, s *model.RunSummary) {
	md.H1("WCAG Test Catalog Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Output", "`" + s.OutputPath + "`"},
			{"Generated", s.Generated},
			{"Pages Listed", strconv.Itoa(s.PagesListed)},
			{"Pages Cataloged", strconv.Itoa(s.PagesProcessed)},
			{"Pages Skipped", strconv.Itoa(len(s.Skipped))},
			{"Test Cases", strconv.Itoa(s.TotalTestCases)},
			{"WCAG Criteria", strconv.Itoa(s.TotalWCAGCriteria)},
		},
	})
	md.PlainText("")

	switch {
	case s.HasSkips():
		md.Warningf("%d listed page(s) were left out of the catalog.", len(s.Skipped))
	case len(s.Diagnostics) > 0:
		md.Note("All listed pages were cataloged; see diagnostics below.")
	default:
		md.Tip("All listed pages were cataloged without diagnostics.")
	}
	md.PlainText("")
}

// writeCategories writes the category table and a mermaid pie chart.
func (w *MarkdownWriter) writeCategories(md *markdown.Markdown, s *model.RunSummary) {
	md.H2("Categories")
	md.PlainText("")

	if len(s.Categories) == 0 {
		md.PlainText("No pages cataloged.")
		md.PlainText("")
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Test Pages by Category"),
		piechart.WithShowData(true),
	)
	rows := make([][]string, 0, len(s.Categories))
	for _, c := range s.Categories {
		label := w.categoryLabel(c.Category)
		rows = append(rows, []string{label, strconv.Itoa(c.Count)})
		chart.LabelAndIntValue(label, uint64(c.Count))
	}

	md.Table(markdown.TableSet{
		Header: []string{"Category", "Pages"},
		Rows:   rows,
	})
	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// categoryLabel turns "color-contrast" into "Color Contrast".
func (w *MarkdownWriter) categoryLabel(category string) string {
	b := []byte(category)
	for i, c := range b {
		if c == '-' || c == '_' {
			b[i] = ' '
		}
	}
	return w.title.String(string(b))
}

func (w *MarkdownWriter) writeSkipped(md *markdown.Markdown, s *model.RunSummary) {
	if !s.HasSkips() {
		return
	}
	md.H2("Skipped Pages")
	md.PlainText("")

	rows := make([][]string, 0, len(s.Skipped))
	for _, sk := range s.Skipped {
		rows = append(rows, []string{"`" + sk.Filename + "`", sk.Reason})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Page", "Reason"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeDiagnostics(md *markdown.Markdown, s *model.RunSummary) {
	if len(s.Diagnostics) == 0 {
		return
	}
	md.H2("Diagnostics")
	md.PlainText("")

	rows := make([][]string, 0, len(s.Diagnostics))
	for _, d := range s.Diagnostics {
		rows = append(rows, []string{
			string(d.Kind),
			orDash(d.Filename),
			orDash(d.Field),
			d.Message,
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Kind", "Page", "Field", "Message"},
		Rows:   rows,
	})
	md.PlainText("")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
