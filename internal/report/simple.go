package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/nao1215/wcagcatalog/internal/model"
)

// SimpleWriter outputs a human-readable run summary for the terminal.
type SimpleWriter struct {
	baseWriter

	// verbose lists every diagnostic instead of counts per kind.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose lists every diagnostic individually.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the summary as plain text.
func (w *SimpleWriter) Write(summary *model.RunSummary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeSkipped(&sb, summary)
	w.writeDiagnostics(&sb, summary)

	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, s *model.RunSummary) {
	sb.WriteString(strings.Repeat("=", 60))
	sb.WriteString("\n")
	sb.WriteString("WCAG TEST CATALOG\n")
	sb.WriteString(strings.Repeat("=", 60))
	sb.WriteString("\n")

	output := s.OutputPath
	if output == "" {
		output = "(not written)"
	}
	fmt.Fprintf(sb, "Output:          %s\n", output)
	fmt.Fprintf(sb, "Generated:       %s\n", s.Generated)
	fmt.Fprintf(sb, "Pages listed:    %d\n", s.PagesListed)
	fmt.Fprintf(sb, "Pages cataloged: %d\n", s.PagesProcessed)
	fmt.Fprintf(sb, "Pages skipped:   %d\n", len(s.Skipped))
	fmt.Fprintf(sb, "Test cases:      %d\n", s.TotalTestCases)
	fmt.Fprintf(sb, "WCAG criteria:   %d\n", s.TotalWCAGCriteria)
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeSkipped(sb *strings.Builder, s *model.RunSummary) {
	if !s.HasSkips() {
		return
	}
	sb.WriteString("SKIPPED PAGES\n")
	for _, sk := range s.Skipped {
		fmt.Fprintf(sb, "  - %s (%s)\n", sk.Filename, sk.Reason)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeDiagnostics(sb *strings.Builder, s *model.RunSummary) {
	if len(s.Diagnostics) == 0 {
		return
	}
	fmt.Fprintf(sb, "DIAGNOSTICS (%d)\n", len(s.Diagnostics))

	if w.verbose {
		for _, d := range s.Diagnostics {
			fmt.Fprintf(sb, "  %s\n", d)
		}
		sb.WriteString("\n")
		return
	}

	counts := make(map[model.DiagnosticKind]int)
	for _, d := range s.Diagnostics {
		counts[d.Kind]++
	}
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(sb, "  %-20s %d\n", k, counts[model.DiagnosticKind(k)])
	}
	sb.WriteString("  (run with --verbose to list each diagnostic)\n\n")
}
