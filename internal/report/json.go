package report

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/nao1215/wcagcatalog/internal/model"
)

// JSONWriter outputs run summaries as JSON.
type JSONWriter struct {
	baseWriter

	// indent enables two-space indented output.
	indent bool
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables two-space indented output.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the summary as a single JSON document.
func (w *JSONWriter) Write(summary *model.RunSummary) (int, error) {
	indent := ""
	if w.indent {
		indent = "  "
	}
	data, err := encodeJSON(summary, indent)
	if err != nil {
		return 0, err
	}
	return w.output.Write(data)
}

// EncodeCatalog renders the catalog in its canonical form: two-space
// indentation, no HTML escaping, and a trailing newline. Equal catalogs
// always encode to identical bytes.
func EncodeCatalog(c *model.Catalog) ([]byte, error) {
	return encodeJSON(c, "  ")
}

func encodeJSON(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	// Encode appends the trailing newline.
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
