package log

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
)

// RelativePathHandler wraps an slog.Handler and rewrites absolute paths
// under root to paths relative to root. Both string attributes and error
// values are rewritten; the root itself becomes ".".
type RelativePathHandler struct {
	handler slog.Handler

	// root is the cleaned absolute root; prefix is root plus a separator.
	root   string
	prefix string
}

// NewRelativePathHandler creates a RelativePathHandler wrapping handler.
// If handler is nil, slog.Default().Handler() is used. An empty or
// unresolvable root disables rewriting.
func NewRelativePathHandler(handler slog.Handler, root string) *RelativePathHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	h := &RelativePathHandler{handler: handler}
	if root == "" {
		return h
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return h
	}
	h.root = abs
	h.prefix = strings.TrimSuffix(abs, string(filepath.Separator)) + string(filepath.Separator)
	return h
}

// Enabled delegates to the underlying handler.
func (h *RelativePathHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle rewrites the record's attributes and passes it on.
func (h *RelativePathHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.root == "" {
		return h.handler.Handle(ctx, r)
	}
	rewritten := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		rewritten.AddAttrs(h.rewriteAttr(a))
		return true
	})
	return h.handler.Handle(ctx, rewritten)
}

// WithAttrs returns a new handler with the rewritten attributes added.
func (h *RelativePathHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	rewritten := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		rewritten[i] = h.rewriteAttr(a)
	}
	return &RelativePathHandler{handler: h.handler.WithAttrs(rewritten), root: h.root, prefix: h.prefix}
}

// WithGroup returns a new handler with the given group name.
func (h *RelativePathHandler) WithGroup(name string) slog.Handler {
	return &RelativePathHandler{handler: h.handler.WithGroup(name), root: h.root, prefix: h.prefix}
}

func (h *RelativePathHandler) rewriteAttr(a slog.Attr) slog.Attr {
	if h.root == "" {
		return a
	}
	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindGroup:
		attrs := v.Group()
		rewritten := make([]slog.Attr, len(attrs))
		for i, ga := range attrs {
			rewritten[i] = h.rewriteAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(rewritten...)}
	case slog.KindString:
		return slog.String(a.Key, h.Rel(v.String()))
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return slog.String(a.Key, h.Rel(err.Error()))
		}
	}
	return a
}

// Rel rewrites every occurrence of the root in s. A value that is exactly
// the root becomes ".".
func (h *RelativePathHandler) Rel(s string) string {
	if h.root == "" {
		return s
	}
	if s == h.root {
		return "."
	}
	s = strings.ReplaceAll(s, h.prefix, "")
	return s
}

// NewLogger creates a text logger writing to w. Verbose selects debug
// level; otherwise only warnings and errors are written.
func NewLogger(w io.Writer, root string, verbose bool) *slog.Logger {
	return slog.New(NewRelativePathHandler(slog.NewTextHandler(w, handlerOptions(verbose)), root))
}

// NewJSONLogger creates a JSON logger writing to w, for log aggregation
// in CI.
func NewJSONLogger(w io.Writer, root string, verbose bool) *slog.Logger {
	return slog.New(NewRelativePathHandler(slog.NewJSONHandler(w, handlerOptions(verbose)), root))
}

func handlerOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}
