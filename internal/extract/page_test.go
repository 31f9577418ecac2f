package extract

import (
	"fmt"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/wcagcatalog/internal/model"
)

// casesHTML renders n test cases with the given expected result.
func casesHTML(prefix string, start, n int, expected string) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, `<div class="case" data-test-id="%s-%d" data-wcag="2.4.7" data-expected="%s"><button>Go</button></div>`+"\n",
			prefix, start+i, expected)
	}
	return sb.String()
}

func page(head, body string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte("<!DOCTYPE html><html><head>" + head + "</head><body>" + body + "</body></html>")}
}

func TestPageExtractor(t *testing.T) {
	t.Parallel()

	t.Run("infers everything from inline attributes", func(t *testing.T) {
		t.Parallel()

		fsys := fstest.MapFS{
			"focus-visible-test.html": page(
				"<title>2.4.7 Focus Visible Test Page</title>",
				casesHTML("fv", 1, 3, "violation")+casesHTML("fv", 4, 3, "pass"),
			),
		}

		result := NewPageExtractor(fsys).Extract(".", model.PageDescriptor{Filename: "focus-visible-test.html"})
		if !result.OK() {
			t.Fatalf("unexpected skip: %+v", result.Skip)
		}
		if len(result.Diagnostics) != 0 {
			t.Errorf("expected no diagnostics, got %v", result.Diagnostics)
		}

		want := model.PageMetadata{
			Title:              model.Declare("Focus Visible"),
			Criteria:           model.Infer([]string{"2.4.7"}),
			TotalCases:         model.Infer(6),
			ExpectedViolations: model.Infer(3),
			ExpectedPasses:     model.Infer(3),
			MachineReadable:    true,
			CaseIDCount:        6,
			ViolationMarkers:   3,
			PassMarkers:        3,
		}
		if diff := cmp.Diff(want, *result.Metadata); diff != "" {
			t.Errorf("metadata mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("structured total wins over counted identifiers", func(t *testing.T) {
		t.Parallel()

		fsys := fstest.MapFS{
			"keyboard-test.html": page(
				`<title>Keyboard</title><meta name="total-test-cases" content="27">`,
				casesHTML("kb", 1, 20, "violation"),
			),
		}

		result := NewPageExtractor(fsys).Extract(".", model.PageDescriptor{Filename: "keyboard-test.html"})
		m := result.Metadata
		if m.TotalCases != model.Declare(27) {
			t.Errorf("expected declared total 27, got %+v", m.TotalCases)
		}
		if !m.HasStructuredMetaTags {
			t.Error("expected HasStructuredMetaTags")
		}

		found := false
		for _, d := range result.Diagnostics {
			if d.Kind == model.KindInconsistentCounts && d.Field == "totalCases" {
				found = true
				if !strings.Contains(d.Message, "7-case discrepancy") {
					t.Errorf("expected discrepancy of 7, got %q", d.Message)
				}
			}
		}
		if !found {
			t.Errorf("expected totalCases inconsistency diagnostic, got %v", result.Diagnostics)
		}

		// 20 violation markers against 27 cases derive 7 passes.
		if m.ExpectedPasses != model.Infer(7) {
			t.Errorf("expected derived passes 7, got %+v", m.ExpectedPasses)
		}
	})

	t.Run("derived passes replace counted pass markers", func(t *testing.T) {
		t.Parallel()

		fsys := fstest.MapFS{
			"contrast-test.html": page(
				"<title>Contrast</title>",
				casesHTML("c", 1, 1, "violation")+casesHTML("c", 2, 1, "pass")+
					`<div class="case" data-test-id="c-3"><button>Go</button></div>`,
			),
		}

		result := NewPageExtractor(fsys).Extract(".", model.PageDescriptor{Filename: "contrast-test.html"})
		m := result.Metadata
		if m.PassMarkers != 1 {
			t.Errorf("expected 1 pass marker, got %d", m.PassMarkers)
		}
		// 3 cases minus 1 violation leaves 2 passes, not the 1 counted.
		if m.ExpectedPasses != model.Infer(2) {
			t.Errorf("expected derived passes 2, got %+v", m.ExpectedPasses)
		}

		var got []string
		for _, d := range result.Diagnostics {
			if d.Kind == model.KindInconsistentCounts {
				got = append(got, d.Field)
			}
		}
		if diff := cmp.Diff([]string{"expectedPasses"}, got); diff != "" {
			t.Errorf("inconsistent-counts fields mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("structured annotations", func(t *testing.T) {
		t.Parallel()

		fsys := fstest.MapFS{
			"forms-test.html": page(
				`<title>WCAG 3.3.1 &amp; 3.3.2: Form Errors</title>
				<meta name="wcag-criteria" content="3.3.1, 3.3.2">
				<meta name="total-test-cases" content="10">
				<meta name="expected-violations" content="4">
				<meta name="description" content="Error messages and labels.">`,
				`<p>No inline attributes.</p>`,
			),
		}

		result := NewPageExtractor(fsys).Extract(".", model.PageDescriptor{Filename: "forms-test.html"})
		want := model.PageMetadata{
			Title:                 model.Declare("Form Errors"),
			Description:           model.Declare("Error messages and labels."),
			Criteria:              model.Declare([]string{"3.3.1", "3.3.2"}),
			TotalCases:            model.Declare(10),
			ExpectedViolations:    model.Declare(4),
			ExpectedPasses:        model.Infer(6),
			HasStructuredMetaTags: true,
		}
		if diff := cmp.Diff(want, *result.Metadata); diff != "" {
			t.Errorf("metadata mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("violations exceeding total leave passes unresolved", func(t *testing.T) {
		t.Parallel()

		fsys := fstest.MapFS{
			"bad-test.html": page(
				`<meta name="total-test-cases" content="2"><meta name="expected-violations" content="5">`,
				"",
			),
		}

		result := NewPageExtractor(fsys).Extract(".", model.PageDescriptor{Filename: "bad-test.html"})
		if result.Metadata.ExpectedPasses.Known() {
			t.Errorf("expected passes to be missing, got %+v", result.Metadata.ExpectedPasses)
		}
		if len(result.Diagnostics) != 1 || result.Diagnostics[0].Kind != model.KindInconsistentCounts {
			t.Errorf("expected one inconsistency diagnostic, got %v", result.Diagnostics)
		}
	})

	t.Run("unresolvable fields stay missing", func(t *testing.T) {
		t.Parallel()

		fsys := fstest.MapFS{
			"plain-test.html": page("", "<h1>Plain Test Page</h1><p>Nothing annotated.</p>"),
		}

		result := NewPageExtractor(fsys).Extract(".", model.PageDescriptor{Filename: "plain-test.html"})
		m := result.Metadata
		if m.Title != model.Infer("Plain") {
			t.Errorf("expected h1 title 'Plain', got %+v", m.Title)
		}
		for name, known := range map[string]bool{
			"criteria":   m.Criteria.Known(),
			"totalCases": m.TotalCases.Known(),
			"violations": m.ExpectedViolations.Known(),
			"passes":     m.ExpectedPasses.Known(),
		} {
			if known {
				t.Errorf("expected %s to be missing", name)
			}
		}
		if m.MachineReadable || m.HasStructuredMetaTags {
			t.Error("expected page to be neither machine readable nor annotated")
		}
	})

	t.Run("non-numeric annotation falls back to counts", func(t *testing.T) {
		t.Parallel()

		fsys := fstest.MapFS{
			"odd-test.html": page(`<meta name="total-test-cases" content="many">`,
				`<div data-test-id="a" data-confidence="0.9"></div><div data-test-id="b"></div>`),
		}

		result := NewPageExtractor(fsys).Extract(".", model.PageDescriptor{Filename: "odd-test.html"})
		m := result.Metadata
		if m.TotalCases != model.Infer(2) {
			t.Errorf("expected inferred total 2, got %+v", m.TotalCases)
		}
		if !m.HasStructuredMetaTags {
			t.Error("a present annotation counts as structured even when unparseable")
		}
		if !m.HasConfidenceScores {
			t.Error("expected HasConfidenceScores")
		}
		if len(result.Diagnostics) != 1 || result.Diagnostics[0].Kind != model.KindUnresolvedField {
			t.Errorf("expected one unresolved-field diagnostic, got %v", result.Diagnostics)
		}
	})

	t.Run("skips", func(t *testing.T) {
		t.Parallel()

		fsys := fstest.MapFS{
			"drafts/wip-test.html": page("", ""),
		}
		extractor := NewPageExtractor(fsys, WithExcludePatterns([]string{"drafts/**"}))

		tests := []struct {
			href   string
			reason string
			kind   model.DiagnosticKind
		}{
			{"missing-test.html", model.SkipReasonMissingFile, model.KindMissingFile},
			{"drafts/wip-test.html", model.SkipReasonExcluded, model.KindExcluded},
			{"https://example.com/x.html", model.SkipReasonInvalidHref, model.KindInvalidHref},
			{"../outside.html", model.SkipReasonInvalidHref, model.KindInvalidHref},
			{"#top", model.SkipReasonInvalidHref, model.KindInvalidHref},
		}

		for _, tt := range tests {
			result := extractor.Extract(".", model.PageDescriptor{Filename: tt.href})
			if result.Skip == nil {
				t.Errorf("%s: expected skip", tt.href)
				continue
			}
			if result.Skip.Reason != tt.reason {
				t.Errorf("%s: expected reason %q, got %q", tt.href, tt.reason, result.Skip.Reason)
			}
			if len(result.Diagnostics) != 1 || result.Diagnostics[0].Kind != tt.kind {
				t.Errorf("%s: expected one %q diagnostic, got %v", tt.href, tt.kind, result.Diagnostics)
			}
		}
	})

	t.Run("query strings are dropped from filenames", func(t *testing.T) {
		t.Parallel()

		fsys := fstest.MapFS{"modal-test.html": page("<title>Modal</title>", "")}
		result := NewPageExtractor(fsys).Extract(".", model.PageDescriptor{Filename: "./modal-test.html?v=2"})
		if !result.OK() {
			t.Fatalf("unexpected skip: %+v", result.Skip)
		}
		if result.Descriptor.Filename != "modal-test.html" {
			t.Errorf("expected filename 'modal-test.html', got %q", result.Descriptor.Filename)
		}
	})
}
