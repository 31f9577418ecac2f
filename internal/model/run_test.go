package model

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func sampleRun() *Run {
	run := NewRun("/pages", "index.html", time.Date(2026, 10, 18, 23, 30, 0, 0, time.FixedZone("JST", 9*3600)))
	run.Descriptors = []PageDescriptor{{Filename: "a.html"}, {Filename: "b.html"}, {Filename: "c.html"}}
	run.Diagnostics = []Diagnostic{{Kind: KindSkippedBlock, Message: "listing item has no link"}}
	run.Pages = []PageResult{
		{
			Descriptor:  PageDescriptor{Filename: "a.html"},
			Diagnostics: []Diagnostic{{Kind: KindUnresolvedField, Filename: "a.html", Field: "wcagLevel", Message: "no badge"}},
		},
		{
			Descriptor:  PageDescriptor{Filename: "b.html"},
			Skip:        &Skip{Filename: "b.html", Reason: SkipReasonMissingFile},
			Diagnostics: []Diagnostic{{Kind: KindMissingFile, Filename: "b.html", Message: "file does not exist"}},
		},
		{Descriptor: PageDescriptor{Filename: "c.html"}},
	}
	run.Skipped = []Skip{{Filename: "c.html", Reason: SkipReasonDuplicateID}}
	run.Catalog = &Catalog{
		Metadata: CatalogMetadata{TotalTestCases: 9, TotalWCAGCriteria: 2},
		TestPages: []CatalogEntry{
			{ID: "a", Category: "focus"},
			{ID: "d", Category: "color-contrast"},
			{ID: "e", Category: "focus"},
		},
	}
	run.OutputPath = "/pages/test-catalog.json"
	return run
}

func TestRun(t *testing.T) {
	t.Parallel()

	run := sampleRun()

	t.Run("generation date is UTC", func(t *testing.T) {
		t.Parallel()
		if got := run.GenerationDate(); got != "2026-10-18" {
			t.Errorf("expected 2026-10-18, got %q", got)
		}
	})

	t.Run("diagnostics run level first", func(t *testing.T) {
		t.Parallel()

		var kinds []DiagnosticKind
		for _, d := range run.AllDiagnostics() {
			kinds = append(kinds, d.Kind)
		}
		want := []DiagnosticKind{KindSkippedBlock, KindUnresolvedField, KindMissingFile}
		if diff := cmp.Diff(want, kinds); diff != "" {
			t.Errorf("kinds mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("skips in index order then aggregation", func(t *testing.T) {
		t.Parallel()

		want := []Skip{
			{Filename: "b.html", Reason: SkipReasonMissingFile},
			{Filename: "c.html", Reason: SkipReasonDuplicateID},
		}
		if diff := cmp.Diff(want, run.AllSkips()); diff != "" {
			t.Errorf("skips mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestNewRunSummary(t *testing.T) {
	t.Parallel()

	t.Run("finished run", func(t *testing.T) {
		t.Parallel()

		s := NewRunSummary(sampleRun())
		if s.PagesListed != 3 || s.PagesProcessed != 3 {
			t.Errorf("unexpected page counts: listed %d, processed %d", s.PagesListed, s.PagesProcessed)
		}
		if s.TotalTestCases != 9 || s.TotalWCAGCriteria != 2 {
			t.Errorf("unexpected totals: %d cases, %d criteria", s.TotalTestCases, s.TotalWCAGCriteria)
		}
		want := []CategoryCount{{Category: "focus", Count: 2}, {Category: "color-contrast", Count: 1}}
		if diff := cmp.Diff(want, s.Categories); diff != "" {
			t.Errorf("categories mismatch (-want +got):\n%s", diff)
		}
		if got := s.SkipCounts(); got[SkipReasonMissingFile] != 1 || got[SkipReasonDuplicateID] != 1 {
			t.Errorf("unexpected skip counts: %v", got)
		}
	})

	t.Run("run without catalog", func(t *testing.T) {
		t.Parallel()

		run := NewRun(".", "index.html", time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
		s := NewRunSummary(run)
		if s.PagesProcessed != 0 || s.TotalTestCases != 0 || len(s.Categories) != 0 {
			t.Errorf("expected zero totals, got %+v", s)
		}
		if s.HasSkips() {
			t.Error("expected no skips")
		}
		if s.OutputPath != "" {
			t.Errorf("expected empty output path, got %q", s.OutputPath)
		}
	})
}

func TestDiagnosticString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		d    Diagnostic
		want string
	}{
		{
			Diagnostic{Kind: KindInconsistentCounts, Filename: "k.html", Field: "totalCases", Message: "7-case discrepancy"},
			"[inconsistent-counts] k.html (totalCases): 7-case discrepancy",
		},
		{
			Diagnostic{Kind: KindMissingFile, Filename: "m.html", Message: "file does not exist"},
			"[missing-file] m.html: file does not exist",
		},
		{
			Diagnostic{Kind: KindCoverageGap, Message: "1 page without case counts"},
			"[coverage-gap] 1 page without case counts",
		},
	}
	for _, tt := range tests {
		if got := tt.d.String(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}
