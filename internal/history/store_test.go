package history

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/wcagcatalog/internal/model"
)

// setupTestStore creates a temporary history database for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "history.db"), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func intPtr(n int) *int {
	return &n
}

func testRun(day int, entries ...model.CatalogEntry) *model.Run {
	run := model.NewRun("/srv/pages", "index.html", time.Date(2026, 10, day, 9, 0, 0, 0, time.UTC))
	run.OutputPath = "test-catalog.json"
	total := 0
	for _, e := range entries {
		total += e.CaseCount()
	}
	run.Catalog = &model.Catalog{
		Metadata:  model.CatalogMetadata{TotalPages: len(entries), TotalTestCases: total},
		TestPages: entries,
	}
	return run
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "newdir", "subdir", "history.db")
		s, err := Open(path, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer s.Close()

		if _, err := os.Stat(path); err != nil {
			t.Errorf("database file was not created: %v", err)
		}
		if s.Path() != path {
			t.Errorf("expected path %q, got %q", path, s.Path())
		}
	})

	t.Run("CreateIfNotExists=false fails for missing database", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "missing.db")
		if _, err := Open(path, Options{CreateIfNotExists: false}); err == nil {
			t.Error("expected error for missing database")
		}
	})
}

func TestStore_SaveAndListRuns(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	s := setupTestStore(t)

	first := testRun(17, model.CatalogEntry{ID: "focus", Filename: "focus-test.html", TotalCases: intPtr(6)})
	id1, err := s.SaveRun(ctx, "/srv/pages", first)
	if err != nil {
		t.Fatalf("failed to save run: %v", err)
	}
	second := testRun(18,
		model.CatalogEntry{ID: "focus", Filename: "focus-test.html", TotalCases: intPtr(6)},
		model.CatalogEntry{ID: "forms", Filename: "forms-test.html", TotalCases: intPtr(10)},
	)
	id2, err := s.SaveRun(ctx, "/srv/pages", second)
	if err != nil {
		t.Fatalf("failed to save run: %v", err)
	}
	if _, err := s.SaveRun(ctx, "/srv/other", second); err != nil {
		t.Fatalf("failed to save run: %v", err)
	}

	runs, err := s.ListRuns(ctx, "/srv/pages", 0)
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != id2 || runs[1].ID != id1 {
		t.Fatalf("expected runs %d,%d newest first, got %+v", id2, id1, runs)
	}
	latest := runs[0]
	if latest.Generated != "2026-10-18" || latest.TotalPages != 2 || latest.TotalTestCases != 16 {
		t.Errorf("unexpected run record: %+v", latest)
	}
	if !latest.StartedAt.Equal(second.StartedAt) {
		t.Errorf("expected started at %v, got %v", second.StartedAt, latest.StartedAt)
	}

	limited, err := s.ListRuns(ctx, "/srv/pages", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Errorf("expected 1 run with limit, got %d", len(limited))
	}

	summary, err := s.Summary(ctx, id2)
	if err != nil {
		t.Fatalf("failed to get summary: %v", err)
	}
	if summary.OutputPath != "test-catalog.json" || summary.PagesProcessed != 2 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

func TestStore_SaveRunWithoutCatalog(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	run := model.NewRun("/srv/pages", "index.html", time.Now())
	if _, err := s.SaveRun(t.Context(), "/srv/pages", run); err == nil {
		t.Error("expected error for a run without catalog")
	}
}

func TestStore_GetRunNotFound(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	if _, err := s.GetRun(t.Context(), 42); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := s.Diff(t.Context(), 1, 2); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound from Diff, got %v", err)
	}
}

func TestStore_Diff(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	s := setupTestStore(t)

	old := testRun(17,
		model.CatalogEntry{ID: "contrast", Filename: "contrast-test.html", TotalCases: intPtr(10)},
		model.CatalogEntry{ID: "focus", Filename: "focus-test.html", TotalCases: intPtr(6)},
		model.CatalogEntry{ID: "legacy", Filename: "legacy-test.html"},
	)
	cur := testRun(18,
		model.CatalogEntry{ID: "contrast", Filename: "contrast-test.html", TotalCases: intPtr(10)},
		model.CatalogEntry{ID: "focus", Filename: "focus-test.html", TotalCases: intPtr(8)},
		model.CatalogEntry{ID: "forms", Filename: "forms-test.html", TotalCases: intPtr(4)},
	)
	from, err := s.SaveRun(ctx, "/srv/pages", old)
	if err != nil {
		t.Fatal(err)
	}
	to, err := s.SaveRun(ctx, "/srv/pages", cur)
	if err != nil {
		t.Fatal(err)
	}

	d, err := s.Diff(ctx, from, to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := &RunDiff{
		From:    from,
		To:      to,
		Added:   []string{"forms"},
		Removed: []string{"legacy"},
		Changed: []string{"focus"},
	}
	if diff := cmp.Diff(want, d); diff != "" {
		t.Errorf("diff mismatch (-want +got):\n%s", diff)
	}

	same, err := s.Diff(ctx, to, to)
	if err != nil {
		t.Fatal(err)
	}
	if !same.Empty() {
		t.Errorf("expected empty diff for identical runs, got %+v", same)
	}
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	a, err := Fingerprint(model.CatalogEntry{ID: "focus", TotalCases: intPtr(6)})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Fingerprint(model.CatalogEntry{ID: "focus", TotalCases: intPtr(6)})
	if err != nil {
		t.Fatal(err)
	}
	c, err := Fingerprint(model.CatalogEntry{ID: "focus", TotalCases: intPtr(7)})
	if err != nil {
		t.Fatal(err)
	}

	if a != b {
		t.Error("expected equal entries to share a fingerprint")
	}
	if a == c {
		t.Error("expected differing entries to have different fingerprints")
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex characters, got %d", len(a))
	}
}
