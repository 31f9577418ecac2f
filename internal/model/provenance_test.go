package model

import (
	"encoding/json"
	"testing"
)

func TestField(t *testing.T) {
	t.Parallel()

	t.Run("zero value is missing", func(t *testing.T) {
		t.Parallel()

		var f Field[int]
		if f.Known() {
			t.Error("expected zero field to be unknown")
		}
		if f.Ptr() != nil {
			t.Error("expected nil pointer for a missing field")
		}
		if f.Source.String() != "missing" {
			t.Errorf("expected 'missing', got %q", f.Source)
		}
	})

	t.Run("constructors set provenance", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name  string
			field Field[string]
			want  Provenance
		}{
			{"declared", Declare("a"), Declared},
			{"inferred", Infer("a"), Inferred},
			{"indexed", Index("a"), Indexed},
		}
		for _, tt := range tests {
			if tt.field.Source != tt.want {
				t.Errorf("%s: expected %v, got %v", tt.name, tt.want, tt.field.Source)
			}
			if tt.field.Source.String() != tt.name {
				t.Errorf("%s: unexpected string %q", tt.name, tt.field.Source)
			}
		}
	})

	t.Run("known zero value is not missing", func(t *testing.T) {
		t.Parallel()

		f := Infer(0)
		p := f.Ptr()
		if p == nil || *p != 0 {
			t.Errorf("expected pointer to 0, got %v", p)
		}
	})

	t.Run("ptr does not alias the field", func(t *testing.T) {
		t.Parallel()

		f := Declare(27)
		p := f.Ptr()
		*p = 1
		if f.Value != 27 {
			t.Errorf("expected field to keep 27, got %d", f.Value)
		}
	})

	t.Run("or keeps the first known tier", func(t *testing.T) {
		t.Parallel()

		var missing Field[string]
		if got := Declare("page").Or(Index("index")); got.Value != "page" || got.Source != Declared {
			t.Errorf("expected declared value to win, got %+v", got)
		}
		if got := missing.Or(Index("index")); got.Value != "index" || got.Source != Indexed {
			t.Errorf("expected fallback, got %+v", got)
		}
		if got := missing.Or(missing); got.Known() {
			t.Errorf("expected missing, got %+v", got)
		}
	})
}

func TestCatalogEntryNulls(t *testing.T) {
	t.Parallel()

	e := CatalogEntry{ID: "x", Filename: "x.html", WCAGCriteria: []string{}}
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, key := range []string{"title", "wcagLevel", "description", "totalCases", "expectedViolations", "expectedPasses"} {
		v, ok := raw[key]
		if !ok {
			t.Errorf("expected key %q to be present", key)
			continue
		}
		if v != nil {
			t.Errorf("expected %q to be null, got %v", key, v)
		}
	}
	if e.CaseCount() != 0 {
		t.Errorf("expected null total to count as 0, got %d", e.CaseCount())
	}
}
