package wcag

import (
	"testing"
)

func TestLookup(t *testing.T) {
	t.Parallel()

	t.Run("known criterion carries principle and guideline", func(t *testing.T) {
		t.Parallel()

		c, ok := Lookup("2.4.7")
		if !ok {
			t.Fatal("expected 2.4.7 in registry")
		}
		if c.Name != "Focus Visible" {
			t.Errorf("expected name 'Focus Visible', got %q", c.Name)
		}
		if c.Level != "AA" {
			t.Errorf("expected level AA, got %q", c.Level)
		}
		if c.Principle != "2 Operable" {
			t.Errorf("expected principle '2 Operable', got %q", c.Principle)
		}
		if c.Guideline != "2.4 Navigable" {
			t.Errorf("expected guideline '2.4 Navigable', got %q", c.Guideline)
		}
	})

	t.Run("obsolete and unknown ids are absent", func(t *testing.T) {
		t.Parallel()

		for _, id := range []string{"4.1.1", "9.9.9", "Multiple", ""} {
			if _, ok := Lookup(id); ok {
				t.Errorf("expected %q to be absent from registry", id)
			}
		}
	})

	t.Run("registry covers WCAG 2.2", func(t *testing.T) {
		t.Parallel()

		if RegistrySize() != 86 {
			t.Errorf("expected 86 criteria, got %d", RegistrySize())
		}
	})
}

func TestCompareIDs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want int
	}{
		{"1.4.3", "1.4.11", -1},
		{"1.4.11", "1.4.3", 1},
		{"2.1.1", "2.1.1", 0},
		{"1.10.1", "1.2.1", 1},
		{"1.4", "1.4.1", -1},
		{"abc", "abd", -1},
	}

	for _, tt := range tests {
		if got := CompareIDs(tt.a, tt.b); got != tt.want {
			t.Errorf("CompareIDs(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestLookupBadge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		token     string
		wantLevel string
		wantType  string
		wantOK    bool
	}{
		{"aa", "AA", TestTypeBasic, true},
		{" AAA ", "AAA", TestTypeBasic, true},
		{"a", "A", TestTypeBasic, true},
		{"complex", "", TestTypeComplex, true},
		{"multi", "", TestTypeMultiCriteria, true},
		{"layout", "", TestTypeLayout, true},
		{"experimental", "", TestTypeBasic, false},
		{"", "", TestTypeBasic, false},
	}

	for _, tt := range tests {
		b, ok := LookupBadge(tt.token)
		if ok != tt.wantOK {
			t.Errorf("LookupBadge(%q) ok = %v, want %v", tt.token, ok, tt.wantOK)
		}
		if b.Level != tt.wantLevel || b.TestType != tt.wantType {
			t.Errorf("LookupBadge(%q) = %+v, want level %q type %q", tt.token, b, tt.wantLevel, tt.wantType)
		}
	}
}

func TestCategoryForFilename(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"color-contrast-test.html": "color-contrast",
		"focus-order-test.html":    "focus",
		"login-form-test.html":     "forms",
		"aria-live-test.html":      "aria",
		"data-table-test.html":     "structure",
		"misc-test.html":           CategoryGeneral,
	}

	for filename, want := range tests {
		if got := CategoryForFilename(filename); got != want {
			t.Errorf("CategoryForFilename(%q) = %q, want %q", filename, got, want)
		}
	}
}

func TestLayoutFor(t *testing.T) {
	t.Parallel()

	t.Run("test type override wins over criteria", func(t *testing.T) {
		t.Parallel()
		if got := LayoutFor(TestTypeComplex, []string{"1.4.3"}); got != LayoutSequentialFlow {
			t.Errorf("expected %q, got %q", LayoutSequentialFlow, got)
		}
	})

	t.Run("side-by-side criteria", func(t *testing.T) {
		t.Parallel()
		if got := LayoutFor(TestTypeBasic, []string{"4.1.2", "1.4.11"}); got != LayoutSideBySide {
			t.Errorf("expected %q, got %q", LayoutSideBySide, got)
		}
	})

	t.Run("default", func(t *testing.T) {
		t.Parallel()
		if got := LayoutFor(TestTypeBasic, nil); got != LayoutIndependentGrid {
			t.Errorf("expected %q, got %q", LayoutIndependentGrid, got)
		}
	})
}

func TestIsPlaceholder(t *testing.T) {
	t.Parallel()

	for _, token := range []string{"Multiple", " multiple ", "Complex Interactions", "N/A"} {
		if !IsPlaceholder(token) {
			t.Errorf("expected %q to be a placeholder", token)
		}
	}
	for _, token := range []string{"2.4.7", "Keyboard", "Multiple things"} {
		if IsPlaceholder(token) {
			t.Errorf("expected %q not to be a placeholder", token)
		}
	}
}

func TestIsCriterionID(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"2.4.7":    true,
		"9.9.9":    true,
		"1.4.10":   true,
		"2.4":      false,
		"Keyboard": false,
		"2.4.7a":   false,
		" 2.4.7":   false,
	}
	for in, want := range tests {
		if got := IsCriterionID(in); got != want {
			t.Errorf("IsCriterionID(%q) = %v, want %v", in, got, want)
		}
	}
}
