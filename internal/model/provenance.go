package model

// Provenance records which precedence tier resolved a value.
type Provenance int

const (
	// Missing means no tier produced a value.
	Missing Provenance = iota

	// Declared values come from a structured annotation on the page,
	// such as <meta name="total-test-cases" content="27">.
	Declared

	// Inferred values are derived from the page body, for example by
	// counting data-test-id attributes.
	Inferred

	// Indexed values come from the descriptor on the master index.
	Indexed
)

// String returns the provenance name used in logs and diagnostics.
func (p Provenance) String() string {
	switch p {
	case Declared:
		return "declared"
	case Inferred:
		return "inferred"
	case Indexed:
		return "indexed"
	default:
		return "missing"
	}
}

// Field is a value tagged with the tier that resolved it.
// The zero value is a Missing field.
type Field[T any] struct {
	Value  T
	Source Provenance
}

// Declare wraps a value read from a structured page annotation.
func Declare[T any](v T) Field[T] {
	return Field[T]{Value: v, Source: Declared}
}

// Infer wraps a value derived from the page body.
func Infer[T any](v T) Field[T] {
	return Field[T]{Value: v, Source: Inferred}
}

// Index wraps a value taken from the index descriptor.
func Index[T any](v T) Field[T] {
	return Field[T]{Value: v, Source: Indexed}
}

// Known reports whether any tier resolved the field.
func (f Field[T]) Known() bool {
	return f.Source != Missing
}

// Ptr returns a pointer to the value, or nil when the field is missing.
// CatalogEntry uses pointers so unresolved values serialize as JSON null.
func (f Field[T]) Ptr() *T {
	if !f.Known() {
		return nil
	}
	v := f.Value
	return &v
}

// Or returns f when it is known and fallback otherwise.
func (f Field[T]) Or(fallback Field[T]) Field[T] {
	if f.Known() {
		return f
	}
	return fallback
}
