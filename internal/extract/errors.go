package extract

import "errors"

// Fatal index errors. Anything that goes wrong with an individual test page
// is reported as a model.Diagnostic instead.
var (
	// ErrIndexNotFound is returned when the index document does not exist.
	ErrIndexNotFound = errors.New("index document not found")

	// ErrIndexUnreadable is returned when the index document exists but
	// cannot be read or tokenized.
	ErrIndexUnreadable = errors.New("index document unreadable")

	// ErrNoListingItems is returned when the index yields no usable listing item.
	ErrNoListingItems = errors.New("index document contains no listing items")

	// errInvalidHref marks hrefs that do not name a page inside the root.
	errInvalidHref = errors.New("href does not reference a local page")
)
