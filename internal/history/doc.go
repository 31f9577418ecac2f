// Package history records generation runs in a SQLite database
// (modernc.org/sqlite, no cgo) so successive catalogs can be compared.
//
// Each run stores its summary plus one SHA3-256 fingerprint per catalog
// entry. The fingerprint covers the entry's full JSON form, so any field
// change shows up as a changed entry in Diff. History is write-only from
// the generator's point of view: it never feeds back into a catalog.
package history
