// Package model defines the data structures shared by every stage of catalog
// generation.
//
// This package contains the following main types:
//   - PageDescriptor: one listing item from the master index
//   - PageMetadata: annotations extracted from a single test page
//   - CatalogEntry: the reconciled, canonical description of a test page
//   - Catalog: the aggregate artifact written to disk
//   - Run: the state threaded through the generation pipeline
//
// Models live in their own package because the extract, reconcile, catalog
// and report packages all exchange them.
package model
