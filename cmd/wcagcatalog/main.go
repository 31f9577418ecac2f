// Package main provides the entry point for the wcagcatalog CLI.
//
// wcagcatalog scans a directory of accessibility test pages, reconciles
// the annotations embedded in each page with the descriptors on the master
// index and writes a single machine-readable catalog.
//
// Usage:
//
//	wcagcatalog
//	wcagcatalog generate -r ./test-pages
//	wcagcatalog history --diff
//
// See --help for all available options.
package main

// main is the entry point for wcagcatalog.
func main() {
	Execute()
}
