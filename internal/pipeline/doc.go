// Package pipeline runs catalog generation as an ordered list of steps.
//
// Each Step receives the single model.Run for the generation and adds its
// results to it: the index scan fills Descriptors, extraction and
// reconciliation fill Pages, aggregation builds the Catalog, and the
// writer commits it to disk. A step returns an error only for fatal
// problems; per-page problems are recorded as diagnostics on the run.
package pipeline
