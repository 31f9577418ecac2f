// Package reconcile merges what a test page declares about itself with what
// the master index says about it, producing one canonical catalog entry.
//
// Every field is resolved independently, highest tier first:
//
//	declared page value -> inferred page value -> index value -> null
//
// Classification fields (wcagLevel, category, testType, layoutPattern) come
// only from the fixed tables in package wcag. A field no tier resolves stays
// null and raises an unresolved-field diagnostic.
package reconcile
