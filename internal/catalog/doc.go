// Package catalog assembles reconciled entries into the final catalog:
// index order is kept, duplicate ids are dropped, totals are computed and
// every referenced WCAG criterion is cross-referenced against the registry.
package catalog
