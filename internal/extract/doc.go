// Package extract reads the master index and the individual test pages.
//
// Both readers are built on a single streaming pass over
// golang.org/x/net/html's Tokenizer rather than on a parsed document tree.
// The input is trusted, self-authored markup, so the extractors only track
// an element stack and the handful of tags and attributes they care about.
//
// # Index
//
// IndexScanner finds listing items (elements carrying the item class,
// "test-card" by default) and turns each into a model.PageDescriptor.
//
//	<div class="test-card">
//	  <h3><a href="focus-visible-test.html">Focus Visible</a></h3>
//	  <p class="wcag-criteria">WCAG 2.4.7</p>
//	  <p class="description">Custom focus indicators.</p>
//	  <span class="badge badge-aa">AA</span>
//	</div>
//
// # Pages
//
// PageExtractor resolves every metadata field independently with a fixed
// precedence: structured <meta> annotations first, then values inferred
// from per-case data attributes. Each value records its provenance.
//
//	<meta name="wcag-criteria" content="2.4.7">
//	<meta name="total-test-cases" content="6">
//	<meta name="expected-violations" content="3">
//	<div data-test-id="fv-1" data-wcag="2.4.7" data-expected="violation">...</div>
package extract
