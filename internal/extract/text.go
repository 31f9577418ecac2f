package extract

import (
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// cleanText NFC-normalizes s and collapses runs of whitespace.
func cleanText(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

var (
	titlePrefix = regexp.MustCompile(`(?i)^(?:wcag\s*)?(?:sc\s*)?\d+(?:\.\d+)+(?:\s*(?:,|&|/|and)\s*\d+(?:\.\d+)+)*\s*[:\-–—|]?\s*`)
	titleSuffix = regexp.MustCompile(`(?i)\s*[:\-–—|]?\s*test\s+page\s*$`)

	criterionLabel = regexp.MustCompile(`(?i)^(?:wcag|sc|success\s+criteri(?:on|a))\b\s*:?\s*`)
)

// cleanTitle strips a leading criterion-number prefix and a trailing
// "Test Page" suffix: "2.4.7 Focus Visible Test Page" becomes "Focus Visible".
func cleanTitle(s string) string {
	s = cleanText(s)
	s = titlePrefix.ReplaceAllString(s, "")
	s = titleSuffix.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// cleanCriterionText removes a leading "WCAG", "SC" or "Success Criterion"
// label from an index criterion line.
func cleanCriterionText(s string) string {
	return strings.TrimSpace(criterionLabel.ReplaceAllString(cleanText(s), ""))
}

// SplitCriteria splits a comma-separated criterion list, trimming each token,
// removing per-token "WCAG"/"SC" labels and dropping empty tokens and
// duplicates while keeping first-seen order.
func SplitCriteria(s string) []string {
	out := make([]string, 0)
	seen := make(map[string]bool)
	for _, tok := range strings.Split(s, ",") {
		tok = cleanCriterionText(tok)
		if tok == "" || seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}

// parseCount parses a non-negative integer annotation.
func parseCount(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// normalizeHref resolves an index href against dir, the index file's
// directory, into a slash-separated path relative to the catalog root.
// Query strings and fragments are dropped. External URLs, absolute paths
// and paths escaping the root are rejected.
func normalizeHref(dir, href string) (string, error) {
	href = strings.TrimSpace(href)
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		href = href[:i]
	}
	if href == "" {
		return "", errInvalidHref
	}

	u, err := url.Parse(href)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", errInvalidHref
	}

	p, err := url.PathUnescape(u.Path)
	if err != nil || strings.HasPrefix(p, "/") {
		return "", errInvalidHref
	}
	p = path.Join(dir, p)
	if p == "." || p == ".." || strings.HasPrefix(p, "../") {
		return "", errInvalidHref
	}
	return p, nil
}
