// Package navpartial replaces the primary navigation block across pages with
// a shared partial. This is a plain textual substitution that runs before the
// pretty-URL transform.
package navpartial

import "regexp"

// navPattern matches the primary nav block, including its contents.
var navPattern = regexp.MustCompile(`(?is)<nav\b[^>]*aria-label=["']Primary["'][^>]*>.*?</nav>`)

// brandFixes normalize home-link hrefs that point at index variants.
var brandFixes = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)href=["']/index\.html["']`), `href="/"`},
	{regexp.MustCompile(`(?i)href=["']/index/["']`), `href="/"`},
	{regexp.MustCompile(`(?i)href=["']/index["']`), `href="/"`},
	{regexp.MustCompile(`(?i)href=["']index\.html["']`), `href="/"`},
	{regexp.MustCompile(`(?i)href=["']index/["']`), `href="/"`},
	{regexp.MustCompile(`(?i)href=["']index["']`), `href="/"`},
}

// Inject replaces the primary nav block with the partial content and
// normalizes brand hrefs to "/". Documents without a primary nav only get the
// brand fixes. The result equals the input when nothing matched.
func Inject(content, partial []byte) []byte {
	out := content
	if navPattern.Match(out) {
		out = navPattern.ReplaceAll(out, partial)
	}
	for _, fix := range brandFixes {
		out = fix.pattern.ReplaceAll(out, []byte(fix.replacement))
	}
	return out
}
