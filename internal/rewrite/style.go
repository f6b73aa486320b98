package rewrite

import (
	"net/url"
	"regexp"
	"strings"
)

// cssURLPattern matches url(...) references in inline style values, capturing
// the opening quote (if any) so the original quoting convention survives.
var cssURLPattern = regexp.MustCompile(`url\(\s*(['"]?)([^'")]+?)['"]?\s*\)`)

// rewriteStyleValue resolves image references embedded in a style attribute,
// e.g. background-image: url(../img/hero.jpg).
func (r *Rewriter) rewriteStyleValue(v string, base *url.URL) string {
	return cssURLPattern.ReplaceAllStringFunc(v, func(m string) string {
		sub := cssURLPattern.FindStringSubmatch(m)
		quote, ref := sub[1], strings.TrimSpace(sub[2])
		return "url(" + quote + r.resolveAsset(ref, base) + quote + ")"
	})
}
