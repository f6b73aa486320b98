package rewrite

import (
	"net/url"
	"strings"
)

// rewriteSrcset resolves each URL in a responsive image candidate list
// independently, preserving the descriptors verbatim.
func (r *Rewriter) rewriteSrcset(v string, base *url.URL) string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		fields[0] = r.resolveAsset(fields[0], base)
		out = append(out, strings.Join(fields, " "))
	}
	return strings.Join(out, ", ")
}
