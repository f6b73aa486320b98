package rewrite

import (
	"net/url"
	"strings"
)

// attrKind is the treatment a (tag, attribute) pair receives.
type attrKind int

const (
	// kindLink values are document links: flat .html targets become pretty
	// trailing-slash paths, relative non-HTML targets become root-absolute.
	kindLink attrKind = iota
	// kindAsset values are plain references: relative values become
	// root-absolute, everything else is left alone.
	kindAsset
	// kindSrcset values are comma-separated URL+descriptor candidate lists;
	// each URL is treated as an asset, descriptors are preserved verbatim.
	kindSrcset
)

// attrRules is the unified rule table. link and meta elements are handled
// separately because their treatment depends on rel/property values.
var attrRules = map[string]map[string]attrKind{
	"a":      {"href": kindLink},
	"area":   {"href": kindLink},
	"img":    {"src": kindAsset, "srcset": kindSrcset},
	"source": {"src": kindAsset, "srcset": kindSrcset},
	"script": {"src": kindAsset},
	"video":  {"src": kindAsset, "poster": kindAsset},
	"audio":  {"src": kindAsset},
	"track":  {"src": kindAsset},
	"embed":  {"src": kindAsset},
}

// parseInternal parses a reference value, returning ok=false for values the
// rewriter never touches: empty values, fragment-only references,
// non-filesystem schemes (data:, blob:, mailto:, tel:, javascript:), and
// external hosts.
func (r *Rewriter) parseInternal(v string) (*url.URL, bool) {
	if v == "" || strings.HasPrefix(v, "#") {
		return nil, false
	}
	u, err := url.Parse(v)
	if err != nil {
		return nil, false
	}
	if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" {
		return nil, false
	}
	if u.Host != "" && !strings.EqualFold(u.Host, r.domain.Host) {
		return nil, false
	}
	return u, true
}

// rewriteLink normalizes a document link. Relative targets are resolved
// against the document's original location before prettifying; fragments and
// queries are preserved.
func (r *Rewriter) rewriteLink(v string, base *url.URL) string {
	u, ok := r.parseInternal(v)
	if !ok {
		return v
	}

	fullyQualified := u.Host != ""
	relative := !fullyQualified && !strings.HasPrefix(u.Path, "/")

	target := u
	if relative {
		if u.Path == "" {
			return v
		}
		target = base.ResolveReference(u)
	}

	p := target.Path
	switch {
	case p == "/index" || p == "/index/" || p == "/index.html":
		p = "/"
	case strings.HasSuffix(p, "/index.html"):
		p = strings.TrimSuffix(p, "index.html")
	case strings.HasSuffix(p, ".html"):
		p = strings.TrimSuffix(p, ".html") + "/"
	default:
		// Root-absolute and fully-qualified non-HTML targets are already in
		// final form; relative ones become root-absolute.
		if !relative {
			return v
		}
	}

	out := &url.URL{Path: p, RawQuery: target.RawQuery, Fragment: target.Fragment}
	if fullyQualified {
		out.Scheme = target.Scheme
		out.Host = target.Host
	}
	return out.String()
}

// resolveAsset makes a relative reference root-absolute by resolving it
// against the document's original location. Root-absolute and fully-qualified
// values pass through untouched.
func (r *Rewriter) resolveAsset(v string, base *url.URL) string {
	u, ok := r.parseInternal(v)
	if !ok {
		return v
	}
	if u.Host != "" || u.Path == "" || strings.HasPrefix(u.Path, "/") {
		return v
	}
	t := base.ResolveReference(u)
	out := &url.URL{Path: t.Path, RawQuery: t.RawQuery, Fragment: t.Fragment}
	return out.String()
}

// absoluteImageURL resolves a social image reference to a full URL on the
// site domain, whether originally relative, root-absolute, or already
// qualified.
func (r *Rewriter) absoluteImageURL(v string, base *url.URL) string {
	u, ok := r.parseInternal(v)
	if !ok {
		return v
	}
	if u.Host != "" {
		return v
	}
	t := base.ResolveReference(u)
	out := &url.URL{Scheme: r.domain.Scheme, Host: r.domain.Host, Path: t.Path, RawQuery: t.RawQuery}
	return out.String()
}
