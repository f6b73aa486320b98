// Package rewrite normalizes every internal reference in an HTML document for
// the pretty-URL layout: canonical and page-URL metadata point at the target
// public URL, flat .html links become trailing-slash directory links, and
// relative asset references become root-absolute.
//
// The document is parsed once, a single rule table keyed by (tag, attribute)
// decides the treatment of each value, and the tree is serialized once.
// Re-applying the rewriter to its own output is a no-op: every rule excludes
// values already in final form (trailing-slash, root-absolute, or fully
// qualified).
package rewrite

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Rewriter rewrites document references against a fixed public domain.
type Rewriter struct {
	domain *url.URL
}

// New creates a Rewriter for the given public domain (scheme+host).
func New(domain string) (*Rewriter, error) {
	u, err := url.Parse(domain)
	if err != nil {
		return nil, fmt.Errorf("invalid site domain %q: %w", domain, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("site domain must include scheme and host, got %q", domain)
	}
	return &Rewriter{domain: &url.URL{Scheme: u.Scheme, Host: u.Host}}, nil
}

// Rewrite returns the document content with all references normalized.
// sourceRel is the document's original site-relative path ("books/foo.html");
// relative references are resolved against it, never against the pretty
// location. publicURL is the fully-qualified pretty URL of the document.
// The rewriter performs no filesystem I/O.
func (r *Rewriter) Rewrite(content []byte, sourceRel, publicURL string) ([]byte, error) {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse document %s: %w", sourceRel, err)
	}

	base := &url.URL{Scheme: r.domain.Scheme, Host: r.domain.Host, Path: "/" + sourceRel}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			r.rewriteElement(n, base, publicURL)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, fmt.Errorf("render document %s: %w", sourceRel, err)
	}
	return buf.Bytes(), nil
}

// rewriteElement applies the rule table to a single element.
func (r *Rewriter) rewriteElement(n *html.Node, base *url.URL, publicURL string) {
	switch n.Data {
	case "link":
		if relContains(getAttr(n, "rel"), "canonical") {
			if getAttr(n, "href") != "" {
				setAttr(n, "href", publicURL)
			}
		} else if v := getAttr(n, "href"); v != "" {
			setAttr(n, "href", r.resolveAsset(v, base))
		}
	case "meta":
		r.rewriteMeta(n, base, publicURL)
	default:
		for attr, kind := range attrRules[n.Data] {
			v := getAttr(n, attr)
			if v == "" {
				continue
			}
			switch kind {
			case kindLink:
				setAttr(n, attr, r.rewriteLink(v, base))
			case kindAsset:
				setAttr(n, attr, r.resolveAsset(v, base))
			case kindSrcset:
				setAttr(n, attr, r.rewriteSrcset(v, base))
			}
		}
	}

	if v := getAttr(n, "style"); v != "" {
		setAttr(n, "style", r.rewriteStyleValue(v, base))
	}
}

// rewriteMeta overwrites page-URL metadata with the public URL and
// absolutizes social image metadata.
func (r *Rewriter) rewriteMeta(n *html.Node, base *url.URL, publicURL string) {
	key := getAttr(n, "property")
	if key == "" {
		key = getAttr(n, "name")
	}
	switch strings.ToLower(key) {
	case "og:url", "twitter:url":
		if getAttr(n, "content") != "" {
			setAttr(n, "content", publicURL)
		}
	case "og:image", "og:image:url", "og:image:secure_url", "twitter:image", "twitter:image:src":
		if v := getAttr(n, "content"); v != "" {
			setAttr(n, "content", r.absoluteImageURL(v, base))
		}
	}
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// setAttr replaces an attribute value in place.
func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
}

// relContains reports whether a space-separated rel value contains token.
func relContains(rel, token string) bool {
	for _, f := range strings.Fields(rel) {
		if strings.EqualFold(f, token) {
			return true
		}
	}
	return false
}
