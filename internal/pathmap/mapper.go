// Package pathmap maps flat HTML document paths to their pretty directory-index
// locations and public URLs. The mapping is pure and order-independent; the
// Table built during the initial scan detects collisions and provides the
// inverse lookup the sitemap stage depends on.
package pathmap

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Target is the pretty location derived from a source document.
type Target struct {
	PrettyPath string // site-relative path of the directory index, e.g. "about/index.html"
	PublicURL  string // fully-qualified trailing-slash URL, e.g. "https://example.com/about/"
}

// Mapper derives pretty locations for flat HTML documents.
type Mapper struct {
	domain   *url.URL
	notFound string
	prefixes []string
}

// NewMapper creates a Mapper for the given public domain (scheme+host),
// not-found page, and excluded directory prefixes (trailing slash each).
func NewMapper(domain, notFound string, excludedPrefixes []string) (*Mapper, error) {
	u, err := url.Parse(domain)
	if err != nil {
		return nil, fmt.Errorf("invalid site domain %q: %w", domain, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("site domain must include scheme and host, got %q", domain)
	}
	return &Mapper{
		domain:   &url.URL{Scheme: u.Scheme, Host: u.Host},
		notFound: notFound,
		prefixes: excludedPrefixes,
	}, nil
}

// Domain returns the site domain without a trailing slash.
func (m *Mapper) Domain() string { return m.domain.String() }

// Excluded reports whether the site-relative path falls under an excluded
// directory prefix.
func (m *Mapper) Excluded(rel string) bool {
	for _, p := range m.prefixes {
		if strings.HasPrefix(rel, p) {
			return true
		}
	}
	return false
}

// Skip reports whether the document at rel is outside the transform: the
// not-found page, any pre-existing index document, or anything under an
// excluded prefix.
func (m *Mapper) Skip(rel string) bool {
	if rel == m.notFound {
		return true
	}
	if path.Base(rel) == "index.html" {
		return true
	}
	return m.Excluded(rel)
}

// Map returns the pretty target for a source document. ok is false when the
// document is skipped (excluded, not-found page, pre-existing index) or is
// not an HTML document.
func (m *Mapper) Map(rel string) (Target, bool) {
	if !strings.HasSuffix(rel, ".html") || m.Skip(rel) {
		return Target{}, false
	}
	stem := strings.TrimSuffix(path.Base(rel), ".html")
	pretty := path.Join(path.Dir(rel), stem, "index.html")
	return Target{PrettyPath: pretty, PublicURL: m.URLForIndex(pretty)}, true
}

// URLForIndex returns the public URL for a directory-index path.
// "index.html" maps to the site root; "a/b/index.html" to "<domain>/a/b/".
func (m *Mapper) URLForIndex(rel string) string {
	if rel == "index.html" {
		return m.domain.String() + "/"
	}
	dir := strings.TrimSuffix(rel, "index.html")
	return m.domain.String() + "/" + dir
}
