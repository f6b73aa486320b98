package sitemap

import (
	"bytes"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/prettysite/internal/util/sets"
)

// collectImages harvests up to max representative image URLs from a rewritten
// index document: social image metadata first, then raw <img> sources in
// document order. Duplicates are removed, first occurrence wins.
func collectImages(content []byte, pageURL string, max int) []string {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return nil
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	var metas, imgs []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "meta":
				key := attr(n, "property")
				if key == "" {
					key = attr(n, "name")
				}
				switch strings.ToLower(key) {
				case "og:image", "og:image:url", "og:image:secure_url", "twitter:image", "twitter:image:src":
					if v := attr(n, "content"); v != "" {
						metas = append(metas, v)
					}
				}
			case "img":
				if v := attr(n, "src"); v != "" {
					imgs = append(imgs, v)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	seen := sets.New[string]()
	var out []string
	for _, v := range append(metas, imgs...) {
		full, ok := absoluteURL(v, base)
		if !ok || seen.Has(full) {
			continue
		}
		seen.Add(full)
		out = append(out, full)
		if len(out) == max {
			break
		}
	}
	return out
}

// absoluteURL normalizes an image reference to a full URL against the page
// location. Non-filesystem schemes are rejected; already-qualified references
// pass through.
func absoluteURL(v string, base *url.URL) (string, bool) {
	u, err := url.Parse(v)
	if err != nil {
		return "", false
	}
	if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	if u.Host != "" {
		return u.String(), true
	}
	return base.ResolveReference(u).String(), true
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
