package sitemap

import (
	"encoding/xml"
	"fmt"
	"os"
)

const (
	sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"
	imageNS   = "http://www.google.com/schemas/sitemap-image/1.1"
)

type urlSet struct {
	XMLName    xml.Name   `xml:"urlset"`
	Xmlns      string     `xml:"xmlns,attr"`
	XmlnsImage string     `xml:"xmlns:image,attr"`
	URLs       []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc        string       `xml:"loc"`
	LastMod    string       `xml:"lastmod"`
	ChangeFreq string       `xml:"changefreq"`
	Priority   string       `xml:"priority"`
	Images     []imageEntry `xml:"image:image,omitempty"`
}

type imageEntry struct {
	Loc string `xml:"image:loc"`
}

// Marshal renders the entries as a sitemap document with the image extension
// namespace.
func Marshal(entries []Entry) ([]byte, error) {
	set := urlSet{Xmlns: sitemapNS, XmlnsImage: imageNS}
	for _, e := range entries {
		u := urlEntry{Loc: e.Loc, LastMod: e.LastMod, ChangeFreq: e.ChangeFreq, Priority: e.Priority}
		for _, img := range e.Images {
			u.Images = append(u.Images, imageEntry{Loc: img})
		}
		set.URLs = append(set.URLs, u)
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal sitemap: %w", err)
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}

// WriteFile marshals the entries and writes the sitemap document to path.
func WriteFile(path string, entries []Entry) error {
	data, err := Marshal(entries)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write sitemap: %w", err)
	}
	return nil
}
