// Package sitemap derives the sitemap.xml artifact from a completed pretty
// tree. It runs strictly after the transform stage: it reads already-rewritten
// index documents and relies on the scan table for the inverse mapping back to
// original source paths.
package sitemap

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/prettysite/internal/git"
	"git.home.luguber.info/inful/prettysite/internal/pathmap"
)

// ErrExcludedLocation reports a computed sitemap location falling under an
// excluded prefix. This signals a defect in the mapping logic, so it aborts
// the whole build instead of being filtered.
var ErrExcludedLocation = errors.New("sitemap location resolves under an excluded prefix")

// maxImages caps the image sub-entries per page.
const maxImages = 3

// LastModSource answers last-commit-time lookups for site-relative paths.
type LastModSource interface {
	LastCommitTime(rel string) (time.Time, error)
}

// Entry is one sitemap URL record.
type Entry struct {
	Loc        string
	LastMod    string // UTC RFC3339
	ChangeFreq string
	Priority   string
	Images     []string
}

// Builder scans the pretty tree and produces sitemap entries.
type Builder struct {
	root    string
	mapper  *pathmap.Mapper
	table   *pathmap.Table
	history LastModSource // nil when the tree is not under version control
}

// NewBuilder creates a Builder rooted at the site tree. history may be nil;
// all lastmod lookups then fall back to filesystem timestamps.
func NewBuilder(root string, mapper *pathmap.Mapper, table *pathmap.Table, history LastModSource) *Builder {
	return &Builder{root: root, mapper: mapper, table: table, history: history}
}

// Build walks the pretty tree and returns one entry per index document, in
// walk (lexical) order. Any entry resolving under an excluded prefix is a
// fatal configuration error.
func (b *Builder) Build() ([]Entry, error) {
	var entries []Entry

	err := filepath.WalkDir(b.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(b.root, p)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if d.Name() == ".git" || (rel != "." && b.mapper.Excluded(rel+"/")) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != "index.html" {
			return nil
		}

		entry, entryErr := b.buildEntry(rel)
		if entryErr != nil {
			return entryErr
		}
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan pretty tree: %w", err)
	}
	return entries, nil
}

func (b *Builder) buildEntry(rel string) (Entry, error) {
	loc := b.mapper.URLForIndex(rel)

	// Guard against mapping defects: a location under an excluded prefix must
	// abort the run, never be dropped silently.
	if u, err := url.Parse(loc); err == nil {
		if p := strings.TrimPrefix(u.Path, "/"); p != "" && b.mapper.Excluded(p) {
			return Entry{}, fmt.Errorf("%w: %s", ErrExcludedLocation, loc)
		}
	}

	entry := Entry{Loc: loc, ChangeFreq: "monthly", Priority: "0.8"}
	if rel == "index.html" {
		entry.ChangeFreq = "weekly"
		entry.Priority = "1.0"
	}

	lastmod, err := b.lastMod(rel)
	if err != nil {
		return Entry{}, err
	}
	entry.LastMod = lastmod

	content, err := os.ReadFile(filepath.Join(b.root, filepath.FromSlash(rel)))
	if err != nil {
		return Entry{}, fmt.Errorf("read %s: %w", rel, err)
	}
	entry.Images = collectImages(content, loc, maxImages)

	return entry, nil
}

// lastMod resolves the entry timestamp: last commit touching the original
// source document (recovered through the scan table), falling back to the
// pretty document's filesystem mtime when the path has no usable history.
func (b *Builder) lastMod(rel string) (string, error) {
	lookup := rel
	if source, ok := b.table.SourceOf(rel); ok {
		lookup = source
	}

	if b.history != nil {
		t, err := b.history.LastCommitTime(lookup)
		if err == nil {
			return t.UTC().Format(time.RFC3339), nil
		}
		if !errors.Is(err, git.ErrNoHistory) {
			slog.Debug("History lookup failed, falling back to mtime", "path", lookup, "error", err)
		}
	}

	fi, err := os.Stat(filepath.Join(b.root, filepath.FromSlash(rel)))
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", rel, err)
	}
	return fi.ModTime().UTC().Format(time.RFC3339), nil
}
