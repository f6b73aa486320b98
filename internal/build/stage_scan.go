package build

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/prettysite/internal/pathmap"
	"git.home.luguber.info/inful/prettysite/internal/redirect"
	"git.home.luguber.info/inful/prettysite/internal/util/sets"
)

// stageScan walks the tree, builds the bidirectional mapping table, and
// rejects collisions before anything is rewritten. A flat document that is
// already the redirect stub of its own pretty target (output of a previous
// run) is registered for the inverse mapping but not queued for transform.
func stageScan(ctx context.Context, st *State) error {
	var flats, indexes []string

	err := filepath.WalkDir(st.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(st.Root, p)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if d.Name() == ".git" || (rel != "." && st.Mapper.Excluded(rel+"/")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(rel, ".html") {
			return nil
		}

		switch {
		case rel == st.Config.Exclude.NotFound:
			// Kept as-is at its flat path.
		case filepath.Base(rel) == "index.html":
			indexes = append(indexes, rel)
		default:
			flats = append(flats, rel)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan site tree: %w", err)
	}

	sort.Strings(flats)
	sort.Strings(indexes)

	indexSet := sets.New(indexes...)
	claimed := sets.New[string]()
	st.stubbed = sets.New[string]()

	for _, source := range flats {
		target, ok := st.Mapper.Map(source)
		if !ok {
			continue
		}

		if indexSet.Has(target.PrettyPath) {
			// Occupied target: legitimate only when the flat document is the
			// redirect stub a previous run left behind.
			raw, readErr := os.ReadFile(filepath.Join(st.Root, filepath.FromSlash(source)))
			if readErr != nil {
				return fmt.Errorf("read %s: %w", source, readErr)
			}
			if !bytes.Equal(raw, redirect.Stub(target.PublicURL)) {
				return &pathmap.ErrCollision{PrettyPath: target.PrettyPath, Source: source}
			}
			st.stubbed.Add(source)
			claimed.Add(target.PrettyPath)
		}

		if err := st.Table.Add(source, target.PrettyPath); err != nil {
			return err
		}
		if !st.stubbed.Has(source) {
			st.Pending = append(st.Pending, source)
		}
	}

	for _, idx := range indexes {
		if claimed.Has(idx) {
			continue
		}
		if err := st.Table.MarkExisting(idx); err != nil {
			return err
		}
	}

	st.AllPages = append(append([]string(nil), flats...), indexes...)
	if st.Config.Exclude.NotFound != "" {
		if _, statErr := os.Stat(filepath.Join(st.Root, filepath.FromSlash(st.Config.Exclude.NotFound))); statErr == nil {
			st.AllPages = append(st.AllPages, st.Config.Exclude.NotFound)
		}
	}
	sort.Strings(st.AllPages)

	slog.Info("Scan completed",
		"documents", st.Table.Len(),
		"pending", len(st.Pending),
		"already_transformed", len(st.stubbed),
		"index_documents", len(indexes))
	return nil
}
