package build

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"git.home.luguber.info/inful/prettysite/internal/git"
	"git.home.luguber.info/inful/prettysite/internal/sitemap"
)

// stageSitemap runs only after the transform stage has fully completed: it
// reads already-rewritten pretty documents and resolves timestamps through
// the scan table's inverse mapping.
func stageSitemap(ctx context.Context, st *State) error {
	var history sitemap.LastModSource
	if h, err := git.Open(st.Root); err == nil {
		history = h
	} else {
		slog.Debug("Tree not under version control, using filesystem timestamps", "error", err)
	}

	builder := sitemap.NewBuilder(st.Root, st.Mapper, st.Table, history)
	entries, err := builder.Build()
	if err != nil {
		return err
	}

	out := filepath.Join(st.Root, filepath.FromSlash(st.Config.Sitemap.Filename))
	if err := sitemap.WriteFile(out, entries); err != nil {
		return fmt.Errorf("emit sitemap: %w", err)
	}

	st.Report.SitemapEntries = len(entries)
	st.Recorder.AddSitemapEntries(len(entries))
	slog.Info("Sitemap generated", "entries", len(entries), "file", st.Config.Sitemap.Filename)
	return nil
}
