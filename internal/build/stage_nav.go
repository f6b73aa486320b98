package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/prettysite/internal/navpartial"
)

// stageNav replaces the primary navigation block across all scanned pages
// with the shared partial. The stage is a no-op when the partial is absent.
// Redirect stubs from previous runs are left untouched so later scans still
// recognize them.
func stageNav(ctx context.Context, st *State) error {
	partialPath := filepath.Join(st.Root, filepath.FromSlash(st.Config.Nav.Partial))
	partial, err := os.ReadFile(partialPath)
	if os.IsNotExist(err) {
		slog.Debug("Nav partial absent, skipping injection", "path", st.Config.Nav.Partial)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read nav partial: %w", err)
	}

	updated := 0
	for _, rel := range st.AllPages {
		if st.stubbed.Has(rel) {
			continue
		}
		p := filepath.Join(st.Root, filepath.FromSlash(rel))
		raw, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read %s: %w", rel, err)
		}
		injected := navpartial.Inject(raw, partial)
		if string(injected) == string(raw) {
			continue
		}
		if err := os.WriteFile(p, injected, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", rel, err)
		}
		updated++
	}

	slog.Info("Nav injection completed", "scanned", len(st.AllPages), "updated", updated)
	return nil
}
