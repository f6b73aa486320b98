// Package git answers version-history questions about documents in the site
// tree, primarily the last-commit time used for sitemap freshness.
package git

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	git "github.com/go-git/go-git/v5"
)

// ErrNoHistory indicates the path has no commits touching it.
var ErrNoHistory = errors.New("no commit history for path")

// History looks up per-file commit information for a site tree that lives
// inside (or at the root of) a git worktree. Lookups are cached per path.
type History struct {
	repo *git.Repository
	// prefix translates site-relative paths to worktree-relative paths when
	// the site root is nested inside the repository.
	prefix string

	mu    sync.Mutex
	cache map[string]time.Time
}

// Open locates the repository containing root. The returned History is nil
// with an error when root is not under version control; callers treat that as
// a signal to fall back to filesystem timestamps.
func Open(root string) (*History, error) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository at %s: %w", root, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("resolve worktree: %w", err)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve site root: %w", err)
	}
	prefix, err := filepath.Rel(wt.Filesystem.Root(), absRoot)
	if err != nil {
		return nil, fmt.Errorf("site root outside worktree: %w", err)
	}
	if prefix == "." {
		prefix = ""
	}

	return &History{
		repo:   repo,
		prefix: filepath.ToSlash(prefix),
		cache:  make(map[string]time.Time),
	}, nil
}

// LastCommitTime returns the committer time of the most recent commit
// touching the site-relative path. ErrNoHistory is returned for untracked
// paths; any error here is non-fatal for the caller.
func (h *History) LastCommitTime(rel string) (time.Time, error) {
	h.mu.Lock()
	if t, ok := h.cache[rel]; ok {
		h.mu.Unlock()
		return t, nil
	}
	h.mu.Unlock()

	p := rel
	if h.prefix != "" {
		p = h.prefix + "/" + rel
	}

	ref, err := h.repo.Head()
	if err != nil {
		return time.Time{}, fmt.Errorf("resolve HEAD: %w", err)
	}

	iter, err := h.repo.Log(&git.LogOptions{
		From:     ref.Hash(),
		FileName: &p,
		Order:    git.LogOrderCommitterTime,
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("log %s: %w", p, err)
	}
	defer iter.Close()

	commit, err := iter.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return time.Time{}, ErrNoHistory
		}
		return time.Time{}, fmt.Errorf("walk history of %s: %w", p, err)
	}

	t := commit.Committer.When
	h.mu.Lock()
	h.cache[rel] = t
	h.mu.Unlock()
	return t, nil
}
