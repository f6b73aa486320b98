package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commitFile(t *testing.T, repo *gogit.Repository, dir, rel, content string, when time.Time) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(rel)
	require.NoError(t, err)
	_, err = wt.Commit("update "+rel, &gogit.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "tester@example.com", When: when},
	})
	require.NoError(t, err)
}

func TestLastCommitTime(t *testing.T) {
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	first := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	second := time.Date(2024, 2, 20, 9, 0, 0, 0, time.UTC)
	commitFile(t, repo, dir, "about.html", "v1", first)
	commitFile(t, repo, dir, "about.html", "v2", second)
	commitFile(t, repo, dir, "other.html", "x", second.Add(time.Hour))

	h, err := Open(dir)
	require.NoError(t, err)

	got, err := h.LastCommitTime("about.html")
	require.NoError(t, err)
	assert.True(t, got.Equal(second), "got %s", got)

	// Cached second lookup returns the same value.
	again, err := h.LastCommitTime("about.html")
	require.NoError(t, err)
	assert.True(t, again.Equal(got))
}

func TestLastCommitTimeUntrackedPath(t *testing.T) {
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	commitFile(t, repo, dir, "about.html", "v1", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	h, err := Open(dir)
	require.NoError(t, err)

	_, err = h.LastCommitTime("never-committed.html")
	assert.ErrorIs(t, err, ErrNoHistory)
}

func TestOpenOutsideRepository(t *testing.T) {
	_, err := Open(t.TempDir())
	require.Error(t, err)
}

func TestOpenNestedSiteRoot(t *testing.T) {
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	when := time.Date(2024, 4, 5, 8, 0, 0, 0, time.UTC)
	commitFile(t, repo, dir, "site/index.html", "home", when)

	h, err := Open(filepath.Join(dir, "site"))
	require.NoError(t, err)

	got, err := h.LastCommitTime("index.html")
	require.NoError(t, err)
	assert.True(t, got.Equal(when), "got %s", got)
}
