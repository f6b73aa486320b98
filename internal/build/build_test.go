package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/prettysite/internal/config"
	"git.home.luguber.info/inful/prettysite/internal/pathmap"
	"git.home.luguber.info/inful/prettysite/internal/redirect"
)

func testConfig() *config.Config {
	return &config.Config{
		Site:    config.SiteConfig{Domain: "https://example.com"},
		Exclude: config.ExcludeConfig{NotFound: "404.html", Prefixes: []string{"partials/"}},
		Sitemap: config.SitemapConfig{Filename: "sitemap.xml"},
		Nav:     config.NavConfig{Partial: "partials/nav.html"},
	}
}

func writeSite(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func readFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func TestRunFullBuild(t *testing.T) {
	root := t.TempDir()
	writeSite(t, root, map[string]string{
		"index.html":      `<html><body><a href="about.html">About</a></body></html>`,
		"about.html":      `<html><body><a href="books/dune.html">Dune</a><img src="img/me.jpg"></body></html>`,
		"books/dune.html": `<html><body><a href="../about.html#bio">Back</a></body></html>`,
		"404.html":        `<html><body>not found</body></html>`,
		"style.css":       `body{}`,
	})

	report, err := Run(context.Background(), Options{Root: root, Config: testConfig(), Mode: ModeFull})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Documents)
	assert.Equal(t, 2, report.Stubs)
	assert.Equal(t, "success", report.Outcome)
	assert.NotEmpty(t, report.BuildID)

	// Pretty documents exist with rewritten links.
	about := readFile(t, root, "about/index.html")
	assert.Contains(t, about, `href="/books/dune/"`)
	assert.Contains(t, about, `src="/img/me.jpg"`)

	dune := readFile(t, root, "books/dune/index.html")
	assert.Contains(t, dune, `href="/about/#bio"`)

	// Flat originals are now redirect stubs.
	assert.Equal(t, string(redirect.Stub("https://example.com/about/")), readFile(t, root, "about.html"))
	assert.Equal(t, string(redirect.Stub("https://example.com/books/dune/")), readFile(t, root, "books/dune.html"))

	// Root index stays in place (rewritten in place is out of scope: it was
	// never pending) and the not-found page is untouched.
	assert.Contains(t, readFile(t, root, "404.html"), "not found")

	// Sitemap lists home plus both pretty pages.
	assert.Equal(t, 3, report.SitemapEntries)
	sm := readFile(t, root, "sitemap.xml")
	assert.Contains(t, sm, "<loc>https://example.com/</loc>")
	assert.Contains(t, sm, "<loc>https://example.com/about/</loc>")
	assert.Contains(t, sm, "<loc>https://example.com/books/dune/</loc>")
	assert.NotContains(t, sm, "404")
}

func TestRunSecondPassIsNoop(t *testing.T) {
	root := t.TempDir()
	writeSite(t, root, map[string]string{
		"index.html": `<html><body>home</body></html>`,
		"about.html": `<html><body><a href="index.html">Home</a></body></html>`,
	})

	first, err := Run(context.Background(), Options{Root: root, Config: testConfig(), Mode: ModeFull})
	require.NoError(t, err)
	require.Equal(t, 1, first.Documents)

	prettyBefore := readFile(t, root, "about/index.html")
	stubBefore := readFile(t, root, "about.html")

	second, err := Run(context.Background(), Options{Root: root, Config: testConfig(), Mode: ModeFull})
	require.NoError(t, err)

	// Prior-run stubs are recognized, nothing is re-transformed.
	assert.Equal(t, 0, second.Documents)
	assert.Equal(t, "success", second.Outcome)
	assert.Equal(t, prettyBefore, readFile(t, root, "about/index.html"))
	assert.Equal(t, stubBefore, readFile(t, root, "about.html"))

	// The sitemap is still complete.
	assert.Equal(t, first.SitemapEntries, second.SitemapEntries)
}

func TestRunCollisionAborts(t *testing.T) {
	root := t.TempDir()
	writeSite(t, root, map[string]string{
		"about.html":       `<html><body>flat</body></html>`,
		"about/index.html": `<html><body>hand-authored index</body></html>`,
	})

	report, err := Run(context.Background(), Options{Root: root, Config: testConfig(), Mode: ModeFull})
	require.Error(t, err)

	var collision *pathmap.ErrCollision
	require.ErrorAs(t, err, &collision)
	assert.Equal(t, "about/index.html", collision.PrettyPath)
	assert.Equal(t, "failed", report.Outcome)

	// Nothing was rewritten.
	assert.Equal(t, `<html><body>flat</body></html>`, readFile(t, root, "about.html"))
	assert.Equal(t, `<html><body>hand-authored index</body></html>`, readFile(t, root, "about/index.html"))
}

func TestRunExcludedPrefixUntouched(t *testing.T) {
	root := t.TempDir()
	writeSite(t, root, map[string]string{
		"index.html":        `<html><body>home</body></html>`,
		"partials/foo.html": `<html><body>partial</body></html>`,
	})

	report, err := Run(context.Background(), Options{Root: root, Config: testConfig(), Mode: ModeFull})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Documents)
	assert.Equal(t, `<html><body>partial</body></html>`, readFile(t, root, "partials/foo.html"))

	sm := readFile(t, root, "sitemap.xml")
	assert.NotContains(t, sm, "partials")
}

func TestRunEmitModeSkipsSitemap(t *testing.T) {
	root := t.TempDir()
	writeSite(t, root, map[string]string{
		"about.html": `<html><body>about</body></html>`,
	})

	report, err := Run(context.Background(), Options{Root: root, Config: testConfig(), Mode: ModeEmit})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Documents)
	assert.Equal(t, 0, report.SitemapEntries)

	_, statErr := os.Stat(filepath.Join(root, "sitemap.xml"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunSitemapModeRegenerates(t *testing.T) {
	root := t.TempDir()
	writeSite(t, root, map[string]string{
		"index.html": `<html><body>home</body></html>`,
		"about.html": `<html><body>about</body></html>`,
	})

	_, err := Run(context.Background(), Options{Root: root, Config: testConfig(), Mode: ModeFull})
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(root, "sitemap.xml")))

	report, err := Run(context.Background(), Options{Root: root, Config: testConfig(), Mode: ModeSitemap})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Documents)
	assert.Equal(t, 2, report.SitemapEntries)

	sm := readFile(t, root, "sitemap.xml")
	assert.Contains(t, sm, "<loc>https://example.com/about/</loc>")
}

func TestRunNavInjection(t *testing.T) {
	root := t.TempDir()
	writeSite(t, root, map[string]string{
		"about.html":        `<html><body><nav aria-label="Primary"><a href="old.html">Old</a></nav><p>bio</p></body></html>`,
		"partials/nav.html": `<nav aria-label="Primary"><a href="/">Home</a><a href="/about/">About</a></nav>`,
	})

	_, err := Run(context.Background(), Options{Root: root, Config: testConfig(), Mode: ModeFull})
	require.NoError(t, err)

	about := readFile(t, root, "about/index.html")
	assert.NotContains(t, about, "old.html")
	assert.Contains(t, about, `href="/about/"`)
	assert.Contains(t, about, "<p>bio</p>")
}

func TestRunCanceledContext(t *testing.T) {
	root := t.TempDir()
	writeSite(t, root, map[string]string{
		"about.html": `<html><body>about</body></html>`,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := Run(ctx, Options{Root: root, Config: testConfig(), Mode: ModeFull})
	require.Error(t, err)

	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageErrorCanceled, se.Kind)
	assert.Equal(t, "canceled", report.Outcome)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestStageDurationsRecorded(t *testing.T) {
	root := t.TempDir()
	writeSite(t, root, map[string]string{
		"about.html": `<html><body>about</body></html>`,
	})

	report, err := Run(context.Background(), Options{Root: root, Config: testConfig(), Mode: ModeFull})
	require.NoError(t, err)
	for _, stage := range []StageName{StageScan, StageNav, StageTransform, StageSitemap} {
		assert.Contains(t, report.StageDurations, stage)
	}
}
