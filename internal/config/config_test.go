package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultDomain, cfg.Site.Domain)
	assert.Equal(t, DefaultNotFoundPage, cfg.Exclude.NotFound)
	assert.Equal(t, []string{"partials/", ".github/", "tools/"}, cfg.Exclude.Prefixes)
	assert.Equal(t, DefaultSitemapFilename, cfg.Sitemap.Filename)
	assert.Equal(t, DefaultNavPartial, cfg.Nav.Partial)
	assert.Equal(t, DefaultEventsSubject, cfg.Events.Subject)
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prettysite.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
site:
  domain: https://docs.example.org/
exclude:
  not_found: missing.html
  prefixes:
    - drafts
sitemap:
  filename: map.xml
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	// Trailing slash on the domain is trimmed; prefixes get one appended.
	assert.Equal(t, "https://docs.example.org", cfg.Site.Domain)
	assert.Equal(t, "missing.html", cfg.Exclude.NotFound)
	assert.Equal(t, []string{"drafts/"}, cfg.Exclude.Prefixes)
	assert.Equal(t, "map.xml", cfg.Sitemap.Filename)
}

func TestLoadEnvOverridesDomain(t *testing.T) {
	t.Setenv("SITE_DOMAIN", "https://override.example.net")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "https://override.example.net", cfg.Site.Domain)
}

func TestLoadExpandsEnvInYAML(t *testing.T) {
	t.Setenv("PRETTYSITE_TEST_DOMAIN", "https://expanded.example.com")
	path := filepath.Join(t.TempDir(), "prettysite.yaml")
	require.NoError(t, os.WriteFile(path, []byte("site:\n  domain: ${PRETTYSITE_TEST_DOMAIN}\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://expanded.example.com", cfg.Site.Domain)
}

func TestLoadRejectsBareHostDomain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prettysite.yaml")
	require.NoError(t, os.WriteFile(path, []byte("site:\n  domain: example.com\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestInitWritesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prettysite.yaml")
	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultDomain, cfg.Site.Domain)

	// Second init without force refuses to overwrite.
	require.Error(t, Init(path, false))
	require.NoError(t, Init(path, true))
}
