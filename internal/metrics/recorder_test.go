package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderWritesTextfile(t *testing.T) {
	r := NewRecorder()
	r.AddDocuments(12)
	r.AddStubs(12)
	r.AddSitemapEntries(13)
	r.ObserveStageDuration("transform", 250*time.Millisecond)
	r.CountOutcome("success")

	path := filepath.Join(t.TempDir(), "prettysite.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "prettysite_documents_transformed_total 12")
	assert.Contains(t, out, "prettysite_redirect_stubs_total 12")
	assert.Contains(t, out, "prettysite_sitemap_entries_total 13")
	assert.Contains(t, out, `prettysite_stage_duration_seconds_count{stage="transform"} 1`)
	assert.Contains(t, out, `prettysite_build_outcomes_total{outcome="success"} 1`)
}

func TestNilRecorderIsSafe(t *testing.T) {
	var r *Recorder
	r.AddDocuments(1)
	r.AddStubs(1)
	r.AddSitemapEntries(1)
	r.ObserveStageDuration("scan", time.Second)
	r.CountOutcome("failed")
}
