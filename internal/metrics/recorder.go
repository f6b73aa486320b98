// Package metrics records build metrics on a private Prometheus registry.
// prettysite is a batch job, so instead of a scrape endpoint the registry is
// flushed to a textfile for the node_exporter textfile collector when
// configured.
package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// Recorder aggregates counters and stage timings for one process lifetime.
type Recorder struct {
	registry *prom.Registry

	documents      prom.Counter
	stubs          prom.Counter
	sitemapEntries prom.Counter
	stageDuration  *prom.HistogramVec
	buildOutcome   *prom.CounterVec
}

// NewRecorder constructs and registers the metric set on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{registry: prom.NewRegistry()}
	r.documents = prom.NewCounter(prom.CounterOpts{
		Namespace: "prettysite",
		Name:      "documents_transformed_total",
		Help:      "Documents rewritten into pretty index pages",
	})
	r.stubs = prom.NewCounter(prom.CounterOpts{
		Namespace: "prettysite",
		Name:      "redirect_stubs_total",
		Help:      "Redirect stubs written at legacy flat paths",
	})
	r.sitemapEntries = prom.NewCounter(prom.CounterOpts{
		Namespace: "prettysite",
		Name:      "sitemap_entries_total",
		Help:      "Entries emitted into the sitemap",
	})
	r.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: "prettysite",
		Name:      "stage_duration_seconds",
		Help:      "Duration of individual build stages",
		Buckets:   prom.DefBuckets,
	}, []string{"stage"})
	r.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "prettysite",
		Name:      "build_outcomes_total",
		Help:      "Build outcomes by final status",
	}, []string{"outcome"})
	r.registry.MustRegister(r.documents, r.stubs, r.sitemapEntries, r.stageDuration, r.buildOutcome)
	return r
}

// AddDocuments counts transformed documents.
func (r *Recorder) AddDocuments(n int) {
	if r == nil {
		return
	}
	r.documents.Add(float64(n))
}

// AddStubs counts written redirect stubs.
func (r *Recorder) AddStubs(n int) {
	if r == nil {
		return
	}
	r.stubs.Add(float64(n))
}

// AddSitemapEntries counts emitted sitemap entries.
func (r *Recorder) AddSitemapEntries(n int) {
	if r == nil {
		return
	}
	r.sitemapEntries.Add(float64(n))
}

// ObserveStageDuration records the wall time of one stage.
func (r *Recorder) ObserveStageDuration(stage string, d time.Duration) {
	if r == nil {
		return
	}
	r.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// CountOutcome records the final build status.
func (r *Recorder) CountOutcome(outcome string) {
	if r == nil {
		return
	}
	r.buildOutcome.WithLabelValues(outcome).Inc()
}

// WriteTextfile flushes the registry to a Prometheus textfile at path.
func (r *Recorder) WriteTextfile(path string) error {
	return prom.WriteToTextfile(path, r.registry)
}
