// Package build orchestrates the staged batch transform: scan, optional nav
// injection, per-document rewrite + stub emission, and the sitemap pass. The
// sitemap stage only ever runs after the transform stage has fully completed.
package build

import (
	"context"
	"fmt"
	"time"

	"git.home.luguber.info/inful/prettysite/internal/config"
	"git.home.luguber.info/inful/prettysite/internal/metrics"
	"git.home.luguber.info/inful/prettysite/internal/pathmap"
	"git.home.luguber.info/inful/prettysite/internal/rewrite"
	"git.home.luguber.info/inful/prettysite/internal/util/sets"
)

// Stage is a discrete unit of work in the site transform.
type Stage func(ctx context.Context, st *State) error

// StageName is a strongly-typed identifier for a build stage.
type StageName string

// Canonical stage names.
const (
	StageScan      StageName = "scan"
	StageNav       StageName = "nav"
	StageTransform StageName = "transform"
	StageSitemap   StageName = "sitemap"
)

// StageDef pairs a stage with its name for the runner.
type StageDef struct {
	Name StageName
	Fn   Stage
}

// StageErrorKind classifies the outcome of a failed stage.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Run must abort.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError is a structured error carrying the failing stage and cause.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// State is the shared build state threaded through the stages.
type State struct {
	Root    string
	BuildID string
	Config  *config.Config

	Mapper   *pathmap.Mapper
	Rewriter *rewrite.Rewriter

	// Table is the bidirectional source<->pretty mapping built by the scan
	// stage; the sitemap stage depends on its inverse lookup.
	Table *pathmap.Table
	// Pending lists source documents still needing transformation, sorted.
	// Sources already replaced by a redirect stub in a previous run are
	// registered in Table but not listed here.
	Pending []string
	// AllPages lists every non-excluded HTML document found by the scan,
	// sorted; the nav stage operates on this set.
	AllPages []string

	Recorder *metrics.Recorder // may be nil
	Report   *Report

	// stubbed tracks flat paths recognized as prior-run redirect stubs.
	stubbed sets.Set[string]
}

// Report summarizes one run; it is published as the build event payload.
type Report struct {
	BuildID        string                   `json:"build_id"`
	Root           string                   `json:"root"`
	Domain         string                   `json:"domain"`
	Started        time.Time                `json:"started"`
	Finished       time.Time                `json:"finished"`
	Documents      int                      `json:"documents"`
	Stubs          int                      `json:"stubs"`
	SitemapEntries int                      `json:"sitemap_entries"`
	StageDurations map[StageName]string     `json:"stage_durations"`
	Outcome        string                   `json:"outcome"`
}
