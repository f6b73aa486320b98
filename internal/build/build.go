package build

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/prettysite/internal/config"
	"git.home.luguber.info/inful/prettysite/internal/metrics"
	"git.home.luguber.info/inful/prettysite/internal/pathmap"
	"git.home.luguber.info/inful/prettysite/internal/rewrite"
)

// Mode selects which stages a run executes.
type Mode int

const (
	// ModeFull runs the complete transform and the sitemap pass.
	ModeFull Mode = iota
	// ModeEmit runs the transform without the sitemap pass.
	ModeEmit
	// ModeSitemap rebuilds only the sitemap from an already-transformed tree.
	ModeSitemap
)

// Options configures one run.
type Options struct {
	Root     string
	Config   *config.Config
	Mode     Mode
	Recorder *metrics.Recorder // may be nil
}

// Run executes the staged batch transform and returns the run report. The
// report is returned alongside the error so failed runs can still be
// published and persisted.
func Run(ctx context.Context, opts Options) (*Report, error) {
	st, err := newState(opts)
	if err != nil {
		return nil, err
	}

	st.Report.Started = time.Now().UTC()
	runErr := RunStages(ctx, st, stagesFor(opts.Mode))
	st.Report.Finished = time.Now().UTC()

	st.Report.Outcome = "success"
	if runErr != nil {
		st.Report.Outcome = "failed"
		var se *StageError
		if errors.As(runErr, &se) && se.Kind == StageErrorCanceled {
			st.Report.Outcome = "canceled"
		}
	}
	st.Recorder.CountOutcome(st.Report.Outcome)

	return st.Report, runErr
}

func newState(opts Options) (*State, error) {
	mapper, err := pathmap.NewMapper(opts.Config.Site.Domain, opts.Config.Exclude.NotFound, opts.Config.Exclude.Prefixes)
	if err != nil {
		return nil, err
	}
	rewriter, err := rewrite.New(opts.Config.Site.Domain)
	if err != nil {
		return nil, err
	}

	buildID := uuid.NewString()
	return &State{
		Root:     opts.Root,
		BuildID:  buildID,
		Config:   opts.Config,
		Mapper:   mapper,
		Rewriter: rewriter,
		Table:    pathmap.NewTable(),
		Recorder: opts.Recorder,
		Report: &Report{
			BuildID:        buildID,
			Root:           opts.Root,
			Domain:         opts.Config.Site.Domain,
			StageDurations: make(map[StageName]string),
		},
	}, nil
}

func stagesFor(mode Mode) []StageDef {
	scan := StageDef{Name: StageScan, Fn: stageScan}
	nav := StageDef{Name: StageNav, Fn: stageNav}
	transform := StageDef{Name: StageTransform, Fn: stageTransform}
	sm := StageDef{Name: StageSitemap, Fn: stageSitemap}

	switch mode {
	case ModeEmit:
		return []StageDef{scan, nav, transform}
	case ModeSitemap:
		return []StageDef{scan, sm}
	default:
		return []StageDef{scan, nav, transform, sm}
	}
}
