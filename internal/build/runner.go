package build

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// RunStages executes stages in order, recording timing and stopping on the
// first error. Any stage failure aborts the whole run; a partially rewritten
// tree is never papered over.
func RunStages(ctx context.Context, st *State, stages []StageDef) error {
	for _, def := range stages {
		select {
		case <-ctx.Done():
			return &StageError{Kind: StageErrorCanceled, Stage: def.Name, Err: ctx.Err()}
		default:
		}

		slog.Debug("Stage starting", "stage", def.Name, "build.id", st.BuildID)
		t0 := time.Now()
		err := def.Fn(ctx, st)
		dur := time.Since(t0)

		st.Report.StageDurations[def.Name] = dur.String()
		st.Recorder.ObserveStageDuration(string(def.Name), dur)

		if err != nil {
			var se *StageError
			if !errors.As(err, &se) {
				se = &StageError{Kind: StageErrorFatal, Stage: def.Name, Err: err}
			}
			slog.Error("Stage failed", "stage", def.Name, "duration", dur, "error", se.Err)
			return se
		}
		slog.Info("Stage completed", "stage", def.Name, "duration", dur)
	}
	return nil
}
