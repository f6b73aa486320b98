package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/prettysite/internal/redirect"
)

// stageTransform rewrites every pending document into its pretty index
// location and overwrites the flat original with a redirect stub. Each
// document writes only to its own two output paths; any I/O error aborts the
// run.
func stageTransform(ctx context.Context, st *State) error {
	for _, source := range st.Pending {
		select {
		case <-ctx.Done():
			return &StageError{Kind: StageErrorCanceled, Stage: StageTransform, Err: ctx.Err()}
		default:
		}

		target, ok := st.Mapper.Map(source)
		if !ok {
			// Scan only queues mappable documents.
			return fmt.Errorf("unmappable document queued for transform: %s", source)
		}

		sourceAbs := filepath.Join(st.Root, filepath.FromSlash(source))
		prettyAbs := filepath.Join(st.Root, filepath.FromSlash(target.PrettyPath))

		raw, err := os.ReadFile(sourceAbs)
		if err != nil {
			return fmt.Errorf("read %s: %w", source, err)
		}

		rewritten, err := st.Rewriter.Rewrite(raw, source, target.PublicURL)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(filepath.Dir(prettyAbs), 0o755); err != nil {
			return fmt.Errorf("create directory for %s: %w", target.PrettyPath, err)
		}
		if err := os.WriteFile(prettyAbs, rewritten, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", target.PrettyPath, err)
		}
		if err := os.WriteFile(sourceAbs, redirect.Stub(target.PublicURL), 0o644); err != nil {
			return fmt.Errorf("write redirect stub %s: %w", source, err)
		}

		st.Report.Documents++
		st.Report.Stubs++
		slog.Debug("Document transformed", "source", source, "pretty", target.PrettyPath, "url", target.PublicURL)
	}

	st.Recorder.AddDocuments(st.Report.Documents)
	st.Recorder.AddStubs(st.Report.Stubs)
	slog.Info("Transform completed", "documents", st.Report.Documents, "stubs", st.Report.Stubs)
	return nil
}
