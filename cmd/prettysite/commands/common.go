package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/prettysite/internal/build"
	"git.home.luguber.info/inful/prettysite/internal/config"
	"git.home.luguber.info/inful/prettysite/internal/events"
	"git.home.luguber.info/inful/prettysite/internal/metrics"
	"git.home.luguber.info/inful/prettysite/internal/state"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"prettysite.yaml"`
	Root    string `short:"r" help:"Site root directory" default:"."`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build   BuildCmd   `cmd:"" default:"1" help:"Transform the tree and generate the sitemap (default)"`
	Emit    EmitCmd    `cmd:"" help:"Transform the tree without generating the sitemap"`
	Sitemap SitemapCmd `cmd:"" help:"Regenerate the sitemap from an already-transformed tree"`
	Watch   WatchCmd   `cmd:"" help:"Rebuild whenever documents change"`
	History HistoryCmd `cmd:"" help:"Show recent runs from the history store"`
	Init    InitCmd    `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// signalContext returns a context canceled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// runTransform loads configuration, executes one run, and flushes the
// post-run integrations.
func runTransform(root *CLI, mode build.Mode) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	recorder := metrics.NewRecorder()
	report, runErr := build.Run(ctx, build.Options{
		Root:     root.Root,
		Config:   cfg,
		Mode:     mode,
		Recorder: recorder,
	})
	finishRun(cfg, recorder, report)
	return runErr
}

// finishRun flushes metrics, publishes the build event, and records history.
// All three are best-effort: the transform result stands regardless.
func finishRun(cfg *config.Config, recorder *metrics.Recorder, report *build.Report) {
	if report == nil {
		return
	}

	if cfg.Metrics.Textfile != "" {
		if err := recorder.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			slog.Warn("Failed to write metrics textfile", "path", cfg.Metrics.Textfile, "error", err)
		}
	}

	if cfg.Events.NATSURL != "" {
		pub, err := events.NewPublisher(cfg.Events.NATSURL, cfg.Events.Subject)
		if err != nil {
			slog.Warn("Failed to connect event publisher", "error", err)
		} else {
			if err := pub.PublishReport(report); err != nil {
				slog.Warn("Failed to publish build report", "error", err)
			}
			pub.Close()
		}
	}

	if cfg.History.Path != "" {
		store, err := state.Open(cfg.History.Path)
		if err != nil {
			slog.Warn("Failed to open history store", "error", err)
			return
		}
		defer func() { _ = store.Close() }()
		rec := state.RunRecord{
			BuildID:        report.BuildID,
			Started:        report.Started,
			Finished:       report.Finished,
			Documents:      report.Documents,
			Stubs:          report.Stubs,
			SitemapEntries: report.SitemapEntries,
			Outcome:        report.Outcome,
		}
		if err := store.RecordRun(context.Background(), rec); err != nil {
			slog.Warn("Failed to record run history", "error", err)
		}
	}
}
