package commands

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/prettysite/internal/build"
	"git.home.luguber.info/inful/prettysite/internal/config"
	"git.home.luguber.info/inful/prettysite/internal/metrics"
)

// WatchCmd rebuilds the tree whenever HTML documents change, and
// optionally on a fixed interval as well.
type WatchCmd struct {
	Debounce time.Duration `help:"Quiet period before a rebuild triggers" default:"2s"`
	Every    time.Duration `help:"Also rebuild on this interval (0 disables)" default:"0"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := addWatches(watcher, root.Root, cfg); err != nil {
		return err
	}

	trigger := make(chan struct{}, 1)
	requestBuild := func() {
		select {
		case trigger <- struct{}{}:
		default:
		}
	}

	var scheduler gocron.Scheduler
	if w.Every > 0 {
		scheduler, err = gocron.NewScheduler()
		if err != nil {
			return err
		}
		if _, err := scheduler.NewJob(
			gocron.DurationJob(w.Every),
			gocron.NewTask(requestBuild),
		); err != nil {
			return err
		}
		scheduler.Start()
		defer func() { _ = scheduler.Shutdown() }()
	}

	runOnce := func() {
		ctx, cancel := signalContext()
		defer cancel()
		recorder := metrics.NewRecorder()
		report, err := build.Run(ctx, build.Options{Root: root.Root, Config: cfg, Mode: build.ModeFull, Recorder: recorder})
		finishRun(cfg, recorder, report)
		if err != nil {
			slog.Error("Rebuild failed", "error", err)
			return
		}
		// New pretty directories may have appeared; watch them too.
		if err := addWatches(watcher, root.Root, cfg); err != nil {
			slog.Warn("Failed to refresh watches", "error", err)
		}
	}

	slog.Info("Watching for changes", "root", root.Root, "debounce", w.Debounce)
	runOnce()
	lastBuild := time.Now()

	var timer *time.Timer
	var timerC <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			slog.Info("Watch stopped")
			return nil
		case <-trigger:
			runOnce()
			lastBuild = time.Now()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevantEvent(ev) {
				continue
			}
			// Writes during the quiet window after a build are our own output.
			if time.Since(lastBuild) < w.Debounce {
				continue
			}
			slog.Debug("Change detected", "path", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.Debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.Debounce)
			}
		case <-timerC:
			timer = nil
			timerC = nil
			runOnce()
			lastBuild = time.Now()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", "error", err)
		}
	}
}

// relevantEvent filters to content changes on HTML documents.
func relevantEvent(ev fsnotify.Event) bool {
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Remove) && !ev.Op.Has(fsnotify.Rename) {
		return false
	}
	return strings.HasSuffix(ev.Name, ".html")
}

// addWatches registers the root and every non-excluded subdirectory.
// Already-watched directories are deduplicated by fsnotify itself.
func addWatches(watcher *fsnotify.Watcher, root string, cfg *config.Config) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" {
			return filepath.SkipDir
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel != "." {
			relSlash := filepath.ToSlash(rel) + "/"
			for _, prefix := range cfg.Exclude.Prefixes {
				if strings.HasPrefix(relSlash, prefix) {
					return filepath.SkipDir
				}
			}
		}
		if err := watcher.Add(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	})
}
