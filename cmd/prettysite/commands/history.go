package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/prettysite/internal/config"
	"git.home.luguber.info/inful/prettysite/internal/state"
)

// HistoryCmd lists recent runs from the history store.
type HistoryCmd struct {
	Limit int `help:"Maximum number of runs to show" default:"20"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if cfg.History.Path == "" {
		return fmt.Errorf("no history store configured (set history.path in %s)", root.Config)
	}

	store, err := state.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	runs, err := store.RecentRuns(context.Background(), h.Limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tDURATION\tDOCS\tSTUBS\tSITEMAP\tOUTCOME\tBUILD")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
			r.Started.Local().Format(time.DateTime),
			r.Finished.Sub(r.Started).Round(time.Millisecond),
			r.Documents, r.Stubs, r.SitemapEntries, r.Outcome, r.BuildID)
	}
	return w.Flush()
}
