package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/prettysite/cmd/prettysite/commands"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("prettysite"),
		kong.Description("Convert a flat HTML tree into a pretty-URL static site with redirect stubs and a sitemap"),
		kong.UsageOnError(),
	)

	global := &commands.Global{Logger: slog.Default()}
	if err := ctx.Run(global, &cli); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}
