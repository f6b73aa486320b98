package commands

import "git.home.luguber.info/inful/prettysite/internal/build"

// BuildCmd runs the full pipeline: transform plus sitemap.
type BuildCmd struct{}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	return runTransform(root, build.ModeFull)
}
