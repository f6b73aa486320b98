package commands

import "git.home.luguber.info/inful/prettysite/internal/build"

// EmitCmd transforms documents without touching the sitemap.
type EmitCmd struct{}

func (e *EmitCmd) Run(_ *Global, root *CLI) error {
	return runTransform(root, build.ModeEmit)
}
