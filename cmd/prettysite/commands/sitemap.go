package commands

import "git.home.luguber.info/inful/prettysite/internal/build"

// SitemapCmd rebuilds the sitemap from the current tree state.
type SitemapCmd struct{}

func (s *SitemapCmd) Run(_ *Global, root *CLI) error {
	return runTransform(root, build.ModeSitemap)
}
