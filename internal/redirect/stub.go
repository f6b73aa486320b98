// Package redirect generates the minimal document written back at a legacy
// flat path, forwarding clients and crawlers to the pretty URL.
package redirect

import "fmt"

// stubFormat references the target three times: canonical link for crawlers,
// zero-delay refresh for clients without script, and an active replace so the
// flat path never enters browser history.
const stubFormat = `<!doctype html><meta charset="utf-8">
<title>Redirecting...</title>
<link rel="canonical" href="%s">
<meta http-equiv="refresh" content="0; url=%s">
<script>location.replace(%q);</script>
`

// Stub returns the redirect document for the given public URL. Equal input
// yields byte-identical output.
func Stub(publicURL string) []byte {
	return []byte(fmt.Sprintf(stubFormat, publicURL, publicURL, publicURL))
}
