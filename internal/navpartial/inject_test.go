package navpartial

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInjectReplacesPrimaryNav(t *testing.T) {
	page := []byte(`<body><nav class="main" aria-label="Primary"><ul><li>old</li></ul></nav><p>text</p></body>`)
	partial := []byte(`<nav aria-label="Primary"><a href="/">Home</a></nav>`)

	out := Inject(page, partial)
	assert.NotContains(t, string(out), "old")
	assert.Contains(t, string(out), `<a href="/">Home</a>`)
	assert.Contains(t, string(out), "<p>text</p>")
}

func TestInjectSpansNewlines(t *testing.T) {
	page := []byte("<nav aria-label='Primary'>\n  <ul>\n    <li>old</li>\n  </ul>\n</nav>")
	out := Inject(page, []byte("NAV"))
	assert.Equal(t, "NAV", string(out))
}

func TestInjectLeavesOtherNavsAlone(t *testing.T) {
	page := []byte(`<nav aria-label="Breadcrumb"><a href="/books/">Books</a></nav>`)
	out := Inject(page, []byte("NAV"))
	assert.Equal(t, string(page), string(out))
}

func TestInjectNormalizesBrandHrefs(t *testing.T) {
	for _, href := range []string{`href="/index.html"`, `href="index.html"`, `href='/index'`, `href="index/"`} {
		page := []byte(`<a class="brand" ` + href + `>Home</a>`)
		out := Inject(page, nil)
		assert.Contains(t, string(out), `href="/"`, href)
	}
}

func TestInjectWithoutMatchesIsIdentity(t *testing.T) {
	page := []byte(`<body><a href="/about/">About</a></body>`)
	out := Inject(page, []byte("NAV"))
	assert.Equal(t, string(page), string(out))
}
