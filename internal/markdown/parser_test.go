package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWithFrontmatter(t *testing.T) {
	src := []byte("---\ntitle: Privacy Policy\nlastUpdated: 2026-01-15\n---\n# Your data\n\nWe keep **bookings** only as long as needed.\n")

	html, meta, err := NewParser().ParseWithFrontmatter(src)
	require.NoError(t, err)
	assert.Equal(t, "Privacy Policy", meta["title"])
	assert.Contains(t, string(html), `<h1 id="your-data">Your data</h1>`)
	assert.Contains(t, string(html), "<strong>bookings</strong>")
	assert.NotContains(t, string(html), "title:")
}

func TestParseDropsRawHTML(t *testing.T) {
	html, err := NewParser().Parse([]byte("hello <script>alert(1)</script>"))
	require.NoError(t, err)
	assert.NotContains(t, string(html), "<script>")
}

func TestParseWithoutFrontmatter(t *testing.T) {
	_, meta, err := NewParser().ParseWithFrontmatter([]byte("plain"))
	require.NoError(t, err)
	assert.Empty(t, meta)
}
