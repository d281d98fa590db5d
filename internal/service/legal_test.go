package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLegal(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "legal"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "legal", name), []byte(content), 0o644))
}

func TestLegalPages(t *testing.T) {
	dir := t.TempDir()
	writeLegal(t, dir, "privacy.md", "---\ntitle: Privacy Policy\nlastUpdated: 2026-03-01\n---\n\n# Your data\n\nWe keep bookings.\n")
	writeLegal(t, dir, "cookie-policy.md", "Cookies are small files.\n")
	writeLegal(t, dir, "notes.txt", "ignored")

	svc := NewLegalService(dir, false)
	require.NoError(t, svc.LoadPages())
	assert.Equal(t, []string{"cookie-policy", "privacy"}, svc.Slugs())

	page, err := svc.Page("privacy")
	require.NoError(t, err)
	assert.Equal(t, "Privacy Policy", page.Title)
	assert.Equal(t, "March 1, 2026", page.LastUpdated)
	assert.Contains(t, page.Content, "We keep bookings.")

	page, err = svc.Page("cookie-policy")
	require.NoError(t, err)
	assert.Equal(t, "Cookie Policy", page.Title)
	assert.NotEmpty(t, page.LastUpdated)

	_, err = svc.Page("terms")
	assert.ErrorIs(t, err, ErrLegalPageNotFound)
}

func TestLegalPagesReload(t *testing.T) {
	dir := t.TempDir()
	writeLegal(t, dir, "terms.md", "Old terms.\n")

	svc := NewLegalService(dir, true)
	require.NoError(t, svc.LoadPages())

	writeLegal(t, dir, "terms.md", "New terms.\n")
	page, err := svc.Page("terms")
	require.NoError(t, err)
	assert.Contains(t, page.Content, "New terms.")
}

func TestLegalPagesMissingDir(t *testing.T) {
	svc := NewLegalService(t.TempDir(), false)
	require.NoError(t, svc.LoadPages())
	assert.Empty(t, svc.Slugs())
}

func TestParseLegalDate(t *testing.T) {
	assert.Equal(t, "January 5, 2026", parseLegalDate("2026-01-05"))
	assert.Equal(t, "January 5, 2026", parseLegalDate("05.01.2026"))
	assert.Equal(t, "sometime", parseLegalDate("sometime"))
	assert.Empty(t, parseLegalDate(42))
}

func TestSitemapIncludesLegalPages(t *testing.T) {
	dir := t.TempDir()
	writeLegal(t, dir, "privacy.md", "Privacy.\n")
	legal := NewLegalService(dir, false)
	require.NoError(t, legal.LoadPages())

	svc := NewSitemapService(legal, "https://littlesteps.test/")
	out, err := svc.GenerateSitemap()
	require.NoError(t, err)

	xml := string(out)
	assert.True(t, strings.HasPrefix(xml, "<?xml"))
	assert.Contains(t, xml, "<loc>https://littlesteps.test/</loc>")
	assert.Contains(t, xml, "<loc>https://littlesteps.test/legal/privacy</loc>")
	assert.NotContains(t, xml, "data-download")

	robots := svc.RobotsTxt()
	assert.Contains(t, robots, "Disallow: /data-download/")
	assert.Contains(t, robots, "Sitemap: https://littlesteps.test/sitemap.xml")
}
