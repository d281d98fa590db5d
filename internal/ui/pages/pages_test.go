package pages

import (
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/littlesteps/booking/internal/config"
	"github.com/littlesteps/booking/internal/ctxkeys"
	"github.com/littlesteps/booking/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, ctx context.Context, c templ.Component) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, c.Render(ctx, &sb))
	return sb.String()
}

func TestStatePagesShareShell(t *testing.T) {
	ctx := ctxkeys.WithConfig(context.Background(), &config.Config{AppName: "Little Steps", AppURL: "https://booking.example.com"})
	ctx = templ.WithNonce(ctx, "n0nce")

	html := render(t, ctx, DownloadExpired())
	assert.True(t, strings.HasPrefix(html, "<!doctype html>"))
	assert.Contains(t, html, `<meta name="robots" content="noindex, nofollow">`)
	assert.Contains(t, html, "<title>This link has expired | Little Steps</title>")
	assert.Contains(t, html, `<style nonce="n0nce">`)
	assert.Contains(t, html, "<p>Download links are valid for 24 hours.</p>")
	assert.Contains(t, html, `<a href="https://booking.example.com/">Little Steps</a>`)
}

func TestPagesEscapeDynamicText(t *testing.T) {
	html := render(t, context.Background(), Maintenance(`<script>alert("x")</script>`))
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")

	html = render(t, context.Background(), DeletionConfirm(`abc"><b>`, "1 March 2026"))
	assert.NotContains(t, html, `"><b>`)
	assert.Contains(t, html, "This confirmation link is valid until 1 March 2026.")
}

func TestMaintenanceDefaultMessage(t *testing.T) {
	html := render(t, context.Background(), Maintenance(""))
	assert.Contains(t, html, "will be back shortly")
	assert.Contains(t, html, "<title>Down for maintenance | Little Steps</title>")
}

func TestDownloadReadyLinksToFile(t *testing.T) {
	html := render(t, context.Background(), DownloadReady(DownloadSummary{
		Token:     "abc123",
		Bookings:  2,
		Consents:  1,
		ExpiresAt: "2 March 2026 10:00 UTC",
	}))
	assert.Contains(t, html, `href="/data-download/abc123/file" download>`)
	assert.Contains(t, html, "This export contains 2 booking(s) and 1 consent record(s).")
}

func TestLegalIsIndexedAndKeepsMarkup(t *testing.T) {
	html := render(t, context.Background(), Legal(&service.LegalPage{
		Title:       "Privacy Policy",
		Content:     "<h2>Who we are</h2>",
		LastUpdated: "March 1, 2026",
	}))
	assert.Contains(t, html, `content="index, follow"`)
	assert.Contains(t, html, "<h2>Who we are</h2>")
	assert.Contains(t, html, "Last updated March 1, 2026")
}
