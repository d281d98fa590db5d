package routes

import (
	"net/http"
	"time"

	"github.com/littlesteps/booking/internal/app"
	"github.com/littlesteps/booking/internal/handler"
	"github.com/littlesteps/booking/internal/metrics"
	"github.com/littlesteps/booking/internal/middleware"
	"github.com/littlesteps/booking/internal/ui/pages"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	seo := handler.NewSEOHandler(app.SitemapService)
	legal := handler.NewLegalHandler(app.LegalService)
	public := handler.NewPublicHandler(app.SettingsService, app.PricingService, app.BookingService, app.ConsentService, app.MediaService)
	gdpr := handler.NewGDPRHandler(app.GDPRService)
	admin := handler.NewAdminHandler(app.AuthService, app.BookingService, app.PricingService, app.SettingsService, app.GDPRService, app.MediaService, app.Cfg.JWTExpiry)

	// Rate limits are per IP
	bookingLimit := middleware.RateLimit("bookings", 10, time.Hour)
	gdprLimit := middleware.RateLimit("gdpr", 5, 15*time.Minute)
	tokenLimit := middleware.RateLimit("gdpr_token", 30, 15*time.Minute)
	loginLimit := middleware.RateLimit("admin_login", 5, 15*time.Minute)

	mux := http.NewServeMux()

	// ============================================================================
	// OPERATIONS
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Health)
	if app.Cfg.MetricsEnabled {
		mux.Handle("GET /metrics", metrics.Handler())
	}

	// SEO
	mux.HandleFunc("GET /robots.txt", seo.Robots)
	mux.HandleFunc("GET /sitemap.xml", seo.Sitemap)

	// ============================================================================
	// PUBLIC API
	// ============================================================================

	mux.HandleFunc("GET /api/settings/public", public.PublicSettings)
	mux.HandleFunc("GET /api/services", public.Services)
	mux.HandleFunc("POST /api/quote", public.Quote)
	mux.HandleFunc("POST /api/bookings", bookingLimit(public.CreateBooking))
	mux.HandleFunc("POST /api/consent", public.RecordConsent)
	mux.HandleFunc("GET /api/consent/{visitorID}", public.LatestConsent)
	mux.HandleFunc("GET /api/gallery", public.Gallery)
	mux.HandleFunc("GET /api/legal/{page}", legal.PageJSON)

	// Data protection requests
	mux.HandleFunc("POST /api/gdpr/export", gdprLimit(gdpr.RequestExport))
	mux.HandleFunc("GET /api/gdpr/export/{token}", tokenLimit(gdpr.ValidateExport))
	mux.HandleFunc("POST /api/gdpr/export/{token}/invalidate", tokenLimit(gdpr.InvalidateExport))
	mux.HandleFunc("POST /api/gdpr/deletion", gdprLimit(gdpr.RequestDeletion))
	mux.HandleFunc("POST /api/gdpr/deletion/{token}/confirm", tokenLimit(gdpr.ConfirmDeletionAPI))

	// ============================================================================
	// ADMIN API (/api/admin/*)
	// ============================================================================

	mux.HandleFunc("POST /api/admin/login", loginLimit(admin.Login))
	mux.HandleFunc("GET /api/admin/me", middleware.RequireAdmin(admin.Me))

	// Bookings
	mux.HandleFunc("GET /api/admin/bookings", middleware.RequireAdmin(admin.ListBookings))
	mux.HandleFunc("GET /api/admin/bookings/{id}", middleware.RequireAdmin(admin.GetBooking))
	mux.HandleFunc("PATCH /api/admin/bookings/{id}/status", middleware.RequireAdmin(admin.UpdateBookingStatus))
	mux.HandleFunc("POST /api/admin/bookings/{id}/archive", middleware.RequireAdmin(admin.ArchiveBooking))
	mux.HandleFunc("POST /api/admin/bookings/{id}/restore", middleware.RequireAdmin(admin.RestoreBooking))
	mux.HandleFunc("DELETE /api/admin/bookings/{id}", middleware.RequireAdmin(admin.DeleteBooking))

	// Pricing
	mux.HandleFunc("GET /api/admin/pricing", middleware.RequireAdmin(admin.ListPricing))
	mux.HandleFunc("PUT /api/admin/pricing/{serviceType}", middleware.RequireAdmin(admin.SavePricing))
	mux.HandleFunc("DELETE /api/admin/pricing/{serviceType}", middleware.RequireAdmin(admin.DeletePricing))

	// Site settings
	mux.HandleFunc("GET /api/admin/maintenance", middleware.RequireAdmin(admin.GetMaintenance))
	mux.HandleFunc("PUT /api/admin/maintenance", middleware.RequireAdmin(admin.SetMaintenance))

	// Data protection
	mux.HandleFunc("GET /api/admin/deletion-requests", middleware.RequireAdmin(admin.ListDeletionRequests))

	// Gallery
	mux.HandleFunc("POST /api/admin/gallery", middleware.RequireAdmin(admin.UploadMedia))
	mux.HandleFunc("DELETE /api/admin/gallery/{id}", middleware.RequireAdmin(admin.DeleteMedia))

	// ============================================================================
	// PAGES
	// ============================================================================

	mux.HandleFunc("GET /data-download/{token}", tokenLimit(gdpr.DownloadPage))
	mux.HandleFunc("GET /data-download/{token}/file", tokenLimit(gdpr.DownloadFile))
	mux.HandleFunc("GET /data-deletion/{token}", tokenLimit(gdpr.DeletionPage))
	mux.HandleFunc("POST /data-deletion/{token}", tokenLimit(gdpr.ConfirmDeletionPage))
	mux.HandleFunc("GET /legal/{page}", legal.ShowPage)

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/api/", legal.APINotFound)
	mux.HandleFunc("/{path...}", legal.NotFound)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Recovery,
		middleware.Config(app.Cfg), // Config must come before SecurityHeaders (S3 endpoint for CSP)
		middleware.NonceMiddleware, // Generate CSP nonce for each request (must be before SecurityHeaders)
		middleware.SecurityHeaders, // Security headers for all responses
		middleware.CORS(app.Cfg.CORSAllowedOrigins),
		middleware.AdminAuth(app.AuthService),
		middleware.RequestLogging, // Last context change happens before this, so r.Pattern is visible
		middleware.Maintenance(app.SettingsService, pages.Maintenance),
	)

	return handler
}
