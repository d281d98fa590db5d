package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/littlesteps/booking/internal/model"
)

// MaintenanceSource reports the current maintenance switch.
type MaintenanceSource interface {
	MaintenanceStatus(ctx context.Context) (*model.Maintenance, error)
}

// Paths that keep working while the site is in maintenance.
var maintenanceBypass = []string{
	"/api/admin/",
	"/api/settings/public",
	"/healthz",
	"/metrics",
	"/robots.txt",
}

// Maintenance blocks public writes with a 503 JSON error and replaces public
// pages with page while maintenance mode is on. API reads still work so the
// front end can show its own banner. A failing settings lookup lets traffic through.
func Maintenance(source MaintenanceSource, page func(message string) templ.Component) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if bypassesMaintenance(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			status, err := source.MaintenanceStatus(r.Context())
			if err != nil {
				slog.Error("maintenance status lookup failed", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !status.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Retry-After", "600")

			if strings.HasPrefix(r.URL.Path, "/api/") {
				if isSafeMethod(r.Method) {
					next.ServeHTTP(w, r)
					return
				}
				message := status.Message
				if message == "" {
					message = "The site is undergoing maintenance. Please try again later."
				}
				writeError(w, http.StatusServiceUnavailable, "maintenance", message)
				return
			}

			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusServiceUnavailable)
			err = page(status.Message).Render(r.Context(), w)
			if err != nil {
				slog.Error("render maintenance page failed", "error", err)
			}
		})
	}
}

func bypassesMaintenance(path string) bool {
	for _, prefix := range maintenanceBypass {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func isSafeMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}
