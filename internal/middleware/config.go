package middleware

import (
	"net/http"

	"github.com/littlesteps/booking/internal/config"
	"github.com/littlesteps/booking/internal/ctxkeys"
)

// Config puts the public settings (app name, URL, support address) on the
// request context, where the landing pages and email links read them. The
// JWT secret, mail API key and database DSN are stripped once up front.
func Config(cfg *config.Config) func(http.Handler) http.Handler {
	public := cfg.Sanitized()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(ctxkeys.WithConfig(r.Context(), public)))
		})
	}
}
