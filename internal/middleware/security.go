package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/cors"
	"github.com/littlesteps/booking/internal/ctxkeys"
)

// SecurityHeaders sets the standard hardening headers and a CSP built from
// the request nonce. Gallery images may come from the S3 endpoint.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		h.Set("Content-Security-Policy", contentSecurityPolicy(r))

		// Token pages must not be cached by shared proxies.
		if strings.HasPrefix(r.URL.Path, "/data-") || strings.HasPrefix(r.URL.Path, "/api/") {
			h.Set("Cache-Control", "no-store")
		}

		cfg := ctxkeys.Config(r.Context())
		if cfg != nil && cfg.IsProduction() {
			h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}

func contentSecurityPolicy(r *http.Request) string {
	style := "'self'"
	if nonce := GetNonce(r.Context()); nonce != "" {
		style = fmt.Sprintf("'self' 'nonce-%s'", nonce)
	}

	img := "'self' data:"
	if cfg := ctxkeys.Config(r.Context()); cfg != nil && cfg.S3Endpoint != "" {
		img += " " + cfg.S3Endpoint
	} else {
		img += " https:"
	}

	return fmt.Sprintf(
		"default-src 'self'; script-src 'self'; style-src %s; img-src %s; form-action 'self'; frame-ancestors 'none'; base-uri 'none'",
		style, img,
	)
}

// CORS lets the booking front end call the JSON API from its own origin.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}
