package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/littlesteps/booking/internal/ctxkeys"
	"github.com/littlesteps/booking/internal/model"
)

// AdminVerifier resolves a bearer token to an admin account.
type AdminVerifier interface {
	AdminFromJWT(token string) (*model.AdminUser, error)
}

// AdminAuth checks the Authorization header and adds the admin to the context if valid.
// Requests without a valid token continue anonymously; RequireAdmin rejects them.
func AdminAuth(verifier AdminVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			admin, err := verifier.AdminFromJWT(token)
			if err != nil {
				slog.Debug("admin token rejected", "error", err, "path", r.URL.Path)
				next.ServeHTTP(w, r)
				return
			}

			// Never carry the hash around in the request.
			admin.PasswordHash = ""

			ctx := ctxkeys.WithAdmin(r.Context(), admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin ensures the request carries a valid admin token
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.Admin(r.Context()) == nil {
			w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
			writeError(w, http.StatusUnauthorized, "unauthorized", "Admin login required.")
			return
		}
		next(w, r)
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
