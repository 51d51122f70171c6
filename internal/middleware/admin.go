package middleware

import (
	"log/slog"
	"net/http"

	"github.com/sharetrack/sharetrack/internal/auth"
)

// AdminTokenHeader carries the admin token for privileged endpoints.
const AdminTokenHeader = "X-Admin-Token"

// AdminOnly returns middleware that gates privileged endpoints behind
// the admin token. tokenHash is the Argon2id PHC hash of the token;
// when it is empty every request is denied, so an unconfigured
// deployment cannot be reset by accident.
func AdminOnly(tokenHash string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tokenHash == "" {
				writeAdminError(w, http.StatusForbidden, "ADMIN_DISABLED", "Admin endpoints are not configured")
				return
			}

			token := r.Header.Get(AdminTokenHeader)
			if token == "" {
				writeAdminError(w, http.StatusUnauthorized, "MISSING_TOKEN", "Admin token is required")
				return
			}

			ok, err := auth.VerifyToken(token, tokenHash)
			if err != nil {
				logger.Error("admin token verification failed",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAdminError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
				return
			}
			if !ok {
				logger.Warn("admin token rejected",
					slog.String("remote_addr", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAdminError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Admin token is invalid")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeAdminError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + message + `","code":"` + code + `"}`))
}
