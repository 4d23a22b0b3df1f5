package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/V4T54L/journalview/internal/domain"
)

const APIKeyHeader = "X-API-Key"

// apiKey returns the key from X-API-Key, or from an "Authorization: Bearer" header.
func apiKey(r *http.Request) string {
	if key := r.Header.Get(APIKeyHeader); key != "" {
		return key
	}
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// Auth rejects requests that do not carry a key accepted by repo.
func Auth(repo domain.APIKeyRepository, logger *slog.Logger) func(http.Handler) http.Handler {
	logger = logger.With("component", "auth")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := RequestIDFromContext(r.Context())

			key := apiKey(r)
			if key == "" {
				logger.Warn("API key missing from request", "request_id", reqID, "remote_addr", r.RemoteAddr)
				w.Header().Set("WWW-Authenticate", `Bearer realm="journalview"`)
				http.Error(w, "Unauthorized: API key required", http.StatusUnauthorized)
				return
			}

			isValid, err := repo.IsValid(r.Context(), key)
			if err != nil {
				logger.Error("failed to validate API key", "request_id", reqID, "error", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			if !isValid {
				logger.Warn("invalid API key provided", "request_id", reqID, "remote_addr", r.RemoteAddr)
				http.Error(w, "Unauthorized: Invalid API key", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
