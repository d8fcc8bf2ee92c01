package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"glasslink/internal/auth"
)

// GetUserID re-exports the context accessor for handlers.
var GetUserID = auth.GetUserID

// IdentityMiddleware resolves the caller's user identity and injects it
// into the request context. Identity verification itself belongs to the
// device platform; this middleware only carries the resolved id.
// Requests without one are terminal 401s, never retried server-side.
func IdentityMiddleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Always allow OPTIONS for CORS
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			userID := extractIdentity(r)
			if userID == "" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "authentication required"})
				return
			}

			ctx := context.WithValue(r.Context(), auth.ContextKeyUserID, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractIdentity pulls the user id from headers or query param.
// Priority: Authorization bearer > X-User-ID header > ?userId= query
// (audio elements cannot set headers on stream URLs).
func extractIdentity(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			if id := strings.TrimSpace(parts[1]); id != "" {
				return id
			}
		}
	}
	if id := strings.TrimSpace(r.Header.Get("X-User-ID")); id != "" {
		return id
	}
	if id := strings.TrimSpace(r.URL.Query().Get("userId")); id != "" {
		return id
	}
	return ""
}
