package auth

import "net/http"

// ContextKey is the type used for context keys
type ContextKey string

// ContextKeyUserID is the key for the resolved user identity in the
// request context.
const ContextKeyUserID ContextKey = "userID"

// GetUserID retrieves the authenticated user id from the request
// context. Empty means the request carried no resolvable identity.
func GetUserID(r *http.Request) string {
	if id, ok := r.Context().Value(ContextKeyUserID).(string); ok {
		return id
	}
	return ""
}
