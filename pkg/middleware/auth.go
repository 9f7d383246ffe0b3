package middleware

import (
	"context"
	"net/http"
)

type contextKeyType string

const callerIDKey contextKeyType = "caller_id"

// HeaderIdentity populates the caller identity from the X-Caller-ID header.
// Identities are opaque strings assigned by a trusted gateway that terminates
// authentication upstream of this service.
func HeaderIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CallerIDFromContext(r.Context()) == "" {
			if id := r.Header.Get("X-Caller-ID"); id != "" {
				r = r.WithContext(context.WithValue(r.Context(), callerIDKey, id))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// CallerIDFromContext extracts the caller identity from the request context.
// It returns an empty string for anonymous requests.
func CallerIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(callerIDKey).(string); ok {
		return id
	}
	return ""
}
