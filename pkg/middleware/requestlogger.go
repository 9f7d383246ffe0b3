package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gigvault/escrowd/pkg/logger"
)

// RequestLogger returns middleware that builds a request-scoped logger enriched
// with correlation_id, caller_id, trace_id, and span_id, then stores it in
// context via logger.NewContext. Downstream handlers retrieve it with
// logger.FromContext(ctx).
//
// This middleware should be mounted AFTER RequestLogging (which sets
// correlation_id) and Tracing (which sets the OpenTelemetry span context).
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			// Pick up caller_id from the auth middleware context key or the
			// X-Caller-ID header (used by deployments that don't run Auth).
			callerID := CallerIDFromContext(ctx)
			if callerID == "" {
				callerID = r.Header.Get("X-Caller-ID")
			}
			if callerID != "" {
				ctx = logger.WithCallerID(ctx, callerID)
			}

			enriched := logger.WithContext(ctx, base)
			ctx = logger.NewContext(ctx, enriched)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
