package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/autowerk/garage-management/internal"
)

// RecoveryMiddleware turns a handler panic into a 500. The panic value and
// stack go to the log only; the response carries just the trace ID so nothing
// internal leaks to the browser.
func RecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					traceID := internal.TraceIDFromContext(r.Context())
					logger.Error("panic recovered",
						"error", err,
						"trace_id", traceID,
						"method", r.Method,
						"url", r.URL.String(),
						"stack", string(debug.Stack()))

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					fmt.Fprintf(w, `{"error": "Internal server error", "trace_id": %q}`, traceID)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
