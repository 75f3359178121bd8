package middleware

import (
	"net/http"

	"github.com/autowerk/garage-management/internal"
	"github.com/autowerk/garage-management/pkg/logger"

	"github.com/google/uuid"
)

// RequestID assigns a trace ID to every request, honoring one supplied by the
// caller. The ID travels in the context, on the request logger, and back out
// in the response header so a browser report can be matched to server logs.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get("X-Trace-ID")
		if traceID == "" {
			traceID = uuid.NewString()
		}

		ctx := internal.ContextWithTraceID(r.Context(), traceID)
		ctx = logger.With(ctx, "traceID", traceID)

		w.Header().Set("X-Trace-ID", traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
