package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/autowerk/garage-management/internal"
)

// sensitiveFields are field names that should be filtered from logs
var sensitiveFields = []string{
	"password",
	"password_hash",
	"passwordhash",
	"token",
	"csrf_token",
	"authorization",
	"secret",
	"key",
	"session",
	"credential",
	"auth",
}

func LoggingMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			traceID := internal.TraceIDFromContext(r.Context())

			logRequest(logger, r, traceID)

			ww := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(ww, r)

			logger.Info("http response",
				"trace_id", traceID,
				"status", ww.statusCode,
				"duration_ms", time.Since(start).Milliseconds())
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	wrote      bool
}

func (w *responseWriter) WriteHeader(code int) {
	if !w.wrote {
		w.statusCode = code
		w.wrote = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func logRequest(logger *slog.Logger, r *http.Request, traceID string) {
	attrs := []any{
		"trace_id", traceID,
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr,
	}

	if r.Body != nil && isJSONRequest(r) {
		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
		if err == nil {
			r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), r.Body))
			if filtered := filterSensitive(body); filtered != "" {
				attrs = append(attrs, "body", filtered)
			}
		}
	}

	logger.Info("http request", attrs...)
}

func isJSONRequest(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Content-Type"), "application/json")
}

// filterSensitive redacts credential-bearing fields from a JSON body before
// logging. Unparseable bodies are dropped entirely rather than logged raw.
func filterSensitive(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	for key := range payload {
		lower := strings.ToLower(key)
		for _, field := range sensitiveFields {
			if strings.Contains(lower, field) {
				payload[key] = "[REDACTED]"
				break
			}
		}
	}

	filtered, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	return string(filtered)
}
