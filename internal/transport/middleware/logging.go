package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/driveads/campaign-management/pkg/logger"
)

// Header names whose values never belong in a log line.
var sensitiveHeaders = []string{
	"authorization",
	"cookie",
	"x-api-key",
}

// Logging writes one line per request with method, path, status and latency.
// Bodies are never logged; they carry bank details and tokens.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)

		status := sw.status
		if status == 0 {
			status = http.StatusOK
		}

		log := logger.From(r.Context())
		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote_addr", r.RemoteAddr,
		}
		if q := r.URL.RawQuery; q != "" {
			attrs = append(attrs, "query", q)
		}

		switch {
		case status >= 500:
			log.Error("request", attrs...)
		case status >= 400:
			log.Warn("request", attrs...)
		default:
			log.Info("request", attrs...)
		}
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// FilterHeaders masks credential-bearing headers for diagnostic dumps.
func FilterHeaders(headers http.Header) map[string]string {
	filtered := make(map[string]string, len(headers))
	for name, values := range headers {
		masked := false
		lower := strings.ToLower(name)
		for _, s := range sensitiveHeaders {
			if strings.Contains(lower, s) {
				masked = true
				break
			}
		}
		if masked {
			filtered[name] = "[FILTERED]"
		} else {
			filtered[name] = strings.Join(values, ", ")
		}
	}
	return filtered
}
