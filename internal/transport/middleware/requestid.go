package middleware

import (
	"net/http"

	"github.com/driveads/campaign-management/pkg/logger"
	"github.com/google/uuid"
)

// RequestID tags every request with a trace ID, honoring one supplied by the
// caller, and threads it through the context logger and the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get("X-Trace-ID")
		if traceID == "" {
			traceID = uuid.NewString()
		}

		ctx := logger.With(r.Context(), "trace_id", traceID)
		w.Header().Set("X-Trace-ID", traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
