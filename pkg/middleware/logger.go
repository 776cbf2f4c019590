package middleware

import (
	"net/http"
	"time"

	"github.com/tavolo/tavolo/pkg/logger"
	"github.com/tavolo/tavolo/pkg/reqid"
)

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// Logger logs one line per request and tags the request context logger
// with the request id so handlers inherit it.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		reqLogger := logger.L.With("request_id", reqid.FromContext(r.Context()))
		r = r.WithContext(logger.InjectLogger(r.Context(), reqLogger))

		next.ServeHTTP(rw, r)

		reqLogger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.status,
			"duration", time.Since(start).String(),
			"remote", r.RemoteAddr,
		)
	})
}
