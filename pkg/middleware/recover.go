package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/tavolo/tavolo/pkg/logger"
	"github.com/tavolo/tavolo/pkg/response"
)

// Recovery converts handler panics into a 500 envelope instead of
// tearing down the connection.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.WithCtx(r.Context()).Error("panic recovered",
					"error", rec,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				response.Error(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
