// Package middleware holds the HTTP middleware specific to this server.
package middleware

import (
	"net/http"
	"time"

	"github.com/JonMunkholm/contactimport/internal/logging"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Logger writes one structured log line per request, tagged with chi's
// request ID. Uploads log their size so slow imports can be correlated.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		logging.FromContext(r.Context()).Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes_in", r.ContentLength,
			"bytes_out", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)
	})
}
