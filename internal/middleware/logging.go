// internal/middleware/logging.go
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// logCtxKey keys the request-scoped logger in the context.
type logCtxKey struct{}

// LoggingMiddleware attaches a request-scoped logger (request id included)
// to the context and emits one summary line per request. 5xx logs as error,
// 4xx as warn.
func LoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqLogger := logger.With("req_id", chimiddleware.GetReqID(r.Context()))
			ctx := context.WithValue(r.Context(), logCtxKey{}, reqLogger)
			r = r.WithContext(ctx)

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			level := slog.LevelInfo
			if ww.Status() >= 500 {
				level = slog.LevelError
			} else if ww.Status() >= 400 {
				level = slog.LevelWarn
			}
			reqLogger.Log(r.Context(), level, "Request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"latency_ms", float64(time.Since(start).Nanoseconds())/1e6,
				"bytes_out", ww.BytesWritten(),
			)
		})
	}
}

// GetLogger returns the request-scoped logger, or the default logger when
// called outside a request.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(logCtxKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
