package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/nikolayk812/sessioncart/internal/logger"
)

const requestIDHeader = "X-Request-Id"

// requestLogger scopes the logger to the request id assigned by
// middleware.RequestID and echoes the id back to the client.
func requestLogger(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if reqID := middleware.GetReqID(ctx); reqID != "" {
				w.Header().Set(requestIDHeader, reqID)
				ctx = logg.WithRequestID(ctx, reqID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func accessLog(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			logg.Access(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
		})
	}
}
