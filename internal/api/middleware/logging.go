package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// LoggingMiddleware is a middleware for logging requests and responses
type LoggingMiddleware struct {
	logger *slog.Logger
}

// NewLoggingMiddleware creates a new logging middleware
func NewLoggingMiddleware(logger *slog.Logger) LoggingMiddleware {
	return LoggingMiddleware{logger: logger}
}

// statusRecorder captures the status code written by the handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Handle handles the logging middleware
func (m LoggingMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()

		m.logger.Info("REQUEST",
			"method", r.Method,
			"path", r.URL.Path,
			"requestId", GetRequestID(r.Context()),
			"query", r.URL.RawQuery)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		m.logger.Info("RESPONSE",
			"status", rec.status,
			"duration", time.Since(startTime),
			"requestId", GetRequestID(r.Context()))
	})
}
