package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/hirosato/bookkeeper/internal/api/response"
	"github.com/hirosato/bookkeeper/internal/domain/errors"
)

// RecoveryMiddleware is a middleware for recovering from panics
type RecoveryMiddleware struct {
	logger *slog.Logger
}

// NewRecoveryMiddleware creates a new recovery middleware
func NewRecoveryMiddleware(logger *slog.Logger) RecoveryMiddleware {
	return RecoveryMiddleware{logger: logger}
}

// Handle handles the recovery middleware
func (m RecoveryMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				m.logger.Error("PANIC",
					"panic", rec,
					"stack", string(debug.Stack()),
					"requestId", GetRequestID(r.Context()))
				appErr := errors.NewInternalError("An unexpected error occurred", nil)
				response.WriteError(w, appErr, GetRequestID(r.Context()))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
