package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5"
)

// Recoverer turns a handler panic into a 500 INTERNAL_ERROR response.
// In development the panic value is included in the message.
func Recoverer(logger *slog.Logger, isDevelopment bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if err, ok := rvr.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rvr)
				}

				route := r.URL.Path
				if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
					route = rctx.RoutePattern()
				}

				logger.Error("panic recovered",
					slog.String("request_id", GetRequestID(r.Context())),
					slog.String("method", r.Method),
					slog.String("route", route),
					slog.Any("panic", rvr),
					slog.String("stack", string(debug.Stack())),
				)

				message := "internal server error"
				if isDevelopment {
					message = fmt.Sprintf("internal server error: %v", rvr)
				}
				writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", message)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
