package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Recoverer is a middleware that recovers from panics.
// It logs the panic with its stack and responds with fallback, or a plain
// 500 Internal Server Error when fallback is nil.
func Recoverer(logger *slog.Logger, fallback http.HandlerFunc) func(http.Handler) http.Handler {
	if fallback == nil {
		fallback = func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				logger.ErrorContext(r.Context(), "panic recovered",
					slog.String("request_id", GetRequestID(r.Context())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Any("panic", rvr),
					slog.String("stack", string(debug.Stack())),
				)

				fallback(w, r)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// JSONInternalError writes the collection API's 500 body.
func JSONInternalError(w http.ResponseWriter, r *http.Request) {
	WriteDetail(w, http.StatusInternalServerError, "Internal server error")
}
