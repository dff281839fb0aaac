package apiclient

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/catsfront/catsfront/internal/busy"
	"github.com/catsfront/catsfront/internal/metrics"
)

// maxLoggedBody bounds the response payload included in failure logs.
const maxLoggedBody = 2048

// Outcome describes how a request settled.
type Outcome struct {
	Status   int
	Duration time.Duration
	Err      *RequestError
}

// Hook observes every hooked request. It runs before dispatch and returns
// the function to call once the request settles, success or failure.
type Hook func(ctx context.Context, op string, req *http.Request) (after func(Outcome))

// BusyHook holds the indicator in the wait state while a request is in flight.
func BusyHook(ind *busy.Indicator) Hook {
	return func(ctx context.Context, op string, req *http.Request) func(Outcome) {
		leave := ind.Enter()
		return func(Outcome) { leave() }
	}
}

// LogHook logs every failed request with its status, payload and message.
func LogHook(logger *slog.Logger) Hook {
	logger = logger.With("component", "apiclient")
	return func(ctx context.Context, op string, req *http.Request) func(Outcome) {
		return func(o Outcome) {
			if o.Err == nil {
				logger.DebugContext(ctx, "api_request",
					"op", op,
					"method", req.Method,
					"path", req.URL.Path,
					"status", o.Status,
					"duration_ms", o.Duration.Milliseconds(),
				)
				return
			}

			data := o.Err.Body
			if len(data) > maxLoggedBody {
				data = data[:maxLoggedBody]
			}
			logger.ErrorContext(ctx, "api_error",
				slog.String("op", op),
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
				slog.Int("status", o.Err.Status),
				slog.String("data", string(data)),
				slog.String("message", o.Err.UserMessage()),
			)
		}
	}
}

// MetricsHook records request durations per operation.
func MetricsHook(recorder metrics.Recorder) Hook {
	return func(ctx context.Context, op string, req *http.Request) func(Outcome) {
		return func(o Outcome) {
			recorder.ObserveAPIRequest(op, o.Duration)
		}
	}
}
