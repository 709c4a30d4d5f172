// Package logger builds the dashboard's slog loggers and the UI server request log.
package logger

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/lmittmann/tint"
)

type requestLogKey struct{}

// requestLog is shared by RequestLogging and the handlers it wraps.
type requestLog struct {
	logger *slog.Logger

	mu    sync.Mutex
	attrs []slog.Attr
}

func requestLogFrom(ctx context.Context) *requestLog {
	rl, _ := ctx.Value(requestLogKey{}).(*requestLog)
	return rl
}

// AddRequestAttrs attaches attrs to the completion line RequestLogging writes for this request.
// It is a no-op outside RequestLogging.
func AddRequestAttrs(ctx context.Context, attrs ...slog.Attr) {
	rl := requestLogFrom(ctx)
	if rl == nil {
		return
	}
	rl.mu.Lock()
	rl.attrs = append(rl.attrs, attrs...)
	rl.mu.Unlock()
}

// RequestLogger returns the logger for the current request, tagged with its request id.
func RequestLogger(ctx context.Context) *slog.Logger {
	if rl := requestLogFrom(ctx); rl != nil {
		return rl.logger
	}
	return slog.Default()
}

// ParseLogLevel maps a level name to slog.Level. Unknown names give debug.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}

// NewLogger writes colourised text to w in the dev environment and JSON everywhere else.
func NewLogger(w io.Writer, level slog.Level, environment string) *slog.Logger {
	if environment == "dev" {
		return slog.New(tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}))
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// InitLogger is NewLogger on stderr for dev and stdout otherwise.
func InitLogger(level slog.Level, environment string) *slog.Logger {
	if environment == "dev" {
		return NewLogger(os.Stderr, level, environment)
	}
	return NewLogger(os.Stdout, level, environment)
}

func requestComponent(path string) string {
	switch {
	case strings.HasPrefix(path, "/health/"):
		return "health"
	case strings.HasPrefix(path, "/ui-settings"):
		return "ui-settings"
	default:
		return "ui"
	}
}

func statusLevel(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// RequestLogging writes one line per completed request. Liveness probes are not logged.
func RequestLogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health/live" {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			requestID := middleware.GetReqID(r.Context())
			rl := &requestLog{
				logger: logger.With(slog.String("type", "middleware"), slog.String("request_id", requestID)),
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), requestLogKey{}, rl)))

			attrs := []slog.Attr{
				slog.String("type", "HTTP"),
				slog.Int("status", ww.Status()),
				slog.String("request_id", requestID),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("component", requestComponent(r.URL.Path)),
			}
			rl.mu.Lock()
			attrs = append(attrs, rl.attrs...)
			rl.mu.Unlock()
			attrs = append(attrs,
				slog.Duration("duration", time.Since(start)),
				slog.Int("bytes", ww.BytesWritten()),
			)

			logger.LogAttrs(r.Context(), statusLevel(ww.Status()), "request completed", attrs...)
		})
	}
}
