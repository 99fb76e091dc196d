package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/PabloGalante/callorder-agent/internal/domain"
)

type ctxKey string

const (
	ctxKeyRequestID ctxKey = "request_id"
	ctxKeyCallID    ctxKey = "call_id"
)

// basic global logger, JSON to stdout.
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

func Logger() *slog.Logger {
	return logger
}

// Setup replaces the global logger with a JSON logger at the given level
// ("debug", "info", "warn", "error").
func Setup(w io.Writer, level string) *slog.Logger {
	logger = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
	return logger
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithFields returns a logger with additional fields.
func WithFields(kv ...any) *slog.Logger {
	return logger.With(kv...)
}

// WithRequestID stores a request_id in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, requestID)
}

// WithCallID stores the call being served in the context.
func WithCallID(ctx context.Context, callID domain.CallID) context.Context {
	return context.WithValue(ctx, ctxKeyCallID, callID)
}

// LoggerFromContext adds request_id and call_id if present.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	l := logger
	if reqID, _ := ctx.Value(ctxKeyRequestID).(string); reqID != "" {
		l = l.With("request_id", reqID)
	}
	if callID, _ := ctx.Value(ctxKeyCallID).(domain.CallID); callID != "" {
		l = l.With("call_id", string(callID))
	}
	return l
}
