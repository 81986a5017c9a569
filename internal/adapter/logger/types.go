// internal/adapter/logger/types.go
package logger

import (
	"context"
	"log/slog"
	"strings"
)

// Keys of a log line
const (
	KeyTimestamp = "timestamp"
	KeyMessage   = "message"
	KeyService   = "service"
	KeyHostname  = "hostname"
	KeyRequestID = "request_id"
	KeyAction    = "action"
	KeyDetails   = "details"
	KeyError     = "error"
)

type ErrorInfo struct {
	Msg   string `json:"msg"`
	Stack string `json:"stack"`
}

// ParseLevel maps debug|info|warn|error, defaulting to info
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

type requestIDKey struct{}

// WithRequestID tags ctx so handlers deeper in the call chain log the same id
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id set by WithRequestID, or ""
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
