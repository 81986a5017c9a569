package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

type Logger interface {
	Info(action, message, requestID string, details map[string]interface{})
	Debug(action, message, requestID string, details map[string]interface{})
	Warn(action, message, requestID string, details map[string]interface{})
	Error(action, message, requestID string, details map[string]interface{}, err error)
}

type jsonLogger struct {
	base *slog.Logger
}

// New writes one JSON object per line to stdout
func New(service string, level slog.Level) Logger {
	return NewWithWriter(service, os.Stdout, level)
}

func NewWithWriter(service string, w io.Writer, level slog.Level) Logger {
	hostname, _ := os.Hostname()

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: renameKeys,
	})

	return &jsonLogger{
		base: slog.New(handler).With(
			slog.String(KeyService, service),
			slog.String(KeyHostname, hostname),
		),
	}
}

// NewNop discards everything
func NewNop() Logger {
	return &jsonLogger{base: slog.New(slog.NewJSONHandler(io.Discard, nil))}
}

func (l *jsonLogger) Info(action, message, requestID string, details map[string]interface{}) {
	l.log(slog.LevelInfo, action, message, requestID, details, nil)
}

func (l *jsonLogger) Debug(action, message, requestID string, details map[string]interface{}) {
	l.log(slog.LevelDebug, action, message, requestID, details, nil)
}

func (l *jsonLogger) Warn(action, message, requestID string, details map[string]interface{}) {
	l.log(slog.LevelWarn, action, message, requestID, details, nil)
}

func (l *jsonLogger) Error(action, message, requestID string, details map[string]interface{}, err error) {
	l.log(slog.LevelError, action, message, requestID, details, err)
}

func (l *jsonLogger) log(level slog.Level, action, message, requestID string, details map[string]interface{}, err error) {
	ctx := context.Background()
	if !l.base.Enabled(ctx, level) {
		return
	}

	attrs := []slog.Attr{
		slog.String(KeyRequestID, requestID),
		slog.String(KeyAction, action),
	}
	if len(details) > 0 {
		attrs = append(attrs, slog.Any(KeyDetails, details))
	}
	if err != nil {
		attrs = append(attrs, slog.Any(KeyError, ErrorInfo{Msg: err.Error(), Stack: err.Error()}))
	}

	l.base.LogAttrs(ctx, level, message, attrs...)
}

func renameKeys(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}
	switch a.Key {
	case slog.TimeKey:
		a.Key = KeyTimestamp
		a.Value = slog.StringValue(a.Value.Time().UTC().Format("2006-01-02T15:04:05.999999999Z07:00"))
	case slog.MessageKey:
		a.Key = KeyMessage
	}
	return a
}
