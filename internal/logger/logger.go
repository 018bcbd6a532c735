// Package logger provides structured logging using Go 1.21's log/slog.
// It sets up a JSON handler with service-level context and provides
// frame ID propagation through context.Context.
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

type ctxKey string

const frameIDKey ctxKey = "frame_id"

// Init creates and returns a structured logger for the given service.
// The logger outputs JSON to stdout with the service name embedded.
func Init(service string, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})

	logger := slog.New(handler).With(
		slog.String("service", service),
	)

	// Set as default so log/slog.Info() etc. also use structured output
	slog.SetDefault(logger)

	return logger
}

// WithFrameID stores a frame ID in the context for downstream propagation.
func WithFrameID(ctx context.Context, frameID string) context.Context {
	return context.WithValue(ctx, frameIDKey, frameID)
}

// FrameID extracts the frame ID from context. Returns "" if not set.
func FrameID(ctx context.Context) string {
	if v, ok := ctx.Value(frameIDKey).(string); ok {
		return v
	}
	return ""
}

// GenerateFrameID creates a frame ID from the pane version and last bar
// time. Format: "{version}-{barTime}".
func GenerateFrameID(version uint64, barTime int64) string {
	return fmt.Sprintf("%d-%d", version, barTime)
}

// LogWithFrame returns slog attributes including the frame ID from context.
// Usage: slog.Info("msg", logger.LogWithFrame(ctx)...)
func LogWithFrame(ctx context.Context) []any {
	fid := FrameID(ctx)
	if fid == "" {
		return nil
	}
	return []any{slog.String("frame_id", fid)}
}
