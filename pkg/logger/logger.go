// Package logger provides the structured, levelled logger used across
// Tavolo, built on log/slog.
//
// In production (APP_ENV=production) log lines are JSON for aggregators;
// everywhere else they are human-readable text. Request handlers in the
// dev server get a per-request logger via WithCtx so every line carries
// the request_id:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("checkout accepted", "order_id", id)
package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/tavolo/tavolo/config"
)

var L *slog.Logger

func init() {
	var handler slog.Handler

	switch config.AppEnv() {
	case "production", "prod":
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	L = slog.New(handler)
	slog.SetDefault(L)
}

// ctxKey is the unexported key used to store a per-request *slog.Logger.
type ctxKey struct{}

// WithCtx returns the logger stored in ctx by InjectLogger, or the base
// logger when none is present.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a pre-tagged *slog.Logger into ctx. Called by the
// request-logging middleware; application code rarely needs it.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// Debug logs at DEBUG level.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at INFO level.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at WARN level.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at ERROR level.
func Error(msg string, args ...any) { L.Error(msg, args...) }
