package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/gin-gonic/gin"
	"gopkg.in/natefinch/lumberjack.v2"
)

type ctxKey struct{}

var (
	once sync.Once
	base *slog.Logger
)

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Init configures the global logger exactly once.
// Call this in main(): logging.Init("orders-api", "./logs/app.log", "info")
func Init(component, filePath, level string) *slog.Logger {
	once.Do(func() {
		_ = os.MkdirAll(filepath.Dir(filePath), 0o755)

		rot := &lumberjack.Logger{
			Filename:   filePath,
			MaxSize:    50, // MB
			MaxBackups: 3,
			MaxAge:     7, // days
		}
		mw := io.MultiWriter(os.Stdout, rot)

		h := slog.NewJSONHandler(mw, &slog.HandlerOptions{Level: parseLevel(level)})
		base = slog.New(h).With("component", component)
	})
	return base
}

// Base returns the global logger (Init if not already called).
func Base() *slog.Logger {
	if base == nil {
		return Init("app", "./logs/app.log", "info")
	}
	return base
}

// New returns a child logger derived from the global one. It reuses the
// global handler/writer rather than creating new ones.
func New(component string) *slog.Logger {
	return Base().With("component", component)
}

// WithCtx stores a logger in a standard context (useful outside Gin).
func WithCtx(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromCtx fetches a logger from ctx or falls back to the global one.
func FromCtx(ctx context.Context) *slog.Logger {
	if v := ctx.Value(ctxKey{}); v != nil {
		if l, ok := v.(*slog.Logger); ok && l != nil {
			return l
		}
	}
	return Base()
}

// With stores the logger in gin.Context.
func With(c *gin.Context, l *slog.Logger) {
	c.Set("logger", l)
}

// From returns the request-scoped logger from gin.Context, or the global one.
func From(c *gin.Context) *slog.Logger {
	if v, ok := c.Get("logger"); ok {
		if l, ok := v.(*slog.Logger); ok && l != nil {
			return l
		}
	}
	return Base()
}
