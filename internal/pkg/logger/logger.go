package logger

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey struct{}

var (
	globalMx sync.RWMutex
	global   = zap.NewNop().Sugar()
)

// Init replaces the process-wide logger. Level is one of zap's level names.
func Init(level string, development bool) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("zapcore.ParseLevel: %w", err)
	}

	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return fmt.Errorf("zap build: %w", err)
	}

	Set(l)
	return nil
}

func Set(l *zap.Logger) {
	globalMx.Lock()
	defer globalMx.Unlock()
	global = l.Sugar()
}

func Sync() {
	_ = get().Sync()
}

func get() *zap.SugaredLogger {
	globalMx.RLock()
	defer globalMx.RUnlock()
	return global
}

// FromContext returns the request-scoped logger, falling back to the global one.
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*zap.SugaredLogger); ok {
			return l
		}
	}
	return get()
}

func ToContext(ctx context.Context, l *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// With attaches key/value pairs to every record logged through the returned context.
func With(ctx context.Context, kv ...interface{}) context.Context {
	return ToContext(ctx, FromContext(ctx).With(kv...))
}

func Debug(ctx context.Context, msg string, kv ...interface{}) {
	FromContext(ctx).Debugw(msg, kv...)
}

func Debugf(ctx context.Context, format string, args ...interface{}) {
	FromContext(ctx).Debugf(format, args...)
}

func Info(ctx context.Context, msg string, kv ...interface{}) {
	FromContext(ctx).Infow(msg, kv...)
}

func Infof(ctx context.Context, format string, args ...interface{}) {
	FromContext(ctx).Infof(format, args...)
}

func Warn(ctx context.Context, msg string, kv ...interface{}) {
	FromContext(ctx).Warnw(msg, kv...)
}

func Warnf(ctx context.Context, format string, args ...interface{}) {
	FromContext(ctx).Warnf(format, args...)
}

func Error(ctx context.Context, msg string, kv ...interface{}) {
	FromContext(ctx).Errorw(msg, kv...)
}

func Errorf(ctx context.Context, format string, args ...interface{}) {
	FromContext(ctx).Errorf(format, args...)
}

func Fatal(ctx context.Context, args ...interface{}) {
	FromContext(ctx).Fatal(args...)
}
