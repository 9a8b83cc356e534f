package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type ctxKey struct{}

var requestIDKey = ctxKey{}

var base = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

// InitLogging logs to the console and, when filePath is set, to that file as JSON.
func InitLogging(filePath string) {
	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	if filePath != "" {
		f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			base.Error().Err(err).Str("path", filePath).Msg("cannot open log file, logging to console only")
		} else {
			out = zerolog.MultiLevelWriter(out, f)
		}
	}
	base = zerolog.New(out).With().Timestamp().Logger()
}

// SetLevel sets the global level from a name such as "debug" or "warn". Unknown names
// keep the current level.
func SetLevel(level string) {
	if level == "" {
		return
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		base.Warn().Str("level", level).Msg("unknown log level")
		return
	}
	zerolog.SetGlobalLevel(lvl)
}

// WithRequestID stores id in ctx and attaches a logger carrying it.
func WithRequestID(ctx context.Context, id string) context.Context {
	ctx = context.WithValue(ctx, requestIDKey, id)
	l := base.With().Str("request_id", id).Logger()
	return l.WithContext(ctx)
}

// FromContext returns the logger attached to ctx, or the base logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
			return l
		}
	}
	return &base
}

// Context attaches the base logger to ctx so library code logging through zerolog.Ctx
// writes to the same outputs.
func Context(ctx context.Context) context.Context {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		return ctx
	}
	return base.WithContext(ctx)
}

func InfoLog(ctx context.Context, format string, args ...interface{}) {
	FromContext(ctx).Info().Msg(fmt.Sprintf(format, args...))
}

func ErrorLog(ctx context.Context, format string, args ...interface{}) {
	FromContext(ctx).Error().Msg(fmt.Sprintf(format, args...))
}

func WarnLog(ctx context.Context, format string, args ...interface{}) {
	FromContext(ctx).Warn().Msg(fmt.Sprintf(format, args...))
}

func DebugLog(ctx context.Context, format string, args ...interface{}) {
	FromContext(ctx).Debug().Msg(fmt.Sprintf(format, args...))
}

// RequestID returns the id stored by WithRequestID.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
