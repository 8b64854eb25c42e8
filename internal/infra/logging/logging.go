// File: internal/infra/logging/logging.go
package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"soulsync/internal/config"
)

// New builds the process logger. Levels: trace|debug|info|warn|error.
// Formats: json|console; dev forces console output with caller info.
// Sampling keeps the first 100 events and then 1 in 100, outside dev.
func New(cfg config.LogConfig, dev bool) *zerolog.Logger {
	return newLogger(os.Stdout, cfg, dev)
}

func newLogger(w io.Writer, cfg config.LogConfig, dev bool) *zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if strings.EqualFold(cfg.Format, "console") || dev {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	zc := zerolog.New(w).With().Timestamp().Str("service", "soulsync")
	if dev {
		zc = zc.Caller()
	}
	base := zc.Logger()

	if cfg.Sampling && !dev {
		sampled := base.Sample(&zerolog.BurstSampler{
			Burst:       100,
			Period:      time.Second,
			NextSampler: &zerolog.BasicSampler{N: 100},
		})
		return &sampled
	}
	return &base
}

// reqFields are the request-scoped ids carried through the context.
type reqFields struct {
	traceID, userID, sessionID, route string
}

type fieldsKey struct{}

func fieldsFrom(ctx context.Context) reqFields {
	f, _ := ctx.Value(fieldsKey{}).(reqFields)
	return f
}

func withField(ctx context.Context, set func(*reqFields)) context.Context {
	f := fieldsFrom(ctx)
	set(&f)
	return context.WithValue(ctx, fieldsKey{}, f)
}

// With returns base enriched with whatever request ids ctx carries.
func With(ctx context.Context, base *zerolog.Logger) *zerolog.Logger {
	f := fieldsFrom(ctx)
	l := base.With()
	for _, kv := range [...]struct{ k, v string }{
		{"trace_id", f.traceID},
		{"user_id", f.userID},
		{"session_id", f.sessionID},
		{"route", f.route},
	} {
		if kv.v != "" {
			l = l.Str(kv.k, kv.v)
		}
	}
	logger := l.Logger()
	return &logger
}

// TraceDuration logs entry and exit of name at trace level.
//
//	defer logging.TraceDuration(logger, "CommunityUC.Post")()
func TraceDuration(logger *zerolog.Logger, name string) func() {
	if logger.GetLevel() > zerolog.TraceLevel || zerolog.GlobalLevel() > zerolog.TraceLevel {
		return func() {}
	}
	start := time.Now()
	logger.Trace().Str("method", name).Msg("start")
	return func() {
		logger.Trace().Str("method", name).Dur("duration", time.Since(start)).Msg("finish")
	}
}

// Redact masks PII such as device ids and phone numbers outside dev,
// keeping the first four and last two characters.
func Redact(s string, dev bool) string {
	if dev {
		return s
	}
	r := []rune(s)
	if len(r) <= 8 {
		return "***"
	}
	return string(r[:4]) + "..." + string(r[len(r)-2:])
}

func WithTraceID(ctx context.Context, id string) context.Context {
	return withField(ctx, func(f *reqFields) { f.traceID = id })
}

func WithUserID(ctx context.Context, id string) context.Context {
	return withField(ctx, func(f *reqFields) { f.userID = id })
}

func WithSessID(ctx context.Context, id string) context.Context {
	return withField(ctx, func(f *reqFields) { f.sessionID = id })
}

func WithRoute(ctx context.Context, route string) context.Context {
	return withField(ctx, func(f *reqFields) { f.route = route })
}

// TraceID returns the request trace id, if any.
func TraceID(ctx context.Context) string { return fieldsFrom(ctx).traceID }
