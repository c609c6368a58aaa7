package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"restaurandes/config"
	deliverycontext "restaurandes/internal/delivery/context"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	minSlowQueryThreshold = 50 * time.Millisecond
	maxSlowQueryThreshold = 500 * time.Millisecond
)

// profileQueryLogger routes GORM output into slog. Queries are tagged with the
// request and the user whose favorites are being read or written.
type profileQueryLogger struct {
	logger        *slog.Logger
	level         logger.LogLevel
	slowThreshold time.Duration
}

func newGormSlogLogger(baseLogger *slog.Logger, cfg *config.Config) logger.Interface {
	level := logger.Warn
	if cfg != nil && cfg.Env.Debug {
		level = logger.Info
	}

	return &profileQueryLogger{
		logger:        baseLogger,
		level:         level,
		slowThreshold: slowQueryThreshold(cfg),
	}
}

// slowQueryThreshold is a quarter of the favorites write budget, clamped.
func slowQueryThreshold(cfg *config.Config) time.Duration {
	if cfg == nil || cfg.Favorites == nil || cfg.Favorites.WriteTimeout <= 0 {
		return maxSlowQueryThreshold
	}

	return min(max(cfg.Favorites.WriteTimeout/4, minSlowQueryThreshold), maxSlowQueryThreshold)
}

func (l *profileQueryLogger) LogMode(level logger.LogLevel) logger.Interface {
	cloned := *l
	cloned.level = level

	return &cloned
}

func (l *profileQueryLogger) Info(ctx context.Context, msg string, args ...any) {
	l.printf(ctx, logger.Info, slog.LevelInfo, msg, args...)
}

func (l *profileQueryLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.printf(ctx, logger.Warn, slog.LevelWarn, msg, args...)
}

func (l *profileQueryLogger) Error(ctx context.Context, msg string, args ...any) {
	l.printf(ctx, logger.Error, slog.LevelError, msg, args...)
}

func (l *profileQueryLogger) printf(ctx context.Context, threshold logger.LogLevel, level slog.Level, msg string, args ...any) {
	if l.logger == nil || l.level < threshold {
		return
	}

	l.logger.LogAttrs(ctx, level, "Profile store message",
		append(contextAttrs(ctx), slog.String("message", fmt.Sprintf(msg, args...)))...,
	)
}

func (l *profileQueryLogger) Trace(ctx context.Context, begin time.Time, sqlAndRowsFn func() (string, int64), err error) {
	if l.logger == nil || l.level == logger.Silent {
		return
	}

	elapsed := time.Since(begin)

	switch {
	case err != nil && l.level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		attrs := append(queryAttrs(ctx, sqlAndRowsFn, elapsed), slog.String("error", err.Error()))
		l.logger.LogAttrs(ctx, slog.LevelError, "Profile store query failed", attrs...)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= logger.Warn:
		attrs := append(queryAttrs(ctx, sqlAndRowsFn, elapsed), slog.Duration("slow_threshold", l.slowThreshold))
		l.logger.LogAttrs(ctx, slog.LevelWarn, "Profile store slow query", attrs...)
	case l.level >= logger.Info:
		l.logger.LogAttrs(ctx, slog.LevelInfo, "Profile store query", queryAttrs(ctx, sqlAndRowsFn, elapsed)...)
	}
}

func queryAttrs(ctx context.Context, sqlAndRowsFn func() (string, int64), elapsed time.Duration) []slog.Attr {
	sql, rows := sqlAndRowsFn()

	return append(contextAttrs(ctx),
		slog.Duration("elapsed", elapsed),
		slog.Int64("rows", rows),
		slog.String("sql", sql),
	)
}

func contextAttrs(ctx context.Context) []slog.Attr {
	var attrs []slog.Attr
	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		attrs = append(attrs, slog.String("request_id", requestID))
	}
	if userID := deliverycontext.GetUserIDFromContext(ctx); userID != "" {
		attrs = append(attrs, slog.String("user_id", userID))
	}

	return attrs
}
