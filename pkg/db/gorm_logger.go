package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/smirnovd/tg-couple-bot/pkg/logger"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// queryLogger routes gorm's logging through the process slog logger.
// Record-not-found is silenced, it is an expected outcome everywhere.
type queryLogger struct {
	level gormlogger.LogLevel
}

func newGormLogger(levelValue string) (gormlogger.Interface, error) {
	level := gormlogger.Warn
	var levelErr error
	if strings.TrimSpace(levelValue) != "" {
		level, levelErr = parseGormLogLevel(levelValue)
	}
	return &queryLogger{level: level}, levelErr
}

func (l *queryLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	return &queryLogger{level: level}
}

func (l *queryLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.enabled(gormlogger.Info) {
		logger.Logger.Log(ctx, slog.LevelInfo, fmt.Sprintf(msg, data...))
	}
}

func (l *queryLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.enabled(gormlogger.Warn) {
		logger.Logger.Log(ctx, slog.LevelWarn, fmt.Sprintf(msg, data...))
	}
}

func (l *queryLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.enabled(gormlogger.Error) {
		logger.Logger.Log(ctx, slog.LevelError, fmt.Sprintf(msg, data...))
	}
}

func (l *queryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level == gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		if l.enabled(gormlogger.Error) {
			logger.Logger.Log(ctx, slog.LevelError, "gorm query error",
				"elapsed", elapsed, "rows", rows, "sql", sql, "error", err)
		}
	case err == nil && elapsed > slowQueryThreshold:
		if l.enabled(gormlogger.Warn) {
			logger.Logger.Log(ctx, slog.LevelWarn, "gorm slow query",
				"elapsed", elapsed, "rows", rows, "sql", sql, "threshold", slowQueryThreshold)
		}
	case err == nil:
		if l.enabled(gormlogger.Info) {
			logger.Logger.Log(ctx, slog.LevelInfo, "gorm query",
				"elapsed", elapsed, "rows", rows, "sql", sql)
		}
	}
}

func (l *queryLogger) enabled(level gormlogger.LogLevel) bool {
	if l.level == gormlogger.Silent || l.level < level {
		return false
	}
	if level == gormlogger.Error {
		return logger.Enabled(logger.ERROR)
	}
	return logger.Enabled(logger.INFO)
}

func parseGormLogLevel(value string) (gormlogger.LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "silent":
		return gormlogger.Silent, nil
	case "error":
		return gormlogger.Error, nil
	case "warn":
		return gormlogger.Warn, nil
	case "info":
		return gormlogger.Info, nil
	default:
		return gormlogger.Warn, fmt.Errorf("invalid gorm log level %q", value)
	}
}
