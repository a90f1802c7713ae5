package logger

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/natefinch/lumberjack"
	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"rail_announcer/internal/config"
)

// Setup configures the standard Logrus logger for stdout and, when a file
// is configured, a rotating log file. The returned writer is the same sink
// for request logs.
func Setup(cfg config.LoggingConfig) (*logrus.Logger, io.Writer) {
	log := logrus.StandardLogger()

	out := io.Writer(os.Stdout)
	if cfg.File != "" {
		// Lumberjack for file rotation
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    10, // megabytes
			MaxBackups: 7,  // keep up to 7 old files
			MaxAge:     7,  // days
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, rotator)
	}
	log.SetOutput(out)

	if strings.EqualFold(cfg.Format, "json") {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}
	SetLevel(log, cfg.Level)
	return log, out
}

// SetLevel applies a level name, falling back to info.
func SetLevel(log *logrus.Logger, level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
}

// gormLogger sends GORM output through Logrus with SQL at debug level.
type gormLogger struct {
	log           *logrus.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

// NewGormLogger returns a GORM logger backed by log.
func NewGormLogger(log *logrus.Logger) gormlogger.Interface {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &gormLogger{log: log, level: gormlogger.Warn, slowThreshold: 200 * time.Millisecond}
}

func (g *gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	c := *g
	c.level = level
	return &c
}

func (g *gormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Info {
		g.log.WithContext(ctx).Infof(msg, args...)
	}
}

func (g *gormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Warn {
		g.log.WithContext(ctx).Warnf(msg, args...)
	}
}

func (g *gormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Error {
		g.log.WithContext(ctx).Errorf(msg, args...)
	}
}

func (g *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	entry := g.log.WithContext(ctx).WithFields(logrus.Fields{
		"elapsed_ms": elapsed.Milliseconds(),
		"rows":       rows,
		"sql":        sql,
	})

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && g.level >= gormlogger.Error:
		entry.WithError(err).Error("SQL error")
	case elapsed > g.slowThreshold && g.level >= gormlogger.Warn:
		entry.Warn("Slow SQL")
	case g.level >= gormlogger.Info:
		entry.Debug("SQL")
	}
}
