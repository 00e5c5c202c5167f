package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vvka-141/retailload/pkg/retailload"
)

// ConsoleLogger writes log messages through a zap console encoder.
// Verbose maps to zap's debug level, which is only enabled in verbose mode.
// Safe for concurrent use by multiple goroutines.
type ConsoleLogger struct {
	verbose bool
	sugar   *zap.SugaredLogger
}

// NewConsoleLoggerWithWriter creates a ConsoleLogger writing to w, normally
// the command's stderr. If verbose is true, Verbose() calls will produce output.
func NewConsoleLoggerWithWriter(w io.Writer, verbose bool) *ConsoleLogger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig()),
		zapcore.Lock(zapcore.AddSync(w)),
		zap.NewAtomicLevelAt(level),
	)

	return &ConsoleLogger{
		verbose: verbose,
		sugar:   zap.New(core).Sugar(),
	}
}

// encoderConfig omits timestamps and callers: the output is read by a person
// watching a one-shot job, and container runtimes add their own timestamps.
func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		LevelKey:       "level",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
}

// Verbose logs detailed diagnostic information if verbose mode is enabled.
func (l *ConsoleLogger) Verbose(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.sugar.Debugf(format, args...)
}

// Info logs informational messages about normal operations.
func (l *ConsoleLogger) Info(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// Error logs error messages.
func (l *ConsoleLogger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// Sync flushes buffered log entries.
func (l *ConsoleLogger) Sync() error {
	return l.sugar.Sync()
}

var _ retailload.Logger = (*ConsoleLogger)(nil)
