package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger implements the [Logger] interface on top of a zap sugared
// logger. Zap has no trace level, so trace records are written at the
// debug level when trace logging is enabled.
type ZapLogger struct {
	logger *zap.SugaredLogger
	trace  bool
}

var _ Logger = (*ZapLogger)(nil)

// NewZapLogger returns a new [ZapLogger] wrapping the given logger.
func NewZapLogger(logger *zap.SugaredLogger, trace bool) *ZapLogger {
	return &ZapLogger{
		logger: logger,
		trace:  trace,
	}
}

// NewJSONZapLogger builds a JSON zap logger writing to stderr at the
// given level.
func NewJSONZapLogger(level Level) *ZapLogger {
	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel(level)),
		Encoding:         "json",
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	logger, err := config.Build()
	if err != nil {
		logger = zap.NewNop()
	}
	return NewZapLogger(logger.Sugar(), level <= LevelTrace)
}

var encoderConfig = zapcore.EncoderConfig{
	TimeKey:        "timestamp",
	LevelKey:       "severity",
	NameKey:        "logger",
	CallerKey:      "caller",
	MessageKey:     "message",
	StacktraceKey:  "stacktrace",
	LineEnding:     zapcore.DefaultLineEnding,
	EncodeLevel:    zapcore.CapitalLevelEncoder,
	EncodeTime:     zapcore.RFC3339TimeEncoder,
	EncodeDuration: zapcore.StringDurationEncoder,
	EncodeCaller:   zapcore.ShortCallerEncoder,
}

func zapLevel(level Level) zapcore.Level {
	switch {
	case level <= LevelDebug:
		return zapcore.DebugLevel
	case level <= LevelInfo:
		return zapcore.InfoLevel
	case level <= LevelWarn:
		return zapcore.WarnLevel
	case level <= LevelError:
		return zapcore.ErrorLevel
	default:
		// nothing below fatal is written
		return zapcore.FatalLevel
	}
}

// Trace logs at the trace level.
func (l *ZapLogger) Trace(msg string, args ...any) {
	if l.trace {
		l.logger.Debugw(msg, args...)
	}
}

// Debug logs at the debug level.
func (l *ZapLogger) Debug(msg string, args ...any) {
	l.logger.Debugw(msg, args...)
}

// Info logs at the info level.
func (l *ZapLogger) Info(msg string, args ...any) {
	l.logger.Infow(msg, args...)
}

// Warn logs at the warn level.
func (l *ZapLogger) Warn(msg string, args ...any) {
	l.logger.Warnw(msg, args...)
}

// Error logs at the error level.
func (l *ZapLogger) Error(msg string, args ...any) {
	l.logger.Errorw(msg, args...)
}
