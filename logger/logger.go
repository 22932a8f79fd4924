package logger

import (
	"log"
	"os"
	"sync"
)

// Logger is an interface for handling structured log records at different
// severity levels. The args are alternating key-value pairs.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NoOpLogger satisfies the Logger interface and discards all log messages.
type NoOpLogger struct{}

var _ Logger = (*NoOpLogger)(nil)

func (NoOpLogger) Trace(_ string, _ ...any) {}
func (NoOpLogger) Debug(_ string, _ ...any) {}
func (NoOpLogger) Info(_ string, _ ...any)  {}
func (NoOpLogger) Warn(_ string, _ ...any)  {}
func (NoOpLogger) Error(_ string, _ ...any) {}

type loggerValue struct {
	sync.RWMutex
	logger Logger
}

func (l *loggerValue) get() Logger {
	l.RLock()
	defer l.RUnlock()
	return l.logger
}

func (l *loggerValue) set(logger Logger) {
	l.Lock()
	defer l.Unlock()
	l.logger = logger
}

var defaultLogger = loggerValue{
	logger: NewSimpleLogger(log.New(os.Stderr, "", log.LstdFlags), LevelInfo),
}

// Default returns the default Logger.
func Default() Logger {
	return defaultLogger.get()
}

// SetDefault makes l the default Logger. A nil l discards all messages.
func SetDefault(l Logger) {
	if l == nil {
		l = NoOpLogger{}
	}
	defaultLogger.set(l)
}

// OrDefault returns l, or the default Logger when l is nil.
func OrDefault(l Logger) Logger {
	if l == nil {
		return Default()
	}
	return l
}
