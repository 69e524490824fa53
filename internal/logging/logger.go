package logging

import (
	"context"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger with key/value call sites:
//
//	logger.Info("Job processed", "job_id", id, "count", n)
//
// Keys must be strings; a non-string key drops its pair. Error values are
// logged by message so they survive JSON encoding.
type Logger struct {
	zl zerolog.Logger
}

var global atomic.Pointer[Logger]

func init() {
	global.Store(NewDevelopment())
}

// NewProduction logs JSON to stdout at info level
func NewProduction() *Logger {
	return NewWithWriter(os.Stdout, zerolog.InfoLevel)
}

// NewDevelopment logs to stderr through a console writer at debug level
func NewDevelopment() *Logger {
	return NewWithWriter(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}, zerolog.DebugLevel)
}

// NewWithWriter creates a timestamped logger writing to w
func NewWithWriter(w io.Writer, level zerolog.Level) *Logger {
	return &Logger{zl: zerolog.New(w).Level(level).With().Timestamp().Logger()}
}

// NewNop returns a logger that discards everything
func NewNop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// SetGlobal replaces the process-wide logger
func SetGlobal(logger *Logger) {
	if logger != nil {
		global.Store(logger)
	}
}

// Global returns the process-wide logger
func Global() *Logger {
	return global.Load()
}

// With returns a child logger carrying fields on every entry
func (l *Logger) With(fields ...interface{}) *Logger {
	zc := l.zl.With()
	eachField(fields, func(key string, value interface{}) {
		if err, ok := value.(error); ok {
			zc = zc.Str(key, err.Error())
			return
		}
		zc = zc.Interface(key, value)
	})
	return &Logger{zl: zc.Logger()}
}

// WithContext adds the request and job IDs stored in ctx
func (l *Logger) WithContext(ctx context.Context) *Logger {
	fields := contextFields(ctx)
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}

func (l *Logger) Debug(msg string, fields ...interface{}) { l.send(l.zl.Debug(), msg, fields) }
func (l *Logger) Info(msg string, fields ...interface{})  { l.send(l.zl.Info(), msg, fields) }
func (l *Logger) Warn(msg string, fields ...interface{})  { l.send(l.zl.Warn(), msg, fields) }
func (l *Logger) Error(msg string, fields ...interface{}) { l.send(l.zl.Error(), msg, fields) }

// Fatal logs and exits the process
func (l *Logger) Fatal(msg string, fields ...interface{}) { l.send(l.zl.Fatal(), msg, fields) }

func (l *Logger) send(e *zerolog.Event, msg string, fields []interface{}) {
	if e == nil {
		return
	}
	eachField(fields, func(key string, value interface{}) {
		if err, ok := value.(error); ok {
			e.Str(key, err.Error())
			return
		}
		e.Interface(key, value)
	})
	e.Msg(msg)
}

func eachField(fields []interface{}, fn func(key string, value interface{})) {
	for i := 0; i+1 < len(fields); i += 2 {
		if key, ok := fields[i].(string); ok {
			fn(key, fields[i+1])
		}
	}
}
