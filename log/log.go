// Package log provides the structured logger used across the engine,
// scheduler, predictor and catalog packages. It wraps zap the way the
// original backend's log package does: a package-level default logger,
// named sub-loggers per component, and small field constructors so call
// sites never import zap directly.
package log

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"moul.io/zapfilter"
)

type Level = zapcore.Level

const (
	DebugLevel = zapcore.DebugLevel
	InfoLevel  = zapcore.InfoLevel
	WarnLevel  = zapcore.WarnLevel
	ErrorLevel = zapcore.ErrorLevel
	FatalLevel = zapcore.FatalLevel
)

// Logger is a thin wrapper so callers don't depend on zap directly.
type Logger struct {
	z *zap.Logger
}

type Option func(*zap.Logger) *zap.Logger

func WithCaller(on bool) Option {
	return func(l *zap.Logger) *zap.Logger { return l.WithOptions(zap.WithCaller(on)) }
}

func AddCallerSkip(n int) Option {
	return func(l *zap.Logger) *zap.Logger { return l.WithOptions(zap.AddCallerSkip(n)) }
}

var defaultLogger = &Logger{z: zap.NewNop()}

// New builds a JSON production-style logger writing to w at the given level.
func New(w io.Writer, level Level, opts ...Option) *Logger {
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	core := zapcore.NewCore(enc, zapcore.AddSync(w), level)
	z := zap.New(core)
	for _, o := range opts {
		z = o(z)
	}
	return &Logger{z: z}
}

// DevLogger builds a human-readable console logger, used outside json mode.
func DevLogger(w io.Writer, level Level, opts ...Option) *Logger {
	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	core := zapcore.NewCore(enc, zapcore.AddSync(w), level)
	z := zap.New(core)
	for _, o := range opts {
		z = o(z)
	}
	return &Logger{z: z}
}

// WithFilter wraps a logger so only entries matching the zapfilter rule
// string pass through, e.g. "*" or "!component:engine.pace".
func WithFilter(l *Logger, rule string) *Logger {
	filtered := zapfilter.NewFilteringCore(l.z.Core(), zapfilter.MustParseRules(rule))
	return &Logger{z: zap.New(filtered)}
}

func Default() *Logger { return defaultLogger }

// ResetDefault swaps the package-level default logger, as InitXxxLogger did
// historically.
func ResetDefault(l *Logger) { defaultLogger = l }

func InitProductionLogger() {
	defaultLogger = New(os.Stderr, InfoLevel, WithCaller(true))
}

func InitDevelopmentLogger() {
	defaultLogger = DevLogger(os.Stderr, DebugLevel, WithCaller(true))
}

func (l *Logger) Named(name string) *Logger { return &Logger{z: l.z.Named(name)} }

func (l *Logger) Debug(msg string, fields ...zap.Field) { l.z.Debug(msg, fields...) }
func (l *Logger) Info(msg string, fields ...zap.Field)  { l.z.Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...zap.Field)  { l.z.Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...zap.Field) { l.z.Error(msg, fields...) }
func (l *Logger) Fatal(msg string, fields ...zap.Field) { l.z.Fatal(msg, fields...) }

func Named(name string) *Logger                  { return defaultLogger.Named(name) }
func Debug(msg string, fields ...zap.Field)      { defaultLogger.Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)       { defaultLogger.Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)       { defaultLogger.Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field)      { defaultLogger.Error(msg, fields...) }
func Fatal(msg string, fields ...zap.Field)      { defaultLogger.Fatal(msg, fields...) }

// field constructors re-exported so callers never need to import zap.
func String(k, v string) zap.Field          { return zap.String(k, v) }
func Int(k string, v int) zap.Field         { return zap.Int(k, v) }
func Int64(k string, v int64) zap.Field     { return zap.Int64(k, v) }
func Uint64(k string, v uint64) zap.Field   { return zap.Uint64(k, v) }
func Float64(k string, v float64) zap.Field { return zap.Float64(k, v) }
func Bool(k string, v bool) zap.Field       { return zap.Bool(k, v) }
func Any(k string, v interface{}) zap.Field { return zap.Any(k, v) }
func ErrorField(err error) zap.Field        { return zap.Error(err) }

func ParseLevel(s string) (Level, error) {
	var l zapcore.Level
	err := l.UnmarshalText([]byte(s))
	return l, err
}
