package monitoring

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var base = NewZapLogger(zapcore.InfoLevel)

// Logf is the package-level diagnostic logger. It defaults to a zap sugared
// logger writing to stderr but may be replaced by SetLogger. Tests or
// production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = base.Infof

// Debugf carries per-sample detail that is only shown in verbose mode.
var Debugf func(format string, v ...interface{}) = base.Debugf

// NewZapLogger builds a console logger at the given level. If zap cannot
// open its sinks a no-op logger is returned.
func NewZapLogger(level zapcore.Level) *zap.SugaredLogger {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         "console",
		EncoderConfig:    enc,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		DisableCaller:    true,
	}
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

// UseZap replaces both loggers with a zap logger. A nil logger mutes them.
func UseZap(l *zap.SugaredLogger) {
	if l == nil {
		l = zap.NewNop().Sugar()
	}
	base = l
	Logf = l.Infof
	Debugf = l.Debugf
}

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Sync flushes buffered log entries.
func Sync() error {
	return base.Sync()
}
