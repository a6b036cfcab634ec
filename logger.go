package fulltext

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level mirrors the four levels the engine's logging callback can be
// invoked at.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Logger is the engine's warning sink. The default implementation writes
// structured log lines to stderr via zap; callers may supply their own to
// route engine diagnostics (most notably the version_conflict warning
// raised by Remove) into their own observability stack.
type Logger interface {
	Log(level Level, msg string, fields ...zap.Field)
}

type zapLogger struct {
	base *zap.SugaredLogger
}

// NewZapLogger wraps an existing *zap.Logger as a Logger. Passing nil
// builds a default stderr-backed production logger.
func NewZapLogger(base *zap.Logger) Logger {
	if base == nil {
		base, _ = zap.NewProduction()
	}
	return &zapLogger{base: base.Sugar()}
}

func (z *zapLogger) Log(level Level, msg string, fields ...zap.Field) {
	ce := z.base.Desugar().Check(level.zapLevel(), msg)
	if ce != nil {
		ce.Write(fields...)
	}
}

// noopLogger discards everything, for callers that don't care about log
// output and don't want to pay for zap's stderr encoder.
type noopLogger struct{}

func (noopLogger) Log(Level, string, ...zap.Field) {}
