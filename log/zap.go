// MIT License
//
// Copyright (c) 2022-2026 ActorPool Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package log

import (
	"io"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// DebugLogger is a global logger configured to output messages at
	// DebugLevel and above to os.Stdout.
	DebugLogger = NewZap(DebugLevel, os.Stdout)

	// DiscardLogger is a no-op logger that discards all log messages.
	DiscardLogger Logger = discardLogger{}

	// DefaultLogger is a global logger configured to output messages at
	// InfoLevel and above to os.Stdout.
	DefaultLogger = NewZap(InfoLevel, os.Stdout)
)

// Zap implements Logger with zap as the underlying logging library.
type Zap struct {
	logger *zap.Logger
	sugar  *zap.SugaredLogger
	level  Level
}

// enforce compilation and linter error
var _ Logger = (*Zap)(nil)

// NewZap creates a zap-backed Logger writing to the given writers at the
// given level. Messages below the level are skipped before formatting.
func NewZap(level Level, writers ...io.Writer) *Zap {
	syncers := make([]zapcore.WriteSyncer, 0, len(writers))
	for _, writer := range writers {
		syncers = append(syncers, zapcore.AddSync(writer))
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zap.CombineWriteSyncers(syncers...),
		zapLevel(level),
	)

	logger := zap.New(core)
	return &Zap{
		logger: logger,
		sugar:  logger.Sugar(),
		level:  level,
	}
}

// Debug starts a message with debug level.
func (l *Zap) Debug(v ...any) { l.sugar.Debug(v...) }

// Debugf starts a message with debug level.
func (l *Zap) Debugf(format string, v ...any) { l.sugar.Debugf(format, v...) }

// Info starts a message with info level.
func (l *Zap) Info(v ...any) { l.sugar.Info(v...) }

// Infof starts a message with info level.
func (l *Zap) Infof(format string, v ...any) { l.sugar.Infof(format, v...) }

// Warn starts a message with warn level.
func (l *Zap) Warn(v ...any) { l.sugar.Warn(v...) }

// Warnf starts a message with warn level.
func (l *Zap) Warnf(format string, v ...any) { l.sugar.Warnf(format, v...) }

// Error starts a message with error level.
func (l *Zap) Error(v ...any) { l.sugar.Error(v...) }

// Errorf starts a message with error level.
func (l *Zap) Errorf(format string, v ...any) { l.sugar.Errorf(format, v...) }

// Fatal logs at fatal level then calls os.Exit(1).
func (l *Zap) Fatal(v ...any) { l.sugar.Fatal(v...) }

// Fatalf logs at fatal level then calls os.Exit(1).
func (l *Zap) Fatalf(format string, v ...any) { l.sugar.Fatalf(format, v...) }

// Panic logs at panic level then panics.
func (l *Zap) Panic(v ...any) { l.sugar.Panic(v...) }

// Panicf logs at panic level then panics.
func (l *Zap) Panicf(format string, v ...any) { l.sugar.Panicf(format, v...) }

// With returns a child logger carrying the given key-value pairs.
func (l *Zap) With(keyValues ...any) Logger {
	sugar := l.sugar.With(keyValues...)
	return &Zap{
		logger: sugar.Desugar(),
		sugar:  sugar,
		level:  l.level,
	}
}

// LogLevel returns the configured level.
func (l *Zap) LogLevel() Level {
	return l.level
}

// Flush syncs the underlying zap cores.
func (l *Zap) Flush() error {
	return multierr.Combine(l.logger.Sync(), l.sugar.Sync())
}

func zapLevel(level Level) zapcore.Level {
	switch level {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarningLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	case FatalLevel:
		return zapcore.FatalLevel
	case PanicLevel:
		return zapcore.PanicLevel
	default:
		return zapcore.InfoLevel
	}
}
