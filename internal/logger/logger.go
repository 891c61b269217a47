// Package logger builds the process-wide zap logger.
package logger

import (
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu      sync.RWMutex
	current = zap.NewNop()
)

func getEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.LevelKey = "level"
	encoderConfig.MessageKey = "msg"
	encoderConfig.EncodeTime = customTimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.CallerKey = ""
	encoderConfig.NameKey = "logger"
	encoderConfig.StacktraceKey = ""

	return zapcore.NewConsoleEncoder(encoderConfig)
}

func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("2006-01-02 15:04:05.000"))
}

// ParseLevel maps a LOG_LEVEL value to a zap level, defaulting to info.
func ParseLevel(s string) zapcore.Level {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(s)))); err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// New writes info and below to stdout and warnings and above to stderr.
func New(level string) *zap.Logger {
	lvl := ParseLevel(level)
	low := zap.LevelEnablerFunc(func(l zapcore.Level) bool { return l >= lvl && l < zapcore.WarnLevel })
	high := zap.LevelEnablerFunc(func(l zapcore.Level) bool { return l >= lvl && l >= zapcore.WarnLevel })

	core := zapcore.NewTee(
		zapcore.NewCore(getEncoder(), zapcore.Lock(os.Stdout), low),
		zapcore.NewCore(getEncoder(), zapcore.Lock(os.Stderr), high),
	)
	return zap.New(core)
}

// Init replaces the process logger and returns it.
func Init(level string) *zap.Logger {
	l := New(level)
	mu.Lock()
	current = l
	mu.Unlock()
	return l
}

// L returns the process logger. It is a no-op logger until Init is called.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

func Sync() {
	_ = L().Sync()
}
