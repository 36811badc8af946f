// Package logging configures the process-wide zap logger.
package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel maps a level name to a zap level. Unknown names map to info.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return zap.DebugLevel
	case "WARN", "WARNING":
		return zap.WarnLevel
	case "ERROR":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

// New builds a console logger writing to stderr at the given level.
func New(level string) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stderr),
		ParseLevel(level),
	)
	return zap.New(core, zap.AddCaller())
}

// Setup installs a logger for level as the zap global and returns a func that
// flushes it and restores the previous global.
func Setup(level string) func() {
	logger := New(level)
	restore := zap.ReplaceGlobals(logger)
	return func() {
		// syncing stderr fails on some terminals; nothing useful to report
		_ = logger.Sync()
		restore()
	}
}
