package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// L is the process-wide logger. It is a no-op logger until InitLogger runs,
// so packages and tests can log without setup.
var L = zap.NewNop()

// InitLogger builds L. level is one of debug, info, warn, error, fatal, panic.
// Production mode writes JSON, otherwise a colored console format is used.
func InitLogger(level string, isProduction bool) error {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
		fmt.Fprintf(os.Stderr, "Warning: invalid log level '%s', using 'info': %v\n", level, err)
	}

	var cfg zap.Config
	if isProduction {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	built, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize zap logger: %w", err)
	}
	L = built

	L.Info("logger initialized", zap.String("level", zapLevel.String()), zap.Bool("production", isProduction))
	return nil
}

// Sync flushes buffered entries; call it before the process exits.
func Sync() {
	if L != nil {
		_ = L.Sync()
	}
}
