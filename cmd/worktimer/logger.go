package main

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// logTimeLayout renders timestamps like 17-Oct-26 09:30:00.
const logTimeLayout = "02-Jan-06 15:04:05"

// newLogger builds a console logger writing "time - LEVEL - message"
// lines to stderr. verbose forces debug level.
func newLogger(level string, verbose bool) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
		}
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.Encoding = "console"
	config.Sampling = nil
	config.DisableStacktrace = !verbose
	config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(logTimeLayout)
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncoderConfig.ConsoleSeparator = " - "
	config.EncoderConfig.CallerKey = zapcore.OmitKey

	return config.Build()
}
