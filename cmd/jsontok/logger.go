package main

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger builds the CLI's console logger. The returned level can be
// raised to debug once flags are parsed.
func newLogger() (*zap.Logger, zap.AtomicLevel, error) {
	logCfg := zap.NewDevelopmentConfig()
	logCfg.Encoding = "console"
	logCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logCfg.EncoderConfig.EncodeCaller = nil
	logCfg.EncoderConfig.TimeKey = ""
	logCfg.OutputPaths = []string{"stderr"}
	logCfg.ErrorOutputPaths = []string{"stderr"}
	logCfg.DisableStacktrace = true
	logCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)

	logger, err := logCfg.Build()
	if err != nil {
		return nil, logCfg.Level, fmt.Errorf("failed to build config for logger: %w", err)
	}
	return logger, logCfg.Level, nil
}
