// Package logging builds the zap logger shared by the CLI commands.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Setup returns a development logger when debug is set and a production
// logger otherwise. The production logger only emits warnings and errors
// so normal runs keep stderr quiet. Both write to stderr.
func Setup(debug bool) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		logger, err = cfg.Build()
	}
	if err != nil {
		return nil, fmt.Errorf("unable to create logger (debug: %t): %w", debug, err)
	}
	return logger, nil
}
