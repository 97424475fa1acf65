package logging

import (
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Global logger instance, shared by the server wiring and the services.
var Logger *zap.Logger

// Init sets up the logging configuration. Production mode emits JSON at
// info level; development mode emits colored console output at debug level.
func Init(production bool) {
	var cfg zap.Config
	if production {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	var err error
	Logger, err = cfg.Build()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
}

// L returns the global logger, initializing a development logger if Init
// was never called (useful in tests).
func L() *zap.Logger {
	if Logger == nil {
		Init(false)
	}
	return Logger
}
