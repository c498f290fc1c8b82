// Package logging builds the process-wide zap logger. Every sink is
// stderr: stdout carries the response envelopes of the embedding shell
// and must hold nothing else.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config is the logger configuration read once at startup.
type Config struct {
	// Level is the minimum level emitted: debug, info, warn or error.
	Level string
	// Dev switches to the human-readable console encoder.
	Dev bool
}

// ConfigFromEnv reads LOG_LEVEL and LOG_DEV. LOG_DEV=1 selects the
// development encoder and defaults the level to debug; otherwise the
// default level is info.
func ConfigFromEnv() Config {
	dev := os.Getenv("LOG_DEV") == "1"
	lvl := os.Getenv("LOG_LEVEL")
	if lvl == "" {
		if dev {
			lvl = "debug"
		} else {
			lvl = "info"
		}
	}
	return Config{Level: lvl, Dev: dev}
}

func parseLevel(l string) zapcore.Level {
	switch l {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Init builds the logger described by cfg. An unrecognized level falls
// back to info rather than failing startup.
func Init(cfg Config) (*zap.Logger, error) {
	lvl := parseLevel(cfg.Level)

	if cfg.Dev {
		c := zap.NewDevelopmentConfig()
		c.Level = zap.NewAtomicLevelAt(lvl)
		c.OutputPaths = []string{"stderr"}
		c.ErrorOutputPaths = []string{"stderr"}
		return c.Build()
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(os.Stderr), lvl)
	return zap.New(core, zap.AddCaller()), nil
}
