package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environments with a dedicated logger setup
const (
	EnvProduction = "production"
	EnvTest       = "test"
)

// New creates the logger for an environment: JSON in production, nothing
// in test and coloured console output everywhere else
func New(environment string) (*zap.Logger, error) {
	var config zap.Config

	switch environment {
	case EnvTest:
		return zap.NewNop(), nil
	case EnvProduction:
		config = zap.NewProductionConfig()
	default:
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config.EncoderConfig.CallerKey = "caller"
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	return config.Build(zap.AddCaller(), zap.Fields(zap.String("environment", environment)))
}
