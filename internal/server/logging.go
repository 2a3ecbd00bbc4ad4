package server

import (
	"go.uber.org/zap"
)

// NewLogger builds the process logger for the given environment.
// Development gets the human-readable console encoder, everything
// else the production JSON encoder.
func NewLogger(env string) (*zap.Logger, error) {
	if env == EnvProduction {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
