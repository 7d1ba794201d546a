package utils

import (
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// LoadEnv reads a local .env file when present. Missing files are fine,
// deployments pass real environment variables instead.
func LoadEnv(logger *zap.Logger) {
	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, reading configuration from environment")
		return
	}
	logger.Info(".env file loaded")
}
