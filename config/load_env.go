package config

import (
	"log/slog"

	"github.com/subosito/gotenv"
)

// LoadEnv preloads config/envs/.env.<env> into the process environment.
// Variables already set in the environment win over the file.
func LoadEnv(env string) {
	envFile := "config/envs/.env." + env
	if err := gotenv.Load(envFile); err != nil {
		slog.Debug("[Config] No .env file found, using OS environment",
			slog.String("file", envFile))
	}
}
