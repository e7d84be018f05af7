package config_fx

import (
	"log/slog"

	"go.uber.org/fx"

	"colabora/pkg/config"
	"colabora/pkg/logger"
	"colabora/pkg/utils"
)

var Module = fx.Provide(
	provideConfig, provideLogger, provideTokenManager)

func provideConfig() (*config.Config, error) {
	return config.Load()
}

func provideLogger(cfg *config.Config) *slog.Logger {
	log := logger.New(cfg)
	slog.SetDefault(log)
	return log
}

func provideTokenManager(cfg *config.Config) *utils.TokenManager {
	return utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
}
