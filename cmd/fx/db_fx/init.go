package db_fx

import (
	"context"
	"log/slog"
	"time"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"colabora/internal/api/controllers"
	"colabora/internal/infra"
	"colabora/internal/repositories"
	"colabora/pkg/config"
)

var Module = fx.Provide(
	provideDB, provideStore, providePinger)

func provideDB(lc fx.Lifecycle, cfg *config.Config, log *slog.Logger) (*gorm.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := infra.InitPostgresql(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			infra.ClosePostgresql(db, log)
			return nil
		},
	})
	return db, nil
}

func provideStore(db *gorm.DB) repositories.Store {
	return repositories.NewStore(db)
}

func providePinger(db *gorm.DB) (controllers.Pinger, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return sqlDB, nil
}
