package memcache_fx

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"colabora/internal/infra"
	"colabora/pkg/config"
	mem "colabora/pkg/memcache"
	"colabora/pkg/middleware"
)

var Module = fx.Provide(provideRateStore)

// provideRateStore shares counters through Redis when REDIS_URL is set and
// falls back to per-process counters otherwise.
func provideRateStore(lc fx.Lifecycle, cfg *config.Config, log *slog.Logger) (middleware.RateStore, error) {
	if cfg.RedisURL == "" {
		log.Info("REDIS_URL not set, rate limiting with in-memory counters")
		return mem.NewWindowCounter(), nil
	}

	counter, err := infra.NewRedisCounter(context.Background(), cfg.RedisURL, log)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return counter.Close()
		},
	})
	return counter, nil
}
