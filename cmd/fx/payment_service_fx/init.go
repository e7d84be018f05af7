package payment_service_fx

import (
	"log/slog"

	"go.uber.org/fx"

	"colabora/internal/repositories"
	"colabora/internal/services"
	"colabora/pkg/config"
)

var Module = fx.Provide(
	providePixGateway, provideLifecycle, provideSubscriptionService,
)

func providePixGateway(cfg *config.Config, log *slog.Logger) services.PixGateway {
	if cfg.AbacatePayAPIKey == "" {
		log.Warn("ABACATE_PAY_API_KEY is empty, checkout calls will be rejected by the gateway")
	}
	return services.NewAbacatePayClient(cfg)
}

func provideLifecycle(log *slog.Logger) *services.SubscriptionLifecycle {
	return services.NewSubscriptionLifecycle(log.With("service", "subscription_lifecycle"))
}

func provideSubscriptionService(
	store repositories.Store,
	gateway services.PixGateway,
	lifecycle *services.SubscriptionLifecycle,
	cfg *config.Config,
	log *slog.Logger,
) services.SubscriptionServiceInterface {
	return services.NewSubscriptionService(store, gateway, lifecycle, cfg, log.With("service", "subscriptions"))
}
