package list_fx

import (
	"log/slog"

	"go.uber.org/fx"

	"colabora/internal/repositories"
	"colabora/internal/services"
)

var Module = fx.Provide(
	provideListService)

func provideListService(store repositories.Store, log *slog.Logger) services.ListServiceInterface {
	return services.NewListService(store, log.With("service", "lists"))
}
