package account_fx

import (
	"log/slog"

	"go.uber.org/fx"

	"colabora/internal/repositories"
	"colabora/internal/services"
	"colabora/pkg/utils"
)

var Module = fx.Provide(
	provideAccountService)

func provideAccountService(store repositories.Store, tokens *utils.TokenManager, log *slog.Logger) services.AccountServiceInterface {
	return services.NewAccountService(store, tokens, log.With("service", "account"))
}
