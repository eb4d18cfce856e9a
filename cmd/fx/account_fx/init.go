package account_fx

import (
	"go.uber.org/fx"

	"petregistry/internal/api/controllers"
	"petregistry/internal/repositories"
	"petregistry/internal/services"
)

var Module = fx.Provide(
	repositories.NewAccountRepository,
	services.NewAccountService,
	controllers.NewAccountController,
)
