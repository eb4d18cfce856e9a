package credits_fx

import (
	"go.uber.org/fx"

	"petregistry/internal/api/controllers"
	"petregistry/internal/repositories"
	"petregistry/internal/services"
)

var Module = fx.Provide(
	repositories.NewCreditRepository,
	repositories.NewPromoRepository,
	services.NewCreditService,
	controllers.NewCreditController,
)
