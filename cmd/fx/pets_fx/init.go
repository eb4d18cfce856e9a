package pets_fx

import (
	"go.uber.org/fx"

	"petregistry/internal/api/controllers"
	"petregistry/internal/repositories"
	"petregistry/internal/services"
)

var Module = fx.Provide(
	repositories.NewPetRepository,
	services.NewPetService,
	controllers.NewPetController,
)
