package controllersfx

import (
	"go.uber.org/fx"

	"kairos/internal/api/controllers"
	"kairos/internal/services"
)

var Module = fx.Provide(
	provideItineraryController, provideAdminController)

func provideItineraryController(itineraryService services.ItineraryServiceInterface) *controllers.ItineraryController {
	return controllers.NewItineraryController(itineraryService)
}

func provideAdminController(itineraryService services.ItineraryServiceInterface) *controllers.AdminController {
	return controllers.NewAdminController(itineraryService)
}
