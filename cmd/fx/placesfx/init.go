package placesfx

import (
	"go.uber.org/fx"

	"kairos/internal/services"
)

var Module = fx.Provide(
	provideGeocodeService, provideFetchService, provideNormalizerService)

func provideGeocodeService() services.GeocodeServiceInterface {
	return services.NewGeocodeService()
}

func provideFetchService() services.FetchServiceInterface {
	return services.NewFetchService()
}

func provideNormalizerService() services.NormalizerServiceInterface {
	return services.NewNormalizerService()
}
