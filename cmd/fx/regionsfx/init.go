package regionsfx

import (
	"go.uber.org/fx"

	"kairos/internal/services"
)

var Module = fx.Provide(
	provideRegionService, provideChainService)

func provideRegionService() services.RegionServiceInterface {
	return services.NewRegionService()
}

func provideChainService() services.ChainServiceInterface {
	return services.NewChainService()
}
