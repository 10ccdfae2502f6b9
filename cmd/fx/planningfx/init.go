package planningfx

import (
	"math/rand"
	"time"

	"go.uber.org/fx"

	"kairos/internal/repositories"
	"kairos/internal/services"
	mem "kairos/pkg/memcache"
	"kairos/pkg/utils"
)

var Module = fx.Provide(
	provideRand,
	provideFoodService,
	provideShaperService,
	provideAllocatorService,
	provideSnapshotService,
	provideItineraryService,
)

func provideRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func provideFoodService() services.FoodServiceInterface {
	return services.NewFoodService()
}

func provideShaperService() services.ShaperServiceInterface {
	return services.NewShaperService()
}

func provideAllocatorService(food services.FoodServiceInterface, rng *rand.Rand) services.AllocatorServiceInterface {
	return services.NewAllocatorService(food, rng)
}

func provideSnapshotService(cache mem.DestinationCacheInterface, repo repositories.SnapshotRepository) services.SnapshotServiceInterface {
	return services.NewSnapshotService(cache, repo)
}

func provideItineraryService(
	geocode services.GeocodeServiceInterface,
	fetch services.FetchServiceInterface,
	normalize services.NormalizerServiceInterface,
	proposer utils.RegionProposerInterface,
	regions services.RegionServiceInterface,
	chain services.ChainServiceInterface,
	food services.FoodServiceInterface,
	shaper services.ShaperServiceInterface,
	allocator services.AllocatorServiceInterface,
	snapshots services.SnapshotServiceInterface,
	rng *rand.Rand,
) services.ItineraryServiceInterface {
	return services.NewItineraryService(
		geocode, fetch, normalize, proposer, regions, chain, food, shaper, allocator, snapshots, rng)
}
