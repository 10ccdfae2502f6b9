package services

import (
	"context"
	"encoding/json"
	"log"

	"kairos/internal/models/db_models"
	"kairos/internal/models/domain_models"
	"kairos/internal/repositories"
	mem "kairos/pkg/memcache"
)

// SnapshotServiceInterface is the two-tier destination cache: in-process
// first, the database snapshot second. A hit on either tier returns a
// fully hydrated context; a database hit also refills the memory tier.
type SnapshotServiceInterface interface {
	Load(ctx context.Context, destination string) (*domain_models.DestinationContext, bool)
	Store(ctx context.Context, dest *domain_models.DestinationContext)
	Invalidate(ctx context.Context, destination string) error
}

func NewSnapshotService(cache mem.DestinationCacheInterface, repo repositories.SnapshotRepository) SnapshotServiceInterface {
	return &SnapshotService{cache: cache, repo: repo}
}

type SnapshotService struct {
	cache mem.DestinationCacheInterface
	repo  repositories.SnapshotRepository
}

// snapshotPayload is the serialized form of a context. The arena does not
// marshal itself; places are flattened here and the arena rebuilt on load,
// IDs preserved so region references stay valid.
type snapshotPayload struct {
	Name    string                       `json:"name"`
	Places  []domain_models.Place        `json:"places"`
	Regions []*domain_models.Region      `json:"regions"`
	Profile domain_models.TravelProfile  `json:"travel_profile"`
	Food    *domain_models.FoodPool      `json:"food_pool,omitempty"`
	Counts  domain_models.NormalizeStats `json:"normalize_stats"`
}

func (s *SnapshotService) Load(ctx context.Context, destination string) (*domain_models.DestinationContext, bool) {
	if dest, ok := s.cache.Get(destination); ok {
		return dest, true
	}
	if s.repo == nil {
		return nil, false
	}

	snapshot, err := s.repo.GetByDestination(ctx, destination)
	if err != nil {
		log.Printf("[Snapshot] load failed for %q: %v", destination, err)
		return nil, false
	}
	if snapshot == nil {
		return nil, false
	}

	var payload snapshotPayload
	if err := json.Unmarshal(snapshot.Payload, &payload); err != nil {
		log.Printf("[Snapshot] corrupt payload for %q: %v", destination, err)
		return nil, false
	}

	dest := hydrate(&payload)
	s.cache.Set(destination, dest)
	log.Printf("[Snapshot] %q restored from database (%d places)", destination, dest.Arena.Len())
	return dest, true
}

func hydrate(payload *snapshotPayload) *domain_models.DestinationContext {
	arena := domain_models.NewPlaceArena()
	for i := range payload.Places {
		p := payload.Places[i]
		arena.Add(&p)
	}
	return &domain_models.DestinationContext{
		Name:     payload.Name,
		Regions:  payload.Regions,
		Arena:    arena,
		Profile:  payload.Profile,
		FoodPool: payload.Food,
		Counts:   payload.Counts,
	}
}

func (s *SnapshotService) Store(ctx context.Context, dest *domain_models.DestinationContext) {
	s.cache.Set(dest.Name, dest)
	if s.repo == nil {
		return
	}

	payload := snapshotPayload{
		Name:    dest.Name,
		Regions: dest.Regions,
		Profile: dest.Profile,
		Food:    dest.FoodPool,
		Counts:  dest.Counts,
	}
	for _, p := range dest.Arena.All() {
		payload.Places = append(payload.Places, *p)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[Snapshot] marshal failed for %q: %v", dest.Name, err)
		return
	}
	snapshot := &db_models.DestinationSnapshot{
		Destination: dest.Name,
		Payload:     raw,
		PlaceCount:  dest.Arena.Len(),
		RegionCount: len(dest.Regions),
	}
	if err := s.repo.Upsert(ctx, snapshot); err != nil {
		log.Printf("[Snapshot] persist failed for %q: %v", dest.Name, err)
	}
}

func (s *SnapshotService) Invalidate(ctx context.Context, destination string) error {
	s.cache.Delete(destination)
	if s.repo == nil {
		return nil
	}
	return s.repo.DeleteByDestination(ctx, destination)
}
