package services

import (
	"context"
	"log"
	"math/rand"

	"kairos/internal/models/domain_models"
	"kairos/internal/models/request_models"
	"kairos/internal/models/response_models"
	"kairos/pkg/geo"
	"kairos/pkg/utils"
)

// ItineraryServiceInterface is the pipeline orchestrator: destination in,
// day plans out. Context building is cached per destination; day
// allocation runs fresh for every request.
type ItineraryServiceInterface interface {
	PlanItinerary(ctx context.Context, req *request_models.ItineraryRequest) (*response_models.ItineraryResponse, error)
	InvalidateDestination(ctx context.Context, destination string) error
}

type ItineraryService struct {
	geocode   GeocodeServiceInterface
	fetch     FetchServiceInterface
	normalize NormalizerServiceInterface
	proposer  utils.RegionProposerInterface
	regions   RegionServiceInterface
	chain     ChainServiceInterface
	food      FoodServiceInterface
	shaper    ShaperServiceInterface
	allocator AllocatorServiceInterface
	snapshots SnapshotServiceInterface
	rng       *rand.Rand
}

func NewItineraryService(
	geocode GeocodeServiceInterface,
	fetch FetchServiceInterface,
	normalize NormalizerServiceInterface,
	proposer utils.RegionProposerInterface,
	regions RegionServiceInterface,
	chain ChainServiceInterface,
	food FoodServiceInterface,
	shaper ShaperServiceInterface,
	allocator AllocatorServiceInterface,
	snapshots SnapshotServiceInterface,
	rng *rand.Rand,
) ItineraryServiceInterface {
	return &ItineraryService{
		geocode:   geocode,
		fetch:     fetch,
		normalize: normalize,
		proposer:  proposer,
		regions:   regions,
		chain:     chain,
		food:      food,
		shaper:    shaper,
		allocator: allocator,
		snapshots: snapshots,
		rng:       rng,
	}
}

func (s *ItineraryService) PlanItinerary(ctx context.Context, req *request_models.ItineraryRequest) (*response_models.ItineraryResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Refresh {
		if err := s.snapshots.Invalidate(ctx, req.Destination); err != nil {
			log.Printf("[Itinerary] refresh invalidation failed for %q: %v", req.Destination, err)
		}
	}

	dest, fromCache := s.snapshots.Load(ctx, req.Destination)
	if !fromCache {
		var err error
		dest, err = s.buildContext(ctx, req)
		if err != nil {
			return nil, err
		}
		s.snapshots.Store(ctx, dest)
	}

	shape := s.shaper.Shape(dest, req.Days)
	buckets := s.shaper.BuildDayBuckets(shape)
	plans := s.allocator.Allocate(dest, buckets)
	integrity := s.allocator.CheckIntegrity(dest, plans)
	if !integrity.Passed {
		log.Printf("[Itinerary] integrity errors for %q: %v", req.Destination, integrity.Errors)
	}

	return s.buildResponse(req, dest, shape, plans, integrity, fromCache), nil
}

// buildContext runs the full acquisition and validation chain for a cold
// destination.
func (s *ItineraryService) buildContext(ctx context.Context, req *request_models.ItineraryRequest) (*domain_models.DestinationContext, error) {
	center, err := s.geocode.Geocode(ctx, req.Destination)
	if err != nil {
		return nil, err
	}

	raw, err := s.fetch.FetchRawPoints(ctx, req.Destination, *center)
	if err != nil {
		return nil, utils.NewStageError("fetch", err)
	}

	places, stats := s.normalize.Normalize(raw)
	if len(places) == 0 {
		return nil, utils.ErrDestinationNotFound
	}

	arena := domain_models.NewPlaceArena()
	for _, p := range places {
		arena.Add(p)
	}
	dest := &domain_models.DestinationContext{
		Name:   req.Destination,
		Arena:  arena,
		Counts: stats,
	}

	dest.Profile = s.resolveProfile(ctx, req.Destination, places)

	proposal := s.proposeRegions(ctx, req.Destination, places)
	s.regions.ResolveRegions(dest, proposal, req.Days, s.rng)
	s.regions.MergeFoodRegions(dest)
	s.chain.ValidateRegions(dest)
	s.regions.CapRegions(dest, req.Days)
	s.food.BuildFoodPool(dest)

	return dest, nil
}

// resolveProfile asks the collaborator for the destination's spread and
// falls back to a geometric heuristic when it cannot answer.
func (s *ItineraryService) resolveProfile(ctx context.Context, destination string, places []*domain_models.Place) domain_models.TravelProfile {
	if profile, err := s.proposer.ProposeTravelProfile(ctx, destination, nil); err == nil && profile != nil {
		return *profile
	} else if err != nil {
		log.Printf("[Itinerary] travel profile proposal failed for %q: %v", destination, err)
	}
	return geometricProfile(places)
}

// geometricProfile classifies spread by how far places sit from the
// overall centroid.
func geometricProfile(places []*domain_models.Place) domain_models.TravelProfile {
	var coords []geo.Coordinate
	for _, p := range places {
		if p.Coordinate != nil {
			coords = append(coords, *p.Coordinate)
		}
	}
	centroid := geo.Centroid(coords)
	if centroid == nil {
		return domain_models.TravelProfile{Spread: domain_models.SpreadDefault}
	}
	maxDist := 0.0
	for _, c := range coords {
		if d := geo.Distance(c, *centroid); d > maxDist {
			maxDist = d
		}
	}
	switch {
	case maxDist > 30:
		return domain_models.TravelProfile{Spread: domain_models.SpreadWide, MinDays: 3}
	case maxDist < 8:
		return domain_models.TravelProfile{Spread: domain_models.SpreadCompact}
	default:
		return domain_models.TravelProfile{Spread: domain_models.SpreadDefault}
	}
}

// proposeRegions drafts the region grouping and runs per-region curation.
// Any collaborator failure degrades to a nil proposal, which the region
// service answers with geometric clustering.
func (s *ItineraryService) proposeRegions(ctx context.Context, destination string, places []*domain_models.Place) *domain_models.RegionProposal {
	projections := make([]domain_models.PlaceProjection, 0, len(places))
	for _, p := range places {
		projections = append(projections, domain_models.Projection(p))
	}

	proposal, err := s.proposer.ProposeRegions(ctx, destination, projections)
	if err != nil || proposal == nil || len(proposal.Regions) == 0 {
		log.Printf("[Itinerary] region proposal unavailable for %q: %v", destination, err)
		return nil
	}

	for i, region := range proposal.Regions {
		curated, err := s.proposer.CurateRegion(ctx, destination, region, projections)
		if err != nil || curated == nil {
			log.Printf("[Itinerary] curation failed for region %q: %v", region.Name, err)
			continue
		}
		proposal.Regions[i] = *curated
	}
	return proposal
}

func (s *ItineraryService) buildResponse(
	req *request_models.ItineraryRequest,
	dest *domain_models.DestinationContext,
	shape *domain_models.ItineraryShape,
	plans []domain_models.DayPlan,
	integrity domain_models.IntegrityReport,
	fromCache bool,
) *response_models.ItineraryResponse {
	resp := &response_models.ItineraryResponse{
		Destination: req.Destination,
		Days:        req.Days,
		StayType:    shape.StayType,
		Profile:     dest.Profile,
		Stats:       dest.Counts,
		Integrity:   integrity,
		FromCache:   fromCache,
	}
	for _, r := range dest.Regions {
		resp.Regions = append(resp.Regions, response_models.RegionSummary{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			PlaceCount:  len(r.PlaceIDs),
			Compactness: r.Compactness,
		})
	}
	for i := range plans {
		plan := plans[i]
		dp := response_models.DayPlanResponse{
			Day:        plan.Day,
			RegionID:   plan.RegionID,
			RegionName: plan.RegionName,
			Report:     s.allocator.ComposeReport(&plan),
		}
		for _, p := range plan.Main {
			dp.Main = append(dp.Main, response_models.ToPlaceResponse(p))
		}
		for _, p := range plan.Optional {
			dp.Optional = append(dp.Optional, response_models.ToPlaceResponse(p))
		}
		resp.DayPlans = append(resp.DayPlans, dp)
	}
	return resp
}

func (s *ItineraryService) InvalidateDestination(ctx context.Context, destination string) error {
	if destination == "" {
		return utils.ErrMissingDestination
	}
	return s.snapshots.Invalidate(ctx, destination)
}
