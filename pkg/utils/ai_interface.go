package utils

import (
	"context"

	"kairos/internal/models/domain_models"
)

// RegionProposerInterface is the generative collaborator that drafts a
// region grouping, curates each region and classifies the destination's
// travel profile. Every output is untrusted and goes through the chain
// validator before the pipeline believes a word of it.
type RegionProposerInterface interface {
	ProposeRegions(ctx context.Context, destination string, places []domain_models.PlaceProjection) (*domain_models.RegionProposal, error)
	CurateRegion(ctx context.Context, destination string, region domain_models.ProposedRegion, pool []domain_models.PlaceProjection) (*domain_models.ProposedRegion, error)
	ProposeTravelProfile(ctx context.Context, destination string, regionNames []string) (*domain_models.TravelProfile, error)
}
