package domain_models

// PlaceProjection is the minimal place view sent to the region-proposal
// collaborator: enough to group geographically, nothing more.
type PlaceProjection struct {
	Name     string   `json:"name"`
	Lat      *float64 `json:"lat,omitempty"`
	Lon      *float64 `json:"lon,omitempty"`
	Category string   `json:"category"`
	Score    int      `json:"score"`
	TagKeys  []string `json:"tag_keys,omitempty"`
}

// ProposedPlace is a place reference inside a proposal. Untrusted: the
// name may not exist in the pool at all and must survive the
// hallucination filter before it is believed.
type ProposedPlace struct {
	Name        string   `json:"name"`
	Category    string   `json:"category,omitempty"`
	Subcategory string   `json:"subcategory,omitempty"`
	Priority    string   `json:"priority,omitempty"`
	Description string   `json:"description,omitempty"`
	Specialty   []string `json:"specialty,omitempty"`
}

// ProposedRegion is one region of a proposal.
type ProposedRegion struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	RecommendedDays int             `json:"recommended_days,omitempty"`
	Places          []ProposedPlace `json:"places"`
}

// RegionProposal is the first-draft region structure from the collaborator.
// The core treats it as fully untrusted input.
type RegionProposal struct {
	Name    string           `json:"name"`
	Regions []ProposedRegion `json:"regions"`
}

// Projection builds the collaborator view of a place.
func Projection(p *Place) PlaceProjection {
	proj := PlaceProjection{
		Name:     p.Name,
		Category: p.Category,
		Score:    p.QualityScore,
		TagKeys:  p.TagKeys,
	}
	if p.Coordinate != nil {
		lat, lon := p.Coordinate.Lat, p.Coordinate.Lon
		proj.Lat, proj.Lon = &lat, &lon
	}
	return proj
}
