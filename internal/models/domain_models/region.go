package domain_models

import (
	"github.com/google/uuid"

	"kairos/pkg/geo"
)

// OverflowRegionID is the synthetic region collecting places no real region
// can adopt within the destination's max radius. Created lazily, once.
const OverflowRegionID = "overflow"

// Compactness classification of a region's geographic footprint.
const (
	CompactnessCompact   = "compact"
	CompactnessStretched = "stretched"
	CompactnessDispersed = "dispersed"
	CompactnessNA        = "n/a"
)

// CompactnessReport is the measured footprint of a region.
type CompactnessReport struct {
	Status    string  `json:"status"`
	AvgDistKm float64 `json:"avg_dist_km"`
	MaxDistKm float64 `json:"max_dist_km"`
}

// Region is a named geographic grouping of arena place IDs. Mutable during
// validation (places migrate in and out), frozen once handed to the
// allocator.
type Region struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	Description     string             `json:"description,omitempty"`
	Centroid        *geo.Coordinate    `json:"centroid,omitempty"`
	RecommendedDays int                `json:"recommended_days,omitempty"`
	Compactness     *CompactnessReport `json:"compactness,omitempty"`
	PlaceIDs        []uuid.UUID        `json:"place_ids"`
}

// Places resolves the region's IDs against the arena, skipping stale IDs.
func (r *Region) Places(arena *PlaceArena) []*Place {
	out := make([]*Place, 0, len(r.PlaceIDs))
	for _, id := range r.PlaceIDs {
		if p := arena.Get(id); p != nil {
			out = append(out, p)
		}
	}
	return out
}

// AddPlace appends the place to the region and stamps its region ID.
func (r *Region) AddPlace(p *Place) {
	p.RegionID = r.ID
	r.PlaceIDs = append(r.PlaceIDs, p.ID)
}

// RemovePlace drops the ID from the region, preserving order.
func (r *Region) RemovePlace(id uuid.UUID) {
	for i, pid := range r.PlaceIDs {
		if pid == id {
			r.PlaceIDs = append(r.PlaceIDs[:i], r.PlaceIDs[i+1:]...)
			return
		}
	}
}

// ComputeCentroid recalculates the centroid from coordinate-bearing places
// and stores it on the region. Nil when no place has a coordinate.
func (r *Region) ComputeCentroid(arena *PlaceArena) *geo.Coordinate {
	var coords []geo.Coordinate
	for _, p := range r.Places(arena) {
		if p.Coordinate != nil {
			coords = append(coords, *p.Coordinate)
		}
	}
	r.Centroid = geo.Centroid(coords)
	return r.Centroid
}
