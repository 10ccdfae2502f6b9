package domain_models

import "kairos/pkg/geo"

// RawPoint is one point of interest exactly as a provider returned it.
// Duplicates, missing coordinates and arbitrary tag sets are all expected.
type RawPoint struct {
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat,omitempty"`
	Lon    *float64          `json:"lon,omitempty"`
	Center *geo.Coordinate   `json:"center,omitempty"`
	Tags   map[string]string `json:"tags"`
}

// Coordinate resolves the point's position, preferring the direct lat/lon
// pair over the way/relation center. Nil when neither is present.
func (rp RawPoint) Coordinate() *geo.Coordinate {
	if rp.Lat != nil && rp.Lon != nil {
		return &geo.Coordinate{Lat: *rp.Lat, Lon: *rp.Lon}
	}
	if rp.Center != nil {
		c := *rp.Center
		return &c
	}
	return nil
}

// Name returns the tagged name, or "" when the point is anonymous.
func (rp RawPoint) Name() string {
	return rp.Tags["name"]
}
