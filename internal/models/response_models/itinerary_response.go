package response_models

import (
	"kairos/internal/models/domain_models"
)

// ItineraryResponse is the full planning output for one request.
type ItineraryResponse struct {
	Destination string                          `json:"destination"`
	Days        int                             `json:"days"`
	StayType    string                          `json:"stay_type"`
	Profile     domain_models.TravelProfile     `json:"travel_profile"`
	Regions     []RegionSummary                 `json:"regions"`
	DayPlans    []DayPlanResponse               `json:"day_plans"`
	Stats       domain_models.NormalizeStats    `json:"stats"`
	Integrity   domain_models.IntegrityReport   `json:"integrity"`
	FromCache   bool                            `json:"from_cache"`
}

// RegionSummary is the region view returned to clients.
type RegionSummary struct {
	ID          string                           `json:"id"`
	Name        string                           `json:"name"`
	Description string                           `json:"description,omitempty"`
	PlaceCount  int                              `json:"place_count"`
	Compactness *domain_models.CompactnessReport `json:"compactness,omitempty"`
}

// DayPlanResponse is one day of the itinerary.
type DayPlanResponse struct {
	Day        int                             `json:"day"`
	RegionID   string                          `json:"region_id"`
	RegionName string                          `json:"region_name"`
	Main       []PlaceResponse                 `json:"main"`
	Optional   []PlaceResponse                 `json:"optional"`
	Report     domain_models.CompositionReport `json:"report"`
}

// PlaceResponse is the client view of a single place on a day.
type PlaceResponse struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory,omitempty"`
	DaySlot     string   `json:"day_slot"`
	Priority    string   `json:"priority"`
	Score       int      `json:"score"`
	Lat         *float64 `json:"lat,omitempty"`
	Lon         *float64 `json:"lon,omitempty"`
	Specialty   []string `json:"specialty,omitempty"`
}

// ToPlaceResponse projects a domain place to the API shape.
func ToPlaceResponse(p domain_models.Place) PlaceResponse {
	resp := PlaceResponse{
		Name:        p.Name,
		Category:    p.Category,
		Subcategory: p.Subcategory,
		DaySlot:     string(p.DaySlot),
		Priority:    p.Priority,
		Score:       p.QualityScore,
		Specialty:   p.Specialty,
	}
	if p.Coordinate != nil {
		lat, lon := p.Coordinate.Lat, p.Coordinate.Lon
		resp.Lat, resp.Lon = &lat, &lon
	}
	return resp
}
