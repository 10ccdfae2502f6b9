package domain_models

import (
	"github.com/google/uuid"

	"kairos/pkg/geo"
)

// Category values the pipeline reasons about. Anything the categorizer
// cannot map ends up as the most specific raw tag key, else "unknown".
const (
	CategoryBeach      = "beach"
	CategoryFort       = "fort"
	CategoryPalace     = "palace"
	CategoryTemple     = "temple"
	CategoryMuseum     = "museum"
	CategoryViewpoint  = "viewpoint"
	CategoryWaterfall  = "waterfall"
	CategoryIsland     = "island"
	CategoryPark       = "park"
	CategoryPeak       = "peak"
	CategoryAttraction = "attraction"
	CategoryRestaurant = "restaurant"
	CategoryCafe       = "cafe"
	CategoryNightlife  = "nightlife"
	CategoryBar        = "bar"
	CategoryFood       = "food"
	CategoryNature     = "nature"
	CategoryHeritage   = "heritage"
	CategoryAdventure  = "adventure"
	CategoryOther      = "other"
	CategoryUnknown    = "unknown"
)

// Priority is assigned late, per allocated day, never intrinsic.
const (
	PriorityMain     = "main"
	PriorityOptional = "optional"
)

// DaySlot is a rule-based hint of when a place is best visited.
type DaySlot string

const (
	SlotMorning   DaySlot = "morning"
	SlotMidday    DaySlot = "midday"
	SlotAfternoon DaySlot = "afternoon"
	SlotEvening   DaySlot = "evening"
	SlotAnytime   DaySlot = "anytime"
)

// SlotOrder is the fixed time-of-day ordering used when sorting a day's
// places. Anytime sits between midday and afternoon.
var SlotOrder = map[DaySlot]float64{
	SlotMorning:   0,
	SlotMidday:    1,
	SlotAnytime:   1.5,
	SlotAfternoon: 2,
	SlotEvening:   3,
}

// SlotRank returns the ordering value for a slot, defaulting unknown slots
// to the anytime position.
func SlotRank(s DaySlot) float64 {
	if v, ok := SlotOrder[s]; ok {
		return v
	}
	return SlotOrder[SlotAnytime]
}

// Place is the canonical deduplicated unit flowing through the pipeline.
// The name is the de-facto key within a destination; the ID is the stable
// arena address so places can migrate between regions without aliasing.
type Place struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Coordinate  *geo.Coordinate `json:"coordinate,omitempty"`
	Category    string          `json:"category"`
	Subcategory string          `json:"subcategory"`
	RawType     string          `json:"raw_type,omitempty"`

	// TagKeys is the surviving attribute key list; values are dropped after
	// scoring except the few the normalizer folds into other fields.
	TagKeys   []string `json:"tag_keys,omitempty"`
	Specialty []string `json:"specialty,omitempty"`

	HubDensity   int    `json:"hub_density"`
	QualityScore int    `json:"quality_score"`
	DaySlot      DaySlot `json:"day_slot"`

	Priority string `json:"priority,omitempty"`

	RegionID         string `json:"region_id,omitempty"`
	OriginalRegionID string `json:"original_region_id,omitempty"`
	RescuedFrom      string `json:"rescued_from,omitempty"`
}

// FoodCategories covers everything treated as food or nightlife by the
// validators, the shaper and the allocator.
var FoodCategories = map[string]bool{
	CategoryFood:       true,
	CategoryRestaurant: true,
	CategoryCafe:       true,
	CategoryNightlife:  true,
	CategoryBar:        true,
}

// HeavyPhysical covers categories the allocator paces across a day.
var HeavyPhysical = map[string]bool{
	CategoryWaterfall: true,
	"trek":            true,
	"hike":            true,
	CategoryPeak:      true,
	"climbing":        true,
	"kayaking":        true,
	"rafting":         true,
}

// IsFood reports whether the place counts against food caps.
func (p *Place) IsFood() bool {
	return FoodCategories[p.Category]
}

// EffectiveSubcategory resolves the bucket used for diversity caps:
// subcategory when meaningful, else category.
func (p *Place) EffectiveSubcategory() string {
	sub := lower(p.Subcategory)
	if sub == "" || sub == CategoryOther {
		sub = lower(p.Category)
	}
	if sub == "" {
		sub = CategoryOther
	}
	return sub
}

// HasTagKey reports whether the surviving key list contains key.
func (p *Place) HasTagKey(key string) bool {
	for _, k := range p.TagKeys {
		if k == key {
			return true
		}
	}
	return false
}

func lower(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}
