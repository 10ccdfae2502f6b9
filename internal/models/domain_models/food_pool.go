package domain_models

// MealType of a food pool entry.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
)

// MealEntry is a food/nightlife place staged for meal picking. Entries are
// value copies of arena places: pools are read-only during allocation and
// never shrink. Reuse is controlled by used-name tracking instead.
type MealEntry struct {
	Place
	MealType     MealType `json:"meal_type"`
	PoolRegionID string   `json:"pool_region_id,omitempty"`
	RegionDistKm float64  `json:"region_dist_km,omitempty"`

	// Pick metadata, stamped on the copy returned by PickMeal.
	PickDistKm  float64 `json:"pick_dist_km,omitempty"`
	Borrowed    bool    `json:"borrowed,omitempty"`
	Expanded    bool    `json:"expanded,omitempty"`
	DinnerClone bool    `json:"-"`
}

// FoodPool holds the three meal pools, each sorted by quality descending.
type FoodPool struct {
	Breakfast []MealEntry `json:"breakfast"`
	Lunch     []MealEntry `json:"lunch"`
	Dinner    []MealEntry `json:"dinner"`
}

// Pool returns the slice backing a meal type.
func (fp *FoodPool) Pool(mt MealType) []MealEntry {
	switch mt {
	case MealBreakfast:
		return fp.Breakfast
	case MealLunch:
		return fp.Lunch
	default:
		return fp.Dinner
	}
}
