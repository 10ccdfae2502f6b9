package domain_models

// Spread classification of a destination's geography.
const (
	SpreadCompact = "compact"
	SpreadDefault = "default"
	SpreadWide    = "wide"
)

// TravelProfile is the destination-level strategy signal coming out of the
// profiling stage.
type TravelProfile struct {
	Spread  string `json:"spread"`
	MinDays int    `json:"min_days,omitempty"`
}

// DestinationContext is the full working state for one destination: the
// place arena, the region structure layered over it, the travel profile
// and the food pool. It is what the cache stores and the allocator reads.
type DestinationContext struct {
	Name     string         `json:"name"`
	Regions  []*Region      `json:"regions"`
	Arena    *PlaceArena    `json:"-"`
	Profile  TravelProfile  `json:"travel_profile"`
	FoodPool *FoodPool      `json:"food_pool,omitempty"`
	Counts   NormalizeStats `json:"normalize_stats"`
}

// Region returns the region with the given ID, or nil.
func (dc *DestinationContext) Region(id string) *Region {
	for _, r := range dc.Regions {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// NormalizeStats counts what normalization dropped or merged, reported for
// observability; failures never raise.
type NormalizeStats struct {
	Input       int `json:"input"`
	Dropped     int `json:"dropped"`
	ChainNoise  int `json:"chain_noise"`
	Merged      int `json:"merged"`
	QuotaTrim   int `json:"quota_trim"`
	Survivors   int `json:"survivors"`
}
