package domain_models

// DayBucket is the unit of work for the allocator: one trip day bound to a
// region. Immutable once built.
type DayBucket struct {
	Day        int    `json:"day"`
	RegionID   string `json:"region_id"`
	RegionName string `json:"region_name"`
}

// DayPlan is the allocator output for one day. Places carry the priority
// they received for this specific day, not any earlier global priority.
type DayPlan struct {
	Day        int     `json:"day"`
	RegionID   string  `json:"region_id"`
	RegionName string  `json:"region_name"`
	Main       []Place `json:"main"`
	Optional   []Place `json:"optional"`
}

// CompositionReport flags structural issues in a single day plan.
type CompositionReport struct {
	Valid  bool     `json:"valid"`
	Issues []string `json:"issues,omitempty"`
}

// RegionPlan is one row of an itinerary shape.
type RegionPlan struct {
	RegionID     string `json:"region_id"`
	RegionName   string `json:"region_name"`
	Score        int    `json:"score,omitempty"`
	Days         int    `json:"days"`
	StayRequired bool   `json:"stay_required"`
}

// Stay types for an itinerary shape.
const (
	StaySingle = "single"
	StaySplit  = "split"
)

// ItineraryShape maps requested trip days onto regions.
type ItineraryShape struct {
	TotalDays   int          `json:"total_days"`
	StayType    string       `json:"stay_type"`
	RegionsPlan []RegionPlan `json:"regions_plan"`
}

// IntegrityReport is the final global pass over a destination context.
type IntegrityReport struct {
	Passed   bool     `json:"passed"`
	Warnings []string `json:"warnings,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}
