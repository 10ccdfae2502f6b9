package services

import (
	"log"
	"sort"
	"strings"

	"kairos/internal/models/domain_models"
	"kairos/pkg/geo"
)

// FoodServiceInterface stages the destination's food and nightlife places
// into per-meal pools and serves picks to the allocator. Pools never
// shrink; reuse is governed by the tracker so the same restaurant does not
// appear on adjacent days.
type FoodServiceInterface interface {
	BuildFoodPool(dest *domain_models.DestinationContext)
	PickMeal(dest *domain_models.DestinationContext, mt domain_models.MealType, near *geo.Coordinate, regionID string, day int, tracker *MealTracker) *domain_models.MealEntry
}

func NewFoodService() FoodServiceInterface {
	return &FoodService{}
}

type FoodService struct{}

const (
	mealRadiusKm      = 10.0
	mealRadiusStretch = 1.5
)

var breakfastNameHints = []string{"breakfast", "bakery", "coffee", "cafe", "café", "brunch"}

// dinnerNameHints mark restaurants that only make sense in the evening, so
// a steakhouse never competes for a lunch slot.
var dinnerNameHints = []string{
	"bar", "pub", "lounge", "club", "cocktail",
	"grill", "tandoor", "bistro", "kitchen", "steakhouse", "seafood",
}

// BuildFoodPool distributes food places into meal pools. Cafes serve
// breakfast; bars and nightlife serve dinner only, as do restaurants whose
// name signals an evening venue; the remaining restaurants serve lunch and
// get a dinner clone. Each pool is sorted best-first.
func (s *FoodService) BuildFoodPool(dest *domain_models.DestinationContext) {
	pool := &domain_models.FoodPool{}

	for _, p := range dest.Arena.All() {
		if !p.IsFood() {
			continue
		}
		entry := baseEntry(dest, p)
		switch {
		case p.Category == domain_models.CategoryCafe || hasNameHint(p.Name, breakfastNameHints):
			b := entry
			b.MealType = domain_models.MealBreakfast
			b.DaySlot = domain_models.SlotMorning
			pool.Breakfast = append(pool.Breakfast, b)
		case p.Category == domain_models.CategoryNightlife || p.Category == domain_models.CategoryBar ||
			hasNameHint(p.Name, dinnerNameHints):
			d := entry
			d.MealType = domain_models.MealDinner
			d.DaySlot = domain_models.SlotEvening
			pool.Dinner = append(pool.Dinner, d)
		default:
			l := entry
			l.MealType = domain_models.MealLunch
			l.DaySlot = domain_models.SlotMidday
			pool.Lunch = append(pool.Lunch, l)

			d := entry
			d.MealType = domain_models.MealDinner
			d.DaySlot = domain_models.SlotEvening
			d.DinnerClone = true
			pool.Dinner = append(pool.Dinner, d)
		}
	}

	rankPool(pool.Breakfast)
	rankPool(pool.Lunch)
	rankPool(pool.Dinner)

	dest.FoodPool = pool
	log.Printf("[FoodPool] %q: breakfast=%d lunch=%d dinner=%d",
		dest.Name, len(pool.Breakfast), len(pool.Lunch), len(pool.Dinner))
}

// baseEntry snapshots the place and tags it with its region. Food that
// lost its region (trimmed by a validator) is tagged with the nearest
// region centroid instead, so region-first picking still works for it.
func baseEntry(dest *domain_models.DestinationContext, p *domain_models.Place) domain_models.MealEntry {
	entry := domain_models.MealEntry{Place: *p, PoolRegionID: p.RegionID}
	if entry.PoolRegionID == "" {
		if r, dist := nearestAmong(dest.Regions, p.Coordinate); r != nil {
			entry.PoolRegionID = r.ID
			entry.RegionDistKm = dist
		}
		return entry
	}
	if r := dest.Region(p.RegionID); r != nil && r.Centroid != nil {
		entry.RegionDistKm = geo.DistanceBetween(p.Coordinate, r.Centroid)
	}
	return entry
}

func hasNameHint(name string, hints []string) bool {
	lower := strings.ToLower(name)
	for _, hint := range hints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

// rankPool orders best-first: quality, then how embedded the place is in a
// commercial hub, then specialty richness, then name for determinism.
func rankPool(entries []domain_models.MealEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.QualityScore != b.QualityScore {
			return a.QualityScore > b.QualityScore
		}
		if a.HubDensity != b.HubDensity {
			return a.HubDensity > b.HubDensity
		}
		if len(a.Specialty) != len(b.Specialty) {
			return len(a.Specialty) > len(b.Specialty)
		}
		return a.Name < b.Name
	})
}

// MealTracker remembers which meal names were served on which days so picks
// can enforce no-repeat and adjacent-day exclusion across the whole trip.
type MealTracker struct {
	usedDays map[string][]int
}

func NewMealTracker() *MealTracker {
	return &MealTracker{usedDays: make(map[string][]int)}
}

func (t *MealTracker) MarkUsed(name string, day int) {
	key := strings.ToLower(strings.TrimSpace(name))
	t.usedDays[key] = append(t.usedDays[key], day)
}

// IsUsed reports any prior use of the name.
func (t *MealTracker) IsUsed(name string) bool {
	_, ok := t.usedDays[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// usableOn reports whether the name may be served on day: never on a day
// adjacent to a prior serving.
func (t *MealTracker) usableOn(name string, day int) bool {
	for _, d := range t.usedDays[strings.ToLower(strings.TrimSpace(name))] {
		if d == day || d == day-1 || d == day+1 {
			return false
		}
	}
	return true
}

// PickMeal returns the best pool entry for the meal near the given point.
// The ladder: unused same-region within 10km, unused any-region within
// 10km, unused within the 1.5x stretched radius, then a non-adjacent reuse
// within the stretched radius, then an unused entry from anywhere, then a
// non-adjacent reuse from anywhere. Nil when the pool offers nothing at
// all. The returned copy carries pick metadata; the pool is untouched.
func (s *FoodService) PickMeal(dest *domain_models.DestinationContext, mt domain_models.MealType, near *geo.Coordinate, regionID string, day int, tracker *MealTracker) *domain_models.MealEntry {
	if dest.FoodPool == nil {
		return nil
	}
	pool := dest.FoodPool.Pool(mt)
	if len(pool) == 0 {
		return nil
	}
	stretched := mealRadiusKm * mealRadiusStretch

	if pick := s.pickWithin(pool, near, regionID, mealRadiusKm, day, tracker, true); pick != nil {
		return pick
	}
	if pick := s.pickWithin(pool, near, "", mealRadiusKm, day, tracker, true); pick != nil {
		pick.Borrowed = true
		return pick
	}
	if pick := s.pickWithin(pool, near, "", stretched, day, tracker, true); pick != nil {
		pick.Borrowed = true
		pick.Expanded = true
		return pick
	}
	// Allow a non-adjacent repeat before reaching across the map.
	if pick := s.pickWithin(pool, near, "", stretched, day, tracker, false); pick != nil {
		pick.Expanded = true
		return pick
	}
	if pick := s.pickWithin(pool, near, "", geo.FarAwayKm, day, tracker, true); pick != nil {
		pick.Borrowed = true
		return pick
	}
	// Last resort: any non-adjacent reuse, however far.
	if pick := s.pickWithin(pool, near, "", geo.FarAwayKm, day, tracker, false); pick != nil {
		pick.Borrowed = true
		return pick
	}
	return nil
}

// pickWithin scans the quality-ordered pool for the first entry satisfying
// the region, radius and tracker constraints. Empty regionID means any.
func (s *FoodService) pickWithin(pool []domain_models.MealEntry, near *geo.Coordinate, regionID string, radiusKm float64, day int, tracker *MealTracker, freshOnly bool) *domain_models.MealEntry {
	for _, entry := range pool {
		if regionID != "" && entry.PoolRegionID != regionID {
			continue
		}
		if freshOnly && tracker.IsUsed(entry.Name) {
			continue
		}
		if !tracker.usableOn(entry.Name, day) {
			continue
		}
		dist := geo.DistanceBetween(entry.Coordinate, near)
		if dist > radiusKm {
			continue
		}
		pick := entry
		pick.PickDistKm = dist
		return &pick
	}
	return nil
}
