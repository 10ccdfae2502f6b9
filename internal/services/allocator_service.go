package services

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"sort"

	"github.com/google/uuid"

	"kairos/internal/models/domain_models"
	"kairos/pkg/geo"
)

// AllocatorServiceInterface fills day buckets with places and meals. Every
// place appears on at most one day; meals come from the shared food pool
// under the tracker's no-adjacent-repeat rule.
//
// Each day runs the same phases: lock attractions slot by slot from the
// day's geographic cluster, freeze the centroid, fill meals near it, then
// re-score the whole day into main and optional under the split caps.
type AllocatorServiceInterface interface {
	Allocate(dest *domain_models.DestinationContext, buckets []domain_models.DayBucket) []domain_models.DayPlan
	ComposeReport(plan *domain_models.DayPlan) domain_models.CompositionReport
	CheckIntegrity(dest *domain_models.DestinationContext, plans []domain_models.DayPlan) domain_models.IntegrityReport
}

func NewAllocatorService(foodService FoodServiceInterface, rng *rand.Rand) AllocatorServiceInterface {
	return &AllocatorService{foodService: foodService, rng: rng}
}

type AllocatorService struct {
	foodService FoodServiceInterface
	rng         *rand.Rand
}

const (
	nonFoodMainsPerDay = 4
	foodMainsPerDay    = 3
	heavyPerDay        = 3
	dayTargetSize      = 8
	rescueSize         = 2
	nightlifeKm        = 10.0
	subcatPerDay       = 3
	saturationKm       = 0.5
)

// attractionSlots shape a day's sightseeing rhythm. Each slot lists the
// time-of-day hints it accepts, morning to evening.
var attractionSlots = [][]domain_models.DaySlot{
	{domain_models.SlotMorning, domain_models.SlotAnytime},
	{domain_models.SlotMorning, domain_models.SlotMidday, domain_models.SlotAnytime},
	{domain_models.SlotAfternoon, domain_models.SlotAnytime},
	{domain_models.SlotEvening, domain_models.SlotAnytime},
}

// allocationContext tracks cross-day state for one allocation run.
type allocationContext struct {
	used  map[uuid.UUID]bool
	meals *MealTracker
}

func newAllocationContext() *allocationContext {
	return &allocationContext{
		used:  make(map[uuid.UUID]bool),
		meals: NewMealTracker(),
	}
}

func (ac *allocationContext) MarkUsed(id uuid.UUID) { ac.used[id] = true }
func (ac *allocationContext) IsUsed(id uuid.UUID) bool { return ac.used[id] }
func (ac *allocationContext) Release(id uuid.UUID)  { delete(ac.used, id) }

func (s *AllocatorService) Allocate(dest *domain_models.DestinationContext, buckets []domain_models.DayBucket) []domain_models.DayPlan {
	ac := newAllocationContext()

	// Pre-cluster each region's attractions into one group per visiting
	// day, so a day's sights sit together instead of spanning the region.
	dayCounts := make(map[string]int)
	for _, b := range buckets {
		dayCounts[b.RegionID]++
	}
	clusters := make(map[string][][]*domain_models.Place)
	for regionID, k := range dayCounts {
		if dest.Region(regionID) == nil {
			continue
		}
		clusters[regionID] = geo.Cluster(regionAttractions(dest, regionID), func(p *domain_models.Place) *geo.Coordinate {
			return p.Coordinate
		}, k, s.rng)
	}

	nextCluster := make(map[string]int)
	plans := make([]domain_models.DayPlan, 0, len(buckets))
	for _, bucket := range buckets {
		plans = append(plans, s.buildDay(dest, bucket, clusters, nextCluster, ac))
	}
	log.Printf("[Allocator] %q: filled %d days", dest.Name, len(plans))
	return plans
}

func (s *AllocatorService) buildDay(
	dest *domain_models.DestinationContext,
	bucket domain_models.DayBucket,
	clusters map[string][][]*domain_models.Place,
	nextCluster map[string]int,
	ac *allocationContext,
) domain_models.DayPlan {
	plan := domain_models.DayPlan{
		Day:        bucket.Day,
		RegionID:   bucket.RegionID,
		RegionName: bucket.RegionName,
	}

	// Phase 1: lock attractions slot by slot from this day's cluster.
	idx := nextCluster[bucket.RegionID]
	nextCluster[bucket.RegionID] = idx + 1

	var candidates []*domain_models.Place
	if group := clusters[bucket.RegionID]; idx < len(group) {
		candidates = group[idx]
	}
	available := unusedSights(candidates, ac)
	if len(available) == 0 {
		// Cluster exhausted or missing: fall back to whatever the region
		// still has.
		available = unusedSights(regionAttractions(dest, bucket.RegionID), ac)
	}
	sortSights(available)

	subcats := make(map[string]int)
	heavy := 0
	var locked []*domain_models.Place

	for _, slotTimes := range attractionSlots {
		if len(available) == 0 {
			break
		}
		pick := pickBestAttraction(available, slotTimes, subcats, heavy)
		if pick == nil {
			continue
		}
		locked = append(locked, pick)
		ac.MarkUsed(pick.ID)
		available = withoutPlace(available, pick.ID)
		subcats[pick.EffectiveSubcategory()]++
		if isHeavy(pick) {
			heavy++
		}
	}

	// A day that locked nothing takes any two unused sights from the
	// region rather than going empty.
	if len(locked) == 0 {
		for _, p := range unusedSights(regionAttractions(dest, bucket.RegionID), ac) {
			locked = append(locked, p)
			ac.MarkUsed(p.ID)
			subcats[p.EffectiveSubcategory()]++
			if isHeavy(p) {
				heavy++
			}
			if len(locked) == rescueSize {
				break
			}
		}
		if len(locked) == 0 {
			log.Printf("[Allocator] day %d: no attractions left for %q", bucket.Day, bucket.RegionName)
		}
	}

	locked = s.swapForVariety(dest, bucket.RegionID, locked, ac)

	// Phase 2: freeze the centroid so meals and backfill never drag the
	// day across the map. A sightless day anchors on its region.
	centroid := sightCentroid(locked)
	if centroid == nil {
		if r := dest.Region(bucket.RegionID); r != nil {
			centroid = r.Centroid
		}
	}

	// Phase 3: meals near the frozen centroid, region first.
	var meals []domain_models.Place
	for _, mt := range []domain_models.MealType{
		domain_models.MealBreakfast,
		domain_models.MealLunch,
		domain_models.MealDinner,
	} {
		pick := s.foodService.PickMeal(dest, mt, centroid, bucket.RegionID, bucket.Day, ac.meals)
		if pick == nil {
			continue
		}
		ac.meals.MarkUsed(pick.Name, bucket.Day)
		place := pick.Place
		place.DaySlot = pick.DaySlot
		meals = append(meals, place)
	}

	// Phase 3b: one nearby nightlife venue when the day ends early.
	evening := s.pickEvening(dest, locked, meals, centroid, ac)

	// Phase 4: pooled re-score. Inherited priority is discarded; the day
	// decides its own mains under the split caps, meals included.
	s.splitMainOptional(&plan, locked, meals, evening)

	// Phase 4b: top the day up with leftover cluster sights.
	s.backfillOptional(&plan, available, subcats, heavy, ac)

	sortBySlot(plan.Main)
	sortBySlot(plan.Optional)
	return plan
}

// pickBestAttraction scores the candidates against a time slot and the
// day's diversity state. Museums and forts are capped at one locked per
// day; everything else at three of a subcategory.
func pickBestAttraction(available []*domain_models.Place, slotTimes []domain_models.DaySlot, subcats map[string]int, heavy int) *domain_models.Place {
	var best *domain_models.Place
	bestScore := -1.0

	for _, p := range available {
		sub := p.EffectiveSubcategory()
		if subcats[sub] >= subcatPerDay {
			continue
		}
		if (sub == domain_models.CategoryMuseum || sub == domain_models.CategoryFort) && subcats[sub] >= 1 {
			continue
		}
		if isHeavy(p) && heavy >= heavyPerDay {
			continue
		}

		score := 50.0
		switch {
		case p.DaySlot != domain_models.SlotAnytime && slotAccepts(slotTimes, p.DaySlot):
			score += 20
		case p.DaySlot == domain_models.SlotAnytime:
			score += 5
		default:
			score -= 15
		}
		score += math.Min(15, float64(p.QualityScore)*0.15)
		if subcats[sub] >= 1 {
			score -= 10
		}

		if score > bestScore {
			best = p
			bestScore = score
		}
	}
	return best
}

func slotAccepts(slotTimes []domain_models.DaySlot, slot domain_models.DaySlot) bool {
	for _, t := range slotTimes {
		if t == slot {
			return true
		}
	}
	return false
}

// swapForVariety breaks up an all-one-subcategory day: when three or more
// locked sights share a subcategory and the region offers anything else,
// the weakest lock is traded for the best alternative.
func (s *AllocatorService) swapForVariety(dest *domain_models.DestinationContext, regionID string, locked []*domain_models.Place, ac *allocationContext) []*domain_models.Place {
	if len(locked) < 3 {
		return locked
	}
	key := locked[0].EffectiveSubcategory()
	for _, p := range locked[1:] {
		if p.EffectiveSubcategory() != key {
			return locked
		}
	}

	var alternatives []*domain_models.Place
	for _, p := range unusedSights(regionAttractions(dest, regionID), ac) {
		if p.EffectiveSubcategory() != key {
			alternatives = append(alternatives, p)
		}
	}
	if len(alternatives) == 0 {
		return locked
	}
	sortSights(alternatives)

	weakest := 0
	for i, p := range locked {
		if p.QualityScore < locked[weakest].QualityScore {
			weakest = i
		}
	}
	ac.Release(locked[weakest].ID)
	locked[weakest] = alternatives[0]
	ac.MarkUsed(alternatives[0].ID)
	return locked
}

// pickEvening returns a nightlife venue near the centroid for a day whose
// locked sights and meals leave the evening empty, or nil.
func (s *AllocatorService) pickEvening(dest *domain_models.DestinationContext, locked []*domain_models.Place, meals []domain_models.Place, centroid *geo.Coordinate, ac *allocationContext) *domain_models.Place {
	for _, p := range locked {
		if p.DaySlot == domain_models.SlotEvening {
			return nil
		}
	}
	for _, m := range meals {
		if m.DaySlot == domain_models.SlotEvening {
			return nil
		}
	}
	if centroid == nil {
		return nil
	}

	var best *domain_models.Place
	bestDist := nightlifeKm
	for _, p := range dest.Arena.All() {
		if ac.IsUsed(p.ID) {
			continue
		}
		if p.Category != domain_models.CategoryNightlife && p.Category != domain_models.CategoryBar {
			continue
		}
		dist := geo.DistanceBetween(p.Coordinate, centroid)
		if dist <= bestDist {
			best = p
			bestDist = dist
		}
	}
	if best == nil {
		return nil
	}
	ac.MarkUsed(best.ID)
	venue := *best
	venue.DaySlot = domain_models.SlotEvening
	return &venue
}

// splitMainOptional re-scores the day's locked sights, meals, and evening
// venue together and splits them into main and optional. Meals compete for
// main on equal footing under their own cap, so a food-heavy day still
// gets headline items.
func (s *AllocatorService) splitMainOptional(plan *domain_models.DayPlan, locked []*domain_models.Place, meals []domain_models.Place, evening *domain_models.Place) {
	type dayItem struct {
		place domain_models.Place
		food  bool
		score float64
	}

	var items []dayItem
	for _, p := range locked {
		items = append(items, dayItem{
			place: *p,
			score: float64(p.QualityScore)*0.3 + 10 + 20,
		})
	}
	for _, m := range meals {
		items = append(items, dayItem{
			place: m,
			food:  true,
			score: float64(m.QualityScore)*0.3 + 10 + 15,
		})
	}
	if evening != nil {
		items = append(items, dayItem{
			place: *evening,
			food:  evening.IsFood(),
			score: float64(evening.QualityScore)*0.3 + 10,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].score != items[j].score {
			return items[i].score > items[j].score
		}
		return items[i].place.Name < items[j].place.Name
	})

	nonFoodMains, foodMains, heavyMains := 0, 0, 0
	for _, item := range items {
		place := item.place
		toMain := false
		switch {
		case item.food && foodMains < foodMainsPerDay:
			toMain = true
		case !item.food && nonFoodMains < nonFoodMainsPerDay:
			toMain = !isHeavy(&place) || heavyMains < heavyPerDay
		}
		if toMain {
			place.Priority = domain_models.PriorityMain
			plan.Main = append(plan.Main, place)
			if item.food {
				foodMains++
			} else {
				nonFoodMains++
				if isHeavy(&place) {
					heavyMains++
				}
			}
		} else {
			place.Priority = domain_models.PriorityOptional
			plan.Optional = append(plan.Optional, place)
		}
	}
}

// backfillOptional tops the day up toward its target size from the sights
// the locking phase left behind.
func (s *AllocatorService) backfillOptional(plan *domain_models.DayPlan, available []*domain_models.Place, subcats map[string]int, heavy int, ac *allocationContext) {
	for _, p := range available {
		if len(plan.Main)+len(plan.Optional) >= dayTargetSize {
			return
		}
		if ac.IsUsed(p.ID) {
			continue
		}
		sub := p.EffectiveSubcategory()
		if subcats[sub] >= subcatPerDay {
			continue
		}
		if (sub == domain_models.CategoryMuseum || sub == domain_models.CategoryFort) && subcats[sub] >= 2 {
			continue
		}
		if isHeavy(p) && heavy >= heavyPerDay {
			continue
		}
		if clusterSaturated(plan, p) {
			continue
		}
		ac.MarkUsed(p.ID)
		place := *p
		place.Priority = domain_models.PriorityOptional
		plan.Optional = append(plan.Optional, place)
		subcats[sub]++
		if isHeavy(p) {
			heavy++
		}
	}
}

// clusterSaturated reports whether the day already holds two same-subcategory
// places within walking distance of the candidate.
func clusterSaturated(plan *domain_models.DayPlan, p *domain_models.Place) bool {
	sub := p.EffectiveSubcategory()
	nearby := 0
	for _, list := range [][]domain_models.Place{plan.Main, plan.Optional} {
		for i := range list {
			if list[i].EffectiveSubcategory() != sub {
				continue
			}
			if geo.DistanceBetween(p.Coordinate, list[i].Coordinate) <= saturationKm {
				nearby++
				if nearby >= 2 {
					return true
				}
			}
		}
	}
	return false
}

func (s *AllocatorService) ComposeReport(plan *domain_models.DayPlan) domain_models.CompositionReport {
	report := domain_models.CompositionReport{}

	mealCount := 0
	subcats := make(map[string]int)
	for _, list := range [][]domain_models.Place{plan.Main, plan.Optional} {
		for i := range list {
			if list[i].IsFood() {
				mealCount++
			} else {
				subcats[list[i].EffectiveSubcategory()]++
			}
		}
	}

	if len(plan.Main) == 0 {
		report.Issues = append(report.Issues, "day has no main places")
	}
	if mealCount == 0 {
		report.Issues = append(report.Issues, "day has no meals")
	}
	if total := len(plan.Main) + len(plan.Optional); total > dayTargetSize+3 {
		report.Issues = append(report.Issues, fmt.Sprintf("day is overloaded with %d places", total))
	}

	var crowded []string
	for sub, n := range subcats {
		if n > subcatPerDay {
			crowded = append(crowded, sub)
		}
	}
	sort.Strings(crowded)
	for _, sub := range crowded {
		report.Issues = append(report.Issues, fmt.Sprintf("too many %s places on one day", sub))
	}
	report.Valid = len(report.Issues) == 0
	return report
}

func (s *AllocatorService) CheckIntegrity(dest *domain_models.DestinationContext, plans []domain_models.DayPlan) domain_models.IntegrityReport {
	report := domain_models.IntegrityReport{Passed: true}

	prevDay := 0
	seen := make(map[uuid.UUID]int)
	for _, plan := range plans {
		if plan.Day != prevDay+1 {
			report.Passed = false
			report.Errors = append(report.Errors, fmt.Sprintf("day numbering jumps from %d to %d", prevDay, plan.Day))
		}
		prevDay = plan.Day

		if len(plan.Main)+len(plan.Optional) == 0 {
			report.Warnings = append(report.Warnings, fmt.Sprintf("day %d is empty", plan.Day))
		}

		for _, list := range [][]domain_models.Place{plan.Main, plan.Optional} {
			for i := range list {
				p := &list[i]
				if p.IsFood() {
					// Meals may legitimately repeat across non-adjacent days.
					continue
				}
				if firstDay, ok := seen[p.ID]; ok {
					report.Passed = false
					report.Errors = append(report.Errors, fmt.Sprintf("%q appears on day %d and day %d", p.Name, firstDay, plan.Day))
					continue
				}
				seen[p.ID] = plan.Day
			}
		}
	}
	if !report.Passed {
		log.Printf("[Allocator] %q: integrity check failed with %d errors", dest.Name, len(report.Errors))
	}
	return report
}

func regionAttractions(dest *domain_models.DestinationContext, regionID string) []*domain_models.Place {
	var out []*domain_models.Place
	for _, p := range dest.Arena.All() {
		if p.RegionID == regionID && !p.IsFood() {
			out = append(out, p)
		}
	}
	return out
}

func unusedSights(places []*domain_models.Place, ac *allocationContext) []*domain_models.Place {
	var out []*domain_models.Place
	for _, p := range places {
		if !ac.IsUsed(p.ID) {
			out = append(out, p)
		}
	}
	return out
}

func sortSights(places []*domain_models.Place) {
	sort.SliceStable(places, func(i, j int) bool {
		if places[i].QualityScore != places[j].QualityScore {
			return places[i].QualityScore > places[j].QualityScore
		}
		return places[i].Name < places[j].Name
	})
}

func withoutPlace(places []*domain_models.Place, id uuid.UUID) []*domain_models.Place {
	var out []*domain_models.Place
	for _, p := range places {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

func sightCentroid(locked []*domain_models.Place) *geo.Coordinate {
	var sumLat, sumLon float64
	n := 0
	for _, p := range locked {
		if p.Coordinate == nil {
			continue
		}
		sumLat += p.Coordinate.Lat
		sumLon += p.Coordinate.Lon
		n++
	}
	if n == 0 {
		return nil
	}
	return &geo.Coordinate{Lat: sumLat / float64(n), Lon: sumLon / float64(n)}
}

func isHeavy(p *domain_models.Place) bool {
	return domain_models.HeavyPhysical[p.Category] || domain_models.HeavyPhysical[p.EffectiveSubcategory()]
}

func sortBySlot(places []domain_models.Place) {
	sort.SliceStable(places, func(i, j int) bool {
		ri, rj := domain_models.SlotRank(places[i].DaySlot), domain_models.SlotRank(places[j].DaySlot)
		if ri != rj {
			return ri < rj
		}
		return places[i].QualityScore > places[j].QualityScore
	})
}
