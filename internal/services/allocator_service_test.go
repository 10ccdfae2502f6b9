package services

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/uuid"

	"kairos/internal/models/domain_models"
)

func allocationContext5Days() (*domain_models.DestinationContext, []domain_models.DayBucket) {
	dest := newTestContext("Goa")
	north := regionWith(dest, "north",
		place("Baga Beach", domain_models.CategoryBeach, 15.5553, 73.7517, 85),
		place("Aguada Fort", domain_models.CategoryFort, 15.4920, 73.7737, 88),
		place("Anjuna Beach", domain_models.CategoryBeach, 15.5736, 73.7407, 80),
		place("Chapora Fort", domain_models.CategoryFort, 15.6005, 73.7367, 72),
		place("Vagator Beach", domain_models.CategoryBeach, 15.5976, 73.7341, 75),
		place("Snow Park", domain_models.CategoryPark, 15.5430, 73.7590, 40),
		place("Artjuna Cafe", domain_models.CategoryCafe, 15.5730, 73.7410, 65),
		place("Gunpowder", domain_models.CategoryRestaurant, 15.5740, 73.7420, 70),
		place("Fisherman's Wharf", domain_models.CategoryRestaurant, 15.5560, 73.7520, 62),
		place("Tito's", domain_models.CategoryNightlife, 15.5560, 73.7530, 60),
	)
	south := regionWith(dest, "south",
		place("Palolem Beach", domain_models.CategoryBeach, 15.0100, 74.0232, 82),
		place("Agonda Beach", domain_models.CategoryBeach, 15.0443, 73.9853, 78),
		place("Cabo de Rama", domain_models.CategoryFort, 15.0880, 73.9240, 65),
		place("Cafe Inn Palolem", domain_models.CategoryCafe, 15.0110, 74.0240, 55),
		place("Dropadi", domain_models.CategoryRestaurant, 15.0105, 74.0235, 58),
	)
	north.ComputeCentroid(dest.Arena)
	south.ComputeCentroid(dest.Arena)

	buckets := []domain_models.DayBucket{
		{Day: 1, RegionID: "north", RegionName: "North"},
		{Day: 2, RegionID: "north", RegionName: "North"},
		{Day: 3, RegionID: "north", RegionName: "North"},
		{Day: 4, RegionID: "south", RegionName: "South"},
		{Day: 5, RegionID: "south", RegionName: "South"},
	}
	return dest, buckets
}

func newAllocator() AllocatorServiceInterface {
	return NewAllocatorService(NewFoodService(), rand.New(rand.NewSource(7)))
}

func TestAllocatePlaceUniqueness(t *testing.T) {
	dest, buckets := allocationContext5Days()
	svc := newAllocator()
	NewFoodService().BuildFoodPool(dest)

	plans := svc.Allocate(dest, buckets)
	if len(plans) != 5 {
		t.Fatalf("plans: got %d, want 5", len(plans))
	}

	seen := make(map[uuid.UUID]int)
	for _, plan := range plans {
		for _, p := range append(append([]domain_models.Place{}, plan.Main...), plan.Optional...) {
			if p.IsFood() {
				continue
			}
			if prev, dup := seen[p.ID]; dup {
				t.Errorf("%q on day %d and day %d", p.Name, prev, plan.Day)
			}
			seen[p.ID] = plan.Day
		}
	}

	report := svc.CheckIntegrity(dest, plans)
	if !report.Passed {
		t.Errorf("integrity errors: %v", report.Errors)
	}
}

func TestAllocateMainsCap(t *testing.T) {
	dest, buckets := allocationContext5Days()
	NewFoodService().BuildFoodPool(dest)

	plans := newAllocator().Allocate(dest, buckets)
	for _, plan := range plans {
		sightMains, foodMains := 0, 0
		for _, p := range plan.Main {
			if p.IsFood() {
				foodMains++
			} else {
				sightMains++
			}
		}
		if sightMains > nonFoodMainsPerDay {
			t.Errorf("day %d sight mains: got %d, want <= %d", plan.Day, sightMains, nonFoodMainsPerDay)
		}
		if foodMains > foodMainsPerDay {
			t.Errorf("day %d food mains: got %d, want <= %d", plan.Day, foodMains, foodMainsPerDay)
		}
	}
}

func TestAllocateEveryDayEatsWhenPoolExists(t *testing.T) {
	dest, buckets := allocationContext5Days()
	NewFoodService().BuildFoodPool(dest)

	plans := newAllocator().Allocate(dest, buckets)
	for _, plan := range plans {
		food := 0
		for _, p := range append(append([]domain_models.Place{}, plan.Main...), plan.Optional...) {
			if p.IsFood() {
				food++
			}
		}
		if food == 0 {
			t.Errorf("day %d has no meals", plan.Day)
		}
	}
}

func TestAllocateSightlessDayStillGetsMeals(t *testing.T) {
	dest := newTestContext("Goa")
	r := regionWith(dest, "food-only",
		place("Gunpowder", domain_models.CategoryRestaurant, 15.574, 73.742, 70),
		place("Artjuna Cafe", domain_models.CategoryCafe, 15.573, 73.741, 65),
	)
	r.ComputeCentroid(dest.Arena)
	NewFoodService().BuildFoodPool(dest)

	plans := newAllocator().Allocate(dest, []domain_models.DayBucket{
		{Day: 1, RegionID: "food-only", RegionName: "Food Only"},
	})

	if len(plans) != 1 {
		t.Fatalf("plans: got %d, want 1", len(plans))
	}
	foodMains := 0
	for _, p := range plans[0].Main {
		if !p.IsFood() {
			t.Errorf("non-food main %q on a sightless day", p.Name)
			continue
		}
		foodMains++
	}
	if foodMains == 0 {
		t.Error("sightless day should promote meals to main")
	}
	if foodMains > foodMainsPerDay {
		t.Errorf("food mains: got %d, want <= %d", foodMains, foodMainsPerDay)
	}
}

func TestAllocateSlotOrdering(t *testing.T) {
	dest, buckets := allocationContext5Days()
	NewFoodService().BuildFoodPool(dest)

	plans := newAllocator().Allocate(dest, buckets)
	for _, plan := range plans {
		for _, group := range [][]domain_models.Place{plan.Main, plan.Optional} {
			for i := 1; i < len(group); i++ {
				if domain_models.SlotRank(group[i-1].DaySlot) > domain_models.SlotRank(group[i].DaySlot) {
					t.Errorf("day %d out of slot order: %q (%s) before %q (%s)",
						plan.Day, group[i-1].Name, group[i-1].DaySlot, group[i].Name, group[i].DaySlot)
				}
			}
		}
	}
}

func TestComposeReport(t *testing.T) {
	svc := newAllocator()

	good := &domain_models.DayPlan{
		Day:  1,
		Main: []domain_models.Place{{Name: "Baga Beach", Category: domain_models.CategoryBeach}},
		Optional: []domain_models.Place{
			{Name: "Gunpowder", Category: domain_models.CategoryRestaurant},
		},
	}
	if report := svc.ComposeReport(good); !report.Valid {
		t.Errorf("good day flagged: %v", report.Issues)
	}

	empty := &domain_models.DayPlan{Day: 2}
	report := svc.ComposeReport(empty)
	if report.Valid {
		t.Error("empty day should be flagged")
	}
	if len(report.Issues) != 2 {
		t.Errorf("issues: got %d (%v), want 2", len(report.Issues), report.Issues)
	}
}

func TestCheckIntegrityCatchesDuplicates(t *testing.T) {
	dest := newTestContext("Goa")
	p := place("Baga Beach", domain_models.CategoryBeach, 15.55, 73.75, 85)
	dest.Arena.Add(p)

	plans := []domain_models.DayPlan{
		{Day: 1, Main: []domain_models.Place{*p}},
		{Day: 2, Main: []domain_models.Place{*p}},
	}
	report := newAllocator().CheckIntegrity(dest, plans)
	if report.Passed {
		t.Fatal("duplicate across days must fail integrity")
	}
	if len(report.Errors) != 1 {
		t.Errorf("errors: got %d (%v), want 1", len(report.Errors), report.Errors)
	}
}

func TestCheckIntegrityNumberingGap(t *testing.T) {
	dest := newTestContext("Goa")
	plans := []domain_models.DayPlan{
		{Day: 1, Main: []domain_models.Place{{ID: uuid.New(), Name: "A"}}},
		{Day: 3, Main: []domain_models.Place{{ID: uuid.New(), Name: "B"}}},
	}
	report := newAllocator().CheckIntegrity(dest, plans)
	if report.Passed {
		t.Fatal("day gap must fail integrity")
	}
}

func TestDistributeBalancesHeavyDays(t *testing.T) {
	dest := newTestContext("Ghats")
	var names []string
	for i := 0; i < 8; i++ {
		names = append(names, fmt.Sprintf("Falls %d", i))
	}
	var places []*domain_models.Place
	for i, n := range names {
		places = append(places, place(n, domain_models.CategoryWaterfall, 15.3+float64(i)*0.01, 74.3, 70))
	}
	r := regionWith(dest, "ghats", places...)
	r.ComputeCentroid(dest.Arena)
	NewFoodService().BuildFoodPool(dest)

	plans := newAllocator().Allocate(dest, []domain_models.DayBucket{
		{Day: 1, RegionID: "ghats", RegionName: "Ghats"},
		{Day: 2, RegionID: "ghats", RegionName: "Ghats"},
	})
	for _, plan := range plans {
		heavy := 0
		for _, p := range append(append([]domain_models.Place{}, plan.Main...), plan.Optional...) {
			if domain_models.HeavyPhysical[p.Category] {
				heavy++
			}
		}
		if heavy > heavyPerDay {
			t.Errorf("day %d heavy visits: got %d, want <= %d", plan.Day, heavy, heavyPerDay)
		}
	}
}
