package services

import (
	"fmt"
	"testing"

	"kairos/internal/models/domain_models"
)

func regionWith(dest *domain_models.DestinationContext, id string, places ...*domain_models.Place) *domain_models.Region {
	r := &domain_models.Region{ID: id, Name: id}
	for _, p := range places {
		dest.Arena.Add(p)
		r.AddPlace(p)
	}
	dest.Regions = append(dest.Regions, r)
	return r
}

func TestPromoteHighScorers(t *testing.T) {
	dest := newTestContext("Goa")
	regionWith(dest, "north",
		place("Aguada Fort", domain_models.CategoryFort, 15.49, 73.77, 88),
		place("Small Chapel", domain_models.CategoryTemple, 15.50, 73.78, 40),
	)

	NewChainService().ValidateRegions(dest)

	if got := dest.Arena.ByName("Aguada Fort").Priority; got != domain_models.PriorityMain {
		t.Errorf("high scorer priority: got %q, want main", got)
	}
	if got := dest.Arena.ByName("Small Chapel").Priority; got == domain_models.PriorityMain {
		t.Error("low scorer should not be promoted when a region already has mains")
	}
}

func TestPromoteTopWhenNoMains(t *testing.T) {
	dest := newTestContext("Goa")
	regionWith(dest, "quiet",
		place("Viewpoint A", domain_models.CategoryViewpoint, 15.49, 73.77, 45),
		place("Viewpoint B", domain_models.CategoryViewpoint, 15.50, 73.78, 42),
		place("Viewpoint C", domain_models.CategoryViewpoint, 15.51, 73.79, 30),
	)

	NewChainService().ValidateRegions(dest)

	mains := 0
	for _, p := range dest.Arena.All() {
		if p.Priority == domain_models.PriorityMain {
			mains++
		}
	}
	if mains != anchorsPerRegion {
		t.Errorf("promoted mains: got %d, want %d", mains, anchorsPerRegion)
	}
	if dest.Arena.ByName("Viewpoint C").Priority == domain_models.PriorityMain {
		t.Error("weakest place should not have been promoted")
	}
}

func TestFoodShareCap(t *testing.T) {
	dest := newTestContext("Goa")
	var places []*domain_models.Place
	for i := 0; i < 6; i++ {
		places = append(places, place(fmt.Sprintf("Sight %d", i), domain_models.CategoryAttraction, 15.5, 73.8, 60))
	}
	for i := 0; i < 10; i++ {
		places = append(places, place(fmt.Sprintf("Eatery %d", i), domain_models.CategoryRestaurant, 15.5, 73.8, 50+i))
	}
	r := regionWith(dest, "north", places...)

	NewChainService().ValidateRegions(dest)

	food, nonFood := 0, 0
	for _, p := range r.Places(dest.Arena) {
		if p.IsFood() {
			food++
		} else {
			nonFood++
		}
	}
	if nonFood != 6 {
		t.Errorf("non-food: got %d, want 6", nonFood)
	}
	// floor(6 * 0.4/0.6) = 4
	if food != 4 {
		t.Errorf("food after cap: got %d, want 4", food)
	}
	// The lowest-quality eateries are the ones cut.
	if dest.Arena.ByName("Eatery 0").RegionID != "" {
		t.Error("lowest-quality eatery should have been trimmed from the region")
	}
	if dest.Arena.ByName("Eatery 9").RegionID == "" {
		t.Error("best eatery should have survived the cap")
	}
}

func TestFoodCapSkipsOverflow(t *testing.T) {
	dest := newTestContext("Goa")
	overflow := &domain_models.Region{ID: domain_models.OverflowRegionID, Name: "Outskirts / Far Flung"}
	for i := 0; i < 5; i++ {
		p := place(fmt.Sprintf("Far Eatery %d", i), domain_models.CategoryRestaurant, 16.5, 74.9, 50)
		dest.Arena.Add(p)
		overflow.AddPlace(p)
	}
	dest.Regions = append(dest.Regions, overflow)

	NewChainService().ValidateRegions(dest)

	if got := len(overflow.PlaceIDs); got != 5 {
		t.Errorf("overflow region content: got %d, want 5 untouched", got)
	}
}
