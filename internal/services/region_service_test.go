package services

import (
	"fmt"
	"math/rand"
	"testing"

	"kairos/internal/models/domain_models"
	"kairos/pkg/geo"
)

func newTestContext(name string, places ...*domain_models.Place) *domain_models.DestinationContext {
	arena := domain_models.NewPlaceArena()
	for _, p := range places {
		arena.Add(p)
	}
	return &domain_models.DestinationContext{
		Name:    name,
		Arena:   arena,
		Profile: domain_models.TravelProfile{Spread: domain_models.SpreadDefault},
	}
}

func place(name, category string, lat, lon float64, score int) *domain_models.Place {
	return &domain_models.Place{
		Name:         name,
		Category:     category,
		Coordinate:   &geo.Coordinate{Lat: lat, Lon: lon},
		QualityScore: score,
	}
}

func TestMaxRadiusOverrides(t *testing.T) {
	svc := NewRegionService()
	tests := []struct {
		destination string
		spread      string
		want        float64
	}{
		{"Goa", domain_models.SpreadDefault, 35},
		{"Pondicherry", domain_models.SpreadWide, 8},
		{"Hampi", domain_models.SpreadCompact, 10},
		{"Rajasthan", domain_models.SpreadWide, 40},
		{"Kochi", domain_models.SpreadDefault, 15},
	}
	for _, tt := range tests {
		dest := newTestContext(tt.destination)
		dest.Profile.Spread = tt.spread
		if got := svc.MaxRadiusKm(dest); got != tt.want {
			t.Errorf("MaxRadiusKm(%s, %s): got %f, want %f", tt.destination, tt.spread, got, tt.want)
		}
	}
}

func TestResolveRegionsFiltersHallucinations(t *testing.T) {
	dest := newTestContext("Goa",
		place("Baga Beach", domain_models.CategoryBeach, 15.5553, 73.7517, 85),
		place("Aguada Fort", domain_models.CategoryFort, 15.4920, 73.7737, 88),
	)
	proposal := &domain_models.RegionProposal{Regions: []domain_models.ProposedRegion{{
		Name: "North Goa",
		Places: []domain_models.ProposedPlace{
			{Name: "Baga Beach"},
			{Name: "Aguada Fort"},
			{Name: "The Crystal Lagoon of Goa"}, // invented
		},
	}}}

	NewRegionService().ResolveRegions(dest, proposal, 3, rand.New(rand.NewSource(1)))

	if len(dest.Regions) != 1 {
		t.Fatalf("regions: got %d, want 1", len(dest.Regions))
	}
	if got := len(dest.Regions[0].PlaceIDs); got != 2 {
		t.Errorf("region places: got %d, want 2", got)
	}
}

func TestResolveRegionsFuzzyMatch(t *testing.T) {
	dest := newTestContext("Goa",
		place("Baga Beach", domain_models.CategoryBeach, 15.5553, 73.7517, 85),
	)
	proposal := &domain_models.RegionProposal{Regions: []domain_models.ProposedRegion{{
		Name:   "North Goa",
		Places: []domain_models.ProposedPlace{{Name: "Baga beach - Blue Flag Beach", Subcategory: "swimming"}},
	}}}

	NewRegionService().ResolveRegions(dest, proposal, 3, rand.New(rand.NewSource(1)))

	p := dest.Arena.ByName("Baga Beach")
	if p == nil || p.RegionID == "" {
		t.Fatal("fuzzy name variant should have matched the real place")
	}
	if p.Subcategory != "swimming" {
		t.Errorf("enrichment: got subcategory %q, want swimming", p.Subcategory)
	}
}

func TestResolveRegionsOverflow(t *testing.T) {
	dest := newTestContext("Kochi",
		place("Fort Kochi", domain_models.CategoryFort, 9.9658, 76.2422, 80),
		place("Mattancherry Palace", domain_models.CategoryPalace, 9.9583, 76.2592, 75),
		// ~55km inland, beyond the 15km default radius.
		place("Athirappilly Falls", domain_models.CategoryWaterfall, 10.2850, 76.5698, 90),
	)
	proposal := &domain_models.RegionProposal{Regions: []domain_models.ProposedRegion{{
		Name:   "Fort Kochi",
		Places: []domain_models.ProposedPlace{{Name: "Fort Kochi"}, {Name: "Mattancherry Palace"}},
	}}}

	NewRegionService().ResolveRegions(dest, proposal, 3, rand.New(rand.NewSource(1)))

	overflow := dest.Region(domain_models.OverflowRegionID)
	if overflow == nil {
		t.Fatal("expected an overflow region")
	}
	if len(overflow.PlaceIDs) != 1 {
		t.Fatalf("overflow places: got %d, want 1", len(overflow.PlaceIDs))
	}
	if overflow.Name != "Outskirts / Far Flung" {
		t.Errorf("overflow name: got %q", overflow.Name)
	}
}

func TestResolveRegionsEvictsOutliers(t *testing.T) {
	var places []*domain_models.Place
	for i := 0; i < 9; i++ {
		places = append(places, place(fmt.Sprintf("Ruin %d", i), domain_models.CategoryHeritage,
			15.33+float64(i)*0.001, 76.46, 70))
	}
	far := place("Distant Dam", domain_models.CategoryViewpoint, 15.83, 76.46, 75)
	places = append(places, far)

	dest := newTestContext("Hampi", places...)
	dest.Profile.Spread = domain_models.SpreadCompact

	proposed := make([]domain_models.ProposedPlace, 0, len(places))
	for _, p := range places {
		proposed = append(proposed, domain_models.ProposedPlace{Name: p.Name})
	}
	proposal := &domain_models.RegionProposal{Regions: []domain_models.ProposedRegion{{
		Name:   "Hampi Core",
		Places: proposed,
	}}}

	svc := NewRegionService()
	svc.ResolveRegions(dest, proposal, 3, rand.New(rand.NewSource(1)))

	overflow := dest.Region(domain_models.OverflowRegionID)
	if overflow == nil {
		t.Fatal("expected the distant place to land in overflow")
	}
	found := false
	for _, id := range overflow.PlaceIDs {
		if dest.Arena.Get(id).Name == "Distant Dam" {
			found = true
		}
	}
	if !found {
		t.Error("Distant Dam should have been evicted to overflow")
	}

	// Every surviving region honors the radius cap around its centroid.
	maxRadius := svc.MaxRadiusKm(dest)
	for _, r := range dest.Regions {
		if r.ID == domain_models.OverflowRegionID {
			continue
		}
		for _, p := range r.Places(dest.Arena) {
			if p.Coordinate == nil {
				continue
			}
			if d := geo.Distance(*p.Coordinate, *r.Centroid); d > maxRadius {
				t.Errorf("%q sits %.1fkm from %q centroid, beyond the %.0fkm cap", p.Name, d, r.Name, maxRadius)
			}
		}
	}
}

func TestResolveRegionsFallbackClustering(t *testing.T) {
	dest := newTestContext("Goa",
		place("Baga Beach", domain_models.CategoryBeach, 15.5553, 73.7517, 85),
		place("Anjuna Beach", domain_models.CategoryBeach, 15.5736, 73.7407, 80),
		place("Palolem Beach", domain_models.CategoryBeach, 15.0100, 74.0232, 82),
		place("Agonda Beach", domain_models.CategoryBeach, 15.0443, 73.9853, 78),
	)

	NewRegionService().ResolveRegions(dest, nil, 3, rand.New(rand.NewSource(42)))

	if len(dest.Regions) == 0 {
		t.Fatal("fallback clustering produced no regions")
	}
	assigned := 0
	for _, r := range dest.Regions {
		assigned += len(r.PlaceIDs)
	}
	if assigned != 4 {
		t.Errorf("assigned places: got %d, want 4", assigned)
	}
}

func TestMergeFoodRegionsSkippedOnWiderTrips(t *testing.T) {
	sights := &domain_models.Region{ID: "old-town", Name: "Old Town"}
	foodCourt := &domain_models.Region{ID: "food-street", Name: "Food Street"}

	dest := newTestContext("Rajasthan")
	dest.Profile.Spread = domain_models.SpreadWide
	for i := 0; i < 3; i++ {
		p := place(fmt.Sprintf("Sight %d", i), domain_models.CategoryFort, 26.9+float64(i)*0.001, 75.8, 75)
		dest.Arena.Add(p)
		sights.AddPlace(p)
	}
	for i := 0; i < 4; i++ {
		p := place(fmt.Sprintf("Eatery %d", i), domain_models.CategoryRestaurant, 26.905+float64(i)*0.0005, 75.803, 55)
		dest.Arena.Add(p)
		foodCourt.AddPlace(p)
	}
	dest.Regions = []*domain_models.Region{sights, foodCourt}
	for _, r := range dest.Regions {
		r.ComputeCentroid(dest.Arena)
	}

	NewRegionService().MergeFoodRegions(dest)

	if len(dest.Regions) != 2 {
		t.Fatalf("regions after merge attempt: got %d, want 2", len(dest.Regions))
	}
}

func TestMergeFoodRegions(t *testing.T) {
	sights := &domain_models.Region{ID: "old-town", Name: "Old Town"}
	foodCourt := &domain_models.Region{ID: "food-street", Name: "Food Street"}

	dest := newTestContext("Kochi")
	dest.Profile.Spread = domain_models.SpreadCompact
	for i := 0; i < 3; i++ {
		p := place(fmt.Sprintf("Sight %d", i), domain_models.CategoryFort, 9.965+float64(i)*0.001, 76.242, 75)
		dest.Arena.Add(p)
		sights.AddPlace(p)
	}
	for i := 0; i < 4; i++ {
		p := place(fmt.Sprintf("Eatery %d", i), domain_models.CategoryRestaurant, 9.970+float64(i)*0.0005, 76.245, 55)
		dest.Arena.Add(p)
		foodCourt.AddPlace(p)
	}
	dest.Regions = []*domain_models.Region{sights, foodCourt}
	for _, r := range dest.Regions {
		r.ComputeCentroid(dest.Arena)
	}

	NewRegionService().MergeFoodRegions(dest)

	if len(dest.Regions) != 1 {
		t.Fatalf("regions after merge: got %d, want 1", len(dest.Regions))
	}
	if dest.Regions[0].ID != "old-town" {
		t.Errorf("survivor: got %q, want old-town", dest.Regions[0].ID)
	}
	if got := len(dest.Regions[0].PlaceIDs); got != 7 {
		t.Errorf("survivor places: got %d, want 7", got)
	}
}

func TestMergeFoodRegionsSoleRegionSurvives(t *testing.T) {
	foodCourt := &domain_models.Region{ID: "food-street", Name: "Food Street"}
	dest := newTestContext("Kochi")
	dest.Profile.Spread = domain_models.SpreadCompact
	p := place("Eatery", domain_models.CategoryRestaurant, 9.97, 76.24, 55)
	dest.Arena.Add(p)
	foodCourt.AddPlace(p)
	dest.Regions = []*domain_models.Region{foodCourt}
	foodCourt.ComputeCentroid(dest.Arena)

	NewRegionService().MergeFoodRegions(dest)

	if len(dest.Regions) != 1 {
		t.Fatalf("sole region must survive, got %d regions", len(dest.Regions))
	}
}

func TestCapRegionsRescuesMains(t *testing.T) {
	dest := newTestContext("Goa")
	var regions []*domain_models.Region
	for i := 0; i < 4; i++ {
		r := &domain_models.Region{ID: fmt.Sprintf("r%d", i), Name: fmt.Sprintf("Region %d", i)}
		// Stronger regions first; region 3 is weakest but holds one gem.
		count := 4 - i
		for j := 0; j < count; j++ {
			p := place(fmt.Sprintf("Place %d-%d", i, j), domain_models.CategoryAttraction,
				15.5+float64(i)*0.2, 73.8+float64(i)*0.2, 60-5*i)
			dest.Arena.Add(p)
			r.AddPlace(p)
		}
		regions = append(regions, r)
	}
	gem := place("Dudhsagar Falls", domain_models.CategoryWaterfall, 16.1, 74.4, 92)
	gem.Priority = domain_models.PriorityMain
	dest.Arena.Add(gem)
	regions[3].AddPlace(gem)
	dest.Regions = regions
	for _, r := range dest.Regions {
		r.ComputeCentroid(dest.Arena)
	}

	// 3-day trip allows only 2 regions.
	NewRegionService().CapRegions(dest, 3)

	if len(dest.Regions) > 2 {
		t.Fatalf("regions after cap: got %d, want <= 2", len(dest.Regions))
	}
	rescued := dest.Arena.ByName("Dudhsagar Falls")
	if rescued.RegionID == "" || rescued.RegionID == "r3" {
		t.Errorf("gem not rescued: region %q", rescued.RegionID)
	}
	if rescued.RescuedFrom != "r3" {
		t.Errorf("RescuedFrom: got %q, want r3", rescued.RescuedFrom)
	}
}

func TestCompactnessClassification(t *testing.T) {
	dest := newTestContext("Goa")
	tight := &domain_models.Region{ID: "tight", Name: "Tight"}
	for i := 0; i < 3; i++ {
		p := place(fmt.Sprintf("T%d", i), domain_models.CategoryBeach, 15.55+float64(i)*0.005, 73.75, 70)
		dest.Arena.Add(p)
		tight.AddPlace(p)
	}
	wide := &domain_models.Region{ID: "wide", Name: "Wide"}
	for i := 0; i < 3; i++ {
		p := place(fmt.Sprintf("W%d", i), domain_models.CategoryBeach, 15.0+float64(i)*0.5, 74.0, 70)
		dest.Arena.Add(p)
		wide.AddPlace(p)
	}
	single := &domain_models.Region{ID: "single", Name: "Single"}
	p := place("S0", domain_models.CategoryBeach, 15.2, 73.9, 70)
	dest.Arena.Add(p)
	single.AddPlace(p)

	dest.Regions = []*domain_models.Region{tight, wide, single}
	NewRegionService().AnnotateCompactness(dest)

	if tight.Compactness.Status != domain_models.CompactnessCompact {
		t.Errorf("tight region: got %q, want compact", tight.Compactness.Status)
	}
	if wide.Compactness.Status != domain_models.CompactnessDispersed {
		t.Errorf("wide region: got %q, want dispersed", wide.Compactness.Status)
	}
	if single.Compactness.Status != domain_models.CompactnessNA {
		t.Errorf("single-place region: got %q, want n/a", single.Compactness.Status)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct{ in, want string }{
		{"North Goa", "north-goa"},
		{"Fort Kochi & Mattancherry", "fort-kochi-mattancherry"},
		{"  BEACHES  ", "beaches"},
	}
	for _, tt := range tests {
		if got := slugify(tt.in); got != tt.want {
			t.Errorf("slugify(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}
