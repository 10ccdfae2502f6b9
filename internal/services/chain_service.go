package services

import (
	"log"
	"math"
	"sort"
	"strings"

	"kairos/internal/models/domain_models"
)

// ChainServiceInterface runs the content validators after the region
// structure settles: category repair from curated subcategories, specialty
// tag cleanup, anchor promotion and the food share cap. Food trimmed out of
// a region stays in the arena and the food pool; it just stops counting as
// sightseeing content.
type ChainServiceInterface interface {
	ValidateRegions(dest *domain_models.DestinationContext)
}

func NewChainService() ChainServiceInterface {
	return &ChainService{}
}

type ChainService struct{}

const (
	anchorScoreFloor = 70
	anchorsPerRegion = 2
	foodShareCap     = 0.4
)

// subcategoryCategory repairs categories the curation step drifted: a
// recognized subcategory wins over whatever category the place carried in.
var subcategoryCategory = map[string]string{
	"museum":      domain_models.CategoryMuseum,
	"fort":        domain_models.CategoryFort,
	"palace":      domain_models.CategoryPalace,
	"temple":      domain_models.CategoryTemple,
	"church":      domain_models.CategoryHeritage,
	"monument":    domain_models.CategoryHeritage,
	"beach":       domain_models.CategoryBeach,
	"waterfall":   domain_models.CategoryWaterfall,
	"lake":        domain_models.CategoryNature,
	"island":      domain_models.CategoryIsland,
	"viewpoint":   domain_models.CategoryViewpoint,
	"park":        domain_models.CategoryPark,
	"peak":        domain_models.CategoryPeak,
	"trek":        domain_models.CategoryAdventure,
	"watersports": domain_models.CategoryAdventure,
	"cafe":        domain_models.CategoryCafe,
	"restaurant":  domain_models.CategoryRestaurant,
	"bar":         domain_models.CategoryBar,
	"nightclub":   domain_models.CategoryNightlife,
	"street food": domain_models.CategoryFood,
}

// technicalTagKeys are attribute keys that models sometimes echo back as
// specialty labels. They carry no traveler meaning.
var technicalTagKeys = map[string]bool{
	"tourism":       true,
	"amenity":       true,
	"historic":      true,
	"natural":       true,
	"leisure":       true,
	"wikidata":      true,
	"wikipedia":     true,
	"website":       true,
	"cuisine":       true,
	"opening_hours": true,
	"image":         true,
	"name":          true,
}

const specialtyLimit = 3

func (s *ChainService) ValidateRegions(dest *domain_models.DestinationContext) {
	for _, p := range dest.Arena.All() {
		normalizeCategory(p)
		cleanSpecialty(p)
	}
	for _, r := range dest.Regions {
		if r.ID == domain_models.OverflowRegionID {
			continue
		}
		s.promoteAnchors(dest, r)
		s.capFoodShare(dest, r)
	}
}

func normalizeCategory(p *domain_models.Place) {
	if cat, ok := subcategoryCategory[strings.ToLower(p.Subcategory)]; ok && p.Category != cat {
		p.Category = cat
	}
}

func cleanSpecialty(p *domain_models.Place) {
	var out []string
	for _, s := range p.Specialty {
		t := strings.TrimSpace(s)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if technicalTagKeys[key] || strings.ContainsAny(t, "=:") || strings.Contains(key, "_") {
			continue
		}
		out = append(out, t)
		if len(out) == specialtyLimit {
			break
		}
	}
	p.Specialty = out
}

// promoteAnchors guarantees every real region has main-grade content: any
// high scorer becomes main, and if the proposal marked nothing, the top
// non-food places are promoted.
func (s *ChainService) promoteAnchors(dest *domain_models.DestinationContext, r *domain_models.Region) {
	var nonFood []*domain_models.Place
	mains := 0
	for _, p := range r.Places(dest.Arena) {
		if p.IsFood() {
			continue
		}
		nonFood = append(nonFood, p)
		if p.QualityScore >= anchorScoreFloor {
			p.Priority = domain_models.PriorityMain
		}
		if p.Priority == domain_models.PriorityMain {
			mains++
		}
	}
	if mains > 0 || len(nonFood) == 0 {
		return
	}

	sort.SliceStable(nonFood, func(i, j int) bool {
		if nonFood[i].QualityScore != nonFood[j].QualityScore {
			return nonFood[i].QualityScore > nonFood[j].QualityScore
		}
		return nonFood[i].Name < nonFood[j].Name
	})
	for i := 0; i < len(nonFood) && i < anchorsPerRegion; i++ {
		nonFood[i].Priority = domain_models.PriorityMain
	}
}

// capFoodShare keeps food at or below 40% of a region's content. With f
// food and n non-food places the share is f/(f+n), so the cap solves to
// f <= n * 0.4/0.6. Optional and low-ranked food goes first; main food
// only goes when nothing else is left to cut.
func (s *ChainService) capFoodShare(dest *domain_models.DestinationContext, r *domain_models.Region) {
	var food []*domain_models.Place
	nonFood := 0
	for _, p := range r.Places(dest.Arena) {
		if p.IsFood() {
			food = append(food, p)
		} else {
			nonFood++
		}
	}

	maxFood := int(math.Floor(float64(nonFood) * foodShareCap / (1 - foodShareCap)))
	if len(food) <= maxFood {
		return
	}

	// Cut order: optional before main, then lowest quality first.
	sort.SliceStable(food, func(i, j int) bool {
		mi := food[i].Priority == domain_models.PriorityMain
		mj := food[j].Priority == domain_models.PriorityMain
		if mi != mj {
			return !mi
		}
		if food[i].QualityScore != food[j].QualityScore {
			return food[i].QualityScore < food[j].QualityScore
		}
		return food[i].Name < food[j].Name
	})

	excess := len(food) - maxFood
	for _, p := range food[:excess] {
		r.RemovePlace(p.ID)
		p.RegionID = ""
	}
	log.Printf("[ChainValidator] region %q: trimmed %d food places to hold the 40%% share", r.Name, excess)
}
