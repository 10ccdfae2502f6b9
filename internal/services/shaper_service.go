package services

import (
	"log"
	"sort"

	"kairos/internal/models/domain_models"
)

// ShaperServiceInterface maps the requested trip length onto the surviving
// regions: how many days each region earns and whether the trip is a single
// stay or a split one. The shape is pure structure; places come later.
type ShaperServiceInterface interface {
	Shape(dest *domain_models.DestinationContext, days int) *domain_models.ItineraryShape
	BuildDayBuckets(shape *domain_models.ItineraryShape) []domain_models.DayBucket
}

func NewShaperService() ShaperServiceInterface {
	return &ShaperService{}
}

type ShaperService struct{}

const (
	collapseBelowDays = 3
	regionDayShareCap = 0.5
)

// Shape scores regions and distributes days proportionally. Short trips
// collapse to the single best region; longer trips split, with no region
// taking more than half the trip unless it is the only one.
func (s *ShaperService) Shape(dest *domain_models.DestinationContext, days int) *domain_models.ItineraryShape {
	type scored struct {
		region *domain_models.Region
		score  int
	}

	var regions []scored
	for _, r := range dest.Regions {
		if r.ID == domain_models.OverflowRegionID || len(r.PlaceIDs) == 0 {
			continue
		}
		regions = append(regions, scored{r, regionShapeScore(dest, r)})
	}
	shape := &domain_models.ItineraryShape{TotalDays: days, StayType: domain_models.StaySingle}
	if len(regions) == 0 {
		return shape
	}

	sort.SliceStable(regions, func(i, j int) bool {
		if regions[i].score != regions[j].score {
			return regions[i].score > regions[j].score
		}
		return regions[i].region.ID < regions[j].region.ID
	})

	if days < collapseBelowDays || len(regions) == 1 {
		best := regions[0]
		shape.RegionsPlan = []domain_models.RegionPlan{{
			RegionID:     best.region.ID,
			RegionName:   best.region.Name,
			Score:        best.score,
			Days:         days,
			StayRequired: true,
		}}
		log.Printf("[Shaper] %d-day trip collapsed to region %q", days, best.region.Name)
		return shape
	}

	// No region may take more than half the trip, and every used region
	// gets at least one day; that bounds how many regions fit.
	perRegionCap := int(float64(days) * regionDayShareCap)
	if perRegionCap < 1 {
		perRegionCap = 1
	}
	if len(regions) > days {
		regions = regions[:days]
	}

	total := 0
	for _, sc := range regions {
		total += sc.score
	}

	grants := make([]int, len(regions))
	granted := 0
	for i, sc := range regions {
		d := 1
		if total > 0 {
			d = (days*sc.score + total/2) / total
		}
		if d < 1 {
			d = 1
		}
		if d > perRegionCap {
			d = perRegionCap
		}
		grants[i] = d
		granted += d
	}

	// Fix rounding drift: give leftovers to the strongest regions under the
	// cap, claw back excess from the weakest over one day.
	for i := 0; granted < days; i = (i + 1) % len(grants) {
		if grants[i] < perRegionCap {
			grants[i]++
			granted++
		} else if allAtCap(grants, perRegionCap) {
			grants[0]++
			granted++
		}
	}
	for i := len(grants) - 1; granted > days; {
		if grants[i] > 1 {
			grants[i]--
			granted--
		} else if i == 0 {
			break
		} else {
			i--
		}
	}

	for i, sc := range regions {
		if grants[i] == 0 {
			continue
		}
		shape.RegionsPlan = append(shape.RegionsPlan, domain_models.RegionPlan{
			RegionID:   sc.region.ID,
			RegionName: sc.region.Name,
			Score:      sc.score,
			Days:       grants[i],
		})
	}

	// A split stay only pays off when the destination is genuinely spread
	// out and the trip is long enough to absorb a hotel change. Everything
	// else bases in the strongest region.
	if dest.Profile.Spread == domain_models.SpreadWide && days > 3 && len(shape.RegionsPlan) > 1 {
		shape.StayType = domain_models.StaySplit
	}
	for i := range shape.RegionsPlan {
		shape.RegionsPlan[i].StayRequired = shape.StayType == domain_models.StaySplit || i == 0
	}
	return shape
}

// regionShapeScore weighs a region for day distribution: main places count
// double, every place counts once, and subcategory variety adds breadth.
// Only genuine sightseeing content counts: food places and places rescued
// in from a cut region earn the region nothing.
func regionShapeScore(dest *domain_models.DestinationContext, r *domain_models.Region) int {
	mains := 0
	count := 0
	subcats := make(map[string]bool)
	for _, p := range r.Places(dest.Arena) {
		if p.IsFood() || p.RescuedFrom != "" {
			continue
		}
		count++
		if p.Priority == domain_models.PriorityMain {
			mains++
		}
		subcats[p.EffectiveSubcategory()] = true
	}
	return 2*mains + count + len(subcats)
}

func allAtCap(grants []int, limit int) bool {
	for _, g := range grants {
		if g < limit {
			return false
		}
	}
	return true
}

// BuildDayBuckets expands a shape into consecutive numbered days, regions
// visited in shape order.
func (s *ShaperService) BuildDayBuckets(shape *domain_models.ItineraryShape) []domain_models.DayBucket {
	var buckets []domain_models.DayBucket
	day := 1
	for _, rp := range shape.RegionsPlan {
		for i := 0; i < rp.Days; i++ {
			buckets = append(buckets, domain_models.DayBucket{
				Day:        day,
				RegionID:   rp.RegionID,
				RegionName: rp.RegionName,
			})
			day++
		}
	}
	return buckets
}
