package services

import (
	"fmt"
	"log"
	"math/rand"
	"sort"
	"strings"

	"kairos/internal/models/domain_models"
	"kairos/pkg/geo"
	"kairos/pkg/textmatch"
)

// RegionServiceInterface repairs the collaborator's untrusted region
// proposal into a coherent region structure over the arena, then applies
// the structural validators: food-region merge, region cap, compactness.
type RegionServiceInterface interface {
	ResolveRegions(dest *domain_models.DestinationContext, proposal *domain_models.RegionProposal, days int, rng *rand.Rand)
	MergeFoodRegions(dest *domain_models.DestinationContext)
	CapRegions(dest *domain_models.DestinationContext, days int)
	AnnotateCompactness(dest *domain_models.DestinationContext)
	MaxRadiusKm(dest *domain_models.DestinationContext) float64
}

func NewRegionService() RegionServiceInterface {
	return &RegionService{}
}

type RegionService struct{}

const (
	hallucinationSimilarity = 0.82
	hallucinationSubstrMin  = 5
	foodMergeMaxKm          = 5.0
	foodShareHard           = 0.70
	foodShareLabeled        = 0.50
	compactMeanKm           = 4.0
	stretchedMeanKm         = 10.0
)

// radiusOverrides pins the adoption radius for destinations whose real
// footprint defeats the spread heuristic. Goa is a 100km coastal strip,
// Pondicherry a few square kilometers.
var radiusOverrides = map[string]float64{
	"goa":         35,
	"pondicherry": 8,
}

var foodLabelWords = []string{"food", "eat", "cafe", "café", "culinary", "restaurant", "dining"}

// MaxRadiusKm is the farthest a place may sit from a region centroid and
// still be adopted by it.
func (s *RegionService) MaxRadiusKm(dest *domain_models.DestinationContext) float64 {
	if r, ok := radiusOverrides[strings.ToLower(strings.TrimSpace(dest.Name))]; ok {
		return r
	}
	switch dest.Profile.Spread {
	case domain_models.SpreadCompact:
		return 10
	case domain_models.SpreadWide:
		return 40
	default:
		return 15
	}
}

// ResolveRegions builds dest.Regions from the proposal. Every proposed
// place name is matched against the arena; names that match nothing real
// are discarded as hallucinations. Members sitting beyond the destination
// radius from their region centroid are evicted, then evictees and arena
// places the proposal never mentioned are adopted by the nearest region
// within that radius, or collected into the overflow region. An empty or
// fully hallucinated proposal falls back to geometric clustering.
func (s *RegionService) ResolveRegions(dest *domain_models.DestinationContext, proposal *domain_models.RegionProposal, days int, rng *rand.Rand) {
	dest.Regions = nil

	if proposal != nil {
		s.applyProposal(dest, proposal)
	}
	if !hasAssignedPlaces(dest) {
		log.Printf("[Regions] proposal unusable for %q, clustering geometrically", dest.Name)
		s.fallbackClusters(dest, days, rng)
	}

	s.evictOutliers(dest)
	s.adoptUnassigned(dest)
	dropEmptyRegions(dest)

	for _, r := range dest.Regions {
		r.ComputeCentroid(dest.Arena)
	}
	s.AnnotateCompactness(dest)
}

// evictOutliers enforces the radius invariant on every real region: a
// member farther than the destination radius from its region centroid is
// cut loose for re-adoption. Centroids are taken once per region, before
// any eviction, so one outlier cannot shield another.
func (s *RegionService) evictOutliers(dest *domain_models.DestinationContext) {
	maxRadius := s.MaxRadiusKm(dest)
	for _, r := range dest.Regions {
		if r.ID == domain_models.OverflowRegionID {
			continue
		}
		r.ComputeCentroid(dest.Arena)
		if r.Centroid == nil {
			continue
		}
		for _, p := range r.Places(dest.Arena) {
			if p.Coordinate == nil {
				continue
			}
			if dist := geo.Distance(*p.Coordinate, *r.Centroid); dist > maxRadius {
				log.Printf("[Regions] outlier %q sits %.1fkm from %q centroid (max %.0fkm), evicting",
					p.Name, dist, r.Name, maxRadius)
				r.RemovePlace(p.ID)
				p.RegionID = ""
			}
		}
	}
}

func dropEmptyRegions(dest *domain_models.DestinationContext) {
	var kept []*domain_models.Region
	for _, r := range dest.Regions {
		if len(r.PlaceIDs) > 0 {
			kept = append(kept, r)
		}
	}
	dest.Regions = kept
}

func (s *RegionService) applyProposal(dest *domain_models.DestinationContext, proposal *domain_models.RegionProposal) {
	hallucinated := 0
	for i, pr := range proposal.Regions {
		region := &domain_models.Region{
			ID:              regionID(pr, i),
			Name:            strings.TrimSpace(pr.Name),
			Description:     pr.Description,
			RecommendedDays: pr.RecommendedDays,
		}
		for _, pp := range pr.Places {
			place := s.matchArenaPlace(dest.Arena, pp.Name)
			if place == nil {
				hallucinated++
				continue
			}
			if place.RegionID != "" {
				// First region to claim a place keeps it.
				continue
			}
			enrichPlace(place, pp)
			region.AddPlace(place)
		}
		if len(region.PlaceIDs) > 0 {
			dest.Regions = append(dest.Regions, region)
		}
	}
	if hallucinated > 0 {
		log.Printf("[Regions] dropped %d hallucinated place references for %q", hallucinated, dest.Name)
	}
}

// matchArenaPlace resolves an untrusted proposed name to a real arena
// place: exact key match first, then fuzzy (similarity or a long shared
// substring). Nil means the name is invented.
func (s *RegionService) matchArenaPlace(arena *domain_models.PlaceArena, name string) *domain_models.Place {
	if p := arena.ByName(name); p != nil {
		return p
	}

	key := textmatch.NormalizeKey(name)
	if key == "" {
		return nil
	}
	var best *domain_models.Place
	bestScore := 0.0
	for _, p := range arena.All() {
		candidate := textmatch.NormalizeKey(p.Name)
		if candidate == key {
			return p
		}
		substr := len(key) >= hallucinationSubstrMin && len(candidate) >= hallucinationSubstrMin &&
			(strings.Contains(candidate, key) || strings.Contains(key, candidate))
		sim := textmatch.Similarity(key, candidate)
		if (substr || sim >= hallucinationSimilarity) && sim > bestScore {
			best = p
			bestScore = sim
		}
	}
	return best
}

func enrichPlace(place *domain_models.Place, pp domain_models.ProposedPlace) {
	if pp.Subcategory != "" {
		place.Subcategory = strings.ToLower(pp.Subcategory)
	}
	if pp.Category != "" &&
		(place.Category == domain_models.CategoryUnknown || place.Category == domain_models.CategoryOther) {
		place.Category = strings.ToLower(pp.Category)
	}
	if pp.Priority == domain_models.PriorityMain || pp.Priority == domain_models.PriorityOptional {
		place.Priority = pp.Priority
	}
	if len(pp.Specialty) > 0 {
		place.Specialty = pp.Specialty
	}
	// Subcategory may carry a stronger time-of-day signal than the raw tags.
	place.DaySlot = assignDaySlot(place.Name, place.Category, place.Subcategory)
}

func regionID(pr domain_models.ProposedRegion, idx int) string {
	if id := strings.TrimSpace(pr.ID); id != "" {
		return slugify(id)
	}
	if name := strings.TrimSpace(pr.Name); name != "" {
		return slugify(name)
	}
	return fmt.Sprintf("region-%d", idx+1)
}

func slugify(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		case !prevDash && b.Len() > 0:
			b.WriteByte('-')
			prevDash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func hasAssignedPlaces(dest *domain_models.DestinationContext) bool {
	for _, r := range dest.Regions {
		if len(r.PlaceIDs) > 0 {
			return true
		}
	}
	return false
}

// fallbackClusters groups the arena geometrically when no usable proposal
// exists. Cluster count mirrors the region cap for the trip length so the
// cap pass has nothing to cut.
func (s *RegionService) fallbackClusters(dest *domain_models.DestinationContext, days int, rng *rand.Rand) {
	dest.Regions = nil
	places := dest.Arena.All()
	if len(places) == 0 {
		return
	}

	k := regionCapForDays(days)
	clusters := geo.Cluster(places, func(p *domain_models.Place) *geo.Coordinate {
		return p.Coordinate
	}, k, rng)

	for i, members := range clusters {
		if len(members) == 0 {
			continue
		}
		region := &domain_models.Region{
			ID:   fmt.Sprintf("cluster-%d", i+1),
			Name: fmt.Sprintf("%s Area %d", dest.Name, i+1),
		}
		for _, p := range members {
			region.AddPlace(p)
		}
		dest.Regions = append(dest.Regions, region)
	}
}

// adoptUnassigned places every orphan arena place: nearest region within
// the destination radius, else the overflow region.
func (s *RegionService) adoptUnassigned(dest *domain_models.DestinationContext) {
	for _, r := range dest.Regions {
		r.ComputeCentroid(dest.Arena)
	}

	var overflow *domain_models.Region
	for _, p := range dest.Arena.All() {
		if p.RegionID != "" {
			continue
		}
		nearest, dist := s.nearestRegion(dest, p.Coordinate)
		if nearest != nil && dist <= s.MaxRadiusKm(dest) {
			nearest.AddPlace(p)
			continue
		}
		if overflow = dest.Region(domain_models.OverflowRegionID); overflow == nil {
			overflow = &domain_models.Region{
				ID:   domain_models.OverflowRegionID,
				Name: "Outskirts / Far Flung",
			}
			dest.Regions = append(dest.Regions, overflow)
		}
		overflow.AddPlace(p)
	}
}

func (s *RegionService) nearestRegion(dest *domain_models.DestinationContext, coord *geo.Coordinate) (*domain_models.Region, float64) {
	var best *domain_models.Region
	bestDist := geo.FarAwayKm
	for _, r := range dest.Regions {
		if r.ID == domain_models.OverflowRegionID || r.Centroid == nil {
			continue
		}
		d := geo.DistanceBetween(coord, r.Centroid)
		if d < bestDist {
			best, bestDist = r, d
		}
	}
	return best, bestDist
}

// MergeFoodRegions dissolves regions that are really food courts in
// compact destinations: dominated by food places and close to a real
// region. Their places migrate to the nearest surviving region. A sole
// region always survives, whatever it contains; spread-out destinations
// keep their food regions standing.
func (s *RegionService) MergeFoodRegions(dest *domain_models.DestinationContext) {
	if dest.Profile.Spread != domain_models.SpreadCompact {
		return
	}
	if len(dest.Regions) <= 1 {
		return
	}

	var survivors []*domain_models.Region
	var merges []*domain_models.Region
	for _, r := range dest.Regions {
		if r.ID != domain_models.OverflowRegionID && s.isFoodCourtRegion(dest, r) {
			merges = append(merges, r)
		} else {
			survivors = append(survivors, r)
		}
	}
	if len(merges) == 0 || len(survivors) == 0 {
		return
	}

	var kept []*domain_models.Region
	kept = append(kept, survivors...)
	for _, r := range merges {
		target, dist := nearestAmong(survivors, r.Centroid)
		if target == nil || dist >= foodMergeMaxKm {
			kept = append(kept, r)
			continue
		}
		log.Printf("[Regions] merging food region %q into %q (%.1fkm)", r.Name, target.Name, dist)
		for _, p := range r.Places(dest.Arena) {
			p.OriginalRegionID = r.ID
			target.AddPlace(p)
		}
		target.ComputeCentroid(dest.Arena)
	}
	dest.Regions = kept
	s.AnnotateCompactness(dest)
}

func (s *RegionService) isFoodCourtRegion(dest *domain_models.DestinationContext, r *domain_models.Region) bool {
	places := r.Places(dest.Arena)
	if len(places) == 0 {
		return false
	}
	food := 0
	for _, p := range places {
		if p.IsFood() {
			food++
		}
	}
	share := float64(food) / float64(len(places))
	if share > foodShareHard {
		return true
	}
	return share > foodShareLabeled && hasFoodLabel(r.Name)
}

func hasFoodLabel(name string) bool {
	lower := strings.ToLower(name)
	for _, w := range foodLabelWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func nearestAmong(regions []*domain_models.Region, coord *geo.Coordinate) (*domain_models.Region, float64) {
	var best *domain_models.Region
	bestDist := geo.FarAwayKm
	for _, r := range regions {
		if r.ID == domain_models.OverflowRegionID || r.Centroid == nil {
			continue
		}
		d := geo.DistanceBetween(coord, r.Centroid)
		if d < bestDist {
			best, bestDist = r, d
		}
	}
	return best, bestDist
}

func regionCapForDays(days int) int {
	switch {
	case days <= 3:
		return 2
	case days <= 5:
		return 3
	default:
		return 4
	}
}

// CapRegions trims the region list to what the trip length can visit,
// keeping the strongest regions. Main-grade places stranded in a cut
// region are rescued into the nearest survivor so a headline sight never
// disappears because its neighborhood lost.
func (s *RegionService) CapRegions(dest *domain_models.DestinationContext, days int) {
	limit := regionCapForDays(days)

	var real []*domain_models.Region
	var overflow *domain_models.Region
	for _, r := range dest.Regions {
		if r.ID == domain_models.OverflowRegionID {
			overflow = r
			continue
		}
		real = append(real, r)
	}
	if len(real) <= limit {
		return
	}

	sort.SliceStable(real, func(i, j int) bool {
		si, sj := regionStrength(dest, real[i]), regionStrength(dest, real[j])
		if si != sj {
			return si > sj
		}
		return real[i].ID < real[j].ID
	})

	kept, cut := real[:limit], real[limit:]
	for _, r := range cut {
		for _, p := range r.Places(dest.Arena) {
			if !isRescueWorthy(p) {
				p.RegionID = ""
				continue
			}
			target, _ := nearestAmong(kept, p.Coordinate)
			if target == nil {
				p.RegionID = ""
				continue
			}
			p.RescuedFrom = r.ID
			p.OriginalRegionID = r.ID
			target.AddPlace(p)
			log.Printf("[Regions] rescued %q from cut region %q into %q", p.Name, r.Name, target.Name)
		}
	}

	dest.Regions = kept
	if overflow != nil {
		dest.Regions = append(dest.Regions, overflow)
	}
	for _, r := range dest.Regions {
		r.ComputeCentroid(dest.Arena)
	}
	s.AnnotateCompactness(dest)
}

// regionStrength orders regions for the cap: headline quality first, then
// sheer size.
func regionStrength(dest *domain_models.DestinationContext, r *domain_models.Region) int {
	score := 0
	for _, p := range r.Places(dest.Arena) {
		if !p.IsFood() {
			score += p.QualityScore
		}
	}
	return score + len(r.PlaceIDs)
}

func isRescueWorthy(p *domain_models.Place) bool {
	if p.IsFood() {
		return false
	}
	return p.Priority == domain_models.PriorityMain || p.QualityScore >= 70
}

// AnnotateCompactness measures each region's footprint around its centroid.
func (s *RegionService) AnnotateCompactness(dest *domain_models.DestinationContext) {
	for _, r := range dest.Regions {
		r.Compactness = measureCompactness(dest.Arena, r)
	}
}

func measureCompactness(arena *domain_models.PlaceArena, r *domain_models.Region) *domain_models.CompactnessReport {
	if r.Centroid == nil {
		r.ComputeCentroid(arena)
	}
	var dists []float64
	for _, p := range r.Places(arena) {
		if p.Coordinate != nil && r.Centroid != nil {
			dists = append(dists, geo.Distance(*p.Coordinate, *r.Centroid))
		}
	}
	if len(dists) < 2 {
		return &domain_models.CompactnessReport{Status: domain_models.CompactnessNA}
	}
	sum, max := 0.0, 0.0
	for _, d := range dists {
		sum += d
		if d > max {
			max = d
		}
	}
	mean := sum / float64(len(dists))
	status := domain_models.CompactnessDispersed
	switch {
	case mean <= compactMeanKm:
		status = domain_models.CompactnessCompact
	case mean <= stretchedMeanKm:
		status = domain_models.CompactnessStretched
	}
	return &domain_models.CompactnessReport{Status: status, AvgDistKm: mean, MaxDistKm: max}
}
