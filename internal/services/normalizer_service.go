package services

import (
	"log"
	"math"
	"sort"
	"strconv"
	"strings"

	"kairos/internal/models/domain_models"
	"kairos/pkg/geo"
	"kairos/pkg/textmatch"
)

// NormalizerServiceInterface turns the raw provider pool into canonical,
// deduplicated, scored places. Malformed inputs are dropped silently; the
// stats report what happened.
type NormalizerServiceInterface interface {
	Normalize(rawPoints []domain_models.RawPoint) ([]*domain_models.Place, domain_models.NormalizeStats)
}

func NewNormalizerService() NormalizerServiceInterface {
	return &NormalizerService{}
}

type NormalizerService struct{}

// categoryRule maps one tag key/value pair to a category. Rules are
// evaluated in order; the first hit wins, so specific signals (natural=beach)
// beat generic tourism tags.
type categoryRule struct {
	key      string
	value    string // "" matches any value
	category string
}

var categoryRules = []categoryRule{
	{"natural", "beach", domain_models.CategoryBeach},
	{"historic", "fort", domain_models.CategoryFort},
	{"historic", "castle", domain_models.CategoryFort},
	{"historic", "palace", domain_models.CategoryPalace},
	{"amenity", "place_of_worship", domain_models.CategoryTemple},
	{"tourism", "museum", domain_models.CategoryMuseum},
	{"amenity", "restaurant", domain_models.CategoryRestaurant},
	{"amenity", "cafe", domain_models.CategoryCafe},
	{"amenity", "bar", domain_models.CategoryNightlife},
	{"amenity", "pub", domain_models.CategoryNightlife},
	{"amenity", "nightclub", domain_models.CategoryNightlife},
	{"leisure", "park", domain_models.CategoryPark},
	{"leisure", "nature_reserve", domain_models.CategoryPark},
	{"tourism", "viewpoint", domain_models.CategoryViewpoint},
	{"waterway", "waterfall", domain_models.CategoryWaterfall},
	{"place", "island", domain_models.CategoryIsland},
	{"natural", "peak", domain_models.CategoryPeak},
}

// fallbackKeys is the precedence order used when no rule matches: the most
// specific present tag key supplies the category value.
var fallbackKeys = []string{"tourism", "historic", "natural", "leisure", "amenity"}

// blockedChains are low-value generic chains and labels filtered by
// case-insensitive substring match.
var blockedChains = []string{
	"cafe coffee day", "ccd", "starbucks", "barista",
	"mcdonald", "burger king", "kfc", "domino", "pizza hut", "subway",
	"costa coffee", "chai point", "dunkin",
}

var commercialCategories = map[string]bool{
	domain_models.CategoryRestaurant: true,
	domain_models.CategoryCafe:       true,
	domain_models.CategoryNightlife:  true,
	"hotel":                          true,
	"guest_house":                    true,
	"hostel":                         true,
}

const (
	hubRadiusKm      = 1.0
	hubBBoxDeg       = 0.01 // ~1km at these latitudes
	dedupRadiusKm    = 0.1
	anchorDedupKm    = 0.5
	dedupSimilarity  = 0.85
	poolCap          = 200
	poolFoodShare    = 0.35
	noVerificationCap = 60
)

// largeAnchors get the looser dedup radius: two records of the same beach
// can legitimately sit half a kilometer apart.
var largeAnchors = map[string]bool{
	domain_models.CategoryBeach:  true,
	domain_models.CategoryFort:   true,
	domain_models.CategoryIsland: true,
}

// workingPlace is the normalizer's internal mutable view of a raw point.
type workingPlace struct {
	id         int64
	name       string
	coord      *geo.Coordinate
	tags       map[string]string
	category   string
	rawType    string
	hubDensity int
}

func (s *NormalizerService) Normalize(rawPoints []domain_models.RawPoint) ([]*domain_models.Place, domain_models.NormalizeStats) {
	stats := domain_models.NormalizeStats{Input: len(rawPoints)}

	working := buildWorkingSet(rawPoints, &stats)
	working = filterChains(working, &stats)
	computeHubDensity(working)
	clustered := clusterCanonical(working, &stats)

	places := make([]*domain_models.Place, 0, len(clustered))
	for _, wp := range clustered {
		places = append(places, scorePlace(wp))
	}

	places = enforceDiversityQuota(places, &stats)
	stats.Survivors = len(places)

	log.Printf("[Normalizer] %d raw -> %d canonical (dropped=%d chain=%d merged=%d quota=%d)",
		stats.Input, stats.Survivors, stats.Dropped, stats.ChainNoise, stats.Merged, stats.QuotaTrim)

	return places, stats
}

func buildWorkingSet(rawPoints []domain_models.RawPoint, stats *domain_models.NormalizeStats) []*workingPlace {
	working := make([]*workingPlace, 0, len(rawPoints))
	for _, rp := range rawPoints {
		name := rp.Name()
		coord := rp.Coordinate()
		if name == "" || coord == nil {
			stats.Dropped++
			continue
		}
		working = append(working, &workingPlace{
			id:       rp.ID,
			name:     name,
			coord:    coord,
			tags:     rp.Tags,
			category: categorize(rp.Tags),
			rawType:  rawType(rp.Tags),
		})
	}
	return working
}

func categorize(tags map[string]string) string {
	for _, rule := range categoryRules {
		v, ok := tags[rule.key]
		if !ok {
			continue
		}
		if rule.value == "" || rule.value == v {
			return rule.category
		}
	}
	for _, key := range fallbackKeys {
		if v := tags[key]; v != "" {
			return v
		}
	}
	return domain_models.CategoryUnknown
}

func rawType(tags map[string]string) string {
	for _, key := range []string{"tourism", "natural", "amenity"} {
		if v := tags[key]; v != "" {
			return v
		}
	}
	return domain_models.CategoryOther
}

func filterChains(working []*workingPlace, stats *domain_models.NormalizeStats) []*workingPlace {
	kept := working[:0]
	for _, wp := range working {
		if isBlockedChain(wp.name) {
			stats.ChainNoise++
			continue
		}
		kept = append(kept, wp)
	}
	return kept
}

func isBlockedChain(name string) bool {
	lower := strings.ToLower(name)
	for _, chain := range blockedChains {
		if strings.Contains(lower, chain) {
			return true
		}
	}
	return false
}

// computeHubDensity counts commercial neighbors within 1km for every place.
// Quadratic over the filtered set, kept tractable for n<=~3500 by the
// bounding-box prefilter.
func computeHubDensity(working []*workingPlace) {
	var commercial []*workingPlace
	for _, wp := range working {
		if commercialCategories[wp.category] || wp.tags["shop"] != "" {
			commercial = append(commercial, wp)
		}
	}

	for _, wp := range working {
		count := 0
		for _, comm := range commercial {
			if comm.id == wp.id {
				continue
			}
			if math.Abs(comm.coord.Lat-wp.coord.Lat) > hubBBoxDeg {
				continue
			}
			if math.Abs(comm.coord.Lon-wp.coord.Lon) > hubBBoxDeg {
				continue
			}
			if geo.Distance(*wp.coord, *comm.coord) <= hubRadiusKm {
				count++
			}
		}
		wp.hubDensity = count
	}
}

// clusterCanonical greedily merges near-identical records. Candidates are
// visited richest-first (most tags = most authoritative record), so the
// cluster representative is always the richest member; its tags are
// backfilled from the others and its hub density becomes the cluster max.
func clusterCanonical(working []*workingPlace, stats *domain_models.NormalizeStats) []*workingPlace {
	sorted := make([]*workingPlace, len(working))
	copy(sorted, working)
	sort.SliceStable(sorted, func(i, j int) bool {
		if len(sorted[i].tags) != len(sorted[j].tags) {
			return len(sorted[i].tags) > len(sorted[j].tags)
		}
		return sorted[i].name < sorted[j].name
	})

	merged := make(map[int64]bool, len(sorted))
	var clustered []*workingPlace

	for _, primary := range sorted {
		if merged[primary.id] {
			continue
		}
		merged[primary.id] = true

		threshold := dedupRadiusKm
		if largeAnchors[primary.category] {
			threshold = anchorDedupKm
		}

		primaryKey := textmatch.NormalizeKey(primary.name)
		maxDensity := primary.hubDensity

		for _, candidate := range sorted {
			if merged[candidate.id] {
				continue
			}
			if geo.Distance(*primary.coord, *candidate.coord) > threshold {
				continue
			}

			candidateKey := textmatch.NormalizeKey(candidate.name)
			nameMatch := primaryKey == candidateKey ||
				strings.Contains(primaryKey, candidateKey) ||
				strings.Contains(candidateKey, primaryKey)

			if !nameMatch && textmatch.Similarity(primaryKey, candidateKey) < dedupSimilarity {
				continue
			}

			merged[candidate.id] = true
			stats.Merged++

			// Backfill without overwriting the primary's values.
			for k, v := range candidate.tags {
				if _, exists := primary.tags[k]; !exists {
					primary.tags[k] = v
				}
			}
			if candidate.hubDensity > maxDensity {
				maxDensity = candidate.hubDensity
			}
		}

		primary.hubDensity = maxDensity
		clustered = append(clustered, primary)
	}

	return clustered
}

var categoryBase = map[string]int{
	domain_models.CategoryBeach:      70,
	domain_models.CategoryWaterfall:  75,
	domain_models.CategoryFort:       75,
	domain_models.CategoryPalace:     70,
	domain_models.CategoryIsland:     60,
	domain_models.CategoryTemple:     50,
	domain_models.CategoryMuseum:     45,
	domain_models.CategoryViewpoint:  40,
	domain_models.CategoryPeak:       35,
	domain_models.CategoryAttraction: 30,
}

func scorePlace(wp *workingPlace) *domain_models.Place {
	base, ok := categoryBase[wp.category]
	if !ok {
		base = 10
	}

	// Attractions with no tourism/natural/historic signal are likely noise
	// (wedding halls, bowling alleys).
	if wp.category == domain_models.CategoryAttraction &&
		wp.tags["tourism"] == "" && wp.tags["natural"] == "" && wp.tags["historic"] == "" {
		base -= 10
	}

	hubBonus := math.Min(math.Log(float64(wp.hubDensity)+1)*10, 25)

	meta := 0.0
	if wp.tags["wikipedia"] != "" {
		meta += 50
	}
	if wp.tags["wikidata"] != "" {
		meta += 30
	}
	if wp.tags["website"] != "" || wp.tags["contact:website"] != "" {
		meta += 10
	}
	if wp.tags["image"] != "" {
		meta += 10
	}
	if wp.tags["description"] != "" {
		meta += 10
	}
	if wp.tags["cuisine"] != "" {
		meta += 5
	}
	if wp.tags["opening_hours"] != "" {
		meta += 5
	}

	// External-importance signal (supplementary provider rank, 0..1).
	importance := 0.0
	if v := wp.tags["importance"]; v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			importance = f
		}
	}

	raw := float64(base) + hubBonus + meta + importance*40
	final := 100 * (1 - math.Exp(-raw/60))

	// No independent verification at all: cap so noise never outranks
	// verified landmarks.
	hasVerification := wp.tags["wikipedia"] != "" || wp.tags["wikidata"] != "" ||
		wp.tags["image"] != "" || wp.tags["tourism"] != "" ||
		wp.tags["natural"] != "" || wp.tags["historic"] != ""
	if !hasVerification && final > noVerificationCap {
		final = noVerificationCap
	}

	keys := make([]string, 0, len(wp.tags))
	for k := range wp.tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	coord := *wp.coord
	return &domain_models.Place{
		Name:         wp.name,
		Coordinate:   &coord,
		Category:     wp.category,
		Subcategory:  domain_models.CategoryOther,
		RawType:      wp.rawType,
		TagKeys:      keys,
		HubDensity:   wp.hubDensity,
		QualityScore: int(math.Round(final)),
		DaySlot:      assignDaySlot(wp.name, wp.category, ""),
	}
}

// enforceDiversityQuota caps the pool so food-heavy destinations do not
// become restaurant directories: at most 200 places, food at most 35% of
// the cap, anchors fill the rest.
func enforceDiversityQuota(places []*domain_models.Place, stats *domain_models.NormalizeStats) []*domain_models.Place {
	if len(places) <= poolCap {
		return places
	}

	var food, anchors []*domain_models.Place
	for _, p := range places {
		if p.IsFood() {
			food = append(food, p)
		} else {
			anchors = append(anchors, p)
		}
	}

	byQuality := func(s []*domain_models.Place) {
		sort.SliceStable(s, func(i, j int) bool {
			if s[i].QualityScore != s[j].QualityScore {
				return s[i].QualityScore > s[j].QualityScore
			}
			return s[i].Name < s[j].Name
		})
	}
	byQuality(food)
	byQuality(anchors)

	foodQuota := int(float64(poolCap) * poolFoodShare)
	if len(food) > foodQuota {
		food = food[:foodQuota]
	}
	if remaining := poolCap - len(food); len(anchors) > remaining {
		anchors = anchors[:remaining]
	}

	kept := append(anchors, food...)
	stats.QuotaTrim = len(places) - len(kept)
	return kept
}
