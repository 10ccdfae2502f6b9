package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"kairos/internal/models/domain_models"
	"kairos/pkg/geo"
	"kairos/pkg/textmatch"
)

const apiUserAgent = "kairos/1.0"

// FetchServiceInterface pulls the raw geotagged point pool for a
// destination from the map providers.
type FetchServiceInterface interface {
	FetchRawPoints(ctx context.Context, destination string, center geo.Coordinate) ([]domain_models.RawPoint, error)
}

// OverpassFetchService queries Overpass as the primary source, failing over
// across public endpoints, and merges Geoapify places in as a supplementary
// signal when a key is configured.
type OverpassFetchService struct {
	HTTP        *http.Client
	Endpoints   []string
	GeoapifyKey string
	RadiusM     int
}

const (
	defaultFetchRadiusM = 25000
	geoapifyMergeKm     = 0.12
)

func NewFetchService() FetchServiceInterface {
	return &OverpassFetchService{
		HTTP: &http.Client{Timeout: 60 * time.Second},
		Endpoints: []string{
			"https://overpass-api.de/api/interpreter",
			"https://overpass.kumi.systems/api/interpreter",
			"https://overpass.osm.ch/api/interpreter",
		},
		GeoapifyKey: os.Getenv("GEOAPIFY_API_KEY"),
		RadiusM:     defaultFetchRadiusM,
	}
}

// FetchRawPoints queries both providers concurrently. Overpass failing on
// every endpoint is fatal; Geoapify is best-effort.
func (s *OverpassFetchService) FetchRawPoints(ctx context.Context, destination string, center geo.Coordinate) ([]domain_models.RawPoint, error) {
	var (
		wg       sync.WaitGroup
		overpass []domain_models.RawPoint
		geoapify []domain_models.RawPoint
		opErr    error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		overpass, opErr = s.fetchOverpass(ctx, center)
	}()

	if s.GeoapifyKey != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var err error
			geoapify, err = s.fetchGeoapify(ctx, center)
			if err != nil {
				log.Printf("[Fetch] geoapify failed for %q: %v", destination, err)
			}
		}()
	}
	wg.Wait()

	if opErr != nil {
		return nil, opErr
	}

	merged := s.mergeGeoapify(overpass, geoapify)
	log.Printf("[Fetch] %q: %d overpass + %d geoapify -> %d raw points",
		destination, len(overpass), len(geoapify), len(merged))
	return merged, nil
}

func overpassQuery(center geo.Coordinate, radiusM int) string {
	around := fmt.Sprintf("(around:%d,%f,%f)", radiusM, center.Lat, center.Lon)
	selectors := []string{
		`nwr["tourism"]`,
		`nwr["historic"]`,
		`nwr["natural"~"beach|peak"]`,
		`nwr["waterway"="waterfall"]`,
		`nwr["place"="island"]`,
		`nwr["leisure"~"park|nature_reserve"]`,
		`nwr["amenity"~"restaurant|cafe|bar|pub|nightclub|place_of_worship"]`,
	}
	var b strings.Builder
	b.WriteString("[out:json][timeout:60];(")
	for _, sel := range selectors {
		b.WriteString(sel)
		b.WriteString(around)
		b.WriteString(";")
	}
	b.WriteString(");out center tags;")
	return b.String()
}

func (s *OverpassFetchService) fetchOverpass(ctx context.Context, center geo.Coordinate) ([]domain_models.RawPoint, error) {
	query := overpassQuery(center, s.RadiusM)

	var lastErr error
	for _, endpoint := range s.Endpoints {
		points, err := s.queryOverpassEndpoint(ctx, endpoint, query)
		if err == nil {
			return points, nil
		}
		lastErr = err
		log.Printf("[Fetch] overpass endpoint %s failed: %v", endpoint, err)
	}
	return nil, fmt.Errorf("all overpass endpoints failed: %w", lastErr)
}

func (s *OverpassFetchService) queryOverpassEndpoint(ctx context.Context, endpoint, query string) ([]domain_models.RawPoint, error) {
	form := url.Values{"data": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", apiUserAgent)

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("overpass http error: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("overpass bad status: %s", resp.Status)
	}

	var payload struct {
		Elements []struct {
			ID     int64    `json:"id"`
			Lat    *float64 `json:"lat"`
			Lon    *float64 `json:"lon"`
			Center *struct {
				Lat float64 `json:"lat"`
				Lon float64 `json:"lon"`
			} `json:"center"`
			Tags map[string]string `json:"tags"`
		} `json:"elements"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("overpass decode: %w", err)
	}

	points := make([]domain_models.RawPoint, 0, len(payload.Elements))
	for _, el := range payload.Elements {
		rp := domain_models.RawPoint{ID: el.ID, Lat: el.Lat, Lon: el.Lon, Tags: el.Tags}
		if el.Center != nil {
			rp.Center = &geo.Coordinate{Lat: el.Center.Lat, Lon: el.Center.Lon}
		}
		points = append(points, rp)
	}
	return points, nil
}

func (s *OverpassFetchService) fetchGeoapify(ctx context.Context, center geo.Coordinate) ([]domain_models.RawPoint, error) {
	u := url.URL{Scheme: "https", Host: "api.geoapify.com", Path: "/v2/places"}
	q := url.Values{}
	q.Set("categories", "tourism.sights,tourism.attraction,natural,catering.restaurant,catering.cafe,entertainment.night_club")
	q.Set("filter", fmt.Sprintf("circle:%f,%f,%d", center.Lon, center.Lat, s.RadiusM))
	q.Set("limit", "500")
	q.Set("apiKey", s.GeoapifyKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", apiUserAgent)

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geoapify http error: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("geoapify bad status: %s", resp.Status)
	}

	var payload struct {
		Features []struct {
			Properties struct {
				Name       string   `json:"name"`
				Lat        float64  `json:"lat"`
				Lon        float64  `json:"lon"`
				Categories []string `json:"categories"`
				Rank       struct {
					Importance float64 `json:"importance"`
				} `json:"rank"`
			} `json:"properties"`
		} `json:"features"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("geoapify decode: %w", err)
	}

	points := make([]domain_models.RawPoint, 0, len(payload.Features))
	for i, f := range payload.Features {
		p := f.Properties
		if p.Name == "" {
			continue
		}
		lat, lon := p.Lat, p.Lon
		tags := map[string]string{"name": p.Name}
		applyGeoapifyCategory(tags, p.Categories)
		if p.Rank.Importance > 0 {
			tags["importance"] = fmt.Sprintf("%.3f", p.Rank.Importance)
		}
		// Synthetic negative IDs keep the two ID spaces disjoint.
		points = append(points, domain_models.RawPoint{
			ID:   -int64(i + 1),
			Lat:  &lat,
			Lon:  &lon,
			Tags: tags,
		})
	}
	return points, nil
}

func applyGeoapifyCategory(tags map[string]string, categories []string) {
	for _, c := range categories {
		switch {
		case strings.HasPrefix(c, "catering.restaurant"):
			tags["amenity"] = "restaurant"
			return
		case strings.HasPrefix(c, "catering.cafe"):
			tags["amenity"] = "cafe"
			return
		case strings.HasPrefix(c, "entertainment.night_club"):
			tags["amenity"] = "nightclub"
			return
		case strings.HasPrefix(c, "natural.beach") || c == "beach":
			tags["natural"] = "beach"
			return
		}
	}
	tags["tourism"] = "attraction"
}

// mergeGeoapify folds the supplementary points into the primary pool. A
// supplementary point landing within 120m of a primary point with a
// matching name only donates its importance signal; everything else is
// appended as a new point.
func (s *OverpassFetchService) mergeGeoapify(primary, supplementary []domain_models.RawPoint) []domain_models.RawPoint {
	merged := primary
	for _, sp := range supplementary {
		spCoord := sp.Coordinate()
		if spCoord == nil {
			continue
		}
		spKey := textmatch.NormalizeKey(sp.Name())
		matched := false
		for i := range merged {
			mc := merged[i].Coordinate()
			if mc == nil || geo.Distance(*mc, *spCoord) > geoapifyMergeKm {
				continue
			}
			if textmatch.Similarity(spKey, textmatch.NormalizeKey(merged[i].Name())) < 0.85 {
				continue
			}
			if imp := sp.Tags["importance"]; imp != "" && merged[i].Tags["importance"] == "" {
				merged[i].Tags["importance"] = imp
			}
			matched = true
			break
		}
		if !matched {
			merged = append(merged, sp)
		}
	}
	return merged
}
