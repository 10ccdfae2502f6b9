package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"kairos/pkg/geo"
	"kairos/pkg/utils"
)

// GeocodeServiceInterface resolves a destination name to a coordinate.
type GeocodeServiceInterface interface {
	Geocode(ctx context.Context, destination string) (*geo.Coordinate, error)
}

// ChainGeocodeService tries OpenCage first when a key is configured, then
// Geoapify, then the keyless Nominatim endpoint.
type ChainGeocodeService struct {
	HTTP        *http.Client
	OpenCageKey string
	GeoapifyKey string
}

func NewGeocodeService() GeocodeServiceInterface {
	return &ChainGeocodeService{
		HTTP:        &http.Client{Timeout: 15 * time.Second},
		OpenCageKey: os.Getenv("OPENCAGE_API_KEY"),
		GeoapifyKey: os.Getenv("GEOAPIFY_API_KEY"),
	}
}

func (s *ChainGeocodeService) Geocode(ctx context.Context, destination string) (*geo.Coordinate, error) {
	if destination == "" {
		return nil, utils.ErrMissingDestination
	}

	if s.OpenCageKey != "" {
		if coord, err := s.openCage(ctx, destination); err == nil {
			return coord, nil
		} else {
			log.Printf("[Geocode] opencage failed for %q: %v", destination, err)
		}
	}
	if s.GeoapifyKey != "" {
		if coord, err := s.geoapify(ctx, destination); err == nil {
			return coord, nil
		} else {
			log.Printf("[Geocode] geoapify failed for %q: %v", destination, err)
		}
	}
	coord, err := s.nominatim(ctx, destination)
	if err != nil {
		return nil, utils.ErrDestinationNotFound
	}
	return coord, nil
}

func (s *ChainGeocodeService) openCage(ctx context.Context, destination string) (*geo.Coordinate, error) {
	u := url.URL{Scheme: "https", Host: "api.opencagedata.com", Path: "/geocode/v1/json"}
	q := url.Values{}
	q.Set("q", destination)
	q.Set("key", s.OpenCageKey)
	q.Set("limit", "1")
	q.Set("no_annotations", "1")
	u.RawQuery = q.Encode()

	var payload struct {
		Results []struct {
			Geometry struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := s.getJSON(ctx, u.String(), &payload); err != nil {
		return nil, err
	}
	if len(payload.Results) == 0 {
		return nil, fmt.Errorf("opencage: no result for %q", destination)
	}
	g := payload.Results[0].Geometry
	return &geo.Coordinate{Lat: g.Lat, Lon: g.Lng}, nil
}

func (s *ChainGeocodeService) geoapify(ctx context.Context, destination string) (*geo.Coordinate, error) {
	u := url.URL{Scheme: "https", Host: "api.geoapify.com", Path: "/v1/geocode/search"}
	q := url.Values{}
	q.Set("text", destination)
	q.Set("limit", "1")
	q.Set("format", "json")
	q.Set("apiKey", s.GeoapifyKey)
	u.RawQuery = q.Encode()

	var payload struct {
		Results []struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"results"`
	}
	if err := s.getJSON(ctx, u.String(), &payload); err != nil {
		return nil, err
	}
	if len(payload.Results) == 0 {
		return nil, fmt.Errorf("geoapify: no result for %q", destination)
	}
	return &geo.Coordinate{Lat: payload.Results[0].Lat, Lon: payload.Results[0].Lon}, nil
}

func (s *ChainGeocodeService) nominatim(ctx context.Context, destination string) (*geo.Coordinate, error) {
	u := url.URL{Scheme: "https", Host: "nominatim.openstreetmap.org", Path: "/search"}
	q := url.Values{}
	q.Set("q", destination)
	q.Set("format", "json")
	q.Set("limit", "1")
	u.RawQuery = q.Encode()

	var payload []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := s.getJSON(ctx, u.String(), &payload); err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("nominatim: no result for %q", destination)
	}
	var coord geo.Coordinate
	if _, err := fmt.Sscanf(payload[0].Lat, "%f", &coord.Lat); err != nil {
		return nil, fmt.Errorf("nominatim: bad lat: %w", err)
	}
	if _, err := fmt.Sscanf(payload[0].Lon, "%f", &coord.Lon); err != nil {
		return nil, fmt.Errorf("nominatim: bad lon: %w", err)
	}
	return &coord, nil
}

func (s *ChainGeocodeService) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", apiUserAgent)
	resp, err := s.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("geocode http error: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("geocode bad status: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
