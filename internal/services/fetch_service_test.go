package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kairos/internal/models/domain_models"
	"kairos/pkg/geo"
)

const overpassBody = `{"elements":[
	{"id":1,"lat":15.5553,"lon":73.7517,"tags":{"name":"Baga Beach","natural":"beach"}},
	{"id":2,"type":"way","center":{"lat":15.4920,"lon":73.7737},"tags":{"name":"Aguada Fort","historic":"fort"}}
]}`

func TestFetchOverpassFailover(t *testing.T) {
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGatewayTimeout)
	}))
	defer dead.Close()

	alive := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(overpassBody))
	}))
	defer alive.Close()

	svc := &OverpassFetchService{
		HTTP:      &http.Client{Timeout: 5 * time.Second},
		Endpoints: []string{dead.URL, alive.URL},
		RadiusM:   25000,
	}

	points, err := svc.FetchRawPoints(context.Background(), "Goa", geo.Coordinate{Lat: 15.49, Lon: 73.82})
	if err != nil {
		t.Fatalf("FetchRawPoints: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("points: got %d, want 2", len(points))
	}
	// The way element resolves through its center.
	if c := points[1].Coordinate(); c == nil || c.Lat != 15.4920 {
		t.Errorf("way center not resolved: %v", c)
	}
}

func TestFetchAllEndpointsDown(t *testing.T) {
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer dead.Close()

	svc := &OverpassFetchService{
		HTTP:      &http.Client{Timeout: 5 * time.Second},
		Endpoints: []string{dead.URL, dead.URL},
		RadiusM:   25000,
	}

	if _, err := svc.FetchRawPoints(context.Background(), "Goa", geo.Coordinate{Lat: 15.49, Lon: 73.82}); err == nil {
		t.Fatal("expected an error when every endpoint is down")
	}
}

func TestMergeGeoapifyDonatesImportance(t *testing.T) {
	svc := &OverpassFetchService{}
	lat1, lon1 := 15.5553, 73.7517
	primary := []domain_models.RawPoint{
		{ID: 1, Lat: &lat1, Lon: &lon1, Tags: map[string]string{"name": "Baga Beach", "natural": "beach"}},
	}
	lat2, lon2 := 15.5555, 73.7519 // ~30m away
	supplementary := []domain_models.RawPoint{
		{ID: -1, Lat: &lat2, Lon: &lon2, Tags: map[string]string{"name": "Baga Beach", "importance": "0.750"}},
	}

	merged := svc.mergeGeoapify(primary, supplementary)
	if len(merged) != 1 {
		t.Fatalf("merged: got %d, want 1", len(merged))
	}
	if merged[0].Tags["importance"] != "0.750" {
		t.Errorf("importance not donated: %v", merged[0].Tags)
	}
}

func TestMergeGeoapifyAppendsNewPlaces(t *testing.T) {
	svc := &OverpassFetchService{}
	lat1, lon1 := 15.5553, 73.7517
	primary := []domain_models.RawPoint{
		{ID: 1, Lat: &lat1, Lon: &lon1, Tags: map[string]string{"name": "Baga Beach"}},
	}
	lat2, lon2 := 15.60, 73.70 // several km away
	supplementary := []domain_models.RawPoint{
		{ID: -1, Lat: &lat2, Lon: &lon2, Tags: map[string]string{"name": "Hidden Viewpoint", "tourism": "attraction"}},
	}

	merged := svc.mergeGeoapify(primary, supplementary)
	if len(merged) != 2 {
		t.Fatalf("merged: got %d, want 2", len(merged))
	}
}

func TestOverpassQueryShape(t *testing.T) {
	q := overpassQuery(geo.Coordinate{Lat: 15.49, Lon: 73.82}, 25000)
	for _, want := range []string{"[out:json]", "around:25000", "out center tags;"} {
		if !strings.Contains(q, want) {
			t.Errorf("query missing %q: %s", want, q)
		}
	}
}
