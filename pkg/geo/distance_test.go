package geo

import (
	"math"
	"testing"
)

func TestDistanceKnownPair(t *testing.T) {
	// Baga Beach to Fort Aguada, roughly 6.5km apart.
	baga := Coordinate{Lat: 15.5553, Lon: 73.7517}
	aguada := Coordinate{Lat: 15.4920, Lon: 73.7737}

	got := Distance(baga, aguada)
	if got < 6 || got > 8 {
		t.Errorf("Distance: got %.2fkm, want ~7km", got)
	}
}

func TestDistanceZero(t *testing.T) {
	p := Coordinate{Lat: 15.5, Lon: 73.8}
	if got := Distance(p, p); got != 0 {
		t.Errorf("Distance to self: got %f, want 0", got)
	}
}

func TestDistanceSymmetry(t *testing.T) {
	a := Coordinate{Lat: 11.93, Lon: 79.83}
	b := Coordinate{Lat: 11.94, Lon: 79.81}
	if d1, d2 := Distance(a, b), Distance(b, a); math.Abs(d1-d2) > 1e-9 {
		t.Errorf("Distance not symmetric: %f vs %f", d1, d2)
	}
}

func TestDistanceBetweenNil(t *testing.T) {
	p := Coordinate{Lat: 15.5, Lon: 73.8}
	if got := DistanceBetween(nil, &p); got != FarAwayKm {
		t.Errorf("nil left side: got %f, want %f", got, FarAwayKm)
	}
	if got := DistanceBetween(&p, nil); got != FarAwayKm {
		t.Errorf("nil right side: got %f, want %f", got, FarAwayKm)
	}
}

func TestCentroid(t *testing.T) {
	coords := []Coordinate{
		{Lat: 10, Lon: 20},
		{Lat: 20, Lon: 40},
	}
	c := Centroid(coords)
	if c == nil {
		t.Fatal("Centroid returned nil for non-empty input")
	}
	if c.Lat != 15 || c.Lon != 30 {
		t.Errorf("Centroid: got (%f, %f), want (15, 30)", c.Lat, c.Lon)
	}
}

func TestCentroidEmpty(t *testing.T) {
	if c := Centroid(nil); c != nil {
		t.Errorf("Centroid of empty slice: got %v, want nil", c)
	}
}
