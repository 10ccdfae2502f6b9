package geo

import "math"

// earthRadiusKm is the spherical Earth radius used for haversine math.
const earthRadiusKm = 6371.0

// FarAwayKm is the sentinel distance returned when either coordinate is
// missing. It is large enough to lose every nearest-neighbor comparison.
const FarAwayKm = 9999.0

// Coordinate is a lat/lon pair in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Distance returns the haversine distance between two coordinates in km.
func Distance(a, b Coordinate) float64 {
	dLat := (b.Lat - a.Lat) * (math.Pi / 180)
	dLon := (b.Lon - a.Lon) * (math.Pi / 180)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*(math.Pi/180))*math.Cos(b.Lat*(math.Pi/180))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

// DistanceBetween is Distance with nil tolerance: a missing coordinate on
// either side yields FarAwayKm so the pair never wins a nearest comparison.
func DistanceBetween(a, b *Coordinate) float64 {
	if a == nil || b == nil {
		return FarAwayKm
	}
	return Distance(*a, *b)
}

// Centroid returns the arithmetic mean of the given coordinates, or nil
// when the slice is empty.
func Centroid(coords []Coordinate) *Coordinate {
	if len(coords) == 0 {
		return nil
	}
	var sumLat, sumLon float64
	for _, c := range coords {
		sumLat += c.Lat
		sumLon += c.Lon
	}
	return &Coordinate{
		Lat: sumLat / float64(len(coords)),
		Lon: sumLon / float64(len(coords)),
	}
}
