package geo

import "math/rand"

const (
	maxIterations  = 10
	convergenceDeg = 0.001
)

// Cluster partitions items into k geographic groups with K-means on their
// coordinates. Items without a coordinate never participate in convergence;
// they are dealt round-robin across the resulting groups afterwards so that
// no single group collects all the untagged entries.
//
// The random source seeds the initial centroids; pass a fixed-seed rand for
// reproducible output.
func Cluster[T any](items []T, coordOf func(T) *Coordinate, k int, rng *rand.Rand) [][]T {
	if len(items) == 0 {
		return nil
	}
	if k <= 1 {
		return [][]T{items}
	}

	var valid, missing []T
	for _, it := range items {
		if coordOf(it) != nil {
			valid = append(valid, it)
		} else {
			missing = append(missing, it)
		}
	}

	// Not enough geotagged items to form k clusters: round-robin everything
	// so group sizes stay balanced.
	if len(valid) < k {
		groups := make([][]T, k)
		for i, it := range items {
			groups[i%k] = append(groups[i%k], it)
		}
		return groups
	}

	centroids := pickInitialCentroids(valid, coordOf, k, rng)

	var groups [][]T
	for iter := 0; iter < maxIterations; iter++ {
		groups = make([][]T, k)

		for _, it := range valid {
			c := coordOf(it)
			best := 0
			bestDist := Distance(*c, centroids[0])
			for i := 1; i < k; i++ {
				if d := Distance(*c, centroids[i]); d < bestDist {
					bestDist = d
					best = i
				}
			}
			groups[best] = append(groups[best], it)
		}

		converged := true
		for i := 0; i < k; i++ {
			if len(groups[i]) == 0 {
				continue
			}
			var sumLat, sumLon float64
			for _, it := range groups[i] {
				c := coordOf(it)
				sumLat += c.Lat
				sumLon += c.Lon
			}
			next := Coordinate{
				Lat: sumLat / float64(len(groups[i])),
				Lon: sumLon / float64(len(groups[i])),
			}
			if abs(next.Lat-centroids[i].Lat) > convergenceDeg || abs(next.Lon-centroids[i].Lon) > convergenceDeg {
				converged = false
			}
			centroids[i] = next
		}

		if converged {
			break
		}
	}

	for i, it := range missing {
		groups[i%k] = append(groups[i%k], it)
	}

	return groups
}

func pickInitialCentroids[T any](valid []T, coordOf func(T) *Coordinate, k int, rng *rand.Rand) []Coordinate {
	centroids := make([]Coordinate, 0, k)
	// Seeds are deduplicated by coordinate, not by index: co-located items
	// would otherwise yield coincident centroids and permanently empty
	// groups.
	taken := make(map[Coordinate]bool, k)

	// Bounded attempts in case the source keeps hitting taken coordinates.
	for attempts := 0; len(centroids) < k && attempts < 100; attempts++ {
		c := *coordOf(valid[rng.Intn(len(valid))])
		if taken[c] {
			continue
		}
		taken[c] = true
		centroids = append(centroids, c)
	}

	// Fill sequentially if random picks ran out of attempts.
	for idx := 0; len(centroids) < k && idx < len(valid); idx++ {
		c := *coordOf(valid[idx])
		if !taken[c] {
			taken[c] = true
			centroids = append(centroids, c)
		}
	}

	// Fewer distinct coordinates than k: repeat seeds so the caller still
	// gets k groups, some possibly empty.
	for i := 0; len(centroids) < k; i++ {
		centroids = append(centroids, centroids[i])
	}

	return centroids
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
