package geo

import "math"

const (
	earthRadiusKM = 6371.0
	// approximate length of one degree of latitude.
	kmPerDegree = 111.0
)

// https://scikit-learn.org/stable/modules/generated/sklearn.metrics.pairwise.haversine_distances.html
// sin^2(a/2)
func havFunction(angleRad float64) float64 {
	s := math.Sin(angleRad / 2.0)
	return s * s
}

// HaversineDistance. great-circle distance in km between (latOne, longOne) and (latTwo, longTwo), inputs in degrees.
// NaN / Inf input gives NaN.
func HaversineDistance(latOne, longOne, latTwo, longTwo float64) float64 {
	latOne = degToRad(latOne)
	longOne = degToRad(longOne)
	latTwo = degToRad(latTwo)
	longTwo = degToRad(longTwo)

	h := havFunction(latOne-latTwo) + math.Cos(latOne)*math.Cos(latTwo)*havFunction(longOne-longTwo)
	if h > 1 {
		// rounding on antipodal points
		h = 1
	}
	dist := 2.0 * math.Asin(math.Sqrt(h))
	return earthRadiusKM * dist
}

func distanceBetween(a, b LocatedEntity) float64 {
	return HaversineDistance(a.Lat, a.Lng, b.Lat, b.Lng)
}
