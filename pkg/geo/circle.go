package geo

import (
	"math"
)

const (
	earthRadiusM = earthRadiusKM * 1000
)

// Circle. search area of a radius query, radius in km.
type Circle struct {
	center Coordinate
	radius float64
}

func NewCircle(center Coordinate, radiusKm float64) Circle {
	return Circle{
		center: center,
		radius: radiusKm,
	}
}

func (c *Circle) GetRadius() float64 {
	return c.radius
}

// DistanceTo. haversine distance from the circle center to (lat, lng).
func (c *Circle) DistanceTo(lat, lng float64) float64 {
	return HaversineDistance(c.center.Lat, c.center.Lng, lat, lng)
}

// is the point (lat, lng) inside the circle? boundary included.
func (c *Circle) Contains(lat, lng float64) bool {
	return c.DistanceTo(lat, lng) <= c.radius
}

// BoundingBox of the circle (approximate, see ApproxDegreeDeltas).
func (c *Circle) BoundingBox() BoundingBox {
	return RadiusBoundingBox(c.center, c.radius)
}

func projection(pLat, pLon, centerLat float64) (float64, float64) {
	return pLat * earthRadiusM, pLon * earthRadiusM * math.Cos(centerLat)
}

// is the segment (lat1, lon1) to (lat2, lon2) crossing the circle?
// segment and circle are projected onto a local plane around the circle center.
// https://gis.stackexchange.com/questions/36841/line-intersection-with-circle-on-a-sphere-globe-or-earth
func (c *Circle) IsLineCircleIntersect(lat1, lon1, lat2, lon2 float64) bool {
	if c.Contains(lat1, lon1) || c.Contains(lat2, lon2) {
		return true
	}

	cLat := degToRad(c.center.Lat)
	cLon := degToRad(c.center.Lng)

	cRadius := c.radius * 1000

	lat1, lon1 = degToRad(lat1), degToRad(lon1)
	aLat, aLon := projection(lat1, lon1, cLat)

	lat2, lon2 = degToRad(lat2), degToRad(lon2)
	bLat, bLon := projection(lat2, lon2, cLat)

	ccLat, ccLon := projection(cLat, cLon, cLat)

	vLat := aLat - ccLat
	vLon := aLon - ccLon

	uLat := bLat - aLat
	uLon := bLon - aLon

	alpha := uLat*uLat + uLon*uLon
	if alpha == 0 {
		// degenerate segment, both ends already tested
		return false
	}

	beta := uLat*vLat + uLon*vLon

	gamma := vLat*vLat + vLon*vLon - cRadius*cRadius

	discriminant := beta*beta - alpha*gamma
	if discriminant < 0 {
		return false
	}
	sqrtDiscriminant := math.Sqrt(discriminant)
	t1 := (-beta + sqrtDiscriminant) / alpha
	t2 := (-beta - sqrtDiscriminant) / alpha

	if t1 >= 0 && t1 <= 1 {
		return true
	}
	if t2 >= 0 && t2 <= 1 {
		return true
	}

	return false
}
