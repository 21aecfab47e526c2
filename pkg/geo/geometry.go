package geo

import (
	"math"

	"github.com/golang/geo/s2"
)

type Coordinate struct {
	Lat float64 `json:"lat" msgpack:"lat"`
	Lng float64 `json:"lng" msgpack:"lng"`
}

func NewCoordinate(lat, lng float64) Coordinate {
	return Coordinate{
		Lat: lat,
		Lng: lng,
	}
}

// BoundingBox model info
//
//	@Description	rectangle in degrees. East/West are not wrapped at the antimeridian.
type BoundingBox struct {
	North float64 `json:"north" msgpack:"north"`
	South float64 `json:"south" msgpack:"south"`
	East  float64 `json:"east" msgpack:"east"`
	West  float64 `json:"west" msgpack:"west"`
}

func (bb *BoundingBox) Contains(lat, lng float64) bool {
	if lat < bb.South || lat > bb.North {
		return false
	}
	if lng < bb.West || lng > bb.East {
		return false
	}
	return true
}

// ApproxDegreeDeltas converts a distance in km into degree deltas around latitude lat,
// using 1 degree of latitude = 111 km and scaling longitude by cos(lat).
// flat-earth approximation: lngDelta goes to +Inf at the poles and nothing is done about
// the antimeridian. every degree/km conversion in this package goes through here.
func ApproxDegreeDeltas(lat, km float64) (latDelta, lngDelta float64) {
	latDelta = km / kmPerDegree
	lngDelta = km / (kmPerDegree * math.Cos(degToRad(lat)))
	return
}

// RadiusBoundingBox. box around center that covers radiusKm in every direction.
func RadiusBoundingBox(center Coordinate, radiusKm float64) BoundingBox {
	latDelta, lngDelta := ApproxDegreeDeltas(center.Lat, radiusKm)
	return BoundingBox{
		North: center.Lat + latDelta,
		South: center.Lat - latDelta,
		East:  center.Lng + lngDelta,
		West:  center.Lng - lngDelta,
	}
}

// Extent returns the bounding box of all entity positions. ok is false for an empty slice.
// NaN coordinates are skipped.
func Extent(entities []LocatedEntity) (bb BoundingBox, ok bool) {
	bb = BoundingBox{
		North: math.Inf(-1),
		South: math.Inf(1),
		East:  math.Inf(-1),
		West:  math.Inf(1),
	}
	for _, e := range entities {
		if e.Lat < bb.South {
			bb.South = e.Lat
		}
		if e.Lat > bb.North {
			bb.North = e.Lat
		}
		if e.Lng < bb.West {
			bb.West = e.Lng
		}
		if e.Lng > bb.East {
			bb.East = e.Lng
		}
	}
	if bb.South > bb.North || bb.West > bb.East {
		return BoundingBox{}, false
	}
	return bb, true
}

// GeoCenter is the arithmetic mean of the latitudes and of the longitudes.
// not a spherical centroid: points on both sides of the antimeridian average to the wrong side of the globe,
// fine for regional data. ok is false when points is empty.
func GeoCenter(points []Coordinate) (Coordinate, bool) {
	if len(points) == 0 {
		return Coordinate{}, false
	}

	var sumLat, sumLng float64
	for _, p := range points {
		sumLat += p.Lat
		sumLng += p.Lng
	}
	n := float64(len(points))
	return NewCoordinate(sumLat/n, sumLng/n), true
}

func CenterOfEntities(entities []LocatedEntity) (Coordinate, bool) {
	points := make([]Coordinate, len(entities))
	for i, e := range entities {
		points[i] = e.Coordinate()
	}
	return GeoCenter(points)
}

// SphericalCenter averages the points as unit vectors on the sphere, so it stays correct across the antimeridian.
// ok is false for empty input or when the points cancel out (e.g. two antipodal points).
func SphericalCenter(points []Coordinate) (Coordinate, bool) {
	if len(points) == 0 {
		return Coordinate{}, false
	}

	var sum s2.Point
	for _, p := range points {
		v := s2.PointFromLatLng(s2.LatLngFromDegrees(p.Lat, p.Lng))
		sum = s2.Point{Vector: sum.Add(v.Vector)}
	}
	if sum.Norm() < 1e-12 {
		return Coordinate{}, false
	}

	ll := s2.LatLngFromPoint(s2.Point{Vector: sum.Normalize()})
	return NewCoordinate(ll.Lat.Degrees(), ll.Lng.Degrees()), true
}

// https://www.movable-type.co.uk/scripts/latlong.html
func MidPoint(lat1, lon1 float64, lat2, lon2 float64) (float64, float64) {
	p1LatRad := degToRad(lat1)
	p2LatRad := degToRad(lat2)

	diffLon := degToRad(lon2 - lon1)

	bx := math.Cos(p2LatRad) * math.Cos(diffLon)
	by := math.Cos(p2LatRad) * math.Sin(diffLon)

	newLon := degToRad(lon1) + math.Atan2(by, math.Cos(p1LatRad)+bx)
	newLat := math.Atan2(math.Sin(p1LatRad)+math.Sin(p2LatRad), math.Sqrt((math.Cos(p1LatRad)+bx)*(math.Cos(p1LatRad)+bx)+by*by))

	return radToDeg(newLat), radToDeg(newLon)
}

// averageMidPoint. plain average of the two coordinates, good enough below a few tens of km.
func averageMidPoint(lat1, lon1 float64, lat2, lon2 float64) (float64, float64) {
	return (lat1 + lat2) / 2.0, (lon1 + lon2) / 2.0
}

func degToRad(d float64) float64 {
	return d * math.Pi / 180.0
}

func radToDeg(r float64) float64 {
	return 180.0 * r / math.Pi
}
