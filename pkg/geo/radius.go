package geo

import "sort"

// EntityDistance. entity annotated with its distance (km) from the query center.
type EntityDistance struct {
	LocatedEntity
	Distance float64 `json:"distance" msgpack:"distance"`
}

// EntitiesWithinRadius returns every entity whose haversine distance to center is <= radiusKm,
// nearest first. equal distances keep input order. entities is not modified.
// linear scan, no index: meant for case-sized inputs (hundreds to a few thousand entities).
func EntitiesWithinRadius(center Coordinate, radiusKm float64, entities []LocatedEntity) []EntityDistance {
	circle := NewCircle(center, radiusKm)

	results := make([]EntityDistance, 0)
	for _, e := range entities {
		dist := circle.DistanceTo(e.Lat, e.Lng)
		if dist <= circle.GetRadius() {
			results = append(results, EntityDistance{LocatedEntity: e, Distance: dist})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	return results
}
