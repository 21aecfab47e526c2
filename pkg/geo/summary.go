package geo

import "time"

// Summary model info
//
//	@Description	overview of an entity set.
type Summary struct {
	Count   int          `json:"count" msgpack:"count"`
	Dated   int          `json:"dated" msgpack:"dated"`
	Undated int          `json:"undated" msgpack:"undated"`
	Extent  *BoundingBox `json:"extent,omitempty" msgpack:"extent,omitempty"`
	Center  *Coordinate  `json:"center,omitempty" msgpack:"center,omitempty"`
	// SphericalCenter differs from Center when the entities straddle the antimeridian.
	SphericalCenter *Coordinate    `json:"spherical_center,omitempty" msgpack:"spherical_center,omitempty"`
	First           *time.Time     `json:"first,omitempty" msgpack:"first,omitempty"`
	Last            *time.Time     `json:"last,omitempty" msgpack:"last,omitempty"`
	Types           map[string]int `json:"types" msgpack:"types"` // entity count per Type, "" for untyped
}

func Summarize(entities []LocatedEntity) Summary {
	s := Summary{
		Count: len(entities),
		Types: make(map[string]int),
	}

	if extent, ok := Extent(entities); ok {
		s.Extent = &extent
	}
	if center, ok := CenterOfEntities(entities); ok {
		s.Center = &center
	}
	points := make([]Coordinate, len(entities))
	for i, e := range entities {
		points[i] = e.Coordinate()
	}
	if center, ok := SphericalCenter(points); ok {
		s.SphericalCenter = &center
	}

	for _, e := range entities {
		s.Types[e.Type]++

		t, ok := e.ParsedDate()
		if !ok {
			s.Undated++
			continue
		}
		s.Dated++
		if s.First == nil || t.Before(*s.First) {
			first := t
			s.First = &first
		}
		if s.Last == nil || t.After(*s.Last) {
			last := t
			s.Last = &last
		}
	}
	return s
}
