package geo

import (
	"math"
	"sort"
)

const (
	DefaultProximityKm       = 10.0
	DefaultTimeThresholdDays = 7
)

type ProximityOptions struct {
	ProximityKm       float64 // max distance between the two entities, inclusive
	TimeThresholdDays int     // max whole-day gap for a pair to be flagged TimeClose, inclusive
}

func DefaultProximityOptions() ProximityOptions {
	return ProximityOptions{
		ProximityKm:       DefaultProximityKm,
		TimeThresholdDays: DefaultTimeThresholdDays,
	}
}

// Intersection model info
//
//	@Description	two entities found close to each other. TimeClose marks the pairs that are also close in time.
type Intersection struct {
	From         LocatedEntity `json:"from" msgpack:"from"`
	To           LocatedEntity `json:"to" msgpack:"to"`
	DistanceKm   float64       `json:"distance_km" msgpack:"distance_km"`
	TimeDiffDays *int          `json:"time_diff_days" msgpack:"time_diff_days"` // nil when either date is missing
	TimeClose    bool          `json:"time_close" msgpack:"time_close"`
	MidLat       float64       `json:"mid_lat" msgpack:"mid_lat"`
	MidLng       float64       `json:"mid_lng" msgpack:"mid_lng"`
}

type indexedIntersection struct {
	i, j int
	Intersection
}

// FindIntersections checks every pair (i < j) and keeps those within opts.ProximityKm, closest first.
// a kept pair is TimeClose when both dates parse and are at most opts.TimeThresholdDays whole days apart;
// undated pairs are still returned, just never flagged.
func FindIntersections(entities []LocatedEntity, opts ProximityOptions) []Intersection {
	found := make([]indexedIntersection, 0)
	for i := 0; i < len(entities); i++ {
		for j := i + 1; j < len(entities); j++ {
			if in, ok := intersect(entities, i, j, opts); ok {
				found = append(found, in)
			}
		}
	}
	return sortIntersections(found)
}

// FindIntersectionsIndexed gives the same result as FindIntersections without comparing every pair.
// entities are swept in latitude order and only compared with the ones less than ProximityKm/111 degrees
// further north: a great-circle distance is never shorter than the meridian arc between the two latitudes,
// and ProximityKm/111 degrees is longer than that arc.
func FindIntersectionsIndexed(entities []LocatedEntity, opts ProximityOptions) []Intersection {
	band, _ := ApproxDegreeDeltas(0, opts.ProximityKm)

	order := make([]int, 0, len(entities))
	for i, e := range entities {
		if isFinite(e.Lat) && isFinite(e.Lng) {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return entities[order[a]].Lat < entities[order[b]].Lat
	})

	found := make([]indexedIntersection, 0)
	for a := 0; a < len(order); a++ {
		for b := a + 1; b < len(order); b++ {
			if entities[order[b]].Lat-entities[order[a]].Lat > band {
				break
			}
			i, j := order[a], order[b]
			if i > j {
				i, j = j, i
			}
			if in, ok := intersect(entities, i, j, opts); ok {
				found = append(found, in)
			}
		}
	}
	return sortIntersections(found)
}

func intersect(entities []LocatedEntity, i, j int, opts ProximityOptions) (indexedIntersection, bool) {
	from, to := entities[i], entities[j]
	dist := distanceBetween(from, to)
	if !(dist <= opts.ProximityKm) {
		return indexedIntersection{}, false
	}

	timeDiff := dayDiff(from, to)
	midLat, midLng := averageMidPoint(from.Lat, from.Lng, to.Lat, to.Lng)
	return indexedIntersection{
		i: i,
		j: j,
		Intersection: Intersection{
			From:         from,
			To:           to,
			DistanceKm:   dist,
			TimeDiffDays: timeDiff,
			TimeClose:    timeDiff != nil && *timeDiff <= opts.TimeThresholdDays,
			MidLat:       midLat,
			MidLng:       midLng,
		},
	}, true
}

// sortIntersections orders by distance, then by input position of the pair.
func sortIntersections(found []indexedIntersection) []Intersection {
	sort.Slice(found, func(a, b int) bool {
		if found[a].DistanceKm != found[b].DistanceKm {
			return found[a].DistanceKm < found[b].DistanceKm
		}
		if found[a].i != found[b].i {
			return found[a].i < found[b].i
		}
		return found[a].j < found[b].j
	})

	results := make([]Intersection, len(found))
	for k, in := range found {
		results[k] = in.Intersection
	}
	return results
}

// FlaggedIntersections keeps only the TimeClose pairs.
func FlaggedIntersections(intersections []Intersection) []Intersection {
	flagged := make([]Intersection, 0)
	for _, in := range intersections {
		if in.TimeClose {
			flagged = append(flagged, in)
		}
	}
	return flagged
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
