package geo

import (
	"sort"
	"time"
)

var unixEpoch = time.Unix(0, 0).UTC()

// sortTime. entities without a usable date count as dated at the unix epoch.
func sortTime(e LocatedEntity) time.Time {
	t, ok := e.ParsedDate()
	if !ok {
		return unixEpoch
	}
	return t
}

// SortByDate returns a copy of entities in ascending date order (stable).
// a missing or unparseable date sorts as 1970-01-01T00:00:00Z, so undated entities come before
// everything dated after the epoch.
func SortByDate(entities []LocatedEntity) []LocatedEntity {
	times := make([]time.Time, len(entities))
	order := make([]int, len(entities))
	for i, e := range entities {
		times[i] = sortTime(e)
		order[i] = i
	}

	sort.SliceStable(order, func(i, j int) bool {
		return times[order[i]].Before(times[order[j]])
	})

	sorted := make([]LocatedEntity, len(entities))
	for i, idx := range order {
		sorted[i] = entities[idx]
	}
	return sorted
}

// PathDistance sums the haversine distance of consecutive points, in the given order.
func PathDistance(points []LocatedEntity) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += distanceBetween(points[i-1], points[i])
	}
	return total
}

// RouteLeg model info
//
//	@Description	one hop of a chronological route.
type RouteLeg struct {
	From       LocatedEntity `json:"from" msgpack:"from"`
	To         LocatedEntity `json:"to" msgpack:"to"`
	DistanceKm float64       `json:"distance_km" msgpack:"distance_km"`
	GapDays    *int          `json:"gap_days" msgpack:"gap_days"` // nil unless both ends are dated
}

// Route model info
//
//	@Description	entities visited in date order.
type Route struct {
	Points     []LocatedEntity `json:"points" msgpack:"points"`
	Legs       []RouteLeg      `json:"legs" msgpack:"legs"`
	DistanceKm float64         `json:"distance_km" msgpack:"distance_km"`
	Start      *time.Time      `json:"start,omitempty" msgpack:"start,omitempty"` // earliest parseable date
	End        *time.Time      `json:"end,omitempty" msgpack:"end,omitempty"`     // latest parseable date
}

// BuildRoute orders entities with SortByDate and computes the legs between consecutive points.
func BuildRoute(entities []LocatedEntity) Route {
	points := SortByDate(entities)

	route := Route{
		Points: points,
		Legs:   make([]RouteLeg, 0, len(points)),
	}

	for i := 1; i < len(points); i++ {
		leg := RouteLeg{
			From:       points[i-1],
			To:         points[i],
			DistanceKm: distanceBetween(points[i-1], points[i]),
			GapDays:    dayDiff(points[i-1], points[i]),
		}
		route.Legs = append(route.Legs, leg)
		route.DistanceKm += leg.DistanceKm
	}

	for _, p := range points {
		t, ok := p.ParsedDate()
		if !ok {
			continue
		}
		if route.Start == nil || t.Before(*route.Start) {
			start := t
			route.Start = &start
		}
		if route.End == nil || t.After(*route.End) {
			end := t
			route.End = &end
		}
	}
	return route
}

// LegsNear returns the legs that pass within radiusKm of center.
func (r *Route) LegsNear(center Coordinate, radiusKm float64) []RouteLeg {
	circle := NewCircle(center, radiusKm)
	legs := make([]RouteLeg, 0)
	for _, leg := range r.Legs {
		if circle.IsLineCircleIntersect(leg.From.Lat, leg.From.Lng, leg.To.Lat, leg.To.Lng) {
			legs = append(legs, leg)
		}
	}
	return legs
}

const msPerDay = int64(24 * time.Hour / time.Millisecond)

// dayDiff. whole days between the two dates, rounded down. nil if either is missing.
func dayDiff(a, b LocatedEntity) *int {
	ta, okA := a.ParsedDate()
	tb, okB := b.ParsedDate()
	if !okA || !okB {
		return nil
	}
	// time.Time.Sub saturates at ~292 years, unix milliseconds do not.
	ms := tb.UnixMilli() - ta.UnixMilli()
	if ms < 0 {
		ms = -ms
	}
	days := int(ms / msPerDay)
	return &days
}
