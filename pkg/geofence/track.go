package geofence

import (
	"github.com/lintang-b-s/geo-analysis/pkg/geo"
)

// ZoneEvent model info
//
//	@Description	a timeline point entering, leaving, crossing or starting inside a zone.
type ZoneEvent struct {
	Index  int                `json:"index" msgpack:"index"` // position in the date-ordered timeline
	Entity geo.LocatedEntity  `json:"entity" msgpack:"entity"`
	From   *geo.LocatedEntity `json:"from,omitempty" msgpack:"from,omitempty"` // previous point, nil for the first one
	Zone   string             `json:"zone" msgpack:"zone"`
	Status FenceStatus        `json:"status" msgpack:"status"`
}

// Track walks the timeline (already in date order) through the fences and keeps the transitions:
// ENTER, EXIT and CROSS for every leg, plus INSIDE for the first point.
func Track(timeline []geo.LocatedEntity, fences GeoFence) []ZoneEvent {
	events := []ZoneEvent{}

	var prev *geo.LocatedEntity
	for i := range timeline {
		e := timeline[i]

		var prevCoord *geo.Coordinate
		if prev != nil {
			c := prev.Coordinate()
			prevCoord = &c
		}

		for _, st := range fences.Get(e.Lat, e.Lng, prevCoord) {
			keep := st.Status == ENTER || st.Status == EXIT || st.Status == CROSS ||
				(prev == nil && st.Status == INSIDE)
			if !keep {
				continue
			}
			events = append(events, ZoneEvent{
				Index:  i,
				Entity: e,
				From:   prev,
				Zone:   st.Fence.Name,
				Status: st.Status,
			})
		}
		prev = &timeline[i]
	}
	return events
}
