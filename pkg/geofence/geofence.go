package geofence

import (
	"fmt"

	"github.com/lintang-b-s/geo-analysis/pkg/geo"
)

type FenceStatus int

const (
	INSIDE FenceStatus = iota
	OUTSIDE
	ENTER
	EXIT
	CROSS
)

var fenceStatusNames = map[FenceStatus]string{
	INSIDE:  "inside",
	OUTSIDE: "outside",
	ENTER:   "enter",
	EXIT:    "exit",
	CROSS:   "cross",
}

func (s FenceStatus) String() string {
	if name, ok := fenceStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("FenceStatus(%d)", int(s))
}

func (s FenceStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Fence model info
//
//	@Description	named circular zone.
type Fence struct {
	Name     string         `json:"name" msgpack:"name"`
	Center   geo.Coordinate `json:"center" msgpack:"center"`
	RadiusKm float64        `json:"radius_km" msgpack:"radius_km"`
}

func NewFence(name string, center geo.Coordinate, radiusKm float64) Fence {
	return Fence{
		Name:     name,
		Center:   center,
		RadiusKm: radiusKm,
	}
}

func (f Fence) circle() geo.Circle {
	return geo.NewCircle(f.Center, f.RadiusKm)
}

// FenceStatusObj. model info
//
//	@Description	status of a query point against one fence.
type FenceStatusObj struct {
	Status FenceStatus `json:"fence_status" msgpack:"fence_status"`
	Fence  Fence       `json:"fence" msgpack:"fence"`
}

type GeoFence interface {
	Add(f Fence)
	Get(lat, lon float64, prev *geo.Coordinate) []FenceStatusObj
}

// CircleFence checks every fence, fences whose bounding box is far from the movement are skipped.
type CircleFence struct {
	fences map[string]Fence
	order  []string
}

func NewCircleFence() *CircleFence {
	return &CircleFence{
		fences: make(map[string]Fence),
	}
}

// Add registers f, replacing a fence with the same name.
func (r *CircleFence) Add(f Fence) {
	if _, ok := r.fences[f.Name]; !ok {
		r.order = append(r.order, f.Name)
	}
	r.fences[f.Name] = f
}

func (r *CircleFence) Len() int {
	return len(r.fences)
}

// Get returns, in insertion order, the status of (lat, lon) against every fence near the movement from prev.
// prev is nil for the first point. a change of side yields two entries: the transition (ENTER/EXIT)
// then the new state.
func (r *CircleFence) Get(lat, lon float64, prev *geo.Coordinate) []FenceStatusObj {
	var results = []FenceStatusObj{}
	for _, name := range r.order {
		fence := r.fences[name]
		circle := fence.circle()

		if !nearMovement(circle.BoundingBox(), lat, lon, prev) {
			continue
		}

		oldStatus := OUTSIDE
		if prev != nil && circle.Contains(prev.Lat, prev.Lng) {
			oldStatus = INSIDE
		}

		currentStatus := OUTSIDE
		if circle.Contains(lat, lon) {
			currentStatus = INSIDE
		}
		results = appendNewFenceStatus(results, oldStatus, prev, currentStatus, fence, lat, lon)
	}

	return results
}

// nearMovement. can the segment prev -> (lat, lon) touch bb? conservative, false only when it certainly cannot.
func nearMovement(bb geo.BoundingBox, lat, lon float64, prev *geo.Coordinate) bool {
	minLat, maxLat, minLon, maxLon := lat, lat, lon, lon
	if prev != nil {
		minLat, maxLat = min(minLat, prev.Lat), max(maxLat, prev.Lat)
		minLon, maxLon = min(minLon, prev.Lng), max(maxLon, prev.Lng)
	}
	if maxLat < bb.South || minLat > bb.North {
		return false
	}
	// a box past ±180 wraps around the antimeridian, only the latitude test is safe there.
	if !(bb.West >= -180 && bb.East <= 180) {
		return true
	}
	return !(maxLon < bb.West || minLon > bb.East)
}

func appendNewFenceStatus(results []FenceStatusObj, oldStatus FenceStatus, prev *geo.Coordinate,
	currentStatus FenceStatus, fence Fence, currLat, currLon float64) []FenceStatusObj {
	if oldStatus == INSIDE && currentStatus == INSIDE {
		results = append(results, FenceStatusObj{Status: INSIDE, Fence: fence})
	} else if oldStatus == INSIDE && currentStatus == OUTSIDE {
		results = append(results, FenceStatusObj{Status: EXIT, Fence: fence})
		results = append(results, FenceStatusObj{Status: OUTSIDE, Fence: fence})
	} else if oldStatus == OUTSIDE && currentStatus == INSIDE {
		if prev != nil {
			results = append(results, FenceStatusObj{Status: ENTER, Fence: fence})
		}
		results = append(results, FenceStatusObj{Status: INSIDE, Fence: fence})
	} else if oldStatus == OUTSIDE && currentStatus == OUTSIDE {
		circle := fence.circle()
		if prev != nil && circle.IsLineCircleIntersect(prev.Lat, prev.Lng, currLat, currLon) {
			results = append(results, FenceStatusObj{Status: CROSS, Fence: fence})
		} else {
			results = append(results, FenceStatusObj{Status: OUTSIDE, Fence: fence})
		}
	}
	return results
}
