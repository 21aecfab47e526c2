package geo

import (
	"math"
	"sort"
)

const (
	DefaultGridSizeKm = 10.0
)

// GridCell model info
//
//	@Description	hotspot cell of the clustering grid. Center is the middle of the cell, not the centroid of its entities.
type GridCell struct {
	CellRow   int             `json:"cell_row" msgpack:"cell_row"`
	CellCol   int             `json:"cell_col" msgpack:"cell_col"`
	CenterLat float64         `json:"center_lat" msgpack:"center_lat"`
	CenterLng float64         `json:"center_lng" msgpack:"center_lng"`
	Entities  []LocatedEntity `json:"entities" msgpack:"entities"`
	Count     int             `json:"count" msgpack:"count"`
}

type cellKey struct {
	row, col int
}

// grid. uniform lat/lng grid anchored at the south-west corner of a point set.
type grid struct {
	minLat, minLng   float64
	latStep, lngStep float64
}

func newGrid(extent BoundingBox, gridSizeKm float64) grid {
	midLat := (extent.South + extent.North) / 2.0
	latStep, lngStep := ApproxDegreeDeltas(midLat, gridSizeKm)
	return grid{
		minLat:  extent.South,
		minLng:  extent.West,
		latStep: latStep,
		lngStep: lngStep,
	}
}

func (g grid) cellOf(lat, lng float64) cellKey {
	return cellKey{
		row: cellIndex(lat, g.minLat, g.latStep),
		col: cellIndex(lng, g.minLng, g.lngStep),
	}
}

func (g grid) cellCenter(k cellKey) (float64, float64) {
	return g.minLat + (float64(k.row)+0.5)*g.latStep, g.minLng + (float64(k.col)+0.5)*g.lngStep
}

// cellIndex is floor((v-min)/step). non-finite results land in cell 0 so no entity gets lost.
func cellIndex(v, min, step float64) int {
	idx := math.Floor((v - min) / step)
	if math.IsNaN(idx) || math.IsInf(idx, 0) {
		return 0
	}
	return int(idx)
}

// GridCluster partitions entities into square-ish cells of gridSizeKm and ranks the cells by member count,
// busiest first (ties keep the order in which cells were first seen).
// every entity ends up in exactly one cell. gridSizeKm <= 0 falls back to DefaultGridSizeKm.
// the longitude step uses cos(middle latitude) of the whole set, so cells get narrow in km away from it
// and degenerate near the poles.
func GridCluster(entities []LocatedEntity, gridSizeKm float64) []GridCell {
	if len(entities) == 0 {
		return []GridCell{}
	}
	if !(gridSizeKm > 0) {
		gridSizeKm = DefaultGridSizeKm
	}

	extent, ok := Extent(entities)
	if !ok {
		// only NaN coordinates
		extent = BoundingBox{}
	}
	g := newGrid(extent, gridSizeKm)

	cellIdx := make(map[cellKey]int)
	cells := make([]GridCell, 0)
	for _, e := range entities {
		k := g.cellOf(e.Lat, e.Lng)
		idx, ok := cellIdx[k]
		if !ok {
			centerLat, centerLng := g.cellCenter(k)
			cells = append(cells, GridCell{
				CellRow:   k.row,
				CellCol:   k.col,
				CenterLat: centerLat,
				CenterLng: centerLng,
				Entities:  make([]LocatedEntity, 0, 1),
			})
			idx = len(cells) - 1
			cellIdx[k] = idx
		}
		cells[idx].Entities = append(cells[idx].Entities, e)
		cells[idx].Count++
	}

	sort.SliceStable(cells, func(i, j int) bool {
		return cells[i].Count > cells[j].Count
	})
	return cells
}
