package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance(t *testing.T) {
	tests := []struct {
		name      string
		lat1      float64
		lon1      float64
		lat2      float64
		lon2      float64
		wantKm    float64
		tolerance float64
	}{
		{
			name: "london to paris",
			lat1: 51.5074, lon1: -0.1278,
			lat2: 48.8566, lon2: 2.3522,
			wantKm:    343.5,
			tolerance: 2,
		},
		{
			name: "one degree of longitude at the equator",
			lat1: 0, lon1: 0,
			lat2: 0, lon2: 1,
			wantKm:    111.19,
			tolerance: 0.1,
		},
		{
			name: "solo kraton to solo balapan",
			lat1: -7.5773, lon1: 110.8277,
			lat2: -7.5567, lon2: 110.8212,
			wantKm:    2.4,
			tolerance: 0.2,
		},
		{
			name: "antipodal points",
			lat1: 0, lon1: 0,
			lat2: 0, lon2: 180,
			wantKm:    math.Pi * earthRadiusKM,
			tolerance: 0.001,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineDistance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.InDelta(t, tt.wantKm, got, tt.tolerance)
		})
	}
}

func TestHaversineSymmetryAndZero(t *testing.T) {
	points := [][2]float64{
		{51.5074, -0.1278},
		{48.8566, 2.3522},
		{-7.5680354571554025, 110.81169121664644},
		{-33.8688, 151.2093},
		{89.9, 179.9},
		{0, 0},
	}

	t.Run("symmetric", func(t *testing.T) {
		for _, a := range points {
			for _, b := range points {
				assert.Equal(t, HaversineDistance(a[0], a[1], b[0], b[1]), HaversineDistance(b[0], b[1], a[0], a[1]))
			}
		}
	})

	t.Run("zero for the same point", func(t *testing.T) {
		for _, p := range points {
			assert.Equal(t, 0.0, HaversineDistance(p[0], p[1], p[0], p[1]))
		}
	})

	t.Run("non negative", func(t *testing.T) {
		for _, a := range points {
			for _, b := range points {
				assert.GreaterOrEqual(t, HaversineDistance(a[0], a[1], b[0], b[1]), 0.0)
			}
		}
	})
}

func TestHaversineTriangle(t *testing.T) {
	a := [2]float64{-7.55, 110.80}
	b := [2]float64{-7.60, 110.85}
	c := [2]float64{-7.65, 110.90}

	ac := HaversineDistance(a[0], a[1], c[0], c[1])
	ab := HaversineDistance(a[0], a[1], b[0], b[1])
	bc := HaversineDistance(b[0], b[1], c[0], c[1])

	assert.LessOrEqual(t, ac, ab+bc+1e-9)
	assert.InDelta(t, ab+bc, ac, 0.01)
}

func TestHaversineNaN(t *testing.T) {
	assert.True(t, math.IsNaN(HaversineDistance(math.NaN(), 0, 0, 0)))
	assert.True(t, math.IsNaN(HaversineDistance(0, math.Inf(1), 0, 0)))
	assert.NotPanics(t, func() {
		HaversineDistance(math.Inf(-1), math.NaN(), math.Inf(1), 0)
	})
}
