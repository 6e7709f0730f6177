package location

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"join/internal/types"
)

func TestHaversineKm_KnownDistances(t *testing.T) {
	tests := []struct {
		name      string
		a, b      types.Point
		wantKm    float64
		tolerance float64
	}{
		{
			name:      "same point",
			a:         types.Point{Lat: -26.2041, Lng: 28.0473},
			b:         types.Point{Lat: -26.2041, Lng: 28.0473},
			wantKm:    0,
			tolerance: 0.001,
		},
		{
			name:      "Johannesburg CBD to Sandton (~10.8km)",
			a:         types.Point{Lat: -26.2041, Lng: 28.0473},
			b:         types.Point{Lat: -26.1076, Lng: 28.0567},
			wantKm:    10.771,
			tolerance: 0.01,
		},
		{
			name:      "Taipei 101 to Taipei Main Station (~5km)",
			a:         types.Point{Lat: 25.0340, Lng: 121.5645},
			b:         types.Point{Lat: 25.0478, Lng: 121.5170},
			wantKm:    5.025,
			tolerance: 0.01,
		},
		{
			name:      "New York to Los Angeles (~3944km)",
			a:         types.Point{Lat: 40.7128, Lng: -74.0060},
			b:         types.Point{Lat: 34.0522, Lng: -118.2437},
			wantKm:    3944,
			tolerance: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineKm(tt.a, tt.b)
			assert.InDelta(t, tt.wantKm, got, tt.tolerance)
		})
	}
}

func TestHaversineKm_Symmetry(t *testing.T) {
	a := types.Point{Lat: 25.0, Lng: 121.0}
	b := types.Point{Lat: 26.0, Lng: 122.0}
	assert.InDelta(t, HaversineKm(a, b), HaversineKm(b, a), 0.0001)
}

func TestPrecisionRadiusKm(t *testing.T) {
	assert.Equal(t, 1.22, PrecisionRadiusKm(6))
	assert.Equal(t, PrecisionRadiusKm(1), PrecisionRadiusKm(-3))
	assert.Equal(t, PrecisionRadiusKm(9), PrecisionRadiusKm(20))

	prev := math.Inf(1)
	for p := 1; p <= 9; p++ {
		r := PrecisionRadiusKm(p)
		assert.Less(t, r, prev, "radius must shrink as precision grows (p=%d)", p)
		prev = r
	}
}

func TestSortByDistance(t *testing.T) {
	type hit struct {
		id   string
		dist float64
	}
	items := []hit{{"c", 5.0}, {"a", 1.0}, {"b", 3.0}}

	SortByDistance(items, func(h hit) float64 { return h.dist })

	assert.Equal(t, []hit{{"a", 1.0}, {"b", 3.0}, {"c", 5.0}}, items)
}

func TestSortByDistance_EmptyAndSingle(t *testing.T) {
	var none []float64
	SortByDistance(none, func(f float64) float64 { return f })
	assert.Empty(t, none)

	one := []float64{2}
	SortByDistance(one, func(f float64) float64 { return f })
	assert.Equal(t, []float64{2}, one)
}
