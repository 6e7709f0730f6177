package company

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"join/internal/types"
)

type stubSource struct {
	companies []Company
	err       error
}

func (s stubSource) ListCompanies(context.Context) ([]Company, error) {
	out := make([]Company, len(s.companies))
	copy(out, s.companies)
	return out, s.err
}

var directory = []Company{
	{ID: "c3", Name: "Umhlanga Works", Location: types.Point{Lat: -29.7277, Lng: 31.0820}, RideCount: 1},
	{ID: "c1", Name: "Acme Sandton", Location: types.Point{Lat: -26.1076, Lng: 28.0567}, RideCount: 12},
	{ID: "c2", Name: "Braam Labs", Location: types.Point{Lat: -26.1929, Lng: 28.0305}, RideCount: 4},
}

func TestList_SortedByName(t *testing.T) {
	svc := NewService(stubSource{companies: directory})
	got, err := svc.List(context.Background())
	require.NoError(t, err)

	names := []string{got[0].Name, got[1].Name, got[2].Name}
	assert.Equal(t, []string{"Acme Sandton", "Braam Labs", "Umhlanga Works"}, names)
}

func TestNearest(t *testing.T) {
	svc := NewService(stubSource{companies: directory})
	cbd := types.Point{Lat: -26.2041, Lng: 28.0473}

	got, err := svc.Nearest(context.Background(), cbd, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, types.ID("c2"), got[0].ID)
	assert.Equal(t, types.ID("c1"), got[1].ID)
	assert.InDelta(t, 10.77, got[1].DistanceKm, 0.01)

	all, err := svc.Nearest(context.Background(), cbd, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = svc.Nearest(context.Background(), types.Point{Lat: -95}, 1)
	assert.ErrorIs(t, err, ErrInvalidPoint)
}

func TestList_SourceError(t *testing.T) {
	svc := NewService(stubSource{err: errors.New("permission denied")})
	_, err := svc.List(context.Background())
	assert.EqualError(t, err, "permission denied")
}

func TestDecodeCompany(t *testing.T) {
	full := map[string]any{"name": "Acme", "latitude": -26.1, "longitude": 28.0, "rideCount": 3.0}

	c, ok := decodeCompany("c1", full)
	require.True(t, ok)
	assert.Equal(t, 3, c.RideCount)
	assert.Equal(t, types.Point{Lat: -26.1, Lng: 28.0}, c.Location)

	for _, key := range []string{"name", "latitude", "longitude", "rideCount"} {
		partial := map[string]any{}
		for k, v := range full {
			if k != key {
				partial[k] = v
			}
		}
		_, ok := decodeCompany("c1", partial)
		assert.False(t, ok, "missing %s", key)
	}

	_, ok = decodeCompany("c1", map[string]any{"name": "Acme", "latitude": -26.1, "longitude": 28.0, "rideCount": 2.5})
	assert.False(t, ok, "fractional ride count")
	_, ok = decodeCompany("c1", "not an object")
	assert.False(t, ok)
}
