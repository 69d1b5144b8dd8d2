package directions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/skema/directions"
)

func TestGeometry_Positions(t *testing.T) {
	g := directions.Geometry{Coordinates: [][]float64{{1, 2}, {3}, {-1, 5}}}
	assert.Equal(t, []directions.Position{{Lon: 1, Lat: 2}, {Lon: -1, Lat: 5}}, g.Positions())

	b, ok := g.Bounds()
	require.True(t, ok)
	assert.Equal(t, directions.Position{Lon: -1, Lat: 2}, b.SouthWest)
	assert.Equal(t, directions.Position{Lon: 1, Lat: 5}, b.NorthEast)

	_, ok = directions.Geometry{}.Bounds()
	assert.False(t, ok)
}

func TestWaypoint_Position(t *testing.T) {
	p, ok := directions.Waypoint{Location: []float64{-3.7, 40.4}}.Position()
	require.True(t, ok)
	assert.Equal(t, directions.Position{Lon: -3.7, Lat: 40.4}, p)

	_, ok = directions.Waypoint{}.Position()
	assert.False(t, ok)
}

func TestResponse_BestAndBounds(t *testing.T) {
	resp, err := directions.Decode(loadFixture(t))
	require.NoError(t, err)

	best, ok := resp.Best()
	require.True(t, ok)
	assert.Equal(t, "auto", best.WeightName)

	b, ok := resp.Bounds()
	require.True(t, ok)
	assert.InDelta(t, -3.703831, b.SouthWest.Lon, 1e-9)
	assert.InDelta(t, 40.416611, b.SouthWest.Lat, 1e-9)
	assert.InDelta(t, -3.692001, b.NorthEast.Lon, 1e-9)
	assert.InDelta(t, 40.419511, b.NorthEast.Lat, 1e-9)

	_, ok = directions.Response{}.Best()
	assert.False(t, ok)
}
