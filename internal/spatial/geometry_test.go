package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCentroid(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, ok := Centroid(nil)
		assert.False(t, ok)
	})

	t.Run("single point is itself", func(t *testing.T) {
		c, ok := Centroid([]Point{{Lat: 35.6595, Lon: 139.7005}})
		require.True(t, ok)
		assert.InDelta(t, 35.6595, c.Lat, 1e-9)
		assert.InDelta(t, 139.7005, c.Lon, 1e-9)
	})

	t.Run("symmetric points on the equator", func(t *testing.T) {
		c, ok := Centroid([]Point{{Lat: 0, Lon: -10}, {Lat: 0, Lon: 10}})
		require.True(t, ok)
		assert.InDelta(t, 0, c.Lat, 1e-9)
		assert.InDelta(t, 0, c.Lon, 1e-9)
	})

	t.Run("across the antimeridian", func(t *testing.T) {
		c, ok := Centroid([]Point{{Lat: 0, Lon: 179}, {Lat: 0, Lon: -179}})
		require.True(t, ok)
		assert.InDelta(t, 180, abs(c.Lon), 1e-9)
	})
}

func TestMaxDistanceFrom(t *testing.T) {
	center := Point{Lat: 0, Lon: 0}
	points := []Point{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}}

	// one degree of arc on the mean sphere
	assert.InDelta(t, 111194.9, MaxDistanceFrom(center, points), 1)
	assert.Zero(t, MaxDistanceFrom(center, nil))
}

func TestPointValid(t *testing.T) {
	assert.True(t, Point{Lat: 45, Lon: 90}.Valid())
	assert.False(t, Point{Lat: 95, Lon: 0}.Valid())
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
