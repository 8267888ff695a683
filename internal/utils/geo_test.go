package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistanceKm(t *testing.T) {
	t.Run("known city pair", func(t *testing.T) {
		// Bangalore city center to Electronic City, roughly 14.5 km.
		d := HaversineDistanceKm(12.9716, 77.5946, 12.8452, 77.6602)
		assert.InDelta(t, 15.6, d, 2.0)
	})

	t.Run("zero for identical points", func(t *testing.T) {
		assert.Equal(t, 0.0, HaversineDistanceKm(12.9716, 77.5946, 12.9716, 77.5946))
	})

	t.Run("symmetric", func(t *testing.T) {
		forward := HaversineDistanceKm(12.9716, 77.5946, 13.1986, 77.7066)
		backward := HaversineDistanceKm(13.1986, 77.7066, 12.9716, 77.5946)
		assert.InDelta(t, forward, backward, 1e-9)
	})

	t.Run("approximately consistent with triangle inequality", func(t *testing.T) {
		a := HaversineDistanceKm(12.9716, 77.5946, 13.0827, 80.2707)
		b := HaversineDistanceKm(13.0827, 80.2707, 17.3850, 78.4867)
		c := HaversineDistanceKm(12.9716, 77.5946, 17.3850, 78.4867)
		assert.LessOrEqual(t, c, a+b+0.001)
	})
}

func TestIsOnRouteCorridor(t *testing.T) {
	// Bangalore to Mysore, about 125 km apart.
	startLat, startLng := 12.9716, 77.5946
	endLat, endLng := 12.2958, 76.6394

	t.Run("point near the midpoint passes", func(t *testing.T) {
		assert.True(t, IsOnRouteCorridor(startLat, startLng, endLat, endLng, 12.6, 77.1, 50))
	})

	t.Run("point far off the route fails", func(t *testing.T) {
		// Chennai is nowhere near the Bangalore-Mysore corridor.
		assert.False(t, IsOnRouteCorridor(startLat, startLng, endLat, endLng, 13.0827, 80.2707, 50))
	})

	t.Run("degenerate route accepts nearby points only", func(t *testing.T) {
		// Start == end: deviation collapses to twice the distance to the point.
		assert.True(t, IsOnRouteCorridor(startLat, startLng, startLat, startLng, startLat, startLng, 1))
		assert.False(t, IsOnRouteCorridor(startLat, startLng, startLat, startLng, endLat, endLng, 50))
	})

	t.Run("endpoints always pass", func(t *testing.T) {
		assert.True(t, IsOnRouteCorridor(startLat, startLng, endLat, endLng, startLat, startLng, 0.001))
		assert.True(t, IsOnRouteCorridor(startLat, startLng, endLat, endLng, endLat, endLng, 0.001))
	})
}

func TestIsWithinRadius(t *testing.T) {
	assert.True(t, IsWithinRadius(12.9716, 77.5946, 12.9750, 77.5990, 1))
	assert.False(t, IsWithinRadius(12.9716, 77.5946, 13.1986, 77.7066, 10))
}

func TestEstimateDurationSeconds(t *testing.T) {
	// 40 km at 40 km/h is one hour.
	assert.Equal(t, 3600, EstimateDurationSeconds(40000, 40))
	// Zero speed falls back to the default city speed.
	assert.Equal(t, 3600, EstimateDurationSeconds(40000, 0))
}
