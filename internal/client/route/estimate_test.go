package route

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestBetweenIdenticalPoints(t *testing.T) {
	sultanahmet := orb.Point{28.9784, 41.0082}

	est := Between(sultanahmet, sultanahmet)

	assert.Equal(t, "0.0 km", FormatDistance(est.DistanceKm))
	assert.Equal(t, "0 dakika", FormatDuration(est.DurationMinutes))
}

func TestDistanceIstanbulAnkara(t *testing.T) {
	istanbul := orb.Point{28.9784, 41.0082}
	ankara := orb.Point{32.8597, 39.9334}

	distance := Distance(istanbul, ankara)

	// Great-circle distance is roughly 350 km.
	assert.InDelta(t, 350, distance, 5)
}

func TestDistanceNonFiniteInput(t *testing.T) {
	valid := orb.Point{28.9784, 41.0082}

	assert.True(t, math.IsNaN(Distance(orb.Point{math.NaN(), 41}, valid)))
	assert.True(t, math.IsNaN(Distance(valid, orb.Point{29, math.Inf(1)})))
}

func TestDuration(t *testing.T) {
	assert.InDelta(t, 60, Duration(50), 1e-9)
	assert.InDelta(t, 30, Duration(25), 1e-9)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes float64
		want    string
	}{
		{0, "0 dakika"},
		{42.4, "42 dakika"},
		{60, "1 saat"},
		{70, "1 saat 10 dakika"},
		{125, "2 saat 5 dakika"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.minutes))
	}
}
