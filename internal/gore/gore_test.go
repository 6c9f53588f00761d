package gore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validWidths = []int{15, 20, 30, 40, 60, 90, 120}

func TestPlanCoversGlobe(t *testing.T) {
	for _, deg := range validWidths {
		specs, err := Plan(deg, 100, 2)
		require.NoError(t, err, "width %d", deg)
		require.Len(t, specs, 360/deg)

		sum := 0.0
		for i, s := range specs {
			assert.Equal(t, i, s.Index)
			assert.Equal(t, float64(deg)/2, s.HalfWidth)
			assert.Equal(t, 100, s.PixelWidth)
			assert.Equal(t, 2, s.StrokeWidth)
			sum += 2 * s.HalfWidth
		}
		assert.Equal(t, 360.0, sum, "width %d", deg)
	}
}

func TestPlanMeridianSpacing(t *testing.T) {
	for _, deg := range validWidths {
		specs, err := Plan(deg, 10, 0)
		require.NoError(t, err)

		assert.InDelta(t, -180+float64(deg)/2, specs[0].CentralMeridian, 1e-12)
		n := len(specs)
		for i := 1; i < n-1; i++ {
			assert.InDelta(t, float64(deg), specs[i].CentralMeridian-specs[i-1].CentralMeridian, 1e-9)
		}
		last := specs[n-1].CentralMeridian - specs[n-2].CentralMeridian
		assert.InDelta(t, float64(deg)-Epsilon, last, 1e-9, "width %d", deg)
		assert.Less(t, specs[n-1].East(), 180.0)
	}
}

func TestPlanEdgeCounts(t *testing.T) {
	specs, err := Plan(120, 500, 4)
	require.NoError(t, err)
	assert.Len(t, specs, 3)

	specs, err = Plan(15, 500, 4)
	require.NoError(t, err)
	assert.Len(t, specs, 24)
}

func TestPlanRejects(t *testing.T) {
	for _, deg := range []int{0, 7, 14, 50, 121, 180, 360, -60} {
		_, err := Plan(deg, 500, 4)
		assert.True(t, errors.Is(err, ErrInvalidGoreWidth), "width %d", deg)
	}

	_, err := Plan(60, -10, 4)
	assert.ErrorIs(t, err, ErrInvalidPixelWidth)
}

func TestTileSize(t *testing.T) {
	w, h := Spec{PixelWidth: 501}.TileSize()
	assert.Equal(t, 501, w)
	assert.Equal(t, 250, h)
}

func TestEdges(t *testing.T) {
	s := Spec{CentralMeridian: 0, HalfWidth: 30}
	assert.Equal(t, -30.0, s.West())
	assert.Equal(t, 30.0, s.East())
}
