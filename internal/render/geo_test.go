package render

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/project"
	"github.com/stretchr/testify/assert"

	"hstin/globegores/internal/config"
)

func TestProjectCentralMeridianIsStraight(t *testing.T) {
	for _, cm := range []float64{-150, 0, 30, 149.99} {
		for lat := -90.0; lat <= 90; lat += 15 {
			x, y := Project(cm, lat, cm)
			assert.InDelta(t, 0, x, 1e-6)
			assert.InDelta(t, config.EarthRadius*lat*math.Pi/180, y, 1e-6)
		}
	}
}

func TestProjectParallelsAreStraight(t *testing.T) {
	_, y0 := Project(-30, 40, 0)
	for lon := -30.0; lon <= 30; lon += 5 {
		_, y := Project(lon, 40, 0)
		assert.Equal(t, y0, y)
	}
}

func TestProjectMeridiansCurve(t *testing.T) {
	xEq, _ := Project(30, 0, 0)
	x60, _ := Project(30, 60, 0)
	xPole, _ := Project(30, 90, 0)
	assert.InDelta(t, config.EarthRadius*math.Pi/6, xEq, 1e-6)
	assert.InDelta(t, xEq/2, x60, 1e-6)
	assert.InDelta(t, 0, xPole, 1e-6)
}

func TestProjectWrapsLongitude(t *testing.T) {
	x1, _ := Project(-170, 10, 170)
	x2, _ := Project(20, 10, 0)
	assert.InDelta(t, x2, x1, 1e-6)
}

func TestUnproject(t *testing.T) {
	for _, p := range [][2]float64{{10, 20}, {-25, -70}, {0, 0}, {29.9, 89}} {
		x, y := Project(p[0]+100, p[1], 100)
		lon, lat := Unproject(x, y, 100)
		assert.InDelta(t, p[0]+100, lon, 1e-9)
		assert.InDelta(t, p[1], lat, 1e-9)
	}
}

func TestProjectPreservesArea(t *testing.T) {
	cell := func(lon0, lat0, size float64) (projected, spherical float64) {
		r := orb.Ring{{lon0, lat0}, {lon0 + size, lat0}, {lon0 + size, lat0 + size}, {lon0, lat0 + size}, {lon0, lat0}}
		dense := orb.Ring(densify(r, 0.05))
		projected = math.Abs(planar.Area(project.Ring(dense, Projection(0))))
		spherical = config.EarthRadius * config.EarthRadius * size * deg2rad *
			(math.Sin((lat0+size)*deg2rad) - math.Sin(lat0*deg2rad))
		return projected, spherical
	}

	aProj, aSphere := cell(0, 0, 10)
	bProj, bSphere := cell(50, 50, 10)
	assert.InEpsilon(t, aSphere, aProj, 1e-3)
	assert.InEpsilon(t, bSphere, bProj, 1e-3)
	assert.InEpsilon(t, aSphere/bSphere, aProj/bProj, 1e-3)
}

func TestNormalizeLon(t *testing.T) {
	assert.Equal(t, 0.0, normalizeLon(360))
	assert.Equal(t, -180.0, normalizeLon(180))
	assert.Equal(t, 170.0, normalizeLon(-190))
	assert.Equal(t, 30.0, normalizeLon(30))
}

func TestDensify(t *testing.T) {
	out := densify([]orb.Point{{0, 0}, {3, 0}, {3, 0.5}}, 1)
	assert.Equal(t, []orb.Point{{0, 0}, {1, 0}, {2, 0}, {3, 0}, {3, 0.5}}, out)

	single := []orb.Point{{1, 1}}
	assert.Equal(t, single, densify(single, 1))
}

func TestShiftCopies(t *testing.T) {
	p := orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}
	s := shiftPolygon(p, 360)
	assert.Equal(t, orb.Point{360, 0}, s[0][0])
	assert.Equal(t, orb.Point{0, 0}, p[0][0])

	ls := orb.LineString{{10, 5}, {20, 5}}
	assert.Equal(t, orb.LineString{{-350, 5}, {-340, 5}}, shiftLine(ls, -360))
}
