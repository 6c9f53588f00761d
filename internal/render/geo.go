package render

import (
	"math"

	"github.com/paulmach/orb"

	"hstin/globegores/internal/config"
)

// DensifyStep is the longest edge, in degrees, left between two geographic
// vertices before projection. Straight lon/lat edges become curves in the
// sinusoidal plane, so long edges are split first.
const DensifyStep = 1.0

const deg2rad = math.Pi / 180.0

// Project maps a geographic coordinate onto the sinusoidal plane centred on
// centralMeridian. Output is in metres.
func Project(lon, lat, centralMeridian float64) (x, y float64) {
	lambda := normalizeLon(lon-centralMeridian) * deg2rad
	phi := lat * deg2rad
	return config.EarthRadius * lambda * math.Cos(phi), config.EarthRadius * phi
}

// Unproject is the inverse of Project. At the poles every x maps to the
// central meridian.
func Unproject(x, y, centralMeridian float64) (lon, lat float64) {
	phi := y / config.EarthRadius
	lat = phi / deg2rad
	c := math.Cos(phi)
	if c < 1e-12 {
		return centralMeridian, lat
	}
	return centralMeridian + x/(config.EarthRadius*c)/deg2rad, lat
}

// Projection returns Project bound to centralMeridian, for use with
// github.com/paulmach/orb/project.
func Projection(centralMeridian float64) orb.Projection {
	return func(p orb.Point) orb.Point {
		x, y := Project(p.Lon(), p.Lat(), centralMeridian)
		return orb.Point{x, y}
	}
}

// normalizeLon wraps d into [-180, 180).
func normalizeLon(d float64) float64 {
	d = math.Mod(d+180, 360)
	if d < 0 {
		d += 360
	}
	return d - 180
}

// densify returns a copy of pts where no two consecutive points are more than
// step degrees apart in either axis.
func densify(pts []orb.Point, step float64) []orb.Point {
	if len(pts) < 2 {
		return append([]orb.Point(nil), pts...)
	}

	out := make([]orb.Point, 0, len(pts))
	out = append(out, pts[0])
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		span := math.Max(math.Abs(b[0]-a[0]), math.Abs(b[1]-a[1]))
		n := int(math.Ceil(span / step))
		for k := 1; k < n; k++ {
			t := float64(k) / float64(n)
			out = append(out, orb.Point{a[0] + t*(b[0]-a[0]), a[1] + t*(b[1]-a[1])})
		}
		out = append(out, b)
	}
	return out
}

// shiftPolygon returns a copy of p moved east by dlon degrees.
func shiftPolygon(p orb.Polygon, dlon float64) orb.Polygon {
	out := make(orb.Polygon, len(p))
	for i, r := range p {
		out[i] = orb.Ring(shiftPoints(r, dlon))
	}
	return out
}

// shiftLine returns a copy of ls moved east by dlon degrees.
func shiftLine(ls orb.LineString, dlon float64) orb.LineString {
	return orb.LineString(shiftPoints(ls, dlon))
}

func shiftPoints(pts []orb.Point, dlon float64) []orb.Point {
	out := make([]orb.Point, len(pts))
	for i, p := range pts {
		out[i] = orb.Point{p[0] + dlon, p[1]}
	}
	return out
}
