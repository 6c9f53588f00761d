package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"hstin/globegores/internal/config"
	"hstin/globegores/internal/gore"
)

// BoundaryStep is the latitude spacing, in degrees, of the sampled edge meridians.
const BoundaryStep = 0.5

var ErrInvalidBoundary = errors.New("invalid gore boundary")

// Boundary is the lens-shaped region a gore covers in its own sinusoidal
// plane: the two edge meridians traced pole to pole. The ring runs counter
// clockwise, up the eastern edge and down the western one.
type Boundary struct {
	spec gore.Spec
	ring orb.Ring
}

// NewBoundary traces the edge meridians of spec.
func NewBoundary(spec gore.Spec) (Boundary, error) {
	if !(spec.HalfWidth > 0) || spec.HalfWidth >= 180 {
		return Boundary{}, fmt.Errorf("%w: half width %g", ErrInvalidBoundary, spec.HalfWidth)
	}

	n := int(math.Round(180 / BoundaryStep))
	ring := make(orb.Ring, 0, 2*n+1)
	for i := 0; i <= n; i++ {
		lat := -90 + float64(i)*BoundaryStep
		x, y := Project(spec.East(), lat, spec.CentralMeridian)
		ring = append(ring, orb.Point{x, y})
	}
	// the poles are shared with the eastern edge
	for i := n - 1; i >= 1; i-- {
		lat := -90 + float64(i)*BoundaryStep
		x, y := Project(spec.West(), lat, spec.CentralMeridian)
		ring = append(ring, orb.Point{x, y})
	}
	ring = append(ring, ring[0])

	return Boundary{spec: spec, ring: ring}, nil
}

// Ring returns the projected boundary. It must not be modified.
func (b Boundary) Ring() orb.Ring { return b.ring }

// GeoBound is the gore's extent in longitude and latitude.
func (b Boundary) GeoBound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.spec.West(), -90},
		Max: orb.Point{b.spec.East(), 90},
	}
}

// Size returns the width and height of the lens in metres.
func (b Boundary) Size() (width, height float64) {
	return 2 * config.EarthRadius * b.spec.HalfWidth * deg2rad, math.Pi * config.EarthRadius
}

// Contains reports whether the planar point lies inside the exact (unsampled) lens.
func (b Boundary) Contains(x, y float64) bool {
	phi := y / config.EarthRadius
	if math.Abs(phi) > math.Pi/2 {
		return false
	}
	return math.Abs(x) <= config.EarthRadius*b.spec.HalfWidth*deg2rad*math.Cos(phi)
}

// ClipRing intersects a closed planar ring with the lens. The lens is convex
// so a single Sutherland-Hodgman pass is exact. Nil means nothing is left.
func (b Boundary) ClipRing(r orb.Ring) orb.Ring {
	pts := []orb.Point(r)
	if len(pts) > 1 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}

	for i := 0; i+1 < len(b.ring) && len(pts) > 0; i++ {
		a, c := b.ring[i], b.ring[i+1]
		if a == c {
			continue
		}

		in := pts
		pts = make([]orb.Point, 0, len(in)+4)
		prev := in[len(in)-1]
		prevInside := side(a, c, prev) >= 0
		for _, p := range in {
			inside := side(a, c, p) >= 0
			if inside != prevInside {
				pts = append(pts, intersect(a, c, prev, p))
			}
			if inside {
				pts = append(pts, p)
			}
			prev, prevInside = p, inside
		}
	}

	if len(pts) < 3 {
		return nil
	}
	out := make(orb.Ring, 0, len(pts)+1)
	out = append(out, pts...)
	return append(out, pts[0])
}

// side is positive when p is left of the directed line a->c.
func side(a, c, p orb.Point) float64 {
	return (c[0]-a[0])*(p[1]-a[1]) - (c[1]-a[1])*(p[0]-a[0])
}

// intersect returns where segment p-q crosses the line through a and c.
func intersect(a, c, p, q orb.Point) orb.Point {
	dp, dq := side(a, c, p), side(a, c, q)
	t := dp / (dp - dq)
	return orb.Point{p[0] + t*(q[0]-p[0]), p[1] + t*(q[1]-p[1])}
}
