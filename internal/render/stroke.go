package render

import (
	"math"

	"golang.org/x/image/vector"
)

// capSegments is the number of sides used for round joins and caps.
const capSegments = 12

// strokeWidthPixels converts a coastline stroke setting into pixels. The
// setting is halved and read as points at 100 dpi.
func strokeWidthPixels(stroke int) float64 {
	return float64(stroke) / 2 * 100 / 72
}

// strokePolyline adds the outline of a polyline of the given pixel width to z
// as one quad per segment plus a disc at every vertex. All pieces share the
// same winding so overlaps saturate instead of cancelling.
func strokePolyline(z *vector.Rasterizer, pts [][2]float64, width float64) {
	hw := width / 2
	if hw <= 0 || len(pts) == 0 {
		return
	}

	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		dx, dy := b[0]-a[0], b[1]-a[1]
		l := math.Hypot(dx, dy)
		if l == 0 {
			continue
		}
		nx, ny := -dy/l*hw, dx/l*hw

		z.MoveTo(float32(a[0]+nx), float32(a[1]+ny))
		z.LineTo(float32(b[0]+nx), float32(b[1]+ny))
		z.LineTo(float32(b[0]-nx), float32(b[1]-ny))
		z.LineTo(float32(a[0]-nx), float32(a[1]-ny))
		z.ClosePath()
	}

	for _, p := range pts {
		addDisc(z, p, hw)
	}
}

// addDisc adds a polygonal disc wound the same way as the segment quads.
func addDisc(z *vector.Rasterizer, c [2]float64, r float64) {
	z.MoveTo(float32(c[0]+r), float32(c[1]))
	for k := 1; k < capSegments; k++ {
		theta := -2 * math.Pi * float64(k) / capSegments
		z.LineTo(float32(c[0]+r*math.Cos(theta)), float32(c[1]+r*math.Sin(theta)))
	}
	z.ClosePath()
}
