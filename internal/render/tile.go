package render

import (
	"fmt"
	"image"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"
	"github.com/paulmach/orb/project"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"hstin/globegores/internal/colormap"
	"hstin/globegores/internal/gore"
)

// FeatureSource provides land polygons and coastlines in longitude/latitude.
// Implementations must allow concurrent queries.
type FeatureSource interface {
	Query(b orb.Bound) ([]orb.Polygon, []orb.LineString)
}

// frame maps the gore's sinusoidal plane onto tile pixels with a single
// scale, keeping the lens centred in the tile.
type frame struct {
	scale  float64
	cx, cy float64
}

func newFrame(b Boundary, w, h int) frame {
	lw, lh := b.Size()
	return frame{
		scale: math.Min(float64(w)/lw, float64(h)/lh),
		cx:    float64(w) / 2,
		cy:    float64(h) / 2,
	}
}

func (f frame) pixel(p orb.Point) [2]float64 {
	return [2]float64{f.cx + p[0]*f.scale, f.cy - p[1]*f.scale}
}

// plane is the inverse of pixel.
func (f frame) plane(px, py float64) (x, y float64) {
	return (px - f.cx) / f.scale, (f.cy - py) / f.scale
}

func (f frame) addRing(z *vector.Rasterizer, r orb.Ring) {
	for i, p := range r {
		q := f.pixel(p)
		if i == 0 {
			z.MoveTo(float32(q[0]), float32(q[1]))
		} else {
			z.LineTo(float32(q[0]), float32(q[1]))
		}
	}
	z.ClosePath()
}

// RenderGore draws the land and coastlines of one gore into a new tile.
// Geometry is clipped to the gore before it is drawn, so nothing outside the
// boundary lens is inked.
func RenderGore(spec gore.Spec, src FeatureSource, pal colormap.Palette) (*image.RGBA, error) {
	w, h := spec.TileSize()
	tile := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(tile, tile.Bounds(), image.NewUniform(pal.Background), image.Point{}, draw.Src)

	bnd, err := NewBoundary(spec)
	if err != nil {
		return nil, err
	}
	if w == 0 || h == 0 {
		return tile, nil
	}

	f := newFrame(bnd, w, h)
	extent := bnd.GeoBound()
	proj := Projection(spec.CentralMeridian)

	land, coast := queryWrapped(src, extent)

	fill := vector.NewRasterizer(w, h)
	inked := false
	for _, poly := range land {
		clipped := clip.Polygon(extent, poly)
		for i, r := range clipped {
			if len(r) < 3 {
				continue
			}
			ring := orb.Ring(densify(closeRing(r), DensifyStep))
			ring = bnd.ClipRing(project.Ring(ring, proj))
			if ring == nil {
				continue
			}
			orientRing(ring, i == 0)
			f.addRing(fill, ring)
			inked = true
		}
	}
	if inked {
		fill.Draw(tile, tile.Bounds(), image.NewUniform(pal.Land), image.Point{})
	}

	width := strokeWidthPixels(spec.StrokeWidth)
	if width <= 0 || len(coast) == 0 {
		return tile, nil
	}

	stroke := vector.NewRasterizer(w, h)
	inked = false
	for _, ls := range coast {
		for _, part := range clip.LineString(extent, ls) {
			if len(part) < 2 {
				continue
			}
			line := orb.LineString(densify(part, DensifyStep))
			line = project.LineString(line, proj)

			pts := make([][2]float64, len(line))
			for i, p := range line {
				pts[i] = f.pixel(p)
			}
			strokePolyline(stroke, pts, width)
			inked = true
		}
	}
	if !inked {
		return tile, nil
	}

	ink := image.NewAlpha(tile.Bounds())
	stroke.Draw(ink, ink.Bounds(), image.Opaque, image.Point{})

	// strokes straddle the edge meridians; keep only the part inside the lens
	lens := vector.NewRasterizer(w, h)
	f.addRing(lens, bnd.Ring())
	mask := image.NewAlpha(tile.Bounds())
	lens.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	for i, a := range ink.Pix {
		ink.Pix[i] = uint8(uint16(a) * uint16(mask.Pix[i]) / 255)
	}

	draw.DrawMask(tile, tile.Bounds(), image.NewUniform(pal.Coast), image.Point{}, ink, image.Point{}, draw.Over)
	return tile, nil
}

// queryWrapped fetches the features overlapping extent, including copies of
// features stored a full turn east or west of it, already shifted into the
// extent's longitude range.
func queryWrapped(src FeatureSource, extent orb.Bound) ([]orb.Polygon, []orb.LineString) {
	var (
		land  []orb.Polygon
		coast []orb.LineString
	)
	for _, turn := range []float64{0, -360, 360} {
		q := orb.Bound{
			Min: orb.Point{extent.Min[0] - turn, extent.Min[1]},
			Max: orb.Point{extent.Max[0] - turn, extent.Max[1]},
		}
		l, c := src.Query(q)
		for _, p := range l {
			land = append(land, shiftPolygon(p, turn))
		}
		for _, ls := range c {
			coast = append(coast, shiftLine(ls, turn))
		}
	}
	return land, coast
}

func closeRing(r orb.Ring) orb.Ring {
	if r[0] != r[len(r)-1] {
		return append(r[:len(r):len(r)], r[0])
	}
	return r
}

// orientRing winds outer rings counter clockwise and holes clockwise so the
// rasterizer's accumulated coverage cancels inside holes.
func orientRing(r orb.Ring, outer bool) {
	want := orb.CW
	if outer {
		want = orb.CCW
	}
	if r.Orientation() != want {
		r.Reverse()
	}
}

// checkTile guards the composer against tiles of the wrong size.
func checkTile(t *image.RGBA, w, h int) error {
	if t == nil {
		return fmt.Errorf("%w: missing tile", ErrTileMismatch)
	}
	if b := t.Bounds(); b.Dx() != w || b.Dy() != h {
		return fmt.Errorf("%w: got %dx%d, want %dx%d", ErrTileMismatch, b.Dx(), b.Dy(), w, h)
	}
	return nil
}
