// Package dataset loads land polygons and coastline linestrings from GeoJSON
// and serves them through a spatial index. A Dataset is never modified after
// Parse returns, so it may be queried from many goroutines at once.
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"slices"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

var (
	ErrMalformedGeometry = errors.New("malformed geometry")
	ErrEmpty             = errors.New("no land polygons found")
)

type Dataset struct {
	land  []orb.Polygon
	coast []orb.LineString
	tree  *rtreego.Rtree
}

// indexedFeature wraps a polygon or linestring for R-tree storage.
type indexedFeature struct {
	land  int // index into Dataset.land, -1 for coastlines
	coast int // index into Dataset.coast, -1 for land
	bound orb.Bound
}

// Bounds implements rtreego.Spatial.
func (f *indexedFeature) Bounds() rtreego.Rect {
	return toRect(f.bound)
}

func toRect(b orb.Bound) rtreego.Rect {
	// R-tree rectangles need non-zero extent
	const epsilon = 0.0001
	lonLength := math.Max(b.Max.Lon()-b.Min.Lon(), epsilon)
	latLength := math.Max(b.Max.Lat()-b.Min.Lat(), epsilon)

	rect, _ := rtreego.NewRect(rtreego.Point{b.Min.Lon(), b.Min.Lat()}, []float64{lonLength, latLength})
	return rect
}

// Load reads the land file and, if coastPath is not empty, the coastline file.
func Load(landPath, coastPath string) (*Dataset, error) {
	land, err := os.ReadFile(landPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read land data: %w", err)
	}

	var coast []byte
	if coastPath != "" {
		coast, err = os.ReadFile(coastPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read coastline data: %w", err)
		}
	}

	return Parse(land, coast)
}

// Parse decodes GeoJSON land and coastline documents. When coast is empty the
// coastlines are the rings of the land polygons.
func Parse(land, coast []byte) (*Dataset, error) {
	landGeoms, err := decode(land)
	if err != nil {
		return nil, fmt.Errorf("land: %w", err)
	}

	d := &Dataset{}
	for _, g := range landGeoms {
		if err := d.addLand(g); err != nil {
			return nil, fmt.Errorf("land: %w", err)
		}
	}
	if len(d.land) == 0 {
		return nil, ErrEmpty
	}

	if len(coast) == 0 {
		for _, p := range d.land {
			for _, r := range p {
				d.coast = append(d.coast, orb.LineString(r.Clone()))
			}
		}
	} else {
		coastGeoms, err := decode(coast)
		if err != nil {
			return nil, fmt.Errorf("coastline: %w", err)
		}
		for _, g := range coastGeoms {
			if err := d.addCoast(g); err != nil {
				return nil, fmt.Errorf("coastline: %w", err)
			}
		}
	}

	d.buildIndex()
	return d, nil
}

func (d *Dataset) buildIndex() {
	objs := make([]rtreego.Spatial, 0, len(d.land)+len(d.coast))
	for i, p := range d.land {
		objs = append(objs, &indexedFeature{land: i, coast: -1, bound: p.Bound()})
	}
	for i, ls := range d.coast {
		objs = append(objs, &indexedFeature{land: -1, coast: i, bound: ls.Bound()})
	}
	d.tree = rtreego.NewTree(2, 25, 50, objs...)
}

// Query returns the polygons and linestrings whose bounds intersect b. The
// returned geometries are shared and must not be modified.
func (d *Dataset) Query(b orb.Bound) ([]orb.Polygon, []orb.LineString) {
	var hits []*indexedFeature
	for _, s := range d.tree.SearchIntersect(toRect(b)) {
		f := s.(*indexedFeature)
		if f.bound.Intersects(b) {
			hits = append(hits, f)
		}
	}

	// tree order depends on its internal layout; keep results in file order
	slices.SortFunc(hits, func(x, y *indexedFeature) int {
		if x.land != y.land {
			return x.land - y.land
		}
		return x.coast - y.coast
	})

	var (
		land  []orb.Polygon
		coast []orb.LineString
	)
	for _, f := range hits {
		if f.land >= 0 {
			land = append(land, d.land[f.land])
		} else {
			coast = append(coast, d.coast[f.coast])
		}
	}
	return land, coast
}

// LandCount returns the number of land polygons.
func (d *Dataset) LandCount() int { return len(d.land) }

// CoastCount returns the number of coastline linestrings.
func (d *Dataset) CoastCount() int { return len(d.coast) }

func decode(data []byte) ([]orb.Geometry, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedGeometry, err)
	}

	switch head.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedGeometry, err)
		}
		geoms := make([]orb.Geometry, 0, len(fc.Features))
		for _, f := range fc.Features {
			if f.Geometry != nil {
				geoms = append(geoms, f.Geometry)
			}
		}
		return geoms, nil
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedGeometry, err)
		}
		if f.Geometry == nil {
			return nil, nil
		}
		return []orb.Geometry{f.Geometry}, nil
	case "":
		return nil, fmt.Errorf("%w: missing GeoJSON type", ErrMalformedGeometry)
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedGeometry, err)
		}
		return []orb.Geometry{g.Geometry()}, nil
	}
}

func (d *Dataset) addLand(g orb.Geometry) error {
	switch g := g.(type) {
	case orb.Polygon:
		if err := checkPolygon(g); err != nil {
			return err
		}
		d.land = append(d.land, g)
	case orb.MultiPolygon:
		for _, p := range g {
			if err := d.addLand(p); err != nil {
				return err
			}
		}
	case orb.Collection:
		for _, c := range g {
			if err := d.addLand(c); err != nil {
				return err
			}
		}
	default:
		log.Printf("Warning: ignoring %s in land data", g.GeoJSONType())
	}
	return nil
}

func (d *Dataset) addCoast(g orb.Geometry) error {
	switch g := g.(type) {
	case orb.LineString:
		if err := checkLine(g); err != nil {
			return err
		}
		d.coast = append(d.coast, g)
	case orb.MultiLineString:
		for _, ls := range g {
			if err := d.addCoast(ls); err != nil {
				return err
			}
		}
	case orb.Polygon:
		if err := checkPolygon(g); err != nil {
			return err
		}
		for _, r := range g {
			d.coast = append(d.coast, orb.LineString(r))
		}
	case orb.MultiPolygon:
		for _, p := range g {
			if err := d.addCoast(p); err != nil {
				return err
			}
		}
	case orb.Collection:
		for _, c := range g {
			if err := d.addCoast(c); err != nil {
				return err
			}
		}
	default:
		log.Printf("Warning: ignoring %s in coastline data", g.GeoJSONType())
	}
	return nil
}

func checkPolygon(p orb.Polygon) error {
	if len(p) == 0 {
		return fmt.Errorf("%w: polygon without rings", ErrMalformedGeometry)
	}
	for _, r := range p {
		if len(r) < 4 {
			return fmt.Errorf("%w: ring with %d points", ErrMalformedGeometry, len(r))
		}
		if err := checkPoints(r); err != nil {
			return err
		}
	}
	return nil
}

func checkLine(ls orb.LineString) error {
	if len(ls) < 2 {
		return fmt.Errorf("%w: linestring with %d points", ErrMalformedGeometry, len(ls))
	}
	return checkPoints(ls)
}

func checkPoints(pts []orb.Point) error {
	for _, p := range pts {
		lon, lat := p.Lon(), p.Lat()
		if math.IsNaN(lon) || math.IsInf(lon, 0) || math.IsNaN(lat) || math.IsInf(lat, 0) {
			return fmt.Errorf("%w: non-finite coordinate", ErrMalformedGeometry)
		}
		if lat < -90 || lat > 90 {
			return fmt.Errorf("%w: latitude %g out of range", ErrMalformedGeometry, lat)
		}
	}
	return nil
}
