package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const landCollection = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"name": "west"},
     "geometry": {"type": "Polygon", "coordinates": [[[-100, 10], [-80, 10], [-80, 30], [-100, 30], [-100, 10]]]}},
    {"type": "Feature", "properties": {"name": "east"},
     "geometry": {"type": "MultiPolygon", "coordinates": [
       [[[10, -10], [20, -10], [20, 0], [10, 0], [10, -10]]],
       [[[150, 40], [170, 40], [170, 50], [150, 50], [150, 40]]]
     ]}},
    {"type": "Feature", "properties": {"name": "marker"},
     "geometry": {"type": "Point", "coordinates": [0, 0]}}
  ]
}`

const coastLines = `{
  "type": "Feature",
  "properties": {},
  "geometry": {"type": "MultiLineString", "coordinates": [
    [[-100, 10], [-80, 10]],
    [[150, 40], [170, 50]]
  ]}
}`

func TestParseDerivesCoastlines(t *testing.T) {
	d, err := Parse([]byte(landCollection), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, d.LandCount())
	assert.Equal(t, 3, d.CoastCount())
}

func TestParseWithCoastlines(t *testing.T) {
	d, err := Parse([]byte(landCollection), []byte(coastLines))
	require.NoError(t, err)
	assert.Equal(t, 3, d.LandCount())
	assert.Equal(t, 2, d.CoastCount())
}

func TestParseBareGeometry(t *testing.T) {
	d, err := Parse([]byte(`{"type": "Polygon", "coordinates": [[[0, 0], [1, 0], [1, 1], [0, 0]]]}`), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, d.LandCount())
}

func TestQuery(t *testing.T) {
	d, err := Parse([]byte(landCollection), []byte(coastLines))
	require.NoError(t, err)

	land, coast := d.Query(orb.Bound{Min: orb.Point{-120, -90}, Max: orb.Point{-60, 90}})
	assert.Len(t, land, 1)
	assert.Len(t, coast, 1)

	land, coast = d.Query(orb.Bound{Min: orb.Point{0, -90}, Max: orb.Point{60, 90}})
	assert.Len(t, land, 1)
	assert.Empty(t, coast)

	land, coast = d.Query(orb.Bound{Min: orb.Point{-180, -90}, Max: orb.Point{180, 90}})
	assert.Len(t, land, 3)
	assert.Len(t, coast, 2)

	land, coast = d.Query(orb.Bound{Min: orb.Point{30, 60}, Max: orb.Point{40, 70}})
	assert.Empty(t, land)
	assert.Empty(t, coast)
}

func TestParseRejectsMalformed(t *testing.T) {
	tests := map[string]string{
		"not json":       `{"type": `,
		"no type":        `{"coordinates": []}`,
		"short ring":     `{"type": "Polygon", "coordinates": [[[0, 0], [1, 0], [0, 0]]]}`,
		"bad latitude":   `{"type": "Polygon", "coordinates": [[[0, 0], [1, 0], [1, 95], [0, 0]]]}`,
		"bad geometry":   `{"type": "Polygon", "coordinates": "nope"}`,
		"only points":    `{"type": "Point", "coordinates": [1, 2]}`,
		"bad feature":    `{"type": "Feature", "geometry": {"type": "Polygon", "coordinates": 3}}`,
		"bad collection": `{"type": "FeatureCollection", "features": 3}`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc), nil)
			assert.Error(t, err)
		})
	}

	_, err := Parse([]byte(landCollection), []byte(`{"type": "LineString", "coordinates": [[0, 0]]}`))
	assert.ErrorIs(t, err, ErrMalformedGeometry)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	landPath := filepath.Join(dir, "land.geojson")
	coastPath := filepath.Join(dir, "coast.geojson")
	require.NoError(t, os.WriteFile(landPath, []byte(landCollection), 0o644))
	require.NoError(t, os.WriteFile(coastPath, []byte(coastLines), 0o644))

	d, err := Load(landPath, coastPath)
	require.NoError(t, err)
	assert.Equal(t, 2, d.CoastCount())

	_, err = Load(filepath.Join(dir, "missing.geojson"), "")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(landPath, filepath.Join(dir, "missing.geojson"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
