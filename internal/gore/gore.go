// Package gore plans how the globe is cut into equal-width lunes.
package gore

import (
	"errors"
	"fmt"
)

const (
	MinWidth = 15
	MaxWidth = 120

	// Epsilon is subtracted from the last gore's central meridian so its
	// east edge stops short of the antimeridian.
	Epsilon = 0.01
)

var (
	ErrInvalidGoreWidth  = errors.New("invalid gore width")
	ErrInvalidPixelWidth = errors.New("invalid gore pixel width")
)

// Spec describes a single gore. Values are never modified after Plan.
type Spec struct {
	Index           int
	CentralMeridian float64 // degrees
	HalfWidth       float64 // degrees
	PixelWidth      int
	StrokeWidth     int
}

// West is the longitude of the gore's western edge meridian.
func (s Spec) West() float64 { return s.CentralMeridian - s.HalfWidth }

// East is the longitude of the gore's eastern edge meridian.
func (s Spec) East() float64 { return s.CentralMeridian + s.HalfWidth }

// TileSize returns the raster dimensions of the gore's tile.
func (s Spec) TileSize() (width, height int) {
	return s.PixelWidth, s.PixelWidth / 2
}

func (s Spec) String() string {
	return fmt.Sprintf("gore %d (cm %.2f, ±%.2f)", s.Index, s.CentralMeridian, s.HalfWidth)
}

// ValidateWidth checks that deg lies in [MinWidth, MaxWidth] and divides 360.
func ValidateWidth(deg int) error {
	if deg < MinWidth || deg > MaxWidth || 360%deg != 0 {
		return fmt.Errorf("%w: %d (must be >=%d, <=%d and divide 360)",
			ErrInvalidGoreWidth, deg, MinWidth, MaxWidth)
	}
	return nil
}

// Count returns how many gores of deg degrees cover the globe. deg must be valid.
func Count(deg int) int {
	if deg <= 0 {
		return 0
	}
	return 360 / deg
}

// Plan lays out the gores west to east starting at the antimeridian.
func Plan(goreWidthDeg, pixelWidth, strokeWidth int) ([]Spec, error) {
	if err := ValidateWidth(goreWidthDeg); err != nil {
		return nil, err
	}
	if pixelWidth < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPixelWidth, pixelWidth)
	}

	n := Count(goreWidthDeg)
	w := float64(goreWidthDeg)
	specs := make([]Spec, n)
	for i := 0; i < n; i++ {
		cm := -180 + w/2 + w*float64(i)
		if i == n-1 {
			cm -= Epsilon
		}
		specs[i] = Spec{
			Index:           i,
			CentralMeridian: cm,
			HalfWidth:       w / 2,
			PixelWidth:      pixelWidth,
			StrokeWidth:     strokeWidth,
		}
	}
	return specs, nil
}
