package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"hstin/globegores/internal/gore"
)

// Config is built once in main and passed by value through the pipeline.
type Config struct {
	PixelWidth  int
	GoreWidth   int // degrees
	StrokeWidth int
	OutputFile  string
	LandFile    string
	CoastFile   string // empty: coastlines are derived from the land rings
	ColorMap    string // empty: default palette
	ArchiveFile string // empty: no per-gore archive
	NumWorkers  int
	Quality     int
	Show        bool
	Verbose     bool
}

const (
	DefaultPixelWidth  = 500
	DefaultGoreWidth   = 60
	DefaultStrokeWidth = 4
	DefaultOutputFile  = "globe.png"
	DefaultLandFile    = "ne_110m_land.geojson"
	DefaultQuality     = 90

	// EarthRadius is the WGS84 mean radius in metres.
	EarthRadius = 6371008.8
)

var (
	ErrInvalidOutput  = errors.New("invalid output file")
	ErrInvalidWorkers = errors.New("invalid worker count")
	ErrInvalidQuality = errors.New("invalid quality")
	ErrInvalidStroke  = errors.New("invalid stroke width")
)

// Default returns the configuration used when no flags are given.
func Default() Config {
	return Config{
		PixelWidth:  DefaultPixelWidth,
		GoreWidth:   DefaultGoreWidth,
		StrokeWidth: DefaultStrokeWidth,
		OutputFile:  DefaultOutputFile,
		LandFile:    DefaultLandFile,
		NumWorkers:  1,
		Quality:     DefaultQuality,
	}
}

// Validate reports the first problem with c. Pixel and gore width problems
// wrap the gore package errors so callers can tell them apart.
func (c Config) Validate() error {
	if c.PixelWidth < 0 {
		return fmt.Errorf("%w: %d (must be >= 0)", gore.ErrInvalidPixelWidth, c.PixelWidth)
	}
	if err := gore.ValidateWidth(c.GoreWidth); err != nil {
		return err
	}
	if c.StrokeWidth < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidStroke, c.StrokeWidth)
	}
	if c.NumWorkers < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, c.NumWorkers)
	}
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("%w: %d (must be 1-100)", ErrInvalidQuality, c.Quality)
	}
	switch strings.ToLower(filepath.Ext(c.OutputFile)) {
	case ".png", ".webp":
	default:
		return fmt.Errorf("%w: %q (use .png or .webp)", ErrInvalidOutput, c.OutputFile)
	}
	return nil
}

// GoreCount is the number of gores the configuration produces.
func (c Config) GoreCount() int {
	return gore.Count(c.GoreWidth)
}
