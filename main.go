package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"

	"hstin/globegores/internal/config"
	"hstin/globegores/internal/gore"
	"hstin/globegores/internal/render"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	name := "globegores"
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	// Setup custom usage
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Globe Gore Generator\n\n")
		fmt.Fprintf(stderr, "Usage: %s -p [GORE_WIDTH_PX] -d [GORE_WIDTH_DEGREES] -g [GORE_OUTLINE_WIDTH] -o [OUT_PATH]\n\n", name)
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  Basic:    %s -land ne_110m_land.geojson\n", name)
		fmt.Fprintf(stderr, "  12 gores: %s -d 30 -p 400 -o gores.png\n", name)
		fmt.Fprintf(stderr, "  Archive:  %s -archive gores.mbtiles -o globe.webp\n", name)
	}

	def := config.Default()
	pixels := fs.Int("p", def.PixelWidth, "Gore width in pixels")
	degrees := fs.Int("d", def.GoreWidth, "Gore width in degrees (15-120, must divide 360)")
	stroke := fs.Int("g", def.StrokeWidth, "Coastline stroke width")
	output := fs.String("o", def.OutputFile, "Output image (.png or .webp)")
	land := fs.String("land", def.LandFile, "Land polygons (GeoJSON)")
	coast := fs.String("coast", "", "Coastlines (GeoJSON, default: land outlines)")
	colors := fs.String("colors", "", "Color map file (background, land, coast)")
	archive := fs.String("archive", "", "Also store each gore in this MBTiles file")
	workers := fs.Int("workers", runtime.NumCPU(), "Number of parallel workers (default: all available CPUs)")
	quality := fs.Int("quality", def.Quality, "WebP quality (1-100, 100 is lossless)")
	show := fs.Bool("show", false, "Open the result in the system image viewer")
	verbose := fs.Bool("verbose", false, "Show detailed progress")
	help := fs.Bool("h", false, "Show help")

	// Parse flags
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *help {
		fs.Usage()
		return 0
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "Error: unexpected arguments: %v\n", fs.Args())
		fs.Usage()
		return 2
	}

	// Create config
	cfg := config.Config{
		PixelWidth:  *pixels,
		GoreWidth:   *degrees,
		StrokeWidth: *stroke,
		OutputFile:  *output,
		LandFile:    *land,
		CoastFile:   *coast,
		ColorMap:    *colors,
		ArchiveFile: *archive,
		NumWorkers:  *workers,
		Quality:     *quality,
		Show:        *show,
		Verbose:     *verbose,
	}

	if err := cfg.Validate(); err != nil {
		switch {
		case errors.Is(err, gore.ErrInvalidPixelWidth):
			fmt.Fprintf(stdout, "invalid -p (GORE_WIDTH_PX) value: %d\n", cfg.PixelWidth)
			fmt.Fprintln(stdout, "GORE_WIDTH_PX must be >= 0.")
		case errors.Is(err, gore.ErrInvalidGoreWidth):
			fmt.Fprintf(stdout, "invalid -d (GORE_WIDTH_DEG) value: %d\n", cfg.GoreWidth)
			fmt.Fprintf(stdout, "GORE_WIDTH_DEG must be >=%d, <=%d and multiply into 360.\n", gore.MinWidth, gore.MaxWidth)
			fmt.Fprintln(stdout, "Valid numbers include: 120, 90, 60, 40, 30, 20, 15")
		default:
			fmt.Fprintf(stdout, "Error: %v\n", err)
		}
		return 0
	}

	// Show configuration summary if verbose
	if cfg.Verbose {
		fmt.Fprintln(stdout, "Configuration:")
		fmt.Fprintf(stdout, "  Gores: %d x %d°, %d px wide\n", cfg.GoreCount(), cfg.GoreWidth, cfg.PixelWidth)
		fmt.Fprintf(stdout, "  Land: %s\n", cfg.LandFile)
		fmt.Fprintf(stdout, "  Output: %s\n", cfg.OutputFile)
		fmt.Fprintf(stdout, "  Workers: %d\n", cfg.NumWorkers)
	}

	// Generate gores
	if err := render.Generate(cfg); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
