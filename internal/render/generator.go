package render

import (
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/image/draw"

	"hstin/globegores/dataset"
	"hstin/globegores/internal/colormap"
	"hstin/globegores/internal/config"
	"hstin/globegores/internal/db"
	"hstin/globegores/internal/gore"
	"hstin/globegores/internal/sink"
)

var (
	ErrEmptyImage   = errors.New("gore tiles would be empty")
	ErrNoTiles      = errors.New("no gore tiles")
	ErrTileMismatch = errors.New("gore tile size mismatch")
)

type GoreJob struct {
	Pos  int
	Spec gore.Spec
}

type GoreResult struct {
	Pos  int
	Tile *image.RGBA
	Err  error
}

// Generate runs the whole pipeline for cfg and writes the globe to
// cfg.OutputFile. When cfg.Show is set the result is opened in the system
// image viewer afterwards.
func Generate(cfg config.Config) error {
	var preview sink.PreviewFunc
	if cfg.Show {
		preview = sink.OpenViewer
	}
	return Run(cfg, preview)
}

// Run is Generate with an explicit preview callback; nil disables preview.
// Nothing is written unless every gore renders.
func Run(cfg config.Config, preview sink.PreviewFunc) error {
	startTime := time.Now()

	if err := cfg.Validate(); err != nil {
		return err
	}

	specs, err := gore.Plan(cfg.GoreWidth, cfg.PixelWidth, cfg.StrokeWidth)
	if err != nil {
		return err
	}
	if w, h := specs[0].TileSize(); w == 0 || h == 0 {
		return fmt.Errorf("%w: %dx%d px per gore", ErrEmptyImage, w, h)
	}

	pal := colormap.Default()
	if cfg.ColorMap != "" {
		if cfg.Verbose {
			fmt.Println("Loading color map...")
		}
		pal, err = colormap.Load(cfg.ColorMap)
		if err != nil {
			return fmt.Errorf("failed to load color map: %w", err)
		}
	}

	if cfg.Verbose {
		fmt.Println("Loading land and coastline data...")
	}
	features, err := dataset.Load(cfg.LandFile, cfg.CoastFile)
	if err != nil {
		return fmt.Errorf("failed to load geometry: %w", err)
	}
	if cfg.Verbose {
		fmt.Printf("  %d land polygons, %d coastlines\n", features.LandCount(), features.CoastCount())
	}

	tiles, err := RenderGores(specs, features, pal, cfg.NumWorkers, cfg.Verbose)
	if err != nil {
		return fmt.Errorf("failed to render gores: %w", err)
	}

	globe, err := Composite(tiles, cfg.PixelWidth)
	if err != nil {
		return err
	}

	if cfg.ArchiveFile != "" {
		if cfg.Verbose {
			fmt.Println("Writing gore archive...")
		}
		if err := db.WriteArchive(cfg.ArchiveFile, cfg, tiles); err != nil {
			return fmt.Errorf("failed to write gore archive: %w", err)
		}
	}

	out := sink.File{Path: cfg.OutputFile, Quality: cfg.Quality}
	if err := out.Emit(globe); err != nil {
		if cfg.ArchiveFile != "" {
			os.Remove(cfg.ArchiveFile)
		}
		return fmt.Errorf("failed to write globe: %w", err)
	}

	fmt.Printf("Globe complete! %d gores, %dx%d px. Took %s\n",
		len(specs), globe.Bounds().Dx(), globe.Bounds().Dy(), time.Since(startTime))

	if preview != nil {
		if err := preview(cfg.OutputFile); err != nil {
			log.Printf("Warning: could not open preview: %v", err)
		}
	}
	return nil
}

// RenderGores renders every spec on a pool of workers. Tiles come back in the
// order of specs. The first failure stops outstanding work and is returned;
// no tiles are returned with it.
func RenderGores(specs []gore.Spec, src FeatureSource, pal colormap.Palette, workers int, verbose bool) ([]*image.RGBA, error) {
	if len(specs) == 0 {
		return nil, ErrNoTiles
	}
	workers = max(1, min(workers, len(specs)))

	var (
		wg        sync.WaitGroup
		failed    atomic.Bool
		completed int64
	)
	jobQueue := make(chan GoreJob, len(specs))
	resultQueue := make(chan GoreResult, len(specs))

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobQueue {
				if failed.Load() {
					continue
				}
				tile, err := RenderGore(job.Spec, src, pal)
				if err != nil {
					failed.Store(true)
					err = fmt.Errorf("%s: %w", job.Spec, err)
				} else if verbose {
					done := atomic.AddInt64(&completed, 1)
					fmt.Printf("Created gore %d with central meridian %.2f (%d/%d)\n",
						job.Spec.Index, job.Spec.CentralMeridian, done, len(specs))
				}
				resultQueue <- GoreResult{Pos: job.Pos, Tile: tile, Err: err}
			}
		}()
	}

	for pos, spec := range specs {
		jobQueue <- GoreJob{Pos: pos, Spec: spec}
	}
	close(jobQueue)
	wg.Wait()
	close(resultQueue)

	tiles := make([]*image.RGBA, len(specs))
	firstErr, errPos := error(nil), len(specs)
	for result := range resultQueue {
		if result.Err != nil {
			if result.Pos < errPos {
				firstErr, errPos = result.Err, result.Pos
			}
			continue
		}
		tiles[result.Pos] = result.Tile
	}
	if firstErr != nil {
		return nil, firstErr
	}

	w, h := specs[0].TileSize()
	for _, t := range tiles {
		if err := checkTile(t, w, h); err != nil {
			return nil, err
		}
	}
	return tiles, nil
}

// Composite pastes the tiles left to right, tile i starting at column
// pixelWidth*i. Every tile must be pixelWidth wide and share one height.
func Composite(tiles []*image.RGBA, pixelWidth int) (*image.RGBA, error) {
	if len(tiles) == 0 {
		return nil, ErrNoTiles
	}
	if tiles[0] == nil {
		return nil, fmt.Errorf("%w: missing tile", ErrTileMismatch)
	}

	h := tiles[0].Bounds().Dy()
	globe := image.NewRGBA(image.Rect(0, 0, pixelWidth*len(tiles), h))
	for i, t := range tiles {
		if err := checkTile(t, pixelWidth, h); err != nil {
			return nil, fmt.Errorf("gore %d: %w", i, err)
		}
		r := image.Rect(pixelWidth*i, 0, pixelWidth*(i+1), h)
		draw.Draw(globe, r, t, t.Bounds().Min, draw.Src)
	}
	return globe, nil
}
