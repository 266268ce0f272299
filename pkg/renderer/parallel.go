package renderer

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// ParallelConfig contains configuration for tiled parallel rendering
type ParallelConfig struct {
	TileSize   int   // Size of each square tile in pixels
	NumWorkers int   // Number of parallel workers (0 = use CPU count)
	Seed       int64 // Seeds the per-pixel random streams
}

// DefaultParallelConfig returns sensible default values
func DefaultParallelConfig() ParallelConfig {
	return ParallelConfig{
		TileSize:   32,
		NumWorkers: 0,
		Seed:       42,
	}
}

// Validate checks the parallel configuration
func (c ParallelConfig) Validate() error {
	if c.TileSize <= 0 {
		return fmt.Errorf("tile size must be positive, got %d", c.TileSize)
	}
	return nil
}

// ParallelRaytracer renders an image by spreading tiles over a worker pool
type ParallelRaytracer struct {
	scene      core.Scene
	integrator core.Integrator
	config     ParallelConfig
	logger     core.Logger
}

// NewParallelRaytracer creates a new parallel raytracer
func NewParallelRaytracer(scene core.Scene, integrator core.Integrator, config ParallelConfig, logger core.Logger) *ParallelRaytracer {
	return &ParallelRaytracer{
		scene:      scene,
		integrator: integrator,
		config:     config,
		logger:     logger,
	}
}

// Render renders the full image. The output depends only on the scene and
// the seed, never on the tile size or the number of workers.
func (pr *ParallelRaytracer) Render(ctx context.Context) (*image.RGBA, RenderStats, error) {
	samplingConfig := pr.scene.GetSamplingConfig()
	if err := samplingConfig.Validate(); err != nil {
		return nil, RenderStats{}, fmt.Errorf("invalid sampling config: %w", err)
	}
	if err := pr.config.Validate(); err != nil {
		return nil, RenderStats{}, fmt.Errorf("invalid parallel config: %w", err)
	}

	width, height := samplingConfig.Width, samplingConfig.Height
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	pixels := NewPixelGrid(width, height)
	tiles := NewTileGrid(width, height, pr.config.TileSize)

	workerPool := NewWorkerPool(pr.scene, pr.integrator, pr.config.Seed, len(tiles), pr.config.NumWorkers)
	workerPool.Start(ctx)
	defer workerPool.Stop()

	pr.logger.Printf("Rendering %dx%d at %d samples/pixel, depth %d (%d tiles, %d workers)...\n",
		width, height, samplingConfig.SamplesPerPixel, samplingConfig.MaxDepth,
		len(tiles), workerPool.GetNumWorkers())

	stats, err := renderTiles(workerPool, tiles, img, pixels, samplingConfig.SamplesPerPixel, pr.logger)
	if err != nil {
		return nil, RenderStats{}, err
	}
	return img, stats, nil
}

// renderTiles submits every tile to the pool, adding samples samples to each
// pixel, and waits for all of them. Progress is logged in quarters.
func renderTiles(workerPool *WorkerPool, tiles []*Tile, img *image.RGBA, pixels [][]PixelStats, samples int, logger core.Logger) (RenderStats, error) {
	startTime := time.Now()
	for i, tile := range tiles {
		workerPool.SubmitTask(TileTask{Tile: tile, TaskID: i, Image: img, Pixels: pixels, Samples: samples})
	}

	stats := RenderStats{
		Tiles:   len(tiles),
		Workers: workerPool.GetNumWorkers(),
	}
	var firstErr error
	nextReport := 1
	for completed := 1; completed <= len(tiles); completed++ {
		result, ok := workerPool.GetResult()
		if !ok {
			return RenderStats{}, fmt.Errorf("worker pool closed unexpectedly")
		}
		if result.Error != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("tile %d: %w", result.TaskID, result.Error)
			}
			continue
		}
		stats.merge(result.Stats)
		stats.SamplesPerPixel = result.Stats.SamplesPerPixel

		// Report progress in quarters
		if completed*4 >= nextReport*len(tiles) {
			logger.Printf("%d/%d tiles done (%v)\n", completed, len(tiles), time.Since(startTime).Round(time.Millisecond))
			nextReport = completed*4/len(tiles) + 1
		}
	}

	if firstErr != nil {
		return RenderStats{}, fmt.Errorf("render aborted: %w", firstErr)
	}

	stats.finalize()
	return stats, nil
}

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID     int             // Unique tile identifier
	Bounds image.Rectangle // Pixel bounds (x0,y0,x1,y1)
}

// NewTile creates a new tile with the specified bounds
func NewTile(id int, bounds image.Rectangle) *Tile {
	return &Tile{ID: id, Bounds: bounds}
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int) []*Tile {
	var tiles []*Tile
	tileID := 0

	// Ceiling division
	tilesX := (width + tileSize - 1) / tileSize
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width) // Don't exceed image bounds
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, NewTile(tileID, image.Rect(x0, y0, x1, y1)))
			tileID++
		}
	}

	return tiles
}
