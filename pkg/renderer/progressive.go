package renderer

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	TileSize       int   // Size of each square tile in pixels
	InitialSamples int   // Samples per pixel in the first pass (1 recommended)
	NumWorkers     int   // Number of parallel workers (0 = use CPU count)
	Seed           int64 // Seeds the per-pixel random streams
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		TileSize:       64,
		InitialSamples: 1,
		NumWorkers:     0, // Auto-detect CPU count
		Seed:           42,
	}
}

// Validate checks the progressive configuration
func (c ProgressiveConfig) Validate() error {
	if c.TileSize <= 0 {
		return fmt.Errorf("tile size must be positive, got %d", c.TileSize)
	}
	if c.InitialSamples <= 0 {
		return fmt.Errorf("initial samples must be positive, got %d", c.InitialSamples)
	}
	return nil
}

// PassSchedule splits a budget of total samples per pixel into passes of
// initial, 2*initial, 4*initial, ... samples. The last pass takes whatever
// remains, so the passes always add up to total.
func PassSchedule(initial, total int) []int {
	var passes []int
	next := max(initial, 1)
	for remaining := total; remaining > 0; {
		samples := min(next, remaining)
		passes = append(passes, samples)
		remaining -= samples
		next *= 2
	}
	return passes
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber  int         // 1-based
	TotalPasses int         // Number of passes in the schedule
	PassSamples int         // Samples per pixel added by this pass
	Image       *image.RGBA // Snapshot of the running averages after this pass
	Stats       RenderStats // Cumulative statistics
	IsLast      bool
}

// ProgressiveRaytracer renders the scene's sample budget in passes of growing
// size, publishing an image after each one. The final image is identical to a
// ParallelRaytracer render with the same seed.
type ProgressiveRaytracer struct {
	scene      core.Scene
	integrator core.Integrator
	config     ProgressiveConfig
	logger     core.Logger
}

// NewProgressiveRaytracer creates a new progressive raytracer
func NewProgressiveRaytracer(scene core.Scene, integrator core.Integrator, config ProgressiveConfig, logger core.Logger) *ProgressiveRaytracer {
	return &ProgressiveRaytracer{
		scene:      scene,
		integrator: integrator,
		config:     config,
		logger:     logger,
	}
}

// RenderProgressive renders every pass and calls onPass with each result.
// An error from onPass, or cancellation of ctx, stops the render and is returned.
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context, onPass func(PassResult) error) error {
	samplingConfig := pr.scene.GetSamplingConfig()
	if err := samplingConfig.Validate(); err != nil {
		return fmt.Errorf("invalid sampling config: %w", err)
	}
	if err := pr.config.Validate(); err != nil {
		return fmt.Errorf("invalid progressive config: %w", err)
	}

	width, height := samplingConfig.Width, samplingConfig.Height
	pixels := NewPixelGrid(width, height)
	tiles := NewTileGrid(width, height, pr.config.TileSize)
	passes := PassSchedule(pr.config.InitialSamples, samplingConfig.SamplesPerPixel)

	workerPool := NewWorkerPool(pr.scene, pr.integrator, pr.config.Seed, len(tiles), pr.config.NumWorkers)
	workerPool.Start(ctx)
	defer workerPool.Stop()

	pr.logger.Printf("Starting progressive rendering of %dx%d with %d passes (%d tiles, %d workers)...\n",
		width, height, len(passes), len(tiles), workerPool.GetNumWorkers())

	for i, passSamples := range passes {
		passNumber := i + 1
		if err := ctx.Err(); err != nil {
			pr.logger.Printf("Rendering cancelled before pass %d\n", passNumber)
			return err
		}

		startTime := time.Now()
		img := image.NewRGBA(image.Rect(0, 0, width, height))
		stats, err := renderTiles(workerPool, tiles, img, pixels, passSamples, pr.logger)
		if err != nil {
			return fmt.Errorf("pass %d: %w", passNumber, err)
		}

		pr.logger.Printf("Pass %d completed in %v (%.0f samples/pixel)\n",
			passNumber, time.Since(startTime).Round(time.Millisecond), stats.AverageSamples)

		result := PassResult{
			PassNumber:  passNumber,
			TotalPasses: len(passes),
			PassSamples: passSamples,
			Image:       img,
			Stats:       stats,
			IsLast:      passNumber == len(passes),
		}
		if err := onPass(result); err != nil {
			return err
		}
	}

	return nil
}
