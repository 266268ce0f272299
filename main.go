package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/integrator"
	"github.com/df07/go-sphere-tracer/pkg/output"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
	"github.com/df07/go-sphere-tracer/pkg/scene"
)

// Config holds the parsed command line options
type Config struct {
	SceneType   string
	Width       int
	AspectRatio float64
	Samples     int
	MaxDepth    int
	Workers     int
	TileSize    int
	Seed        int64
	Output      string
	Sky         string
	Help        bool
}

func main() {
	config, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}
	if config.Help {
		showHelp(os.Stdout)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, config, renderer.NewDefaultLogger()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newFlagSet binds every command line flag to config
func newFlagSet(config *Config, errOut io.Writer) *flag.FlagSet {
	defaults := renderer.DefaultParallelConfig()

	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.StringVar(&config.SceneType, "scene", "default", "Scene type: "+strings.Join(scene.Names(), ", "))
	fs.IntVar(&config.Width, "width", 0, "Image width in pixels (0 = scene default)")
	fs.Float64Var(&config.AspectRatio, "aspect", 0, "Aspect ratio width/height (0 = scene default)")
	fs.IntVar(&config.Samples, "samples", 0, "Samples per pixel (0 = scene default)")
	fs.IntVar(&config.MaxDepth, "depth", 0, "Maximum bounces per path (0 = scene default)")
	fs.IntVar(&config.Workers, "workers", defaults.NumWorkers, "Number of parallel workers (0 = auto-detect CPU count)")
	fs.IntVar(&config.TileSize, "tile", defaults.TileSize, "Tile size in pixels")
	fs.Int64Var(&config.Seed, "seed", defaults.Seed, "Random seed")
	fs.StringVar(&config.Output, "out", "", "Output file (.png, .bmp, .tif, .ppm)")
	fs.StringVar(&config.Sky, "sky", "", "Sky color straight up: a color name or r,g,b")
	fs.BoolVar(&config.Help, "help", false, "Show help information")
	return fs
}

// parseFlags parses the command line into a Config
func parseFlags(args []string, errOut io.Writer) (Config, error) {
	var config Config
	fs := newFlagSet(&config, errOut)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if fs.NArg() > 0 {
		err := fmt.Errorf("unexpected arguments: %v", fs.Args())
		fmt.Fprintln(errOut, err)
		return Config{}, err
	}
	if config.Width < 0 || config.Samples < 0 || config.MaxDepth < 0 || config.AspectRatio < 0 {
		err := fmt.Errorf("width, aspect, samples and depth must not be negative")
		fmt.Fprintln(errOut, err)
		return Config{}, err
	}
	return config, nil
}

// showHelp displays the help information
func showHelp(w io.Writer) {
	fmt.Fprintln(w, "Sphere Raytracer")
	fmt.Fprintln(w, "Usage: raytracer [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	newFlagSet(&Config{}, w).PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Available scenes:")
	for _, info := range scene.ListScenes() {
		fmt.Fprintf(w, "  %-8s - %s\n", info.ID, info.Description)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output will be saved to output/<scene_type>/render_<timestamp>.png unless -out is given")
}

// createScene builds the requested scene and applies the command line overrides
func createScene(config Config) (*scene.Scene, error) {
	s, err := scene.New(config.SceneType, renderer.CameraConfig{
		Width:       config.Width,
		AspectRatio: config.AspectRatio,
	})
	if err != nil {
		return nil, err
	}

	s.SetSampling(config.Samples, config.MaxDepth)

	if config.Sky != "" {
		sky, err := scene.ParseColor(config.Sky)
		if err != nil {
			return nil, err
		}
		s.SetSky(sky)
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("scene %q: %w", config.SceneType, err)
	}
	return s, nil
}

// outputPath returns the explicit output path or a timestamped one under output/<scene>
func outputPath(config Config, now time.Time) string {
	if config.Output != "" {
		return config.Output
	}
	timestamp := now.Format("20060102_150405")
	return filepath.Join("output", config.SceneType, fmt.Sprintf("render_%s.png", timestamp))
}

// run renders the configured scene and saves the image
func run(ctx context.Context, config Config, logger core.Logger) error {
	selectedScene, err := createScene(config)
	if err != nil {
		return err
	}

	filename := outputPath(config, time.Now())
	if _, err := output.FormatFromPath(filename); err != nil {
		return err
	}

	logger.Printf("Using %s scene...\n", config.SceneType)

	parallelConfig := renderer.ParallelConfig{
		TileSize:   config.TileSize,
		NumWorkers: config.Workers,
		Seed:       config.Seed,
	}
	raytracer := renderer.NewParallelRaytracer(selectedScene, integrator.NewPathTracingIntegrator(), parallelConfig, logger)

	startTime := time.Now()
	img, stats, err := raytracer.Render(ctx)
	if err != nil {
		return err
	}
	renderTime := time.Since(startTime)

	logger.Printf("Render completed in %v\n", renderTime)
	logger.Printf("Samples: %d total, %.1f per pixel\n", stats.TotalSamples, stats.AverageSamples)
	logger.Printf("Average luminance: %.3f\n", renderer.CalculateAverageLuminance(img))

	if err := output.Save(filename, img); err != nil {
		return err
	}

	logger.Printf("Render saved as %s\n", filename)
	return nil
}
