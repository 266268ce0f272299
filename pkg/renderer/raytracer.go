package renderer

import (
	"image"
	"image/color"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

// Raytracer renders pixels of a scene by averaging jittered samples of an integrator
type Raytracer struct {
	scene      core.Scene
	integrator core.Integrator
	width      int
	height     int
	config     core.SamplingConfig
	seed       int64 // Seeds the per-pixel random streams
}

// NewRaytracer creates a new raytracer using the scene's sampling config.
// Pixel (x, y) always draws from core.NewPixelSampler(seed, x, y).
func NewRaytracer(scene core.Scene, integrator core.Integrator, seed int64) *Raytracer {
	config := scene.GetSamplingConfig()
	return &Raytracer{
		scene:      scene,
		integrator: integrator,
		width:      config.Width,
		height:     config.Height,
		config:     config,
		seed:       seed,
	}
}

// SetSamplingConfig updates the sampling configuration
func (rt *Raytracer) SetSamplingConfig(config core.SamplingConfig) {
	rt.config = config
	rt.width = config.Width
	rt.height = config.Height
}

// SamplePixel returns the average linear color of pixel column i and row j,
// where rows are counted from the bottom of the image
func (rt *Raytracer) SamplePixel(i, j int, sampler core.Sampler) core.Vec3 {
	ps := PixelStats{sampler: sampler}
	rt.accumulatePixel(i, j, &ps, rt.config.SamplesPerPixel)
	return ps.GetColor()
}

// accumulatePixel adds samples more jittered samples to ps
func (rt *Raytracer) accumulatePixel(i, j int, ps *PixelStats, samples int) {
	camera := rt.scene.GetCamera()

	for sample := 0; sample < samples; sample++ {
		// Convert pixel coordinates to normalized coordinates with jitter
		u := (float64(i) + ps.sampler.Get1D()) / float64(rt.width)
		v := (float64(j) + ps.sampler.Get1D()) / float64(rt.height)

		ray := camera.GetRay(u, v)
		ps.AddSample(rt.integrator.RayColor(ray, rt.scene, ps.sampler, rt.config.MaxDepth))
	}
}

// RenderBounds adds samples samples to every pixel of pixels inside bounds
// (image coordinates, row 0 at the top) and writes the running averages to img.
// The returned stats count each pixel's accumulated samples.
func (rt *Raytracer) RenderBounds(bounds image.Rectangle, img *image.RGBA, pixels [][]PixelStats, samples int) RenderStats {
	stats := RenderStats{SamplesPerPixel: rt.config.SamplesPerPixel}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		// The camera's v axis points up, the image's y axis points down
		j := rt.height - 1 - y
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ps := &pixels[y][x]
			if ps.sampler == nil {
				ps.sampler = core.NewPixelSampler(rt.seed, x, y)
			}
			rt.accumulatePixel(x, j, ps, samples)
			img.SetRGBA(x, y, ToRGBA(ps.GetColor()))
			stats.addPixel(ps.SampleCount)
		}
	}

	stats.finalize()
	return stats
}

// RenderPass renders the whole image on the calling goroutine
func (rt *Raytracer) RenderPass() (*image.RGBA, RenderStats) {
	img := image.NewRGBA(image.Rect(0, 0, rt.width, rt.height))
	pixels := NewPixelGrid(rt.width, rt.height)
	stats := rt.RenderBounds(img.Bounds(), img, pixels, rt.config.SamplesPerPixel)
	return img, stats
}

// ToRGBA converts an averaged linear color to 8-bit RGBA with gamma 2 correction
func ToRGBA(colorVec core.Vec3) color.RGBA {
	colorVec = colorVec.GammaCorrect(2.0)

	return color.RGBA{
		R: quantize(colorVec.X),
		G: quantize(colorVec.Y),
		B: quantize(colorVec.Z),
		A: 255,
	}
}

// quantize clamps a channel to [0,1] and scales it to [0,255]; NaN maps to 0
func quantize(c float64) uint8 {
	if !(c > 0) {
		return 0
	}
	if c >= 1 {
		return 255
	}
	return uint8(255 * c)
}
