package renderer

import (
	"image"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

// PixelStats holds the running sum of one pixel's samples and the random
// stream that produced them, so later passes continue where earlier ones stopped
type PixelStats struct {
	ColorAccum  core.Vec3 // Sum of all sample colors
	SampleCount int       // Number of samples taken
	sampler     core.Sampler
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}

// NewPixelGrid allocates per-pixel statistics indexed [y][x] in image coordinates
func NewPixelGrid(width, height int) [][]PixelStats {
	pixels := make([][]PixelStats, height)
	for y := range pixels {
		pixels[y] = make([]PixelStats, width)
	}
	return pixels
}

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels     int     // Total number of pixels rendered
	TotalSamples    int     // Total number of samples taken
	AverageSamples  float64 // Average samples per pixel
	SamplesPerPixel int     // Samples requested per pixel
	Tiles           int     // Tiles rendered (parallel renders only)
	Workers         int     // Workers used (parallel renders only)
}

func (s *RenderStats) addPixel(samples int) {
	s.TotalPixels++
	s.TotalSamples += samples
}

// merge folds the pixel and sample counts of other into s
func (s *RenderStats) merge(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.TotalSamples += other.TotalSamples
}

func (s *RenderStats) finalize() {
	if s.TotalPixels > 0 {
		s.AverageSamples = float64(s.TotalSamples) / float64(s.TotalPixels)
	}
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of an image in [0,1]
func CalculateAverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			total += (0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)) / 0xffff
		}
	}
	return total / float64(pixels)
}
