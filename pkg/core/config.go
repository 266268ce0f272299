package core

import "fmt"

// Validate checks that the sampling configuration can drive a render
func (c SamplingConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("image size must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.SamplesPerPixel <= 0 {
		return fmt.Errorf("samples per pixel must be positive, got %d", c.SamplesPerPixel)
	}
	if c.MaxDepth <= 0 {
		return fmt.Errorf("max depth must be positive, got %d", c.MaxDepth)
	}
	return nil
}

// HeightForAspect derives the image height from a width and aspect ratio, never below 1
func HeightForAspect(width int, aspectRatio float64) int {
	return max(1, int(float64(width)/aspectRatio))
}
