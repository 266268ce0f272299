package renderer

import (
	"fmt"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

// CameraConfig describes a fixed pinhole camera looking down -Z
type CameraConfig struct {
	Origin         core.Vec3 // Eye position
	Width          int       // Image width in pixels
	AspectRatio    float64   // Width / height
	ViewportHeight float64   // Height of the image plane in world units
	FocalLength    float64   // Distance from the eye to the image plane
}

// DefaultCameraConfig returns a 400px wide 16:9 camera at the origin
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Origin:         core.NewVec3(0, 0, 0),
		Width:          400,
		AspectRatio:    16.0 / 9.0,
		ViewportHeight: 2.0,
		FocalLength:    1.0,
	}
}

// MergeCameraConfig overlays the non-zero fields of override onto base
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	merged := base
	if override.Origin != (core.Vec3{}) {
		merged.Origin = override.Origin
	}
	if override.Width != 0 {
		merged.Width = override.Width
	}
	if override.AspectRatio != 0 {
		merged.AspectRatio = override.AspectRatio
	}
	if override.ViewportHeight != 0 {
		merged.ViewportHeight = override.ViewportHeight
	}
	if override.FocalLength != 0 {
		merged.FocalLength = override.FocalLength
	}
	return merged
}

// Validate checks that the camera config describes a usable viewport
func (c CameraConfig) Validate() error {
	if c.Width <= 0 {
		return fmt.Errorf("camera width must be positive, got %d", c.Width)
	}
	if !(c.AspectRatio > 0) {
		return fmt.Errorf("aspect ratio must be positive, got %g", c.AspectRatio)
	}
	if !(c.ViewportHeight > 0) {
		return fmt.Errorf("viewport height must be positive, got %g", c.ViewportHeight)
	}
	if !(c.FocalLength > 0) {
		return fmt.Errorf("focal length must be positive, got %g", c.FocalLength)
	}
	return nil
}

// ImageHeight returns the image height implied by the width and aspect ratio
func (c CameraConfig) ImageHeight() int {
	return core.HeightForAspect(c.Width, c.AspectRatio)
}

// Camera generates rays for rendering
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
}

// NewCamera creates a camera whose viewport is centred on the -Z axis
func NewCamera(config CameraConfig) *Camera {
	viewportWidth := config.AspectRatio * config.ViewportHeight

	origin := config.Origin
	horizontal := core.NewVec3(viewportWidth, 0, 0)
	vertical := core.NewVec3(0, config.ViewportHeight, 0)
	lowerLeftCorner := origin.Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(core.NewVec3(0, 0, config.FocalLength))

	return &Camera{
		origin:          origin,
		horizontal:      horizontal,
		vertical:        vertical,
		lowerLeftCorner: lowerLeftCorner,
	}
}

// GetRay generates a ray for screen coordinates (u, v) where 0 <= u,v <= 1,
// with (0,0) at the lower left of the viewport
func (c *Camera) GetRay(u, v float64) core.Ray {
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(u)).
		Add(c.vertical.Multiply(v)).
		Subtract(c.origin)

	return core.NewRay(c.origin, direction)
}
