package scene

import (
	"fmt"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering.
// It is built once and never mutated while a render is running.
type Scene struct {
	Camera         *renderer.Camera
	World          *geometry.ShapeList // Objects in the scene
	SamplingConfig core.SamplingConfig
	CameraConfig   renderer.CameraConfig
	TopColor       core.Vec3 // Sky color straight up
	BottomColor    core.Vec3 // Sky color straight down
}

// DefaultSamplingConfig returns the sampling settings shared by the built-in scenes
func DefaultSamplingConfig(cameraConfig renderer.CameraConfig) core.SamplingConfig {
	return core.SamplingConfig{
		Width:           cameraConfig.Width,
		Height:          cameraConfig.ImageHeight(),
		SamplesPerPixel: 100,
		MaxDepth:        50,
	}
}

// newScene creates an empty scene with the default sky and the given camera
func newScene(cameraConfig renderer.CameraConfig) *Scene {
	return &Scene{
		Camera:         renderer.NewCamera(cameraConfig),
		World:          geometry.NewShapeList(),
		SamplingConfig: DefaultSamplingConfig(cameraConfig),
		CameraConfig:   cameraConfig,
		TopColor:       core.NewVec3(0.5, 0.7, 1.0),
		BottomColor:    core.NewVec3(1.0, 1.0, 1.0),
	}
}

// GetCamera returns the scene camera
func (s *Scene) GetCamera() core.Camera { return s.Camera }

// GetWorld returns the aggregate of every shape in the scene
func (s *Scene) GetWorld() core.Shape { return s.World }

// GetBackgroundColors returns the sky gradient endpoints
func (s *Scene) GetBackgroundColors() (topColor, bottomColor core.Vec3) {
	return s.TopColor, s.BottomColor
}

// GetSamplingConfig returns the sampling configuration
func (s *Scene) GetSamplingConfig() core.SamplingConfig { return s.SamplingConfig }

// SetSampling overrides samples per pixel and max depth; zero values keep the current setting
func (s *Scene) SetSampling(samplesPerPixel, maxDepth int) {
	if samplesPerPixel != 0 {
		s.SamplingConfig.SamplesPerPixel = samplesPerPixel
	}
	if maxDepth != 0 {
		s.SamplingConfig.MaxDepth = maxDepth
	}
}

// Validate checks the scene's camera and sampling configuration
func (s *Scene) Validate() error {
	if err := s.CameraConfig.Validate(); err != nil {
		return fmt.Errorf("camera: %w", err)
	}
	if err := s.SamplingConfig.Validate(); err != nil {
		return fmt.Errorf("sampling: %w", err)
	}
	if s.World.Len() == 0 {
		return fmt.Errorf("scene has no shapes")
	}
	return nil
}

// AddSphere adds a sphere to the scene
func (s *Scene) AddSphere(center core.Vec3, radius float64, mat core.Material) {
	s.World.Add(geometry.NewSphere(center, radius, mat))
}
