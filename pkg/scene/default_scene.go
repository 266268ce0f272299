package scene

import (
	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/material"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
)

// groundCenter and groundRadius describe the huge sphere used as the floor
var groundCenter = core.NewVec3(0, -100.5, -1)

const groundRadius = 100.0

// cameraFromOverrides applies optional camera overrides to the default camera
func cameraFromOverrides(cameraOverrides []renderer.CameraConfig) renderer.CameraConfig {
	cameraConfig := renderer.DefaultCameraConfig()
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(cameraConfig, cameraOverrides[0])
	}
	return cameraConfig
}

// NewDefaultScene creates three spheres on a ground sphere: a diffuse centre,
// a brushed silver mirror on the left and a rough gold sphere on the right
func NewDefaultScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	s := newScene(cameraFromOverrides(cameraOverrides))

	materialGround := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	materialCenter := material.NewLambertian(core.NewVec3(0.7, 0.3, 0.3))
	materialLeft := material.NewMetal(core.NewVec3(0.8, 0.8, 0.8), 0.3)
	materialRight := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 1.0)

	s.AddSphere(groundCenter, groundRadius, materialGround)
	s.AddSphere(core.NewVec3(0, 0, -1), 0.5, materialCenter)
	s.AddSphere(core.NewVec3(-1, 0, -1), 0.5, materialLeft)
	s.AddSphere(core.NewVec3(1, 0, -1), 0.5, materialRight)

	return s
}

// NewSingleSphereScene creates one diffuse sphere resting on a diffuse ground
func NewSingleSphereScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	s := newScene(cameraFromOverrides(cameraOverrides))

	s.AddSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
	s.AddSphere(groundCenter, groundRadius, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))

	return s
}

// NewMirrorScene places a diffuse sphere between two perfect mirrors.
// Both mirror spheres share one material.
func NewMirrorScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	s := newScene(cameraFromOverrides(cameraOverrides))

	mirror := material.NewMetal(core.NewVec3(0.95, 0.95, 0.95), 0.0)
	s.AddSphere(groundCenter, groundRadius, material.NewLambertian(core.NewVec3(0.4, 0.5, 0.4)))
	s.AddSphere(core.NewVec3(0, 0, -1.2), 0.4, material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5)))
	s.AddSphere(core.NewVec3(-1.3, 0.2, -1.5), 0.7, mirror)
	s.AddSphere(core.NewVec3(1.3, 0.2, -1.5), 0.7, mirror)

	return s
}
