package integrator

import (
	"math"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

// HitEpsilon is the minimum ray parameter accepted as a hit, which keeps a
// scattered ray from re-hitting the surface it just left (shadow acne)
const HitEpsilon = 0.001

var _ core.Integrator = (*PathTracingIntegrator)(nil)

// PathTracingIntegrator implements unidirectional path tracing over
// diffuse and reflective materials with a gradient sky
type PathTracingIntegrator struct{}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator() *PathTracingIntegrator {
	return &PathTracingIntegrator{}
}

// RayColor computes the color for a single ray, allowing at most depth bounces
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, scene core.Scene, sampler core.Sampler, depth int) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}

	hit, isHit := scene.GetWorld().Hit(ray, HitEpsilon, math.Inf(1))
	if !isHit {
		return BackgroundGradient(ray, scene)
	}

	scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
	if !didScatter {
		// Material absorbed the ray
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}

	return scatter.Attenuation.MultiplyVec(
		pt.RayColor(scatter.Scattered, scene, sampler, depth-1))
}

// BackgroundGradient returns the sky color seen along a ray that hits nothing
func BackgroundGradient(r core.Ray, scene core.Scene) core.Vec3 {
	topColor, bottomColor := scene.GetBackgroundColors()

	unitDirection := r.Direction.Normalize()

	// Map y from [-1,1] to [0,1]
	t := 0.5 * (unitDirection.Y + 1.0)

	// Linear interpolation: (1-t)*bottom + t*top
	return bottomColor.Multiply(1.0 - t).Add(topColor.Multiply(t))
}
