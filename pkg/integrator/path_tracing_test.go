package integrator

import (
	"math"
	"testing"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/material"
)

var (
	skyTop    = core.NewVec3(0.5, 0.7, 1.0)
	skyBottom = core.NewVec3(1.0, 1.0, 1.0)
)

// MockMaterial implements core.Material for testing
type MockMaterial struct {
	scatterFn func(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool)
	calls     int
}

func (m *MockMaterial) Scatter(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	m.calls++
	return m.scatterFn(rayIn, hit, sampler)
}

// MockScene implements core.Scene for testing
type MockScene struct {
	world core.Shape
}

func (m *MockScene) GetCamera() core.Camera                      { return nil }
func (m *MockScene) GetWorld() core.Shape                        { return m.world }
func (m *MockScene) GetBackgroundColors() (core.Vec3, core.Vec3) { return skyTop, skyBottom }
func (m *MockScene) GetSamplingConfig() core.SamplingConfig      { return core.SamplingConfig{} }

func newMockScene(shapes ...core.Shape) *MockScene {
	return &MockScene{world: geometry.NewShapeList(shapes...)}
}

func expectedSky(direction core.Vec3) core.Vec3 {
	t := 0.5 * (direction.Normalize().Y + 1.0)
	return skyBottom.Multiply(1.0 - t).Add(skyTop.Multiply(t))
}

func TestPathTracing_MissReturnsBackground(t *testing.T) {
	sc := newMockScene()
	pt := NewPathTracingIntegrator()
	sampler := core.NewSeededSampler(42)

	directions := []core.Vec3{
		core.NewVec3(0, 1, 0),
		core.NewVec3(0, -1, 0),
		core.NewVec3(1, 0, 0),
		core.NewVec3(0.3, -2, 5),
		core.NewVec3(-4, 4, -1),
	}

	for _, dir := range directions {
		ray := core.NewRay(core.NewVec3(0, 0, 0), dir)
		got := pt.RayColor(ray, sc, sampler, 10)
		if !got.Equals(expectedSky(dir)) {
			t.Errorf("Direction %v: expected %v, got %v", dir, expectedSky(dir), got)
		}
	}

	// Straight up is the top color, straight down is white
	if got := pt.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0)), sc, sampler, 1); !got.Equals(skyTop) {
		t.Errorf("Expected top color %v, got %v", skyTop, got)
	}
	if got := pt.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, -1, 0)), sc, sampler, 1); !got.Equals(skyBottom) {
		t.Errorf("Expected bottom color %v, got %v", skyBottom, got)
	}
}

func TestPathTracing_DepthZeroIsBlack(t *testing.T) {
	lambertian := material.NewLambertian(core.NewVec3(0.7, 0.3, 0.3))
	sc := newMockScene(geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, lambertian))
	pt := NewPathTracingIntegrator()
	sampler := core.NewSeededSampler(42)

	rays := []core.Ray{
		core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), // hits sphere
		core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)),  // misses
	}
	for _, ray := range rays {
		if got := pt.RayColor(ray, sc, sampler, 0); got != (core.Vec3{}) {
			t.Errorf("Expected black at depth 0, got %v", got)
		}
	}
}

func TestPathTracing_AbsorptionIsBlack(t *testing.T) {
	absorber := &MockMaterial{scatterFn: func(core.Ray, core.HitRecord, core.Sampler) (core.ScatterResult, bool) {
		return core.ScatterResult{}, false
	}}
	sc := newMockScene(geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, absorber))
	pt := NewPathTracingIntegrator()

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	if got := pt.RayColor(ray, sc, core.NewSeededSampler(1), 5); got != (core.Vec3{}) {
		t.Errorf("Expected black for absorbed ray, got %v", got)
	}
}

func TestPathTracing_AttenuationMultipliesIncomingLight(t *testing.T) {
	attenuation := core.NewVec3(0.5, 0.25, 1.0)
	escapeUp := &MockMaterial{scatterFn: func(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
		return core.ScatterResult{
			Scattered:   core.NewRay(hit.Point, core.NewVec3(0, 1, 0)),
			Attenuation: attenuation,
		}, true
	}}
	sc := newMockScene(geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, escapeUp))
	pt := NewPathTracingIntegrator()

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	got := pt.RayColor(ray, sc, core.NewSeededSampler(1), 2)

	// Scattered ray starts on the top of the sphere's front and escapes straight up
	expected := attenuation.MultiplyVec(skyTop)
	if got.Subtract(expected).Length() > 1e-12 {
		t.Errorf("Expected %v, got %v", expected, got)
	}

	// With only one bounce left the scattered ray contributes nothing
	if got := pt.RayColor(ray, sc, core.NewSeededSampler(1), 1); got != (core.Vec3{}) {
		t.Errorf("Expected black with depth 1, got %v", got)
	}
}

func TestPathTracing_DepthDecrementsPerBounce(t *testing.T) {
	// A ray trapped between two facing mirrors bounces until the budget runs out
	mirror := &MockMaterial{}
	mirror.scatterFn = func(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
		return core.ScatterResult{
			Scattered:   core.NewRay(hit.Point, rayIn.Direction.Reflect(hit.Normal)),
			Attenuation: core.NewVec3(1, 1, 1),
		}, true
	}
	// Inside a sphere every direction hits the wall
	sc := newMockScene(geometry.NewSphere(core.NewVec3(0, 0, 0), 1.0, mirror))
	pt := NewPathTracingIntegrator()

	for _, depth := range []int{1, 2, 7, 50} {
		mirror.calls = 0
		ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
		got := pt.RayColor(ray, sc, core.NewSeededSampler(3), depth)
		if got != (core.Vec3{}) {
			t.Errorf("Depth %d: expected black after exhausting bounces, got %v", depth, got)
		}
		if mirror.calls != depth {
			t.Errorf("Depth %d: expected %d scatter calls, got %d", depth, depth, mirror.calls)
		}
	}
}

func TestPathTracing_DiffuseSphereIsDarkerThanSky(t *testing.T) {
	lambertian := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	sc := newMockScene(geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, lambertian))
	pt := NewPathTracingIntegrator()
	sampler := core.NewSeededSampler(42)

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	var sum core.Vec3
	const n = 2000
	for i := 0; i < n; i++ {
		c := pt.RayColor(ray, sc, sampler, 10)
		for axis := 0; axis < 3; axis++ {
			if c.Axis(axis) < 0 || c.Axis(axis) > 1 || math.IsNaN(c.Axis(axis)) {
				t.Fatalf("Sample %v out of [0,1]", c)
			}
		}
		sum = sum.Add(c)
	}
	mean := sum.Multiply(1.0 / n)

	// Single bounce off a 50% albedo sphere into a sky of at most 1.0
	if mean.X <= 0 || mean.X > 0.5+1e-9 {
		t.Errorf("Expected red channel in (0, 0.5], got %f", mean.X)
	}
}
