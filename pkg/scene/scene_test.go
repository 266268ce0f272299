package scene

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/integrator"
	"github.com/df07/go-sphere-tracer/pkg/material"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
)

func TestNewDefaultScene(t *testing.T) {
	s := NewDefaultScene()

	if s.World.Len() != 4 {
		t.Fatalf("Expected 4 spheres, got %d", s.World.Len())
	}
	if s.SamplingConfig.Width != 400 || s.SamplingConfig.Height != 225 {
		t.Errorf("Expected 400x225, got %dx%d", s.SamplingConfig.Width, s.SamplingConfig.Height)
	}
	if s.SamplingConfig.SamplesPerPixel != 100 || s.SamplingConfig.MaxDepth != 50 {
		t.Errorf("Unexpected sampling config %+v", s.SamplingConfig)
	}
	top, bottom := s.GetBackgroundColors()
	if !top.Equals(core.NewVec3(0.5, 0.7, 1.0)) || !bottom.Equals(core.NewVec3(1, 1, 1)) {
		t.Errorf("Unexpected sky %v -> %v", bottom, top)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Default scene should validate: %v", err)
	}

	// The centre sphere is the first thing the middle of the image sees
	hit, ok := s.GetWorld().Hit(s.GetCamera().GetRay(0.5, 0.5), 0.001, math.Inf(1))
	if !ok {
		t.Fatal("Expected the centre ray to hit a sphere")
	}
	if math.Abs(hit.T-0.5) > 1e-9 {
		t.Errorf("Expected centre sphere at t=0.5, got %f", hit.T)
	}
	if _, ok := hit.Material.(*material.Lambertian); !ok {
		t.Errorf("Expected the centre sphere to be diffuse, got %T", hit.Material)
	}
}

func TestDefaultScene_Materials(t *testing.T) {
	s := NewDefaultScene()

	tests := []struct {
		name   string
		u, v   float64
		fuzz   float64
		albedo core.Vec3
	}{
		{"left brushed silver", 0.5 - 1.0/(16.0/9.0*2.0), 0.5, 0.3, core.NewVec3(0.8, 0.8, 0.8)},
		{"right rough gold", 0.5 + 1.0/(16.0/9.0*2.0), 0.5, 1.0, core.NewVec3(0.8, 0.6, 0.2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := s.World.Hit(s.Camera.GetRay(tt.u, tt.v), 0.001, math.Inf(1))
			if !ok {
				t.Fatal("Expected a hit")
			}
			metal, ok := hit.Material.(*material.Metal)
			if !ok {
				t.Fatalf("Expected metal, got %T", hit.Material)
			}
			if metal.Fuzzness != tt.fuzz || !metal.Albedo.Equals(tt.albedo) {
				t.Errorf("Expected albedo %v fuzz %f, got %v fuzz %f", tt.albedo, tt.fuzz, metal.Albedo, metal.Fuzzness)
			}
		})
	}
}

func TestNew(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			s, err := New(name)
			if err != nil {
				t.Fatalf("New(%q) failed: %v", name, err)
			}
			if err := s.Validate(); err != nil {
				t.Errorf("Scene %q does not validate: %v", name, err)
			}
		})
	}

	if _, err := New("cornell"); !errors.Is(err, ErrUnknownScene) {
		t.Errorf("Expected ErrUnknownScene for unknown scene, got %v", err)
	}
	_, err := New("default", renderer.CameraConfig{Width: 10, AspectRatio: math.NaN()})
	if err == nil {
		t.Error("Expected error for invalid camera override")
	} else if errors.Is(err, ErrUnknownScene) {
		t.Errorf("Invalid camera override reported as unknown scene: %v", err)
	}
}

func TestNew_CameraOverrides(t *testing.T) {
	s, err := New("single", renderer.CameraConfig{Width: 64, AspectRatio: 2})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if s.SamplingConfig.Width != 64 || s.SamplingConfig.Height != 32 {
		t.Errorf("Expected 64x32, got %dx%d", s.SamplingConfig.Width, s.SamplingConfig.Height)
	}
	if s.CameraConfig.FocalLength != 1.0 {
		t.Errorf("Expected default focal length kept, got %f", s.CameraConfig.FocalLength)
	}
}

func TestNamesAndListScenes(t *testing.T) {
	expected := []string{"default", "mirror", "single"}
	if got := Names(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Names() = %v, expected %v", got, expected)
	}

	infos := ListScenes()
	if len(infos) != len(expected) {
		t.Fatalf("Expected %d scene infos, got %d", len(expected), len(infos))
	}
	for i, info := range infos {
		if info.ID != expected[i] || info.DisplayName == "" || info.Description == "" {
			t.Errorf("Incomplete scene info %+v", info)
		}
	}
}

func TestScene_SetSampling(t *testing.T) {
	s := NewSingleSphereScene()
	s.SetSampling(4, 0)
	if s.SamplingConfig.SamplesPerPixel != 4 || s.SamplingConfig.MaxDepth != 50 {
		t.Errorf("Unexpected sampling config %+v", s.SamplingConfig)
	}
	s.SetSampling(0, 3)
	if s.SamplingConfig.SamplesPerPixel != 4 || s.SamplingConfig.MaxDepth != 3 {
		t.Errorf("Unexpected sampling config %+v", s.SamplingConfig)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		input    string
		expected core.Vec3
		wantErr  bool
	}{
		{"white", core.NewVec3(1, 1, 1), false},
		{"Black", core.NewVec3(0, 0, 0), false},
		{" red ", core.NewVec3(1, 0, 0), false},
		{"0.5,0.7,1", core.NewVec3(0.5, 0.7, 1), false},
		{"0.1, 0.2, 0.3", core.NewVec3(0.1, 0.2, 0.3), false},
		{"notacolor", core.Vec3{}, true},
		{"1,2", core.Vec3{}, true},
		{"1,x,2", core.Vec3{}, true},
		{"-1,0,0", core.Vec3{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseColor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) error = %v, wantErr %t", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got.Subtract(tt.expected).Length() > 1e-12 {
				t.Errorf("ParseColor(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestScene_RendersEndToEnd(t *testing.T) {
	s, err := New("default", renderer.CameraConfig{Width: 16})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	s.SetSampling(2, 5)

	config := renderer.ParallelConfig{TileSize: 8, NumWorkers: 2, Seed: 1}
	img, stats, err := renderer.NewParallelRaytracer(s, integrator.NewPathTracingIntegrator(), config, &testLogger{t: t}).Render(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 9 {
		t.Errorf("Expected 16x9 image, got %v", img.Bounds())
	}
	if stats.TotalSamples != 16*9*2 {
		t.Errorf("Expected %d samples, got %d", 16*9*2, stats.TotalSamples)
	}

	// Top row is sky, bluer than it is red
	top := img.RGBAAt(0, 0)
	if top.B <= top.R {
		t.Errorf("Expected sky at the top-left, got %v", top)
	}
}

// testLogger routes renderer logs to the test log
type testLogger struct {
	t *testing.T
}

func (l *testLogger) Printf(format string, args ...interface{}) {
	l.t.Logf(format, args...)
}
