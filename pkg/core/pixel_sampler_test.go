package core

import (
	"math"
	"testing"
)

func TestPixelSampler_Reproducible(t *testing.T) {
	a := NewPixelSampler(7, 3, 5)
	b := NewPixelSampler(7, 3, 5)
	for i := 0; i < 100; i++ {
		if x, y := a.Get1D(), b.Get1D(); x != y {
			t.Fatalf("Draw %d differs: %f vs %f", i, x, y)
		}
	}
}

func TestPixelSampler_StreamsDiffer(t *testing.T) {
	tests := []struct {
		name string
		a, b *PixelSampler
	}{
		{"neighbouring x", NewPixelSampler(1, 0, 0), NewPixelSampler(1, 1, 0)},
		{"neighbouring y", NewPixelSampler(1, 0, 0), NewPixelSampler(1, 0, 1)},
		{"swapped coordinates", NewPixelSampler(1, 2, 3), NewPixelSampler(1, 3, 2)},
		{"different seed", NewPixelSampler(1, 4, 4), NewPixelSampler(2, 4, 4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.a.Get3D().Equals(tt.b.Get3D()) {
				t.Error("Expected independent streams to differ")
			}
		})
	}
}

func TestPixelSampler_UniformRange(t *testing.T) {
	sampler := NewPixelSampler(42, 10, 20)
	const n = 20000
	sum := 0.0
	for i := 0; i < n; i++ {
		v := sampler.Get1D()
		if v < 0 || v >= 1 {
			t.Fatalf("Sample %f outside [0,1)", v)
		}
		sum += v
	}
	if mean := sum / n; math.Abs(mean-0.5) > 0.01 {
		t.Errorf("Expected mean near 0.5, got %f", mean)
	}
}
