package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

func TestShapeList_NearestHitRegardlessOfOrder(t *testing.T) {
	near := NewSphere(core.NewVec3(0, 0, -2), 0.5, &tagMaterial{name: "near"})
	far := NewSphere(core.NewVec3(0, 0, -5), 0.5, &tagMaterial{name: "far"})
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	tests := []struct {
		name  string
		order []core.Shape
	}{
		{"near first", []core.Shape{near, far}},
		{"far first", []core.Shape{far, near}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := NewShapeList(tt.order...)
			hit, isHit := list.Hit(ray, 0.001, math.Inf(1))
			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}
			if name := hit.Material.(*tagMaterial).name; name != "near" {
				t.Errorf("Expected nearest sphere to win, got %q", name)
			}
			if math.Abs(hit.T-1.5) > 1e-9 {
				t.Errorf("Expected t=1.5, got t=%f", hit.T)
			}
		})
	}
}

func TestShapeList_OverlappingSpheres(t *testing.T) {
	// The big sphere's far side lies beyond the small sphere's near side
	big := NewSphere(core.NewVec3(0, 0, -3), 2.0, &tagMaterial{name: "big"})
	small := NewSphere(core.NewVec3(0, 0, -2), 0.25, &tagMaterial{name: "small"})
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	for _, order := range [][]core.Shape{{big, small}, {small, big}} {
		hit, isHit := NewShapeList(order...).Hit(ray, 0.001, math.Inf(1))
		if !isHit {
			t.Fatal("Expected hit, but got miss")
		}
		if name := hit.Material.(*tagMaterial).name; name != "big" {
			t.Errorf("Expected big sphere at t=1, got %q at t=%f", name, hit.T)
		}
	}
}

func TestShapeList_Miss(t *testing.T) {
	list := NewShapeList()
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	if _, isHit := list.Hit(ray, 0.001, math.Inf(1)); isHit {
		t.Error("Expected empty list to miss")
	}

	list.Add(NewSphere(core.NewVec3(0, 5, -1), 0.5, nil))
	if list.Len() != 1 {
		t.Errorf("Expected 1 shape, got %d", list.Len())
	}
	if hit, isHit := list.Hit(ray, 0.001, math.Inf(1)); isHit {
		t.Errorf("Expected miss, got hit at t=%f", hit.T)
	}
}

func TestShapeList_RespectsRange(t *testing.T) {
	list := NewShapeList(NewSphere(core.NewVec3(0, 0, -2), 0.5, nil))
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	if _, isHit := list.Hit(ray, 0.001, 1.0); isHit {
		t.Error("Expected miss when sphere lies beyond tMax")
	}
}
