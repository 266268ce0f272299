package geometry

import "github.com/df07/go-sphere-tracer/pkg/core"

// ShapeList combines many shapes into a single nearest-hit query
type ShapeList struct {
	Shapes []core.Shape
}

// NewShapeList creates a list from the given shapes, preserving order
func NewShapeList(shapes ...core.Shape) *ShapeList {
	return &ShapeList{Shapes: shapes}
}

// Add appends a shape to the list
func (l *ShapeList) Add(shape core.Shape) {
	l.Shapes = append(l.Shapes, shape)
}

// Len returns the number of shapes in the list
func (l *ShapeList) Len() int {
	return len(l.Shapes)
}

// Hit returns the nearest hit across all shapes within [tMin, tMax].
// Each hit shrinks the search range so later shapes can only win by being strictly closer.
func (l *ShapeList) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	var closestHit *core.HitRecord
	closestSoFar := tMax

	for _, shape := range l.Shapes {
		hit, isHit := shape.Hit(ray, tMin, closestSoFar)
		if isHit && (closestHit == nil || hit.T < closestSoFar) {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}
