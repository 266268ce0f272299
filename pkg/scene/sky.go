package scene

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

// ParseColor turns an SVG color name ("skyblue") or a comma separated
// triple of linear components ("0.5,0.7,1") into a color
func ParseColor(s string) (core.Vec3, error) {
	s = strings.TrimSpace(s)
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return core.NewVec3(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0), nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return core.Vec3{}, fmt.Errorf("invalid color %q: expected a color name or r,g,b", s)
	}
	var rgb [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return core.Vec3{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		if !(v >= 0) {
			return core.Vec3{}, fmt.Errorf("invalid color %q: component %d is negative", s, i)
		}
		rgb[i] = v
	}
	return core.NewVec3(rgb[0], rgb[1], rgb[2]), nil
}

// SetSky replaces the top color of the background gradient
func (s *Scene) SetSky(top core.Vec3) {
	s.TopColor = top
}
