package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/integrator"
	"github.com/df07/go-sphere-tracer/pkg/material"
	"github.com/df07/go-sphere-tracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties"`
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func hexColor(c core.Vec3) string {
	c = c.Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x", int(c.X*255), int(c.Y*255), int(c.Z*255))
}

// extractMaterialInfo extracts detailed material information with type assertions
func (s *Server) extractMaterialInfo(mat core.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case *material.Lambertian:
		properties["albedo"] = vecArray(m.Albedo)
		properties["color"] = hexColor(m.Albedo)
		return "lambertian", properties

	case *material.Metal:
		properties["albedo"] = vecArray(m.Albedo)
		properties["color"] = hexColor(m.Albedo)
		properties["fuzzness"] = m.Fuzzness
		return "metal", properties

	default:
		return "unknown", properties
	}
}

// InspectResult contains information about the object hit by an inspection ray
type InspectResult struct {
	Hit       bool
	HitRecord *core.HitRecord
	Shape     core.Shape // The shape that was hit, nil if it could not be identified
}

// inspectPixel casts a ray through the centre of a pixel and returns the first object hit.
// Pixel rows count down from the top of the image.
func inspectPixel(sceneObj *scene.Scene, pixelX, pixelY int) InspectResult {
	config := sceneObj.GetSamplingConfig()
	u := (float64(pixelX) + 0.5) / float64(config.Width)
	v := (float64(config.Height-1-pixelY) + 0.5) / float64(config.Height)
	ray := sceneObj.GetCamera().GetRay(u, v)

	hit, isHit := sceneObj.World.Hit(ray, integrator.HitEpsilon, math.Inf(1))
	if !isHit {
		return InspectResult{Hit: false}
	}

	// The shape list reports the hit but not the shape, so find the shape with the same hit
	for _, shape := range sceneObj.World.Shapes {
		if shapeHit, shapeIsHit := shape.Hit(ray, integrator.HitEpsilon, math.Inf(1)); shapeIsHit && shapeHit.T == hit.T {
			return InspectResult{Hit: true, HitRecord: hit, Shape: shape}
		}
	}

	return InspectResult{Hit: true, HitRecord: hit}
}

// extractGeometryInfo extracts detailed geometry information
func (s *Server) extractGeometryInfo(shape core.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = vecArray(geom.Center)
		properties["radius"] = geom.Radius
		return "sphere", properties

	default:
		return "unknown", properties
	}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		writeError(w, sceneErrorStatus(err), err.Error())
		return
	}

	config := sceneObj.GetSamplingConfig()
	if pixelX < 0 || pixelX >= config.Width || pixelY < 0 || pixelY >= config.Height {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	result := inspectPixel(sceneObj, pixelX, pixelY)
	if !result.Hit {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false})
		return
	}

	materialType, materialProps := s.extractMaterialInfo(result.HitRecord.Material)
	geometryType, geometryProps := s.extractGeometryInfo(result.Shape)

	response := InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        vecArray(result.HitRecord.Point),
		Normal:       vecArray(result.HitRecord.Normal),
		Distance:     result.HitRecord.T,
		FrontFace:    result.HitRecord.FrontFace,
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	}
	writeJSON(w, http.StatusOK, response)
}
