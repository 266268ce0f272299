package core

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// Shape interface for objects that can be hit by rays
type Shape interface {
	Hit(ray Ray, tMin, tMax float64) (*HitRecord, bool)
}

// Material interface for objects that can scatter rays.
// Returning false means the ray was absorbed.
type Material interface {
	Scatter(rayIn Ray, hit HitRecord, sampler Sampler) (ScatterResult, bool)
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   Ray  // The scattered ray
	Attenuation Vec3 // Color attenuation
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     Vec3     // Point of intersection
	Normal    Vec3     // Unit surface normal, always facing against the incoming ray
	T         float64  // Parameter t along the ray
	FrontFace bool     // Whether ray hit the front face
	Material  Material // Material of the hit object
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray Ray, outwardNormal Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// Camera generates primary rays from normalized image-plane coordinates
type Camera interface {
	GetRay(u, v float64) Ray
}

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width           int // Image width
	Height          int // Image height
	SamplesPerPixel int // Number of rays per pixel
	MaxDepth        int // Maximum ray bounce depth
}

// Scene is the read-only view of a scene used during rendering
type Scene interface {
	GetCamera() Camera
	GetWorld() Shape
	GetBackgroundColors() (topColor, bottomColor Vec3)
	GetSamplingConfig() SamplingConfig
}

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor estimates the light arriving along ray, allowing at most depth bounces
	RayColor(ray Ray, scene Scene, sampler Sampler, depth int) Vec3
}
