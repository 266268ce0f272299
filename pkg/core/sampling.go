package core

import (
	"math/rand"
)

// maxRejectionAttempts bounds rejection sampling when the random source misbehaves
const maxRejectionAttempts = 64

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing
type Sampler interface {
	Get1D() float64
	Get3D() Vec3
}

// RandomSampler wraps a standard Go random generator.
// Not safe for concurrent use: give each worker or tile its own.
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler with its own deterministic stream
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get3D returns three random float64 values in [0, 1)
func (r *RandomSampler) Get3D() Vec3 {
	return NewVec3(r.random.Float64(), r.random.Float64(), r.random.Float64())
}

// RandomInRange returns a vector uniformly distributed in the cube [lo, hi)³
func RandomInRange(sampler Sampler, lo, hi float64) Vec3 {
	u := sampler.Get3D()
	span := hi - lo
	return Vec3{
		X: lo + span*u.X,
		Y: lo + span*u.Y,
		Z: lo + span*u.Z,
	}
}

// RandomInUnitSphere returns a point strictly inside the unit sphere
// using rejection sampling from the [-1,1]³ cube
func RandomInUnitSphere(sampler Sampler) Vec3 {
	for range maxRejectionAttempts {
		p := RandomInRange(sampler, -1, 1)
		if p.LengthSquared() < 1.0 {
			return p
		}
	}
	// The centre is always a valid interior point
	return Vec3{}
}

// RandomUnitVector returns a random unit-length direction by normalizing
// a unit sphere sample
func RandomUnitVector(sampler Sampler) Vec3 {
	for range maxRejectionAttempts {
		p := RandomInUnitSphere(sampler)
		if p.LengthSquared() > 0 {
			return p.Normalize()
		}
	}
	return NewVec3(0, 1, 0)
}
