package core

import "math/rand/v2"

// PixelSampler draws from a private PCG stream. Its state is two words, so a
// render can keep one per pixel across passes.
type PixelSampler struct {
	pcg rand.PCG
}

// NewPixelSampler returns the stream for pixel (x, y) of a render seeded with
// seed. The same arguments always give the same sequence.
func NewPixelSampler(seed int64, x, y int) *PixelSampler {
	s := &PixelSampler{}
	s.pcg.Seed(splitMix64(uint64(seed)), splitMix64(uint64(uint32(y))<<32|uint64(uint32(x))))
	return s
}

// Get1D returns a random float64 in [0, 1)
func (s *PixelSampler) Get1D() float64 {
	return float64(s.pcg.Uint64()>>11) / (1 << 53)
}

// Get3D returns three random float64 values in [0, 1)
func (s *PixelSampler) Get3D() Vec3 {
	return NewVec3(s.Get1D(), s.Get1D(), s.Get1D())
}

// splitMix64 scatters nearby seeds across the generator's state space
func splitMix64(z uint64) uint64 {
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
