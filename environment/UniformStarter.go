package environment

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
)

// UniformStarter samples starting states from a multi-dimensional
// uniform distribution. Degenerate intervals, where Min == Max, fix
// the corresponding feature.
type UniformStarter struct {
	bounds []r1.Interval
	seed   uint64
	rand   *distmv.Uniform
}

// NewUniformStarter returns a new UniformStarter sampling feature i
// from bounds[i]
func NewUniformStarter(bounds []r1.Interval, seed uint64) *UniformStarter {
	source := rand.NewSource(seed)
	rand := distmv.NewUniform(bounds, source)

	return &UniformStarter{bounds, seed, rand}
}

// Start returns a starting state vector
func (u *UniformStarter) Start() *mat.VecDense {
	sample := u.rand.Rand(nil)

	// Degenerate intervals fix their feature exactly
	for i, b := range u.bounds {
		if b.Min == b.Max {
			sample[i] = b.Min
		}
	}
	return mat.NewVecDense(len(u.bounds), sample)
}

// Seed returns the seed of the starter's random number generator
func (u *UniformStarter) Seed() uint64 {
	return u.seed
}
