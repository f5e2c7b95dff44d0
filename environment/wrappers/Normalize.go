// Package wrappers implements environment wrappers, which alter the
// observations or rewards of an environment
package wrappers

import (
	"fmt"

	"github.com/samuelfneumann/rivercrossing/environment"
	"github.com/samuelfneumann/rivercrossing/timestep"
	"gonum.org/v1/gonum/mat"
)

// Normalize wraps an environment and scales each observation feature
// with finite bounds in the wrapped environment's observation
// specification to [-1, 1]. Features without finite bounds are
// returned unchanged.
//
// Normalize itself implements the environment.Environment interface,
// and is therefore itself an Environment.
type Normalize struct {
	environment.Environment
	lower   *mat.VecDense
	scale   *mat.VecDense
	bounded []bool
}

// NewNormalize creates and returns a new Normalize Environment wrapper
func NewNormalize(env environment.Environment) *Normalize {
	spec := env.ObservationSpec()
	n := spec.Len()

	lower := mat.NewVecDense(n, nil)
	scale := mat.NewVecDense(n, nil)
	bounded := make([]bool, n)
	for i := 0; i < n; i++ {
		if !spec.Bounded(i) {
			continue
		}
		lo, hi := spec.LowerBound.AtVec(i), spec.UpperBound.AtVec(i)
		lower.SetVec(i, lo)
		scale.SetVec(i, 2/(hi-lo))
		bounded[i] = true
	}

	return &Normalize{env, lower, scale, bounded}
}

// Reset resets the environment and returns a starting state drawn from
// the environment Starter
func (n *Normalize) Reset() (timestep.TimeStep, error) {
	step, err := n.Environment.Reset()
	if err != nil {
		return step, err
	}
	return n.normalize(step), nil
}

// Step takes one environmental step given action a and returns the
// next timestep with its observation normalized, a bool indicating
// whether or not the episode has ended, and an error.
func (n *Normalize) Step(a *mat.VecDense) (timestep.TimeStep, bool, error) {
	step, last, err := n.Environment.Step(a)
	if err != nil {
		return step, last, err
	}
	return n.normalize(step), last, nil
}

// CurrentTimeStep returns the last TimeStep that occurred in the
// environment, with its observation normalized
func (n *Normalize) CurrentTimeStep() timestep.TimeStep {
	return n.normalize(n.Environment.CurrentTimeStep())
}

// ObservationSpec returns the observation specification of the
// environment. Bounded features have bounds of [-1, 1].
func (n *Normalize) ObservationSpec() environment.Spec {
	spec := n.Environment.ObservationSpec()
	lower := mat.VecDenseCopyOf(spec.LowerBound)
	upper := mat.VecDenseCopyOf(spec.UpperBound)

	for i, b := range n.bounded {
		if b {
			lower.SetVec(i, -1)
			upper.SetVec(i, 1)
		}
	}

	spec.LowerBound = lower
	spec.UpperBound = upper
	return spec
}

// normalize returns a copy of t with a normalized observation. The
// observation of the wrapped environment is not modified.
func (n *Normalize) normalize(t timestep.TimeStep) timestep.TimeStep {
	if t.Observation == nil {
		return t
	}

	obs := mat.VecDenseCopyOf(t.Observation)
	for i, b := range n.bounded {
		if b {
			obs.SetVec(i, (obs.AtVec(i)-n.lower.AtVec(i))*n.scale.AtVec(i)-1)
		}
	}

	t.Observation = obs
	return t
}

// String returns a string representation of the Normalize environment
func (n *Normalize) String() string {
	return fmt.Sprintf("Normalize: %v", n.Environment)
}
