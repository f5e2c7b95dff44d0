// Package environment outlines the interfaces and structs needed to
// implement concrete environments
package environment

import (
	ts "github.com/samuelfneumann/rivercrossing/timestep"
	"gonum.org/v1/gonum/mat"
)

// Starter implements a distribution of starting states and samples
// starting states for environments
type Starter interface {
	Start() *mat.VecDense
}

// Ender determines when episodes end. Enders inspect the underlying
// environment state rather than the observation, since observations
// may be a lossy projection of the state.
type Ender interface {
	// End determines whether the episode should end, given the
	// TimeStep that is about to be returned and the environment state
	// that produced it. If so, End marks the TimeStep as the last in
	// the episode and returns true.
	End(t *ts.TimeStep, state *mat.VecDense) bool
}

// Task implements the reward scheme for taking actions in some
// environment, together with its start state distribution and the
// conditions under which episodes end
type Task interface {
	Starter
	Ender
	GetReward(state, action, nextState *mat.VecDense) float64
	AtGoal(state *mat.VecDense) bool
	RewardSpec() Spec
	Min() float64 // Minimum attainable reward
	Max() float64 // Maximum attainable reward
}

// Environment implements a simulated environment, which includes a
// Task to complete
type Environment interface {
	Task
	Reset() (ts.TimeStep, error)
	Step(action *mat.VecDense) (ts.TimeStep, bool, error)
	CurrentTimeStep() ts.TimeStep
	DiscountSpec() Spec
	ObservationSpec() Spec
	ActionSpec() Spec
}
