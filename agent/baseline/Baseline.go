// Package baseline implements non-learning agents which give reference
// performance on the River Crossing environment
package baseline

import (
	"fmt"
	"math"

	env "github.com/samuelfneumann/rivercrossing/environment"
	"github.com/samuelfneumann/rivercrossing/environment/river"
	ts "github.com/samuelfneumann/rivercrossing/timestep"
	"github.com/samuelfneumann/rivercrossing/utils/floatutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

// DefaultGain is the default proportional gain of Steer
const DefaultGain float64 = 1.0

// noLearning implements agent.Learner for agents which do not learn
type noLearning struct{}

func (noLearning) Step() error                           { return nil }
func (noLearning) Observe(mat.Vector, ts.TimeStep) error { return nil }
func (noLearning) ObserveFirst(ts.TimeStep) error        { return nil }
func (noLearning) EndEpisode()                           {}

// Constant is an agent which always selects the same action
type Constant struct {
	noLearning
	action *mat.VecDense
}

// NewConstant returns a new Constant agent which selects action on
// every step. The action must lie within the action specification.
func NewConstant(action []float64, actionSpec env.Spec) (*Constant, error) {
	a := mat.NewVecDense(len(action), append([]float64(nil), action...))
	if !actionSpec.Contains(a) {
		return nil, fmt.Errorf("newConstant: %w: action %v outside of "+
			"action bounds", env.ErrInvalidAction, action)
	}
	return &Constant{action: a}, nil
}

// SelectAction returns a copy of the constant action
func (c *Constant) SelectAction(ts.TimeStep) *mat.VecDense {
	return mat.VecDenseCopyOf(c.action)
}

// Steer is a proportional heading controller which turns the boat
// towards the goal at full speed. Steer must be used with observations
// produced by river.GoalRelative.
type Steer struct {
	noLearning
	gain     float64
	bearing  r1.Interval
	turnRate r1.Interval
	speed    float64
}

// NewSteer returns a new Steer agent with proportional gain. The agent
// turns at gain · bearing, clipped to the legal turn rates of the
// action specification, and always travels at the maximum legal
// speed.
//
// The bearing is read through the bounds of obsSpec, which are mapped
// to [-π, π], so that Steer turns equally hard on raw observations and
// on observations rescaled by wrappers.Normalize.
func NewSteer(gain float64, actionSpec, obsSpec env.Spec) (*Steer, error) {
	if actionSpec.Len() != river.ActionDims {
		return nil, fmt.Errorf("newSteer: %w: actions must be "+
			"%v-dimensional", env.ErrInvalidConfig, river.ActionDims)
	}
	if obsSpec.Len() != river.GoalRelativeDims {
		return nil, fmt.Errorf("newSteer: %w: steering requires goal "+
			"relative observations", env.ErrInvalidConfig)
	}
	if !obsSpec.Bounded(river.ObsBearing) {
		return nil, fmt.Errorf("newSteer: %w: bearing must be bounded",
			env.ErrInvalidConfig)
	}
	if !(gain > 0) {
		return nil, fmt.Errorf("newSteer: %w: gain %v must be positive",
			env.ErrInvalidConfig, gain)
	}

	turnRate := r1.Interval{
		Min: actionSpec.LowerBound.AtVec(0),
		Max: actionSpec.UpperBound.AtVec(0),
	}
	bearing := r1.Interval{
		Min: obsSpec.LowerBound.AtVec(river.ObsBearing),
		Max: obsSpec.UpperBound.AtVec(river.ObsBearing),
	}
	return &Steer{
		gain:     gain,
		bearing:  bearing,
		turnRate: turnRate,
		speed:    actionSpec.UpperBound.AtVec(1),
	}, nil
}

// SelectAction selects the action which turns towards the goal
func (s *Steer) SelectAction(t ts.TimeStep) *mat.VecDense {
	obs := t.Observation.AtVec(river.ObsBearing)
	bearing := (obs-s.bearing.Min)/(s.bearing.Max-s.bearing.Min)*2*math.Pi -
		math.Pi
	turnRate := floatutils.ClipInterval(s.gain*bearing, s.turnRate)

	return mat.NewVecDense(river.ActionDims, []float64{turnRate, s.speed})
}
