package river

import (
	"fmt"
	"math"

	env "github.com/samuelfneumann/rivercrossing/environment"
	"github.com/samuelfneumann/rivercrossing/physics"
	"github.com/samuelfneumann/rivercrossing/utils/floatutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

// Indices of features in state vectors. Tasks and Enders see the
// state in this layout.
const (
	StateX int = iota
	StateY
	StateHeading
	StateSpeed
	StateDims
)

// StateVector returns the vector form [x, y, heading, speed] of a
// boat's state
func StateVector(s physics.State) *mat.VecDense {
	return mat.NewVecDense(StateDims, []float64{
		s.Position.X,
		s.Position.Y,
		s.Heading,
		s.Speed,
	})
}

// Observer projects the full state of the boat onto the observation
// given to the agent. Observers are pure: the same state always gives
// the same observation.
type Observer interface {
	Observe(s physics.State) *mat.VecDense
	ObservationSpec() env.Spec
}

// ObserverFunc constructs the Observer of an episode from its Config
type ObserverFunc func(Config) (Observer, error)

// FullState observes the entire state of the boat as
// [x, y, heading, speed]
type FullState struct {
	spec env.Spec
}

// NewFullState returns a new FullState Observer
func NewFullState(c Config) (Observer, error) {
	lower := []float64{c.DownstreamMin, -c.Width / 2, -math.Pi, 0}
	upper := []float64{c.DownstreamMax, c.Width / 2, math.Pi, c.MaxSpeed}

	return &FullState{env.NewBoundedSpec(env.Observation, lower, upper)}, nil
}

// Observe returns the observation of state s
func (f *FullState) Observe(s physics.State) *mat.VecDense {
	return StateVector(s)
}

// ObservationSpec returns the observation specification
func (f *FullState) ObservationSpec() env.Spec {
	return f.spec
}

// Indices of features in GoalRelative observations
const (
	ObsDistance int = iota
	ObsBearing
	ObsFlow
	GoalRelativeDims
)

// GoalRelative is a simplified observation of the boat's state which
// keeps only what a helmsman would steer by: the distance to the
// goal, the bearing of the goal relative to the boat's heading, and
// the speed of the current under the boat.
//
// Bearings are in [-π, π], positive meaning the goal lies to port
// (counter-clockwise of the heading).
type GoalRelative struct {
	goal r2.Vec
	flow physics.FlowField
	spec env.Spec
}

// NewGoalRelative returns a new GoalRelative Observer
func NewGoalRelative(c Config) (Observer, error) {
	flow, err := c.FlowField()
	if err != nil {
		return nil, fmt.Errorf("newGoalRelative: %w", err)
	}

	// The farthest legal point from the goal is a corner of the
	// region bounded by the banks and the downstream interval
	dx := math.Max(math.Abs(c.Goal.X-c.DownstreamMin),
		math.Abs(c.Goal.X-c.DownstreamMax))
	dy := math.Max(math.Abs(c.Goal.Y-c.Width/2),
		math.Abs(c.Goal.Y+c.Width/2))

	lower := []float64{0, -math.Pi, 0}
	upper := []float64{math.Hypot(dx, dy), math.Pi, c.MaxFlowSpeed}

	return &GoalRelative{
		goal: c.Goal.Vec(),
		flow: flow,
		spec: env.NewBoundedSpec(env.Observation, lower, upper),
	}, nil
}

// Observe returns the observation of state s
func (g *GoalRelative) Observe(s physics.State) *mat.VecDense {
	toGoal := r2.Sub(g.goal, s.Position)

	bearing := 0.0
	if toGoal != (r2.Vec{}) {
		bearing = floatutils.NormalizeAngle(
			math.Atan2(toGoal.Y, toGoal.X) - s.Heading)
	}

	return mat.NewVecDense(GoalRelativeDims, []float64{
		r2.Norm(toGoal),
		bearing,
		r2.Norm(g.flow.VelocityAt(s.Position.Y)),
	})
}

// ObservationSpec returns the observation specification
func (g *GoalRelative) ObservationSpec() env.Spec {
	return g.spec
}
