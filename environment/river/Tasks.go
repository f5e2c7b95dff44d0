package river

import (
	env "github.com/samuelfneumann/rivercrossing/environment"
	ts "github.com/samuelfneumann/rivercrossing/timestep"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// GoalReward is added to the Progress reward on reaching the goal
	GoalReward float64 = 10.0

	// BoundaryPenalty is subtracted from the Progress reward when the
	// boat leaves the river
	BoundaryPenalty float64 = 10.0
)

// TaskFunc constructs the Task of an episode from its Config
type TaskFunc func(Config) env.Task

// crossing implements the parts of the river crossing tasks which do
// not depend on the reward: the start state distribution and episode
// termination.
//
// Episodes end when the boat comes within the goal tolerance of the
// goal, when the boat leaves the banks or the downstream bounds of
// the river, or at the step limit, checked in that order.
type crossing struct {
	env.Starter
	goal      r2.Vec
	tolerance float64
	goalEnder *env.FunctionEnder
	bankEnder *env.IntervalLimit
	stepEnder *env.StepLimit
}

func newCrossing(c Config) *crossing {
	cr := &crossing{
		Starter:   c.Starter(),
		goal:      c.Goal.Vec(),
		tolerance: c.GoalTolerance,
		stepEnder: env.NewStepLimit(c.MaxSteps),
	}

	cr.goalEnder = env.NewFunctionEnder(cr.AtGoal, ts.TerminalStateReached)
	cr.bankEnder = env.NewIntervalLimit(
		[]r1.Interval{c.Downstream(), c.Banks()},
		[]int{StateX, StateY},
		ts.BoundaryViolation,
	)
	return cr
}

// End determines if a TimeStep is the last in the episode, adjusting
// its StepType and EndType if so
func (c *crossing) End(t *ts.TimeStep, state *mat.VecDense) bool {
	if end := c.goalEnder.End(t, state); end {
		return true
	}
	if end := c.bankEnder.End(t, state); end {
		return true
	}
	return c.stepEnder.End(t, state)
}

// AtGoal returns whether the boat is within the goal tolerance of the
// goal
func (c *crossing) AtGoal(state *mat.VecDense) bool {
	return c.distance(state) <= c.tolerance
}

// OutOfBounds returns whether the boat has left the river
func (c *crossing) OutOfBounds(state *mat.VecDense) bool {
	return c.bankEnder.Exceeded(state)
}

func (c *crossing) distance(state *mat.VecDense) float64 {
	position := r2.Vec{X: state.AtVec(StateX), Y: state.AtVec(StateY)}
	return r2.Norm(r2.Sub(c.goal, position))
}

// Progress implements a dense crossing task. On each step the reward
// is the reduction in distance to the goal, so moving towards the goal
// is rewarded and drifting away is penalized. Reaching the goal adds
// GoalReward, and leaving the river subtracts BoundaryPenalty.
type Progress struct {
	*crossing
	maxProgress float64
}

// NewProgress returns a new Progress task for the Config
func NewProgress(c Config) env.Task {
	return &Progress{newCrossing(c), c.MaxProgress()}
}

// GetReward returns the reward for taking action in state and
// transitioning to nextState
func (p *Progress) GetReward(state, _, nextState *mat.VecDense) float64 {
	reward := p.distance(state) - p.distance(nextState)

	if p.AtGoal(nextState) {
		return reward + GoalReward
	}
	if p.OutOfBounds(nextState) {
		return reward - BoundaryPenalty
	}
	return reward
}

// Min returns a nominal minimum reward over all timesteps
func (p *Progress) Min() float64 { return -BoundaryPenalty - p.maxProgress }

// Max returns a nominal maximum reward over all timesteps
func (p *Progress) Max() float64 { return GoalReward + p.maxProgress }

// RewardSpec returns the reward specification of the Task
func (p *Progress) RewardSpec() env.Spec {
	return env.NewBoundedSpec(env.Reward, []float64{p.Min()},
		[]float64{p.Max()})
}

// Sparse implements a sparse crossing task, with a reward of 1 on the
// step that reaches the goal and 0 on all other steps.
type Sparse struct {
	*crossing
}

// NewSparse returns a new Sparse task for the Config
func NewSparse(c Config) env.Task {
	return &Sparse{newCrossing(c)}
}

// GetReward returns the reward for transitioning to nextState
func (s *Sparse) GetReward(_, _, nextState *mat.VecDense) float64 {
	if s.AtGoal(nextState) {
		return 1.0
	}
	return 0.0
}

// Min returns the minimum attainable reward over all timesteps
func (s *Sparse) Min() float64 { return 0.0 }

// Max returns the maximum attainable reward over all timesteps
func (s *Sparse) Max() float64 { return 1.0 }

// RewardSpec returns the reward specification of the Task
func (s *Sparse) RewardSpec() env.Spec {
	spec := env.NewBoundedSpec(env.Reward, []float64{s.Min()},
		[]float64{s.Max()})
	spec.Cardinality = env.Discrete
	return spec
}
