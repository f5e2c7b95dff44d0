// Package river implements the River Crossing environment, in which
// a boat must cross a river with a spatially varying current to reach
// a goal on the far shore.
//
// The boat is modelled as a sphere that experiences the drag of the
// water flowing past it; even with no action taken, the current
// carries the boat downstream. States and actions are continuous.
//
// State features are the boat's position (x downstream, y across the
// stream), its heading measured from the +x axis, and its forward
// speed. The agent does not necessarily see the state: observations
// are produced by a configurable Observer, by default GoalRelative.
//
// Actions are 2-dimensional and continuous: [turn rate, forward speed].
// Turn rates are clipped to [-MaxTurnRate, MaxTurnRate] and forward
// speeds to [0, MaxSpeed]. Clipped actions are logged and flagged in
// the TimeStep's Info under InfoTurnRateClipped and InfoSpeedClipped.
package river

import (
	"errors"
	"fmt"
	"math"

	env "github.com/samuelfneumann/rivercrossing/environment"
	"github.com/samuelfneumann/rivercrossing/physics"
	ts "github.com/samuelfneumann/rivercrossing/timestep"
	"github.com/samuelfneumann/rivercrossing/utils/floatutils"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

// ActionDims is the dimension of actions: [turn rate, forward speed]
const ActionDims int = 2

// Keys of the Info attached to each TimeStep
const (
	InfoTurnRateClipped string = "turn_rate_clipped"
	InfoSpeedClipped    string = "speed_clipped"
	InfoDistance        string = "distance_to_goal"
	InfoEndType         string = "end_type"
)

// ErrNoRenderer is returned by Render when no Renderer was configured
var ErrNoRenderer = errors.New("river: no renderer configured")

// Phase is the lifecycle phase of a River
type Phase int

const (
	// Uninitialized environments must be reset before stepping
	Uninitialized Phase = iota

	// Ready environments have been reset but not yet stepped
	Ready

	// Running environments are in the middle of an episode
	Running

	// Terminated environments have finished their episode and must be
	// reset before stepping
	Terminated
)

func (p Phase) String() string {
	switch p {
	case Ready:
		return "Ready"
	case Running:
		return "Running"
	case Terminated:
		return "Terminated"
	default:
		return "Uninitialized"
	}
}

// Renderer draws the state of a River. Rendering is left to
// collaborators outside this package.
type Renderer interface {
	Render(c Config, s physics.State) error
}

// River implements the River Crossing environment. See the package
// documentation for a description of states and actions.
//
// A River is not safe for concurrent use. Independent Rivers share no
// state and may be run in parallel.
//
// River implements the environment.Environment interface
type River struct {
	env.Task
	newTask     TaskFunc
	newObserver ObserverFunc
	observer    Observer
	kinematics  *physics.Kinematics
	config      Config

	state    physics.State
	lastStep ts.TimeStep
	phase    Phase
	discount float64

	logger   *zap.Logger
	renderer Renderer
}

// Option configures a River
type Option func(*River)

// WithObserver sets how observations are produced from states
func WithObserver(o ObserverFunc) Option {
	return func(r *River) { r.newObserver = o }
}

// WithLogger sets the logger of the River
func WithLogger(l *zap.Logger) Option {
	return func(r *River) { r.logger = l }
}

// WithDiscount sets the discount of the River, 1.0 by default
func WithDiscount(d float64) Option {
	return func(r *River) { r.discount = d }
}

// WithRenderer sets the collaborator that Render delegates to
func WithRenderer(rd Renderer) Option {
	return func(r *River) { r.renderer = rd }
}

// New creates a new River with the Task built by t from the Config c.
// The River must be reset before it can be stepped.
func New(t TaskFunc, c Config, opts ...Option) (*River, error) {
	if t == nil {
		return nil, fmt.Errorf("new: %w: nil task", env.ErrInvalidConfig)
	}

	r := &River{
		newTask:     t,
		newObserver: NewGoalRelative,
		discount:    1.0,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With(zap.String("env", "river"))

	if r.discount < 0 || r.discount > 1 || math.IsNaN(r.discount) {
		return nil, fmt.Errorf("new: %w: discount %v not in [0, 1]",
			env.ErrInvalidConfig, r.discount)
	}
	if err := r.configure(c); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	return r, nil
}

// configure validates the Config and rebuilds everything derived from
// it. On error the River is left unchanged.
func (r *River) configure(c Config) error {
	if err := c.Validate(); err != nil {
		return err
	}

	kinematics, err := c.Kinematics()
	if err != nil {
		return fmt.Errorf("%w: %v", env.ErrInvalidConfig, err)
	}

	observer, err := r.newObserver(c)
	if err != nil {
		return fmt.Errorf("%w: %v", env.ErrInvalidConfig, err)
	}

	r.config = c
	r.kinematics = kinematics
	r.observer = observer
	r.Task = r.newTask(c)
	return nil
}

// Reset resets the environment and returns a starting state drawn from
// the environment Starter
func (r *River) Reset() (ts.TimeStep, error) {
	start := r.Start()
	if start.Len() != 3 {
		return ts.TimeStep{}, fmt.Errorf("reset: %w: start state should "+
			"be [x, y, heading], got %v features", env.ErrInvalidConfig,
			start.Len())
	}

	state := physics.State{
		Position: r2.Vec{X: start.AtVec(0), Y: start.AtVec(1)},
		Heading:  floatutils.NormalizeAngle(start.AtVec(2)),
	}
	if !floatutils.Contains(state.Position.Y, r.config.Banks()) {
		return ts.TimeStep{}, fmt.Errorf("reset: %w: start y=%v outside "+
			"the river", env.ErrInvalidConfig, state.Position.Y)
	}

	r.state = state
	r.lastStep = ts.New(ts.First, 0, r.discount, r.observer.Observe(state), 0)
	r.lastStep.Info[InfoDistance] = r2.Norm(
		r2.Sub(r.config.Goal.Vec(), state.Position))
	r.phase = Ready

	r.logger.Debug("episode reset",
		zap.Float64("x", state.Position.X),
		zap.Float64("y", state.Position.Y),
		zap.Float64("heading", state.Heading))

	return r.lastStep, nil
}

// ResetWith replaces the Config of the River and resets it. If the
// Config is invalid an error is returned and the River is unchanged.
func (r *River) ResetWith(c Config) (ts.TimeStep, error) {
	if err := r.configure(c); err != nil {
		return ts.TimeStep{}, fmt.Errorf("resetWith: %w", err)
	}
	return r.Reset()
}

// Step takes one environmental step given action a and returns the
// next timestep, a bool indicating whether or not the episode has
// ended, and an error.
//
// Step returns an error wrapping environment.ErrInvalidState if the
// River has not been reset or its episode has ended, and an error
// wrapping environment.ErrInvalidAction if the action is not
// 2-dimensional or is not finite. Actions out of bounds are clipped.
func (r *River) Step(a *mat.VecDense) (ts.TimeStep, bool, error) {
	if r.phase == Uninitialized || r.phase == Terminated {
		return ts.TimeStep{}, true, fmt.Errorf("step: %w: environment is "+
			"%v, call Reset first", env.ErrInvalidState, r.phase)
	}

	if a == nil || a.Len() != ActionDims {
		return ts.TimeStep{}, false, fmt.Errorf("step: %w: actions should "+
			"be %v-dimensional", env.ErrInvalidAction, ActionDims)
	}
	action := physics.Action{TurnRate: a.AtVec(0), Speed: a.AtVec(1)}
	if !floatutils.IsFinite(action.TurnRate, action.Speed) {
		return ts.TimeStep{}, false, fmt.Errorf("step: %w: action %v is "+
			"not finite", env.ErrInvalidAction, mat.Formatted(a.T()))
	}

	clamped, clip := r.kinematics.Limits().Clamp(action)
	if clip.Any() {
		r.logger.Warn("action clipped",
			zap.Int("step", r.lastStep.Number+1),
			zap.Float64("turn_rate", action.TurnRate),
			zap.Float64("speed", action.Speed),
			zap.Float64("clipped_turn_rate", clamped.TurnRate),
			zap.Float64("clipped_speed", clamped.Speed))
	}

	// Calculate the next state given the clipped action
	prevState := StateVector(r.state)
	r.state = r.kinematics.Advance(r.state, clamped, r.config.Dt)
	nextState := StateVector(r.state)

	actionVec := mat.NewVecDense(ActionDims, []float64{clamped.TurnRate,
		clamped.Speed})
	reward := r.GetReward(prevState, actionVec, nextState)

	nextStep := ts.New(ts.Mid, reward, r.discount,
		r.observer.Observe(r.state), r.lastStep.Number+1)
	nextStep.Info[InfoTurnRateClipped] = clip.TurnRate
	nextStep.Info[InfoSpeedClipped] = clip.Speed
	nextStep.Info[InfoDistance] = r2.Norm(
		r2.Sub(r.config.Goal.Vec(), r.state.Position))

	// Check if the step is the last in the episode and adjust step type
	// if necessary
	if r.End(&nextStep, nextState) {
		r.phase = Terminated
		nextStep.Info[InfoEndType] = nextStep.EndType().String()

		r.logger.Debug("episode ended",
			zap.Stringer("end", nextStep.EndType()),
			zap.Int("steps", nextStep.Number),
			zap.Float64("x", r.state.Position.X),
			zap.Float64("y", r.state.Position.Y))
	} else {
		r.phase = Running
	}

	r.lastStep = nextStep
	return nextStep, nextStep.Last(), nil
}

// Render delegates rendering of the current state to the configured
// Renderer
func (r *River) Render() error {
	if r.renderer == nil {
		return ErrNoRenderer
	}
	return r.renderer.Render(r.config, r.state)
}

// CurrentTimeStep returns the last TimeStep that occurred in the
// environment
func (r *River) CurrentTimeStep() ts.TimeStep {
	return r.lastStep
}

// State returns the true state of the boat
func (r *River) State() physics.State {
	return r.state
}

// Config returns the Config of the current episode
func (r *River) Config() Config {
	return r.config
}

// Phase returns the lifecycle phase of the River
func (r *River) Phase() Phase {
	return r.phase
}

// ActionSpec returns the action specification of the environment
func (r *River) ActionSpec() env.Spec {
	limits := r.kinematics.Limits()
	return env.NewBoundedSpec(env.Action,
		[]float64{-limits.MaxTurnRate, 0},
		[]float64{limits.MaxTurnRate, limits.MaxSpeed})
}

// ObservationSpec returns the observation specification of the
// environment
func (r *River) ObservationSpec() env.Spec {
	return r.observer.ObservationSpec()
}

// DiscountSpec returns the discounting specification of the environment
func (r *River) DiscountSpec() env.Spec {
	return env.NewBoundedSpec(env.Discount, []float64{r.discount},
		[]float64{r.discount})
}

// String returns a string representation of the environment
func (r *River) String() string {
	str := "River  |  Phase: %v  |  Position: (%.3f, %.3f)  |  " +
		"Heading: %.3f  |  Speed: %.3f"
	return fmt.Sprintf(str, r.phase, r.state.Position.X, r.state.Position.Y,
		r.state.Heading, r.state.Speed)
}
