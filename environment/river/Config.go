package river

import (
	"fmt"
	"math"

	env "github.com/samuelfneumann/rivercrossing/environment"
	"github.com/samuelfneumann/rivercrossing/physics"
	"github.com/samuelfneumann/rivercrossing/utils/floatutils"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/spatial/r2"
)

// Flow profiles that can be configured
const (
	ParabolicFlow string = "parabolic"
	UniformFlow   string = "uniform"
	StillFlow     string = "still"
)

// Default episode parameters
const (
	DefaultWidth           float64 = 10.0
	DefaultMaxFlowSpeed    float64 = 1.0
	DefaultGoalTolerance   float64 = 1.0
	DefaultMaxSteps        int     = 500
	DefaultDt              float64 = 0.1
	DefaultRadius          float64 = 1.0
	DefaultFluidDensity    float64 = 1000.0 // water, kg/m³
	DefaultDragCoefficient float64 = 0.5    // sphere
	DefaultMaxTurnRate     float64 = math.Pi / 4
	DefaultMaxSpeed        float64 = 2.0
	DefaultDownstream      float64 = 50.0
)

// Point is a position in the plane of the river
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Vec returns the point as a vector
func (p Point) Vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// Config holds the physical and episodic parameters of a River
// Crossing episode. A Config is immutable for the lifetime of an
// episode; use River.ResetWith to change it between episodes.
type Config struct {
	// Width is the full width h of the river. The shores lie at
	// y = ±Width/2.
	Width        float64 `json:"width" yaml:"width"`
	MaxFlowSpeed float64 `json:"max_flow_speed" yaml:"max_flow_speed"`
	Flow         string  `json:"flow" yaml:"flow"`

	Start        Point   `json:"start" yaml:"start"`
	StartHeading float64 `json:"start_heading" yaml:"start_heading"`
	StartJitter  float64 `json:"start_jitter" yaml:"start_jitter"`
	Seed         uint64  `json:"seed" yaml:"seed"`

	Goal          Point   `json:"goal" yaml:"goal"`
	GoalTolerance float64 `json:"goal_tolerance" yaml:"goal_tolerance"`

	// DownstreamMin and DownstreamMax bound the x position of the
	// boat. Leaving them ends the episode.
	DownstreamMin float64 `json:"downstream_min" yaml:"downstream_min"`
	DownstreamMax float64 `json:"downstream_max" yaml:"downstream_max"`

	MaxSteps int     `json:"max_steps" yaml:"max_steps"`
	Dt       float64 `json:"dt" yaml:"dt"`

	Radius          float64 `json:"radius" yaml:"radius"`
	FluidDensity    float64 `json:"fluid_density" yaml:"fluid_density"`
	DragCoefficient float64 `json:"drag_coefficient" yaml:"drag_coefficient"`

	// Mass of the boat. Zero means a neutrally buoyant sphere of
	// the configured Radius.
	Mass float64 `json:"mass" yaml:"mass"`

	MaxTurnRate float64 `json:"max_turn_rate" yaml:"max_turn_rate"`
	MaxSpeed    float64 `json:"max_speed" yaml:"max_speed"`
}

// DefaultConfig returns the default crossing: a 10 m wide river with a
// parabolic current of 1 m/s, crossed from (0, -5) to (0, 5).
func DefaultConfig() Config {
	return Config{
		Width:           DefaultWidth,
		MaxFlowSpeed:    DefaultMaxFlowSpeed,
		Flow:            ParabolicFlow,
		Start:           Point{X: 0, Y: -DefaultWidth / 2},
		StartHeading:    math.Pi / 2,
		Goal:            Point{X: 0, Y: DefaultWidth / 2},
		GoalTolerance:   DefaultGoalTolerance,
		DownstreamMin:   -DefaultDownstream,
		DownstreamMax:   DefaultDownstream,
		MaxSteps:        DefaultMaxSteps,
		Dt:              DefaultDt,
		Radius:          DefaultRadius,
		FluidDensity:    DefaultFluidDensity,
		DragCoefficient: DefaultDragCoefficient,
		MaxTurnRate:     DefaultMaxTurnRate,
		MaxSpeed:        DefaultMaxSpeed,
	}
}

// Validate ensures all parameters of the Config are within their
// valid ranges. Errors wrap environment.ErrInvalidConfig.
func (c Config) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"width", c.Width},
		{"goal tolerance", c.GoalTolerance},
		{"dt", c.Dt},
		{"radius", c.Radius},
		{"fluid density", c.FluidDensity},
		{"drag coefficient", c.DragCoefficient},
		{"max turn rate", c.MaxTurnRate},
		{"max speed", c.MaxSpeed},
	}
	for _, p := range positive {
		if !(p.value > 0) || math.IsInf(p.value, 0) {
			return fmt.Errorf("%w: %v must be positive and finite, "+
				"got %v", env.ErrInvalidConfig, p.name, p.value)
		}
	}

	if c.MaxFlowSpeed < 0 || !floatutils.IsFinite(c.MaxFlowSpeed) {
		return fmt.Errorf("%w: max flow speed must be non-negative, got "+
			"%v", env.ErrInvalidConfig, c.MaxFlowSpeed)
	}
	if c.Mass < 0 || !floatutils.IsFinite(c.Mass) {
		return fmt.Errorf("%w: mass must be non-negative, got %v",
			env.ErrInvalidConfig, c.Mass)
	}
	if c.StartJitter < 0 || !floatutils.IsFinite(c.StartJitter) {
		return fmt.Errorf("%w: start jitter must be non-negative, got %v",
			env.ErrInvalidConfig, c.StartJitter)
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("%w: max steps must be positive, got %v",
			env.ErrInvalidConfig, c.MaxSteps)
	}
	if !(c.DownstreamMin < c.DownstreamMax) {
		return fmt.Errorf("%w: downstream bounds [%v, %v] are empty",
			env.ErrInvalidConfig, c.DownstreamMin, c.DownstreamMax)
	}

	switch c.Flow {
	case ParabolicFlow, UniformFlow, StillFlow:
	default:
		return fmt.Errorf("%w: unknown flow profile %q",
			env.ErrInvalidConfig, c.Flow)
	}

	if !floatutils.IsFinite(c.StartHeading) {
		return fmt.Errorf("%w: start heading must be finite",
			env.ErrInvalidConfig)
	}

	for _, p := range []struct {
		name  string
		point Point
	}{{"start", c.Start}, {"goal", c.Goal}} {
		if !floatutils.Contains(p.point.Y, c.Banks()) {
			return fmt.Errorf("%w: %v y=%v is outside the river %v",
				env.ErrInvalidConfig, p.name, p.point.Y, c.Banks())
		}
		if !floatutils.Contains(p.point.X, c.Downstream()) {
			return fmt.Errorf("%w: %v x=%v is outside the downstream "+
				"bounds %v", env.ErrInvalidConfig, p.name, p.point.X,
				c.Downstream())
		}
	}

	return nil
}

// Banks returns the interval of legal across-stream positions
func (c Config) Banks() r1.Interval {
	return r1.Interval{Min: -c.Width / 2, Max: c.Width / 2}
}

// Downstream returns the interval of legal downstream positions
func (c Config) Downstream() r1.Interval {
	return r1.Interval{Min: c.DownstreamMin, Max: c.DownstreamMax}
}

// BoatMass returns the mass of the boat, defaulting to a neutrally
// buoyant sphere when Mass is zero
func (c Config) BoatMass() float64 {
	if c.Mass > 0 {
		return c.Mass
	}
	return physics.SphereMass(c.FluidDensity, c.Radius)
}

// Limits returns the action limits of the boat
func (c Config) Limits() physics.Limits {
	return physics.Limits{MaxTurnRate: c.MaxTurnRate, MaxSpeed: c.MaxSpeed}
}

// FlowField returns the configured flow field of the river
func (c Config) FlowField() (physics.FlowField, error) {
	switch c.Flow {
	case ParabolicFlow:
		return physics.NewParabolic(c.Width, c.MaxFlowSpeed)
	case UniformFlow:
		return physics.NewUniform(c.Width, c.MaxFlowSpeed)
	case StillFlow:
		return physics.Still{}, nil
	}
	return nil, fmt.Errorf("flowField: %w: unknown flow profile %q",
		env.ErrInvalidConfig, c.Flow)
}

// Kinematics returns the integrator described by the Config
func (c Config) Kinematics() (*physics.Kinematics, error) {
	flow, err := c.FlowField()
	if err != nil {
		return nil, fmt.Errorf("kinematics: %w", err)
	}

	drag, err := physics.NewDrag(c.FluidDensity, c.DragCoefficient,
		c.Radius)
	if err != nil {
		return nil, fmt.Errorf("kinematics: %w", err)
	}

	return physics.NewKinematics(flow, drag, c.BoatMass(), c.Limits())
}

// Starter returns the distribution of starting states of the Config.
// Starting states are [x, y, heading], with x drawn uniformly from
// Start.X ± StartJitter.
func (c Config) Starter() *env.UniformStarter {
	x := r1.Interval{Min: c.Start.X - c.StartJitter,
		Max: c.Start.X + c.StartJitter}
	x.Min = math.Max(x.Min, c.DownstreamMin)
	x.Max = math.Min(x.Max, c.DownstreamMax)

	return env.NewUniformStarter([]r1.Interval{
		x,
		{Min: c.Start.Y, Max: c.Start.Y},
		{Min: c.StartHeading, Max: c.StartHeading},
	}, c.Seed)
}

// MaxProgress returns a nominal upper bound on the distance the boat
// can cover in a single step
func (c Config) MaxProgress() float64 {
	return (c.MaxSpeed + c.MaxFlowSpeed) * c.Dt
}
