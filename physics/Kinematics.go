package physics

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/rivercrossing/utils/floatutils"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/spatial/r2"
)

// State is the kinematic state of the boat
type State struct {
	Position r2.Vec  // metres
	Heading  float64 // radians from +x, in [-π, π]
	Speed    float64 // commanded forward speed, m/s

	// Velocity is the effective ground velocity over the last step,
	// after drag. It is the zero vector before the first step.
	Velocity r2.Vec
}

// Action is a single control command
type Action struct {
	TurnRate float64 // rad/s
	Speed    float64 // forward speed, m/s
}

// Clip records which components of an Action were clipped
type Clip struct {
	TurnRate bool
	Speed    bool
}

// Any returns whether any component was clipped
func (c Clip) Any() bool { return c.TurnRate || c.Speed }

// Limits bounds the actions the boat can take. Turn rates are clipped
// to [-MaxTurnRate, MaxTurnRate] and forward speeds to [0, MaxSpeed].
type Limits struct {
	MaxTurnRate float64
	MaxSpeed    float64
}

// TurnRateBounds returns the legal interval of turn rates
func (l Limits) TurnRateBounds() r1.Interval {
	return r1.Interval{Min: -l.MaxTurnRate, Max: l.MaxTurnRate}
}

// SpeedBounds returns the legal interval of forward speeds
func (l Limits) SpeedBounds() r1.Interval {
	return r1.Interval{Min: 0, Max: l.MaxSpeed}
}

// Clamp clips an action to the limits, reporting which components
// were out of bounds
func (l Limits) Clamp(a Action) (Action, Clip) {
	var clip Clip
	a.TurnRate, clip.TurnRate = floatutils.Clipped(a.TurnRate,
		l.TurnRateBounds())
	a.Speed, clip.Speed = floatutils.Clipped(a.Speed, l.SpeedBounds())
	return a, clip
}

// Kinematics integrates the motion of the boat under a control action
// and the drag of the river's flow field. A Kinematics holds no
// mutable state, so a single value may be shared between environments.
type Kinematics struct {
	flow   FlowField
	drag   Drag
	mass   float64
	limits Limits
}

// NewKinematics returns a new integrator for a boat of the given mass
func NewKinematics(flow FlowField, drag Drag, mass float64,
	limits Limits) (*Kinematics, error) {
	if flow == nil {
		return nil, fmt.Errorf("newKinematics: %w: nil flow field",
			ErrParameter)
	}
	if !(mass > 0) || math.IsInf(mass, 0) {
		return nil, fmt.Errorf("newKinematics: %w: mass %v must be "+
			"positive", ErrParameter, mass)
	}
	if !(limits.MaxTurnRate > 0) || !(limits.MaxSpeed > 0) {
		return nil, fmt.Errorf("newKinematics: %w: action limits %+v "+
			"must be positive", ErrParameter, limits)
	}

	return &Kinematics{flow, drag, mass, limits}, nil
}

// Advance moves the boat forward by dt seconds under action a using
// semi-implicit Euler integration:
//
//  1. heading += clip(turn rate) · dt
//  2. nominal velocity = clip(speed) · (cos heading, sin heading)
//  3. fluid velocity is sampled at the boat's current y
//  4. drag acceleration = drag force / mass
//  5. effective velocity = nominal velocity + drag acceleration · dt
//  6. position += effective velocity · dt
//
// Actions outside the limits are clipped silently; use Limits.Clamp
// beforehand to detect clipping.
func (k *Kinematics) Advance(s State, a Action, dt float64) State {
	a, _ = k.limits.Clamp(a)

	heading := floatutils.NormalizeAngle(s.Heading + a.TurnRate*dt)
	nominal := r2.Vec{
		X: a.Speed * math.Cos(heading),
		Y: a.Speed * math.Sin(heading),
	}

	fluid := k.flow.VelocityAt(s.Position.Y)
	accel := r2.Scale(1/k.mass, k.drag.Force(nominal, fluid))
	velocity := r2.Add(nominal, r2.Scale(dt, accel))

	return State{
		Position: r2.Add(s.Position, r2.Scale(dt, velocity)),
		Heading:  heading,
		Speed:    a.Speed,
		Velocity: velocity,
	}
}

// Flow returns the flow field of the river
func (k *Kinematics) Flow() FlowField { return k.flow }

// Limits returns the action limits of the boat
func (k *Kinematics) Limits() Limits { return k.limits }

// SphereMass returns the mass of a sphere of the given radius and
// density. A boat with the density of the water is neutrally buoyant.
func SphereMass(density, radius float64) float64 {
	return density * 4.0 / 3.0 * math.Pi * radius * radius * radius
}
