// Package physics implements the fluid and rigid body physics of a
// boat crossing a river: the flow field of the river, the drag force
// the water exerts on the boat, and the kinematic integrator which
// moves the boat forward in time.
//
// Coordinates use the river's basis: +x points downstream, +y points
// across the stream, and y = 0 is the centreline of the river. A
// river of width h has its shores at y = ±h/2.
package physics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// FlowField maps an across-stream position y to the velocity of the
// water at that position in m/s. Implementations must be pure.
type FlowField interface {
	VelocityAt(y float64) r2.Vec
}

// Parabolic implements a parabolic (Poiseuille) velocity profile. The
// water moves fastest at the centreline, with speed MaxSpeed, and is
// still at both shores:
//
//	u(y) = (1 - (2y/h)²) · u_max x̂
//
// Outside the channel the velocity is zero.
type Parabolic struct {
	width    float64
	maxSpeed float64
}

// NewParabolic returns a new parabolic flow field for a river of the
// given width with the given centreline speed
func NewParabolic(width, maxSpeed float64) (Parabolic, error) {
	if err := validateChannel(width, maxSpeed); err != nil {
		return Parabolic{}, fmt.Errorf("newParabolic: %w", err)
	}
	return Parabolic{width, maxSpeed}, nil
}

// VelocityAt returns the velocity of the water at across-stream
// position y
func (p Parabolic) VelocityAt(y float64) r2.Vec {
	if !inChannel(y, p.width) {
		return r2.Vec{}
	}
	ratio := 2 * y / p.width
	return r2.Vec{X: (1 - ratio*ratio) * p.maxSpeed}
}

// Width returns the width of the channel
func (p Parabolic) Width() float64 { return p.width }

// MaxSpeed returns the speed of the water at the centreline
func (p Parabolic) MaxSpeed() float64 { return p.maxSpeed }

// Uniform implements plug flow: every point inside the channel moves
// downstream at the same speed.
type Uniform struct {
	width float64
	speed float64
}

// NewUniform returns a new uniform flow field
func NewUniform(width, speed float64) (Uniform, error) {
	if err := validateChannel(width, speed); err != nil {
		return Uniform{}, fmt.Errorf("newUniform: %w", err)
	}
	return Uniform{width, speed}, nil
}

// VelocityAt returns the velocity of the water at across-stream
// position y
func (u Uniform) VelocityAt(y float64) r2.Vec {
	if !inChannel(y, u.width) {
		return r2.Vec{}
	}
	return r2.Vec{X: u.speed}
}

// Still is a flow field with no current
type Still struct{}

// VelocityAt always returns the zero vector
func (Still) VelocityAt(float64) r2.Vec { return r2.Vec{} }

func inChannel(y, width float64) bool {
	return math.Abs(y) <= width/2
}

func validateChannel(width, speed float64) error {
	if !(width > 0) {
		return fmt.Errorf("%w: width %v must be positive", ErrParameter,
			width)
	}
	if speed < 0 || math.IsNaN(speed) || math.IsInf(speed, 0) {
		return fmt.Errorf("%w: flow speed %v must be finite and "+
			"non-negative", ErrParameter, speed)
	}
	return nil
}
