package physics

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// ErrParameter indicates a physical parameter outside its valid range
var ErrParameter = errors.New("physics: parameter out of valid bounds")

// Drag models the drag force of a fluid on a body moving through it:
//
//	F_D = 0.5 · ρ · v² · C_D · A
//
// where ρ is the fluid density, v the speed of the body relative to
// the fluid, C_D the drag coefficient, and A the cross-sectional area
// of the body. The force opposes the motion of the body relative to
// the fluid.
type Drag struct {
	density     float64
	coefficient float64
	area        float64
}

// NewDrag returns the drag model of a sphere of the given radius in a
// fluid of the given density
func NewDrag(density, coefficient, radius float64) (Drag, error) {
	params := []struct {
		name  string
		value float64
	}{
		{"density", density},
		{"drag coefficient", coefficient},
		{"radius", radius},
	}
	for _, p := range params {
		if !(p.value > 0) || math.IsInf(p.value, 0) {
			return Drag{}, fmt.Errorf("newDrag: %w: %v %v must be "+
				"positive", ErrParameter, p.name, p.value)
		}
	}
	return Drag{density, coefficient, math.Pi * radius * radius}, nil
}

// Force returns the drag force in newtons on a body moving with
// velocity agent through fluid moving with velocity fluid. Zero
// relative velocity gives zero force.
func (d Drag) Force(agent, fluid r2.Vec) r2.Vec {
	rel := r2.Sub(agent, fluid)
	speed := r2.Norm(rel)
	if speed == 0 {
		return r2.Vec{}
	}

	magnitude := d.Magnitude(speed)
	return r2.Scale(-magnitude/speed, rel)
}

// Magnitude returns the magnitude of the drag force at a relative
// speed
func (d Drag) Magnitude(speed float64) float64 {
	return 0.5 * d.density * speed * speed * d.coefficient * d.area
}

// Area returns the cross-sectional area of the body
func (d Drag) Area() float64 { return d.area }
