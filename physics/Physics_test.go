package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	width        = 10.0
	maxFlow      = 1.0
	waterDensity = 1000.0
	dragCoeff    = 0.5
	radius       = 1.0
)

func newTestKinematics(t testing.TB) *Kinematics {
	flow, err := NewParabolic(width, maxFlow)
	require.NoError(t, err)

	drag, err := NewDrag(waterDensity, dragCoeff, radius)
	require.NoError(t, err)

	k, err := NewKinematics(flow, drag, SphereMass(waterDensity, radius),
		Limits{MaxTurnRate: math.Pi / 4, MaxSpeed: 2})
	require.NoError(t, err)
	return k
}

func TestParabolicProfile(t *testing.T) {
	flow, err := NewParabolic(width, maxFlow)
	require.NoError(t, err)

	assert.Equal(t, r2.Vec{X: maxFlow}, flow.VelocityAt(0))
	assert.Equal(t, r2.Vec{}, flow.VelocityAt(width/2))
	assert.Equal(t, r2.Vec{}, flow.VelocityAt(-width/2))

	for _, y := range []float64{0.1, 1, 2.5, 3.3, 4.99, 7} {
		assert.Equal(t, flow.VelocityAt(y), flow.VelocityAt(-y),
			"profile should be symmetric at y=%v", y)
	}

	assert.InDelta(t, 0.75, flow.VelocityAt(width/4).X, 1e-12)
	assert.Zero(t, flow.VelocityAt(width/4).Y)
}

func TestParabolicOutsideChannel(t *testing.T) {
	flow, err := NewParabolic(width, maxFlow)
	require.NoError(t, err)

	assert.Equal(t, r2.Vec{}, flow.VelocityAt(width))
	assert.Equal(t, r2.Vec{}, flow.VelocityAt(-width))
}

func TestUniformProfile(t *testing.T) {
	flow, err := NewUniform(width, 0.5)
	require.NoError(t, err)

	assert.Equal(t, r2.Vec{X: 0.5}, flow.VelocityAt(0))
	assert.Equal(t, r2.Vec{X: 0.5}, flow.VelocityAt(width/2))
	assert.Equal(t, r2.Vec{}, flow.VelocityAt(width))
	assert.Equal(t, r2.Vec{}, Still{}.VelocityAt(1))
}

func TestFlowValidation(t *testing.T) {
	_, err := NewParabolic(0, 1)
	assert.ErrorIs(t, err, ErrParameter)

	_, err = NewParabolic(10, -1)
	assert.ErrorIs(t, err, ErrParameter)

	_, err = NewUniform(-3, 1)
	assert.ErrorIs(t, err, ErrParameter)
}

func TestDragZeroRelativeVelocity(t *testing.T) {
	drag, err := NewDrag(waterDensity, dragCoeff, radius)
	require.NoError(t, err)

	v := r2.Vec{X: 1.5, Y: -0.5}
	assert.Equal(t, r2.Vec{}, drag.Force(v, v))
	assert.Equal(t, r2.Vec{}, drag.Force(r2.Vec{}, r2.Vec{}))
}

func TestDragOpposesRelativeMotion(t *testing.T) {
	drag, err := NewDrag(waterDensity, dragCoeff, radius)
	require.NoError(t, err)

	force := drag.Force(r2.Vec{Y: 1}, r2.Vec{})
	assert.Zero(t, force.X)
	assert.Less(t, force.Y, 0.0)
	assert.InDelta(t, 0.5*waterDensity*dragCoeff*math.Pi, -force.Y, 1e-9)

	// A still boat in moving water is pushed downstream
	force = drag.Force(r2.Vec{}, r2.Vec{X: 1})
	assert.Greater(t, force.X, 0.0)
}

func TestDragQuadraticInSpeed(t *testing.T) {
	drag, err := NewDrag(waterDensity, dragCoeff, radius)
	require.NoError(t, err)

	fluid := r2.Vec{X: 0.3, Y: 0.1}
	rel := r2.Vec{X: 0.8, Y: -0.6}

	single := drag.Force(r2.Add(fluid, rel), fluid)
	double := drag.Force(r2.Add(fluid, r2.Scale(2, rel)), fluid)

	assert.InDelta(t, 4*r2.Norm(single), r2.Norm(double), 1e-9)
	assert.InDelta(t, 4*single.X, double.X, 1e-9)
	assert.InDelta(t, 4*single.Y, double.Y, 1e-9)
}

func TestDragValidation(t *testing.T) {
	_, err := NewDrag(0, dragCoeff, radius)
	assert.ErrorIs(t, err, ErrParameter)

	_, err = NewDrag(waterDensity, dragCoeff, -1)
	assert.ErrorIs(t, err, ErrParameter)
}

func TestLimitsClamp(t *testing.T) {
	limits := Limits{MaxTurnRate: 1, MaxSpeed: 2}

	a, clip := limits.Clamp(Action{TurnRate: 0.5, Speed: 1})
	assert.Equal(t, Action{TurnRate: 0.5, Speed: 1}, a)
	assert.False(t, clip.Any())

	a, clip = limits.Clamp(Action{TurnRate: -3, Speed: 5})
	assert.Equal(t, Action{TurnRate: -1, Speed: 2}, a)
	assert.True(t, clip.TurnRate)
	assert.True(t, clip.Speed)

	a, clip = limits.Clamp(Action{TurnRate: 0, Speed: -1})
	assert.Equal(t, Action{TurnRate: 0, Speed: 0}, a)
	assert.False(t, clip.TurnRate)
	assert.True(t, clip.Speed)
}

func TestAdvanceMovesWithTheCurrent(t *testing.T) {
	k := newTestKinematics(t)

	// Moving downstream at the flow speed there is no relative motion
	s := State{Heading: 0}
	next := k.Advance(s, Action{Speed: maxFlow}, 0.1)

	assert.InDelta(t, 0.1, next.Position.X, 1e-12)
	assert.InDelta(t, 0.0, next.Position.Y, 1e-12)
	assert.Equal(t, maxFlow, next.Speed)
	assert.InDelta(t, 1.0, next.Velocity.X, 1e-12)
}

func TestAdvanceDriftsStillBoat(t *testing.T) {
	k := newTestKinematics(t)

	// F/m = 0.5·ρ·C_D·π·r² / (ρ·4/3·π·r³) = 0.1875 m/s² at unit speed
	next := k.Advance(State{Heading: math.Pi / 2}, Action{}, 0.1)

	assert.InDelta(t, 0.01875, next.Velocity.X, 1e-12)
	assert.InDelta(t, 0.001875, next.Position.X, 1e-12)
	assert.InDelta(t, 0.0, next.Position.Y, 1e-12)
}

func TestAdvanceTurns(t *testing.T) {
	k := newTestKinematics(t)

	s := State{Position: r2.Vec{Y: -width / 2}}
	next := k.Advance(s, Action{TurnRate: 0.5}, 0.1)
	assert.InDelta(t, 0.05, next.Heading, 1e-12)

	// Turn rate is clipped to the limit
	next = k.Advance(s, Action{TurnRate: 100}, 1)
	assert.InDelta(t, math.Pi/4, next.Heading, 1e-12)
}

func TestAdvanceDragSlowsBoatInStillWater(t *testing.T) {
	k := newTestKinematics(t)

	// On the shore the water is still, so a boat heading upstream at
	// unit speed is slowed by 0.1875 m/s² of drag
	s := State{Position: r2.Vec{Y: -width / 2}, Heading: math.Pi}
	next := k.Advance(s, Action{Speed: 1}, 0.1)

	assert.InDelta(t, -0.98125, next.Velocity.X, 1e-12)
	assert.InDelta(t, -0.098125, next.Position.X, 1e-12)
	assert.InDelta(t, -width/2, next.Position.Y, 1e-12)
}

func TestAdvanceDeterministic(t *testing.T) {
	k := newTestKinematics(t)

	s := State{Position: r2.Vec{X: 1.2, Y: -2.3}, Heading: 1.1, Speed: 0.7}
	a := Action{TurnRate: -0.3, Speed: 1.9}

	first := k.Advance(s, a, 0.05)
	second := k.Advance(s, a, 0.05)
	assert.Equal(t, first, second)
}

func TestNewKinematicsValidation(t *testing.T) {
	drag, err := NewDrag(waterDensity, dragCoeff, radius)
	require.NoError(t, err)

	_, err = NewKinematics(nil, drag, 1, Limits{1, 1})
	assert.ErrorIs(t, err, ErrParameter)

	_, err = NewKinematics(Still{}, drag, 0, Limits{1, 1})
	assert.ErrorIs(t, err, ErrParameter)

	_, err = NewKinematics(Still{}, drag, 1, Limits{0, 1})
	assert.ErrorIs(t, err, ErrParameter)
}

func BenchmarkAdvance(b *testing.B) {
	k := newTestKinematics(b)
	s := State{Position: r2.Vec{Y: -width / 2}, Heading: math.Pi / 2}
	a := Action{TurnRate: 0.01, Speed: 2}

	for i := 0; i < b.N; i++ {
		s = k.Advance(s, a, 0.01)
		if s.Position.Y > width/2 {
			s.Position.Y = -width / 2
		}
	}
}
