package baseline

import (
	"math"
	"testing"

	env "github.com/samuelfneumann/rivercrossing/environment"
	"github.com/samuelfneumann/rivercrossing/environment/river"
	"github.com/samuelfneumann/rivercrossing/environment/wrappers"
	ts "github.com/samuelfneumann/rivercrossing/timestep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

type policy interface {
	SelectAction(ts.TimeStep) *mat.VecDense
}

func runEpisode(t *testing.T, r *river.River, p policy) ts.TimeStep {
	t.Helper()

	step, err := r.Reset()
	require.NoError(t, err)
	for !step.Last() {
		step, _, err = r.Step(p.SelectAction(step))
		require.NoError(t, err)
	}
	return step
}

func TestConstant(t *testing.T) {
	r, err := river.New(river.NewProgress, river.DefaultConfig())
	require.NoError(t, err)

	c, err := NewConstant([]float64{0, 2}, r.ActionSpec())
	require.NoError(t, err)

	// Selected actions can be modified without changing the agent
	a := c.SelectAction(ts.TimeStep{})
	a.SetVec(1, 0)
	assert.Equal(t, 2.0, c.SelectAction(ts.TimeStep{}).AtVec(1))

	last := runEpisode(t, r, c)
	assert.Equal(t, ts.TerminalStateReached, last.EndType())

	_, err = NewConstant([]float64{0, 3}, r.ActionSpec())
	assert.ErrorIs(t, err, env.ErrInvalidAction)
}

func TestSteerTurnsTowardsGoal(t *testing.T) {
	r, err := river.New(river.NewProgress, river.DefaultConfig())
	require.NoError(t, err)

	s, err := NewSteer(DefaultGain, r.ActionSpec(), r.ObservationSpec())
	require.NoError(t, err)

	obs := func(bearing float64) ts.TimeStep {
		return ts.New(ts.Mid, 0, 1, mat.NewVecDense(river.GoalRelativeDims,
			[]float64{5, bearing, 0}), 1)
	}

	a := s.SelectAction(obs(0.5))
	assert.InDelta(t, 0.5, a.AtVec(0), 1e-12)
	assert.Equal(t, river.DefaultMaxSpeed, a.AtVec(1))

	a = s.SelectAction(obs(-math.Pi))
	assert.InDelta(t, -river.DefaultMaxTurnRate, a.AtVec(0), 1e-12)
}

func TestSteerCorrectsOffset(t *testing.T) {
	cfg := river.DefaultConfig()
	cfg.Start = river.Point{X: 3, Y: -5}

	r, err := river.New(river.NewProgress, cfg)
	require.NoError(t, err)

	// Heading straight across from an offset start misses the goal and
	// runs onto the far bank
	c, err := NewConstant([]float64{0, 2}, r.ActionSpec())
	require.NoError(t, err)
	last := runEpisode(t, r, c)
	assert.Equal(t, ts.BoundaryViolation, last.EndType())

	s, err := NewSteer(DefaultGain, r.ActionSpec(), r.ObservationSpec())
	require.NoError(t, err)
	last = runEpisode(t, r, s)
	assert.Equal(t, ts.TerminalStateReached, last.EndType())
	assert.Less(t, last.Number, cfg.MaxSteps)
}

func TestSteerNormalized(t *testing.T) {
	cfg := river.DefaultConfig()
	cfg.Start = river.Point{X: 3, Y: -5}

	raw, err := river.New(river.NewProgress, cfg)
	require.NoError(t, err)
	r, err := river.New(river.NewProgress, cfg)
	require.NoError(t, err)
	norm := wrappers.NewNormalize(r)

	rawSteer, err := NewSteer(DefaultGain, raw.ActionSpec(),
		raw.ObservationSpec())
	require.NoError(t, err)
	normSteer, err := NewSteer(DefaultGain, norm.ActionSpec(),
		norm.ObservationSpec())
	require.NoError(t, err)

	rawStep, err := raw.Reset()
	require.NoError(t, err)
	normStep, err := norm.Reset()
	require.NoError(t, err)

	// Both agents see the same states, so they act the same on every step
	for !rawStep.Last() {
		require.False(t, normStep.Last())

		rawAction := rawSteer.SelectAction(rawStep)
		normAction := normSteer.SelectAction(normStep)
		require.InDelta(t, rawAction.AtVec(0), normAction.AtVec(0), 1e-9)
		require.Equal(t, rawAction.AtVec(1), normAction.AtVec(1))

		rawStep, _, err = raw.Step(rawAction)
		require.NoError(t, err)
		normStep, _, err = norm.Step(rawAction)
		require.NoError(t, err)
	}
	assert.True(t, normStep.Last())
	assert.Equal(t, ts.TerminalStateReached, normStep.EndType())
}

func TestNewSteerInvalid(t *testing.T) {
	r, err := river.New(river.NewProgress, river.DefaultConfig(),
		river.WithObserver(river.NewFullState))
	require.NoError(t, err)

	_, err = NewSteer(DefaultGain, r.ActionSpec(), r.ObservationSpec())
	assert.ErrorIs(t, err, env.ErrInvalidConfig)

	r, err = river.New(river.NewProgress, river.DefaultConfig())
	require.NoError(t, err)
	_, err = NewSteer(0, r.ActionSpec(), r.ObservationSpec())
	assert.ErrorIs(t, err, env.ErrInvalidConfig)
}
