package wrappers

import (
	"math"
	"testing"

	"github.com/samuelfneumann/rivercrossing/environment/river"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNormalize(t *testing.T) {
	r, err := river.New(river.NewProgress, river.DefaultConfig(),
		river.WithObserver(river.NewFullState))
	require.NoError(t, err)
	n := NewNormalize(r)

	step, err := n.Reset()
	require.NoError(t, err)

	// x = 0 on [-50, 50], y = -5 on [-5, 5], heading π/2 on [-π, π],
	// speed 0 on [0, 2]
	want := []float64{0, -1, 0.5, -1}
	for i, w := range want {
		assert.InDelta(t, w, step.Observation.AtVec(i), 1e-12)
	}

	// The wrapped environment still sees raw observations
	assert.Equal(t, -5.0, r.CurrentTimeStep().Observation.AtVec(river.StateY))
	assert.InDelta(t, -1.0, n.CurrentTimeStep().Observation.AtVec(river.StateY),
		1e-12)

	step, _, err = n.Step(mat.NewVecDense(2, []float64{0, 2}))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, step.Observation.AtVec(river.StateSpeed), 1e-12)

	spec := n.ObservationSpec()
	for i := 0; i < spec.Len(); i++ {
		assert.Equal(t, -1.0, spec.LowerBound.AtVec(i))
		assert.Equal(t, 1.0, spec.UpperBound.AtVec(i))
	}
	assert.Equal(t, -50.0, r.ObservationSpec().LowerBound.AtVec(river.StateX))
	assert.True(t, spec.Contains(step.Observation))
}

func TestNormalizeErrors(t *testing.T) {
	r, err := river.New(river.NewProgress, river.DefaultConfig())
	require.NoError(t, err)
	n := NewNormalize(r)

	_, _, err = n.Step(mat.NewVecDense(2, []float64{0, 1}))
	assert.Error(t, err)
}

func TestAverageReward(t *testing.T) {
	r, err := river.New(river.NewSparse, river.DefaultConfig(),
		river.WithDiscount(0.9))
	require.NoError(t, err)
	a, err := NewAverageReward(r, 0, 0.5)
	require.NoError(t, err)

	action := mat.NewVecDense(2, []float64{0, 2})
	step, err := a.Reset()
	require.NoError(t, err)
	assert.Equal(t, 1.0, step.Discount)

	for !step.Last() {
		step, _, err = a.Step(action)
		require.NoError(t, err)
		assert.Equal(t, 1.0, step.Discount)
	}
	assert.Equal(t, 1.0, step.Reward)
	assert.Equal(t, 0.5, a.AverageReward())

	_, err = a.Reset()
	require.NoError(t, err)
	step, _, err = a.Step(action)
	require.NoError(t, err)
	assert.Equal(t, -0.5, step.Reward)
	assert.Equal(t, 0.25, a.AverageReward())

	assert.True(t, math.IsInf(a.RewardSpec().UpperBound.AtVec(0), 1))
	assert.Equal(t, 1.0, a.DiscountSpec().LowerBound.AtVec(0))

	_, err = NewAverageReward(r, 0, 0)
	assert.Error(t, err)
}
