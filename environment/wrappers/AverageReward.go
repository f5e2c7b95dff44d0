package wrappers

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/rivercrossing/environment"
	"github.com/samuelfneumann/rivercrossing/timestep"
	"gonum.org/v1/gonum/mat"
)

// AverageReward wraps an environment and alters rewards so that the
// differential reward is returned for each action.
//
// AverageReward itself implements the environment.Environment
// interface, and is therefore itself an Environment.
//
// The average reward is estimated as an exponential moving average of
// the rewards of the environment:
//
//	avgReward <- avgReward + learningRate * (reward - avgReward)
//
// and the reward of each step is replaced by reward - avgReward, where
// avgReward is the estimate before seeing that step's reward.
type AverageReward struct {
	environment.Environment
	avgReward    float64
	learningRate float64
}

// NewAverageReward creates and returns a new AverageReward Environment
// wrapper. The init parameter is the initial value for the average
// reward, usually set to 0.
func NewAverageReward(env environment.Environment, init,
	learningRate float64) (*AverageReward, error) {
	if learningRate <= 0 || learningRate > 1 {
		return nil, fmt.Errorf("newAverageReward: learning rate %v not in "+
			"(0, 1]", learningRate)
	}
	return &AverageReward{env, init, learningRate}, nil
}

// Reset resets the environment and returns a starting state drawn from
// the environment Starter. The average reward estimate is kept across
// episodes.
func (a *AverageReward) Reset() (timestep.TimeStep, error) {
	step, err := a.Environment.Reset()

	// Average reward setting does not have discounting
	step.Discount = 1.0
	return step, err
}

// Step takes one environmental step given action a and returns the
// next timestep with the differential reward, a bool indicating
// whether or not the episode has ended, and an error.
func (a *AverageReward) Step(action *mat.VecDense) (timestep.TimeStep, bool,
	error) {
	step, last, err := a.Environment.Step(action)
	if err != nil {
		return step, last, err
	}

	// Augment the reward to become the differential reward:
	// R_{t} <- R_{t} - avgReward_{t-1}
	reward := step.Reward
	step.Reward -= a.avgReward
	a.avgReward += a.learningRate * (reward - a.avgReward)

	step.Discount = 1.0
	return step, last, nil
}

// AverageReward returns the current estimate of the average reward
func (a *AverageReward) AverageReward() float64 {
	return a.avgReward
}

// RewardSpec returns the reward specification for the environment.
// Bounds depend on the policy, which is constantly changing, so the
// bounds are infinite.
func (a *AverageReward) RewardSpec() environment.Spec {
	return environment.NewBoundedSpec(environment.Reward,
		[]float64{math.Inf(-1)}, []float64{math.Inf(1)})
}

// DiscountSpec returns the discount specification for the environment
// Average reward setting does not use discounting, so the discount
// value is always set to 1.0.
func (a *AverageReward) DiscountSpec() environment.Spec {
	return environment.NewBoundedSpec(environment.Discount,
		[]float64{1.0}, []float64{1.0})
}

// String returns a string representation of the AverageReward
// environment
func (a *AverageReward) String() string {
	return fmt.Sprintf("Average Reward: %v", a.Environment)
}
