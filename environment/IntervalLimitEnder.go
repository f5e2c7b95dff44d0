package environment

import (
	ts "github.com/samuelfneumann/rivercrossing/timestep"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

// IntervalLimit implements the Ender interface to end episodes
// whenever a single feature in a state vector leaves some interval
type IntervalLimit struct {
	intervals []r1.Interval
	indices   []int
	endType   ts.EndType
}

// NewIntervalLimit creates and returns a new interval limit. Feature
// stateIndices[i] of the state must stay within limits[i]. The endType
// argument determines what the episode end should be considered as.
func NewIntervalLimit(limits []r1.Interval, stateIndices []int,
	endType ts.EndType) *IntervalLimit {
	if len(limits) != len(stateIndices) {
		panic("limits should have same length as state indices")
	}

	return &IntervalLimit{limits, stateIndices, endType}
}

// End determines whether or not the current episode should be ended,
// returning a boolean to indicate episode termination. If the episode
// should be ended End() will modify the timestep so that its StepType
// field is timestep.Last and its EndType is the appropriate ending
// type.
func (i *IntervalLimit) End(t *ts.TimeStep, state *mat.VecDense) bool {
	if i.Exceeded(state) {
		t.SetEnd(i.endType)
		return true
	}
	return false
}

// Exceeded returns whether any tracked feature of state is outside its
// interval
func (i *IntervalLimit) Exceeded(state *mat.VecDense) bool {
	for index, featureIndex := range i.indices {
		interval := i.intervals[index]
		value := state.AtVec(featureIndex)

		if value > interval.Max || value < interval.Min {
			return true
		}
	}
	return false
}
