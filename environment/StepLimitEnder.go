package environment

import (
	ts "github.com/samuelfneumann/rivercrossing/timestep"
	"gonum.org/v1/gonum/mat"
)

// StepLimit implements the Ender interface to end episodes at specific
// timestep limits
type StepLimit struct {
	episodeSteps int
}

// NewStepLimit creates and returns a new step limit
func NewStepLimit(episodeSteps int) *StepLimit {
	return &StepLimit{episodeSteps}
}

// End determines whether or not the current episode should be ended,
// returning a boolean to indicate episode termination. If the episode
// should be ended End() will modify the timestep so that its StepType
// field is timestep.Last and its EndType is timestep.Timeout. The
// state is ignored.
func (s *StepLimit) End(t *ts.TimeStep, _ *mat.VecDense) bool {
	if t.Number >= s.episodeSteps {
		t.SetEnd(ts.Timeout)
		return true
	}
	return false
}

// EpisodeSteps returns the maximum number of steps in an episode
func (s *StepLimit) EpisodeSteps() int {
	return s.episodeSteps
}
