package tracker

import (
	"fmt"

	"github.com/samuelfneumann/rivercrossing/timestep"
)

// EpisodeLength tracks and saves the lengths of episodes in an
// experiment, along with how each episode ended.
// Note that an episode must finish for this Tracker to save its data.
type EpisodeLength struct {
	episodeLengths []int
	endTypes       []timestep.EndType
}

// NewEpisodeLength returns a new EpisodeLength Tracker
func NewEpisodeLength() *EpisodeLength {
	return &EpisodeLength{}
}

// Track caches the episode length if the timestep passed to it is the
// last timestep in the episode.
func (e *EpisodeLength) Track(t timestep.TimeStep) {
	if t.Last() {
		e.episodeLengths = append(e.episodeLengths, t.Number)
		e.endTypes = append(e.endTypes, t.EndType())
	}
}

// Data returns the lengths of all finished episodes
func (e *EpisodeLength) Data() []int {
	return append([]int(nil), e.episodeLengths...)
}

// EndTypes returns how each finished episode ended
func (e *EpisodeLength) EndTypes() []timestep.EndType {
	return append([]timestep.EndType(nil), e.endTypes...)
}

// Count returns the number of finished episodes which ended with end
func (e *EpisodeLength) Count(end timestep.EndType) int {
	n := 0
	for _, t := range e.endTypes {
		if t == end {
			n++
		}
	}
	return n
}

// Save saves the episode lengths tracked by the EpisodeLength Tracker
// to disk.
func (e *EpisodeLength) Save(filename string) error {
	if err := save(filename, e.episodeLengths); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}
