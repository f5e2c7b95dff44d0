// Package experiment implements functionality for running an experiment
package experiment

import (
	"context"

	"github.com/samuelfneumann/rivercrossing/experiment/tracker"
)

// Interface Experiment outlines structs that can run experiments.
// Experiments will track environment TimeSteps by sending each to
// their Trackers, which cache the data to be later saved to disk. The
// Run() method will run all episodes until the maximum timestep limit
// is reached, the context is cancelled, or an error occurs. The
// RunEpisode() function will run a single episode.
type Experiment interface {
	Run(ctx context.Context) error

	// RunEpisode returns whether or not the step budget of the
	// experiment has been reached
	RunEpisode(ctx context.Context) (bool, error)

	// Adds a new tracker.Tracker to the (possibly already running)
	// experiment. Useful if you want to track data only after a
	// specified event.
	Register(t tracker.Tracker)
}
