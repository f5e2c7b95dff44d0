package experiment

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/samuelfneumann/rivercrossing/agent"
	env "github.com/samuelfneumann/rivercrossing/environment"
	"github.com/samuelfneumann/rivercrossing/experiment/tracker"
	ts "github.com/samuelfneumann/rivercrossing/timestep"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// EnvFactory creates the environment of a single run from its seed
type EnvFactory func(seed uint64) (env.Environment, error)

// AgentFactory creates the agent of a single run on its environment
type AgentFactory func(e env.Environment, seed uint64) (agent.Agent, error)

// Result holds the data tracked over a single run of a Batch
type Result struct {
	ID       uuid.UUID
	Seed     uint64
	Returns  []float64
	Lengths  []int
	EndTypes []ts.EndType
}

// Successes returns the number of episodes of the run which reached
// the goal
func (r Result) Successes() int {
	n := 0
	for _, end := range r.EndTypes {
		if end == ts.TerminalStateReached {
			n++
		}
	}
	return n
}

// Batch runs independent runs of an agent on an environment in
// parallel, one run per seed. Each run owns its environment and agent,
// so nothing mutable is shared between goroutines.
type Batch struct {
	newEnv   EnvFactory
	newAgent AgentFactory
	episodes int
	workers  int
	logger   *zap.Logger
}

// BatchOption configures a Batch
type BatchOption func(*Batch)

// WithWorkers limits the number of runs executing at once. Values
// below 1 mean no limit.
func WithWorkers(n int) BatchOption {
	return func(b *Batch) { b.workers = n }
}

// WithBatchLogger sets the logger of the Batch
func WithBatchLogger(l *zap.Logger) BatchOption {
	return func(b *Batch) { b.logger = l }
}

// NewBatch returns a new Batch which runs the given number of episodes
// per run
func NewBatch(newEnv EnvFactory, newAgent AgentFactory, episodes int,
	opts ...BatchOption) (*Batch, error) {
	if newEnv == nil || newAgent == nil {
		return nil, fmt.Errorf("newBatch: nil factory")
	}
	if episodes <= 0 {
		return nil, fmt.Errorf("newBatch: episodes must be positive, got %v",
			episodes)
	}

	b := &Batch{
		newEnv:   newEnv,
		newAgent: newAgent,
		episodes: episodes,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Run executes one run per seed and returns the results in the order
// of the seeds. If any run fails, or the context is cancelled, Run
// stops the remaining runs and returns the first error.
func (b *Batch) Run(ctx context.Context, seeds []uint64) ([]Result, error) {
	results := make([]Result, len(seeds))

	g, ctx := errgroup.WithContext(ctx)
	if b.workers > 0 {
		g.SetLimit(b.workers)
	}

	for i, seed := range seeds {
		i, seed := i, seed
		g.Go(func() error {
			result, err := b.run(ctx, seed)
			if err != nil {
				return fmt.Errorf("run: seed %v: %w", seed, err)
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (b *Batch) run(ctx context.Context, seed uint64) (Result, error) {
	id := uuid.New()
	logger := b.logger.With(zap.Stringer("run", id), zap.Uint64("seed", seed))

	e, err := b.newEnv(seed)
	if err != nil {
		return Result{}, err
	}
	a, err := b.newAgent(e, seed)
	if err != nil {
		return Result{}, err
	}

	returns := tracker.NewReturn()
	lengths := tracker.NewEpisodeLength()
	exp := NewOnline(e, a, math.MaxUint, returns, lengths)

	logger.Debug("run started", zap.Int("episodes", b.episodes))
	for i := 0; i < b.episodes; i++ {
		if _, err := exp.RunEpisode(ctx); err != nil {
			return Result{}, err
		}
	}

	result := Result{
		ID:       id,
		Seed:     seed,
		Returns:  returns.Data(),
		Lengths:  lengths.Data(),
		EndTypes: lengths.EndTypes(),
	}
	logger.Info("run finished",
		zap.Uint("steps", exp.Steps()),
		zap.Int("successes", result.Successes()))

	return result, nil
}
