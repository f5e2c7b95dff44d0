// Package envconfig provides configuration structs for configuring
// environments with default physical parameters and tasks. Environment
// configurations in this package are YAML and JSON serializable.
package envconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	env "github.com/samuelfneumann/rivercrossing/environment"
	"github.com/samuelfneumann/rivercrossing/environment/river"
	"github.com/samuelfneumann/rivercrossing/environment/wrappers"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// EnvName stores the name of environments that can be configured with
// this package
type EnvName string

// Environments available for configuration
const (
	RiverCrossing EnvName = "RiverCrossing"
)

// TaskName stores the tasks that can be configured with this package
type TaskName string

// Tasks available for configuration
const (
	Progress TaskName = "Progress"
	Sparse   TaskName = "Sparse"
)

// ObserverName stores the observers that can be configured with this
// package
type ObserverName string

// Observers available for configuration
const (
	FullState    ObserverName = "FullState"
	GoalRelative ObserverName = "GoalRelative"
)

// Config implements a specific configuration of a specific environment
// and specific task
type Config struct {
	Environment EnvName      `json:"environment" yaml:"environment"`
	Task        TaskName     `json:"task" yaml:"task"`
	Observer    ObserverName `json:"observer" yaml:"observer"`
	Discount    float64      `json:"discount" yaml:"discount"`

	// Normalize wraps the environment so that observations lie in
	// [-1, 1]
	Normalize bool `json:"normalize" yaml:"normalize"`

	// AverageReward is the learning rate of the average reward estimate
	// used to wrap the environment in the average reward setting. Zero
	// disables the wrapper.
	AverageReward float64 `json:"average_reward" yaml:"average_reward"`

	River river.Config `json:"river" yaml:"river"`
}

// Default returns the default Config: the Progress task on the default
// river with goal relative observations
func Default() Config {
	return Config{
		Environment: RiverCrossing,
		Task:        Progress,
		Observer:    GoalRelative,
		Discount:    1.0,
		River:       river.DefaultConfig(),
	}
}

// Load reads a Config from a YAML file, or a JSON file if the file
// has a .json extension. Fields missing from the file keep their
// default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load: %w", err)
	}

	cfg := Default()
	if isJSON(path) {
		err = json.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("load: %v: %w", path, err)
	}
	return cfg, nil
}

// Save writes the Config to path as YAML, or as JSON if the path has a
// .json extension
func Save(path string, cfg Config) error {
	data, err := cfg.Marshal(isJSON(path))
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// Marshal encodes the Config as YAML, or as indented JSON if asJSON is
// true
func (c Config) Marshal(asJSON bool) ([]byte, error) {
	if asJSON {
		return json.MarshalIndent(c, "", "  ")
	}
	return yaml.Marshal(c)
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// Create returns the environment described by the Config. The seed
// replaces the seed of the river's start state distribution. The River
// is wrapped in Normalize, then AverageReward, when requested.
func (c Config) Create(seed uint64, logger *zap.Logger) (env.Environment,
	error) {
	r, err := c.CreateRiver(seed, logger)
	if err != nil {
		return nil, err
	}

	var e env.Environment = r
	if c.Normalize {
		e = wrappers.NewNormalize(e)
	}
	if c.AverageReward != 0 {
		e, err = wrappers.NewAverageReward(e, 0, c.AverageReward)
		if err != nil {
			return nil, fmt.Errorf("create: %w: %v", env.ErrInvalidConfig, err)
		}
	}
	return e, nil
}

// CreateRiver returns the unwrapped River described by the Config
func (c Config) CreateRiver(seed uint64, logger *zap.Logger) (*river.River,
	error) {
	if c.Environment != RiverCrossing {
		return nil, fmt.Errorf("create: %w: no such environment %q",
			env.ErrInvalidConfig, c.Environment)
	}

	var task river.TaskFunc
	switch c.Task {
	case Progress:
		task = river.NewProgress
	case Sparse:
		task = river.NewSparse
	default:
		return nil, fmt.Errorf("create: %w: %v environment has no task %q",
			env.ErrInvalidConfig, c.Environment, c.Task)
	}

	var observer river.ObserverFunc
	switch c.Observer {
	case FullState:
		observer = river.NewFullState
	case GoalRelative:
		observer = river.NewGoalRelative
	default:
		return nil, fmt.Errorf("create: %w: no such observer %q",
			env.ErrInvalidConfig, c.Observer)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	cfg := c.River
	cfg.Seed = seed
	r, err := river.New(task, cfg,
		river.WithObserver(observer),
		river.WithDiscount(c.Discount),
		river.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}
	return r, nil
}
