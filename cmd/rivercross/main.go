// Command rivercross evaluates baseline policies on the River Crossing
// environment
package main

import (
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/samuelfneumann/rivercrossing/agent"
	"github.com/samuelfneumann/rivercrossing/agent/baseline"
	env "github.com/samuelfneumann/rivercrossing/environment"
	"github.com/samuelfneumann/rivercrossing/environment/envconfig"
	"github.com/samuelfneumann/rivercrossing/experiment"
	"github.com/samuelfneumann/rivercrossing/experiment/tracker"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

// Policies which can be evaluated
const (
	steerPolicy    = "steer"
	straightPolicy = "straight"
)

var (
	configFile string
	episodes   int
	runs       int
	workers    int
	seed       uint64
	policy     string
	gain       float64
	outFile    string
	verbose    bool
	asJSON     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "rivercross",
		Short:         "river crossing environment",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"development logging at debug level")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "evaluate a baseline policy",
		Args:  cobra.NoArgs,
		RunE:  run,
	}
	runCmd.Flags().StringVar(&configFile, "config", "",
		"config file path (yaml or json)")
	runCmd.Flags().IntVar(&episodes, "episodes", 10, "episodes per run")
	runCmd.Flags().IntVar(&runs, "runs", 1, "number of independent runs")
	runCmd.Flags().IntVar(&workers, "workers", 0,
		"maximum concurrent runs, 0 for no limit")
	runCmd.Flags().Uint64Var(&seed, "seed", 0,
		"seed of the first run, later runs use seed+1, seed+2, ...")
	runCmd.Flags().StringVar(&policy, "policy", steerPolicy,
		"policy to evaluate: steer|straight")
	runCmd.Flags().Float64Var(&gain, "gain", baseline.DefaultGain,
		"proportional gain of the steer policy")
	runCmd.Flags().StringVar(&outFile, "out", "",
		"save episodic returns of all runs to this file (gob)")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the default configuration",
		Args:  cobra.NoArgs,
		RunE:  printConfig,
	}
	configCmd.Flags().BoolVar(&asJSON, "json", false, "print as json")

	rootCmd.AddCommand(runCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg := envconfig.Default()
	if configFile != "" {
		if cfg, err = envconfig.Load(configFile); err != nil {
			return err
		}
	}

	newAgent, err := agentFactory(policy, gain)
	if err != nil {
		return err
	}
	newEnv := func(s uint64) (env.Environment, error) {
		return cfg.Create(s, logger)
	}

	batch, err := experiment.NewBatch(newEnv, newAgent, episodes,
		experiment.WithWorkers(workers), experiment.WithBatchLogger(logger))
	if err != nil {
		return err
	}

	seeds := make([]uint64, runs)
	for i := range seeds {
		seeds[i] = seed + uint64(i)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	results, err := batch.Run(ctx, seeds)
	if err != nil {
		return err
	}

	printResults(cmd, results)

	if outFile != "" {
		var returns []float64
		for _, r := range results {
			returns = append(returns, r.Returns...)
		}
		if err := tracker.SaveData(outFile, returns); err != nil {
			return err
		}
		logger.Info("returns saved", zap.String("file", outFile),
			zap.Int("episodes", len(returns)))
	}
	return nil
}

func agentFactory(policy string, gain float64) (experiment.AgentFactory,
	error) {
	switch policy {
	case steerPolicy:
		return func(e env.Environment, _ uint64) (agent.Agent, error) {
			return baseline.NewSteer(gain, e.ActionSpec(), e.ObservationSpec())
		}, nil

	case straightPolicy:
		return func(e env.Environment, _ uint64) (agent.Agent, error) {
			spec := e.ActionSpec()
			return baseline.NewConstant([]float64{0, spec.UpperBound.AtVec(1)},
				spec)
		}, nil
	}

	return nil, fmt.Errorf("no such policy %q", policy)
}

func printResults(cmd *cobra.Command, results []experiment.Result) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSEED\tSUCCESS\tMEAN RETURN\tMEAN LENGTH")

	for _, r := range results {
		lengths := make([]float64, len(r.Lengths))
		for i, l := range r.Lengths {
			lengths[i] = float64(l)
		}

		fmt.Fprintf(w, "%v\t%v\t%v/%v\t%.3f\t%.1f\n", r.ID, r.Seed,
			r.Successes(), len(r.EndTypes), stat.Mean(r.Returns, nil),
			stat.Mean(lengths, nil))
	}
	w.Flush()
}

func printConfig(cmd *cobra.Command, args []string) error {
	data, err := envconfig.Default().Marshal(asJSON)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
