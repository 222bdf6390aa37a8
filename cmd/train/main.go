// train: fits a feed-forward network to a small labelled dataset
//
// Usage:
//
//	train --arch="2 3 1" --epochs=5000 --lr=0.5 --restarts=4
//	train --data=samples.csv --arch="4 8 3" --activation=tanh --normalize
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/exp/rand"

	"ffnet/m"
	"ffnet/utils"
)

var (
	arch         = flag.String("arch", "2 3 1", "Layer widths, input first and output last")
	activation   = flag.String("activation", "sigmoid", "Activation: sigmoid, tanh, relu")
	epochs       = flag.Int("epochs", 5000, "Number of training epochs")
	learningRate = flag.Float64("lr", 0.5, "Learning rate")
	seed         = flag.Uint64("seed", 42, "Random seed; restart i uses seed+i")
	restarts     = flag.Int("restarts", 1, "Independent networks trained in parallel, best one kept")
	dataFile     = flag.String("data", "", "CSV dataset, inputs then targets on each row (default: XOR)")
	normalize    = flag.Bool("normalize", false, "Standardise inputs before training")
	analysisFile = flag.String("analysis", "", "Append a CSV run record to this file")
	verbose      = flag.Bool("verbose", true, "Verbose output")
)

var xorLines = m.Lines{
	{Inputs: []float64{0, 0}, Targets: []float64{0}},
	{Inputs: []float64{0, 1}, Targets: []float64{1}},
	{Inputs: []float64{1, 0}, Targets: []float64{1}},
	{Inputs: []float64{1, 1}, Targets: []float64{0}},
}

func main() {
	flag.Parse()
	utils.Verbose = *verbose

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	architecture, err := utils.ParseArchitecture(*arch)
	if err != nil {
		return fmt.Errorf("parsing architecture: %w", err)
	}
	config := utils.Config{
		Architecture: architecture,
		Activation:   *activation,
		Epochs:       *epochs,
		LearningRate: *learningRate,
		Seed:         *seed,
		Restarts:     *restarts,
		DataFile:     *dataFile,
		Normalize:    *normalize,
		AnalysisFile: *analysisFile,
	}
	if err := utils.ValidateConfig(&config); err != nil {
		return err
	}
	activator, ok := m.ActivatorLookup[config.Activation]
	if !ok {
		return fmt.Errorf("unknown activation %q", config.Activation)
	}

	fmt.Printf("Configuration:\n")
	fmt.Printf("  Architecture:  %v\n", config.Architecture)
	fmt.Printf("  Activation:    %s\n", activator)
	fmt.Printf("  Epochs:        %d\n", config.Epochs)
	fmt.Printf("  Learning Rate: %.4f\n", config.LearningRate)
	fmt.Printf("  Restarts:      %d\n", config.Restarts)
	fmt.Println()

	lines, err := loadLines(config)
	if err != nil {
		return err
	}
	if config.Normalize {
		lines = m.NormalizeLines(lines, m.CalculateStdDev(lines), m.CalculateMean(lines))
	}

	nets := make([]*m.Network, config.Restarts)
	for i := range nets {
		nets[i], err = m.NewNetwork(m.Config{
			Shape:     config.Architecture,
			Activator: activator,
			Src:       rand.NewSource(config.Seed + uint64(i)),
		})
		if err != nil {
			return fmt.Errorf("building network: %w", err)
		}
	}

	fmt.Println("Started training...")
	start := time.Now()
	net, err := train(nets, lines, config)
	if err != nil {
		return err
	}
	fmt.Printf("Training took %.2fs\n\n", time.Since(start).Seconds())

	for _, line := range lines {
		out, err := net.FeedForward(line.Inputs)
		if err != nil {
			return err
		}
		fmt.Printf("Input: %v, Output: %.4f, Expected: %v\n", line.Inputs, out, line.Targets)
	}

	eval, err := net.Evaluate(lines)
	if err != nil {
		return fmt.Errorf("evaluating network: %w", err)
	}
	fmt.Printf("\nCost %.6f, Accuracy %.2f%%\n", eval.Cost, eval.Accuracy)

	var stats utils.TimingStats
	for _, n := range nets {
		stats.Add(n.Stats())
	}
	utils.PrintTimingStats(&stats, config.Epochs*len(lines)*len(nets))

	if config.AnalysisFile != "" {
		return appendAnalysis(net, config, eval)
	}
	return nil
}

func loadLines(config utils.Config) (m.Lines, error) {
	if config.DataFile == "" {
		return xorLines, nil
	}
	f, err := os.Open(config.DataFile)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	inputNum := config.Architecture[0]
	outputNum := config.Architecture[len(config.Architecture)-1]
	lines, err := m.GetLines(f, inputNum, outputNum)
	if err != nil {
		return nil, fmt.Errorf("getting lines: %w", err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("dataset %s is empty", config.DataFile)
	}
	return lines, nil
}

// train runs a single network in the foreground with per-epoch progress, or
// several in parallel, keeping the one with the lowest final cost.
func train(nets []*m.Network, lines m.Lines, config utils.Config) (*m.Network, error) {
	if len(nets) == 1 {
		if _, err := nets[0].TrainLines(lines, config.LearningRate, config.Epochs); err != nil {
			return nil, fmt.Errorf("training: %w", err)
		}
		return nets[0], nil
	}

	histories, err := m.TrainIndependent(context.Background(), nets, lines, config.LearningRate, config.Epochs)
	if err != nil {
		return nil, fmt.Errorf("training: %w", err)
	}
	best := m.Best(histories)
	if best < 0 {
		best = 0
	}
	for i, h := range histories {
		if len(h) > 0 {
			fmt.Printf("Run %d (seed %d): final cost %.6f\n", i, config.Seed+uint64(i), h[len(h)-1])
		}
	}
	fmt.Printf("Keeping run %d\n", best)
	return nets[best], nil
}

func appendAnalysis(net *m.Network, config utils.Config, eval m.Evaluation) error {
	var needsHeaders bool
	if _, err := os.Stat(config.AnalysisFile); errors.Is(err, os.ErrNotExist) {
		needsHeaders = true
	}
	file, err := os.OpenFile(config.AnalysisFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	name := "xor"
	if config.DataFile != "" {
		name = config.DataFile
	}
	return net.Analyze(file, m.RunInfo{
		Name:         name,
		Epochs:       config.Epochs,
		LearningRate: config.LearningRate,
		WriteHeader:  needsHeaders,
	}, eval)
}
