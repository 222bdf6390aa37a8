package utils

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Verbose controls whether progress and timing statistics are printed.
// Set to false to suppress output.
var Verbose = true

// Output is the writer where progress and timing statistics are printed.
// Defaults to os.Stdout.
var Output io.Writer = os.Stdout

// TimingStats holds timing information for the phases of training
type TimingStats struct {
	TotalTime           time.Duration
	ForwardPassTime     time.Duration
	BackwardPassTime    time.Duration
	UpdateTime          time.Duration
	LossComputationTime time.Duration
}

// Add accumulates o into s.
func (s *TimingStats) Add(o TimingStats) {
	s.TotalTime += o.TotalTime
	s.ForwardPassTime += o.ForwardPassTime
	s.BackwardPassTime += o.BackwardPassTime
	s.UpdateTime += o.UpdateTime
	s.LossComputationTime += o.LossComputationTime
}

// PrintEpoch reports the dataset cost after an epoch.
// Respects the Verbose flag.
func PrintEpoch(epoch, epochs int, cost float64) {
	if !Verbose {
		return
	}
	fmt.Fprintf(Output, "Epoch %d/%d | Cost: %.6f\n", epoch, epochs, cost)
}

// PrintTimingStats prints detailed timing statistics.
// Respects the Verbose flag - does nothing if Verbose is false.
func PrintTimingStats(stats *TimingStats, steps int) {
	if !Verbose || steps <= 0 {
		return
	}
	fmt.Fprintln(Output, "\n=== TIMING STATISTICS ===")
	fmt.Fprintf(Output, "Total training time: %v\n", stats.TotalTime)
	fmt.Fprintf(Output, "Average time per step: %v\n", stats.TotalTime/time.Duration(steps))
	fmt.Fprintf(Output, "Steps completed: %d\n", steps)
	fmt.Fprintln(Output, "\nBreakdown by operation:")
	fmt.Fprintf(Output, "  Forward pass: %v (%.1f%%)\n", stats.ForwardPassTime, percent(stats.ForwardPassTime, stats.TotalTime))
	fmt.Fprintf(Output, "  Backward pass: %v (%.1f%%)\n", stats.BackwardPassTime, percent(stats.BackwardPassTime, stats.TotalTime))
	fmt.Fprintf(Output, "  Weight updates: %v (%.1f%%)\n", stats.UpdateTime, percent(stats.UpdateTime, stats.TotalTime))
	fmt.Fprintf(Output, "  Loss computation: %v (%.1f%%)\n", stats.LossComputationTime, percent(stats.LossComputationTime, stats.TotalTime))
	fmt.Fprintln(Output, "\nPerformance metrics:")
	fmt.Fprintf(Output, "  Average forward pass time: %.2fµs\n", DurationUS(stats.ForwardPassTime/time.Duration(steps)))
	fmt.Fprintf(Output, "  Average backward pass time: %.2fµs\n", DurationUS(stats.BackwardPassTime/time.Duration(steps)))
}

func percent(part, total time.Duration) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// DurationUS converts any time.Duration to micro-seconds as float64
func DurationUS(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1_000.0
}
