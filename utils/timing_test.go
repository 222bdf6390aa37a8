package utils

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDurationUS(t *testing.T) {
	d := 1234*time.Microsecond + 567*time.Nanosecond
	got := DurationUS(d)
	if math.Abs(got-1234.567) > 0.001 {
		t.Fatalf("want 1234.567µs, got %.3f", got)
	}
}

func withOutput(t *testing.T, verbose bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevVerbose := Output, Verbose
	Output, Verbose = &buf, verbose
	t.Cleanup(func() { Output, Verbose = prevOut, prevVerbose })
	return &buf
}

func TestPrintEpoch(t *testing.T) {
	buf := withOutput(t, true)
	PrintEpoch(3, 10, 0.25)
	require.Equal(t, "Epoch 3/10 | Cost: 0.250000\n", buf.String())
}

func TestPrintEpochQuiet(t *testing.T) {
	buf := withOutput(t, false)
	PrintEpoch(1, 1, 0.5)
	PrintTimingStats(&TimingStats{TotalTime: time.Second}, 4)
	require.Empty(t, buf.String())
}

func TestPrintTimingStats(t *testing.T) {
	buf := withOutput(t, true)
	stats := &TimingStats{
		TotalTime:        4 * time.Millisecond,
		ForwardPassTime:  time.Millisecond,
		BackwardPassTime: 2 * time.Millisecond,
	}
	PrintTimingStats(stats, 4)
	out := buf.String()
	require.Contains(t, out, "Steps completed: 4")
	require.Contains(t, out, "Forward pass: 1ms (25.0%)")
	require.Contains(t, out, "Backward pass: 2ms (50.0%)")
	require.Contains(t, out, "Weight updates: 0s (0.0%)")
}

func TestPrintTimingStatsNoSteps(t *testing.T) {
	buf := withOutput(t, true)
	PrintTimingStats(&TimingStats{}, 0)
	require.Empty(t, buf.String())
}

func TestTimingStatsAdd(t *testing.T) {
	var total TimingStats
	total.Add(TimingStats{TotalTime: time.Second, UpdateTime: time.Millisecond})
	total.Add(TimingStats{TotalTime: time.Second, ForwardPassTime: 2 * time.Millisecond})
	require.Equal(t, 2*time.Second, total.TotalTime)
	require.Equal(t, time.Millisecond, total.UpdateTime)
	require.Equal(t, 2*time.Millisecond, total.ForwardPassTime)
}
