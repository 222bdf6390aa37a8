package m

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLines(t *testing.T) {
	data := "0,0,0\n0,1,1\n\n1, 0, 1\n1,1,0\n"
	lines, err := GetLines(strings.NewReader(data), 2, 1)
	require.NoError(t, err)
	require.Len(t, lines, 4)
	assert.Equal(t, []float64{1, 0}, lines[2].Inputs)
	assert.Equal(t, []float64{1}, lines[2].Targets)

	inputs, targets := lines.Split()
	assert.Equal(t, [][]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}}, inputs)
	assert.Equal(t, [][]float64{{0}, {1}, {1}, {0}}, targets)
}

func TestGetLinesMultipleTargets(t *testing.T) {
	lines, err := GetLines(strings.NewReader("0.5,1,0,0\n"), 1, 3)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, []float64{0.5}, lines[0].Inputs)
	assert.Equal(t, []float64{1, 0, 0}, lines[0].Targets)
}

func TestGetLinesWrongColumnCount(t *testing.T) {
	lines, err := GetLines(strings.NewReader("0,0,0\n0,1\n"), 2, 1)
	require.Error(t, err)
	assert.Len(t, lines, 1)

	var invalid errInvalidLine
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "at line 2, expected 3 values, got 2", err.Error())
}

func TestGetLinesParseErrors(t *testing.T) {
	_, err := GetLines(strings.NewReader("0,x,1\n"), 2, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1: parsing input")
	assert.True(t, errors.Is(err, strconv.ErrSyntax))

	_, err = GetLines(strings.NewReader("0,1,y\n"), 2, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing target")
}

func TestNormalizeLines(t *testing.T) {
	lines := Lines{
		{Inputs: []float64{0, 2}, Targets: []float64{0}},
		{Inputs: []float64{0, 2}, Targets: []float64{1}},
		{Inputs: []float64{1, 2}, Targets: []float64{1}},
		{Inputs: []float64{1, 2}, Targets: []float64{0}},
	}
	mean := CalculateMean(lines)
	std := CalculateStdDev(lines)
	assert.Equal(t, []float64{0.5, 2}, mean)
	assert.Equal(t, []float64{0.5, 0}, std)

	normalized := NormalizeLines(lines, std, mean)
	require.Len(t, normalized, 4)
	assert.Equal(t, []float64{-1, 0}, normalized[0].Inputs)
	assert.Equal(t, []float64{1, 0}, normalized[3].Inputs)
	assert.Equal(t, lines[2].Targets, normalized[2].Targets)
	assert.Equal(t, []float64{0, 2}, lines[0].Inputs, "originals are untouched")
}

func TestStatsOfEmptyLines(t *testing.T) {
	assert.Nil(t, CalculateMean(nil))
	assert.Nil(t, CalculateStdDev(nil))
}
