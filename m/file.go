package m

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
)

type Line struct {
	Inputs  []float64
	Targets []float64
}
type Lines []Line

// Split returns the inputs and targets as parallel slices. The vectors are
// shared with lines, not copied.
func (lines Lines) Split() (inputs, targets [][]float64) {
	inputs = make([][]float64, len(lines))
	targets = make([][]float64, len(lines))
	for i, line := range lines {
		inputs[i] = line.Inputs
		targets[i] = line.Targets
	}
	return inputs, targets
}

// GetLines reads comma separated rows of inputNum inputs followed by
// outputNum targets. Blank rows are skipped.
func GetLines(reader io.Reader, inputNum, outputNum int) (Lines, error) {
	scanner := bufio.NewScanner(reader)
	var lines Lines
	var lineNum int
	for scanner.Scan() {
		lineNum++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		splits := strings.Split(text, ",")
		if len(splits) != inputNum+outputNum {
			return lines, errInvalidLine{
				lineNum:  lineNum,
				splits:   len(splits),
				expected: inputNum + outputNum,
			}
		}
		inputs := make([]float64, inputNum)
		targets := make([]float64, outputNum)

		for i, split := range splits {
			num, err := strconv.ParseFloat(strings.TrimSpace(split), 64)
			if i < inputNum {
				if err != nil {
					return lines, fmt.Errorf("line %d: parsing input: %w", lineNum, err)
				}
				inputs[i] = num
			} else {
				if err != nil {
					return lines, fmt.Errorf("line %d: parsing target: %w", lineNum, err)
				}
				targets[i-inputNum] = num
			}
		}
		lines = append(lines, Line{
			Inputs:  inputs,
			Targets: targets,
		})
	}
	if err := scanner.Err(); err != nil {
		return lines, fmt.Errorf("reading lines: %w", err)
	}
	return lines, nil
}

type errInvalidLine struct {
	lineNum  int
	splits   int
	expected int
}

func (e errInvalidLine) Error() string {
	return fmt.Sprintf("at line %d, expected %d values, got %d",
		e.lineNum, e.expected, e.splits)
}

func inputColumn(lines Lines, j int) []float64 {
	col := make([]float64, len(lines))
	for i, line := range lines {
		col[i] = line.Inputs[j]
	}
	return col
}

func CalculateMean(lines Lines) []float64 {
	if len(lines) == 0 {
		return nil
	}
	mean := make([]float64, len(lines[0].Inputs))
	for j := range mean {
		mean[j] = stat.Mean(inputColumn(lines, j), nil)
	}
	return mean
}

// CalculateStdDev returns the population standard deviation of each input.
func CalculateStdDev(lines Lines) []float64 {
	if len(lines) == 0 {
		return nil
	}
	stdDev := make([]float64, len(lines[0].Inputs))
	for j := range stdDev {
		_, stdDev[j] = stat.PopMeanStdDev(inputColumn(lines, j), nil)
	}
	return stdDev
}

// NormalizeLines standardises every input column. Columns with no spread are
// only centred. Targets are shared with the original lines.
func NormalizeLines(lines Lines, std []float64, mean []float64) Lines {
	normalizedLines := make(Lines, len(lines))
	for i, line := range lines {
		normalizedInputs := make([]float64, len(line.Inputs))
		for j, x := range line.Inputs {
			normalizedInputs[j] = x - mean[j]
			if std[j] != 0 {
				normalizedInputs[j] /= std[j]
			}
		}

		normalizedLines[i] = Line{
			Inputs:  normalizedInputs,
			Targets: line.Targets,
		}
	}
	return normalizedLines
}
