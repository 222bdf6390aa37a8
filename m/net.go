package m

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"ffnet/utils"
)

var (
	// ErrDimensionMismatch is returned when a vector's length does not match
	// the width of the layer it is fed to or compared against.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrInvalidArgument   = errors.New("invalid argument")
)

type Config struct {
	// Shape lists the layer widths, input first and output last.
	Shape     []int
	Activator Activator
	// Src drives weight and bias initialisation. Nil uses the process-wide
	// source, so pass a seeded source for reproducible networks.
	Src rand.Source
}

// Network is a fully connected feed-forward network trained by single-example
// gradient descent. It is not safe for concurrent use.
type Network struct {
	shape     []int
	weights   []*mat.Dense    // weights[i] is shape[i] × shape[i+1]
	biases    []*mat.VecDense // biases[i] has length shape[i+1]
	layers    []mat.Matrix    // activations, one shape[i] × 1 column per layer
	activator Activator
	stats     utils.TimingStats
}

func NewNetwork(c Config) (*Network, error) {
	if len(c.Shape) < 2 {
		return nil, fmt.Errorf("%w: network needs at least 2 layers, got %d", ErrInvalidArgument, len(c.Shape))
	}
	for i, n := range c.Shape {
		if n <= 0 {
			return nil, fmt.Errorf("%w: layer %d has width %d", ErrInvalidArgument, i, n)
		}
	}
	if c.Activator == nil {
		return nil, fmt.Errorf("%w: no activator", ErrInvalidArgument)
	}

	shape := append([]int(nil), c.Shape...)
	net := &Network{
		shape:     shape,
		weights:   make([]*mat.Dense, len(shape)-1),
		biases:    make([]*mat.VecDense, len(shape)-1),
		layers:    make([]mat.Matrix, len(shape)),
		activator: c.Activator,
	}

	for i, n := range shape {
		net.layers[i] = mat.NewDense(n, 1, nil)
	}
	for i := range net.weights {
		net.weights[i] = mat.NewDense(shape[i], shape[i+1], nil)
		RandomizeMatrix(net.weights[i], c.Src)
	}
	for i := range net.biases {
		net.biases[i] = mat.NewVecDense(shape[i+1], nil)
		RandomizeVector(net.biases[i], c.Src)
	}

	return net, nil
}

func (net *Network) lastIndex() int {
	return len(net.layers) - 1
}

func (net *Network) checkInput(input []float64) error {
	if len(input) != net.shape[0] {
		return fmt.Errorf("%w: input has %d values, network expects %d",
			ErrDimensionMismatch, len(input), net.shape[0])
	}
	return nil
}

func (net *Network) checkTarget(target []float64) error {
	if want := net.shape[net.lastIndex()]; len(target) != want {
		return fmt.Errorf("%w: target has %d values, network outputs %d",
			ErrDimensionMismatch, len(target), want)
	}
	return nil
}

func (net *Network) checkDataset(inputs, targets [][]float64) error {
	if len(inputs) == 0 {
		return fmt.Errorf("%w: empty dataset", ErrInvalidArgument)
	}
	if len(inputs) != len(targets) {
		return fmt.Errorf("%w: %d inputs but %d targets", ErrDimensionMismatch, len(inputs), len(targets))
	}
	for i := range inputs {
		if err := net.checkInput(inputs[i]); err != nil {
			return fmt.Errorf("sample %d: %w", i, err)
		}
		if err := net.checkTarget(targets[i]); err != nil {
			return fmt.Errorf("sample %d: %w", i, err)
		}
	}
	return nil
}

// FeedForward propagates input through every layer and returns a copy of the
// output activations.
func (net *Network) FeedForward(input []float64) ([]float64, error) {
	if err := net.checkInput(input); err != nil {
		return nil, err
	}
	net.feedForward(input)
	return net.Outputs(), nil
}

func (net *Network) feedForward(input []float64) {
	net.layers[0] = column(input)
	for i := 0; i < net.lastIndex(); i++ {
		// a·W + b for a row vector a, written with a column vector
		weightedSum := add(dot(net.weights[i].T(), net.layers[i]), net.biases[i])
		net.layers[i+1] = apply(net.activator.Activate, weightedSum)
	}
}

// Backpropagate runs one gradient descent step on a single example.
func (net *Network) Backpropagate(input, target []float64, learningRate float64) error {
	if err := net.checkInput(input); err != nil {
		return err
	}
	if err := net.checkTarget(target); err != nil {
		return err
	}
	net.backpropagate(input, target, learningRate)
	return nil
}

func (net *Network) backpropagate(input, target []float64, learningRate float64) {
	start := time.Now()
	net.feedForward(input)
	forwardEnd := time.Now()

	last := net.lastIndex()
	deltas := make([]mat.Matrix, last)
	outputErrors := subtract(column(target), net.layers[last])
	deltas[last-1] = multiply(outputErrors, net.activator.Deactivate(net.layers[last]))

	// The forward map is x -> Wᵀx, so errors travel back through W itself.
	for i := last - 1; i > 0; i-- {
		deltas[i-1] = multiply(dot(net.weights[i], deltas[i]),
			net.activator.Deactivate(net.layers[i]))
	}
	backwardEnd := time.Now()

	for i, delta := range deltas {
		net.weights[i].Add(net.weights[i], scale(learningRate, outer(net.layers[i], delta)))
		net.biases[i].AddScaledVec(net.biases[i], learningRate, delta.(*mat.Dense).ColView(0))
	}

	net.stats.ForwardPassTime += forwardEnd.Sub(start)
	net.stats.BackwardPassTime += backwardEnd.Sub(forwardEnd)
	net.stats.UpdateTime += time.Since(backwardEnd)
}

// Train performs epochs passes of single-example gradient descent over the
// dataset, in order. After each pass the mean cost over the whole dataset is
// reported through utils.PrintEpoch and recorded in the returned history.
func (net *Network) Train(inputs, targets [][]float64, learningRate float64, epochs int) ([]float64, error) {
	return net.train(inputs, targets, learningRate, epochs, utils.PrintEpoch)
}

// TrainLines is Train over a slice of Lines.
func (net *Network) TrainLines(lines Lines, learningRate float64, epochs int) ([]float64, error) {
	inputs, targets := lines.Split()
	return net.Train(inputs, targets, learningRate, epochs)
}

func (net *Network) train(inputs, targets [][]float64, learningRate float64, epochs int,
	report func(epoch, epochs int, cost float64)) ([]float64, error) {
	if err := net.checkDataset(inputs, targets); err != nil {
		return nil, err
	}
	if epochs < 0 {
		return nil, fmt.Errorf("%w: negative epoch count %d", ErrInvalidArgument, epochs)
	}

	start := time.Now()
	history := make([]float64, 0, epochs)
	for epoch := 0; epoch < epochs; epoch++ {
		for i := range inputs {
			net.backpropagate(inputs[i], targets[i], learningRate)
		}

		lossStart := time.Now()
		cost := net.datasetCost(inputs, targets)
		net.stats.LossComputationTime += time.Since(lossStart)

		history = append(history, cost)
		if report != nil {
			report(epoch+1, epochs, cost)
		}
	}
	net.stats.TotalTime += time.Since(start)

	return history, nil
}

// datasetCost is the mean per-example cost. Inputs must already be validated.
func (net *Network) datasetCost(inputs, targets [][]float64) float64 {
	var total float64
	for i := range inputs {
		net.feedForward(inputs[i])
		cost, _ := MSE(net.Outputs(), targets[i])
		total += cost
	}
	return total / float64(len(inputs))
}

// Outputs returns a copy of the output layer activations.
func (net *Network) Outputs() []float64 {
	return GetColumn(net.layers[net.lastIndex()], 0)
}

// HighestOutputIndex returns the index of the first output neuron holding the
// strictly greatest activation. The running maximum starts at zero, so an
// output layer with no positive value yields 0.
func (net *Network) HighestOutputIndex() int {
	bestOutputIndex := 0
	highest := 0.0
	outputs := net.layers[net.lastIndex()]
	for i := 0; i < net.shape[net.lastIndex()]; i++ {
		if outputs.At(i, 0) > highest {
			bestOutputIndex = i
			highest = outputs.At(i, 0)
		}
	}
	return bestOutputIndex
}

// Cost is the mean squared error between the current outputs and target.
func (net *Network) Cost(target []float64) (float64, error) {
	if err := net.checkTarget(target); err != nil {
		return 0, err
	}
	return MSE(net.Outputs(), target)
}

func (net *Network) Shape() []int {
	return append([]int(nil), net.shape...)
}

func (net *Network) Activator() Activator {
	return net.activator
}

// Activations returns a copy of every layer's activation vector.
func (net *Network) Activations() [][]float64 {
	out := make([][]float64, len(net.layers))
	for i, l := range net.layers {
		out[i] = GetColumn(l, 0)
	}
	return out
}

// Weights returns copies of the weight matrices.
func (net *Network) Weights() []*mat.Dense {
	out := make([]*mat.Dense, len(net.weights))
	for i, w := range net.weights {
		out[i] = mat.DenseCopyOf(w)
	}
	return out
}

// Biases returns copies of the bias vectors.
func (net *Network) Biases() [][]float64 {
	out := make([][]float64, len(net.biases))
	for i, b := range net.biases {
		out[i] = GetColumn(b, 0)
	}
	return out
}

// Stats returns the time spent in each training phase so far.
func (net *Network) Stats() utils.TimingStats {
	return net.stats
}

type Evaluation struct {
	Samples int
	Cost    float64
	// Accuracy is the percentage of samples classified correctly.
	Accuracy float64
}

// Evaluate feeds every line forward and reports mean cost and accuracy.
// A single output neuron is read as a binary decision at 0.5; wider output
// layers are compared by highest activation against the target's argmax.
func (net *Network) Evaluate(lines Lines) (Evaluation, error) {
	if len(lines) == 0 {
		return Evaluation{}, fmt.Errorf("%w: no samples to evaluate", ErrInvalidArgument)
	}
	var correct, total float64
	for i, line := range lines {
		if err := net.checkInput(line.Inputs); err != nil {
			return Evaluation{}, fmt.Errorf("sample %d: %w", i, err)
		}
		if err := net.checkTarget(line.Targets); err != nil {
			return Evaluation{}, fmt.Errorf("sample %d: %w", i, err)
		}
		net.feedForward(line.Inputs)
		cost, _ := MSE(net.Outputs(), line.Targets)
		total += cost

		if len(line.Targets) == 1 {
			if (net.Outputs()[0] >= 0.5) == (line.Targets[0] >= 0.5) {
				correct++
			}
		} else if net.HighestOutputIndex() == floats.MaxIdx(line.Targets) {
			correct++
		}
	}

	n := float64(len(lines))
	return Evaluation{
		Samples:  len(lines),
		Cost:     total / n,
		Accuracy: 100 * (correct / n),
	}, nil
}

// RunInfo describes a training run for Analyze.
type RunInfo struct {
	Name         string
	Epochs       int
	LearningRate float64
	WriteHeader  bool
}

var analysisHeader = []string{
	"Name", "Activator", "Shape", "Epochs", "LR", "SecondsToTrain", "Cost", "Accuracy",
}

// Analyze writes one CSV record describing the run and its evaluation.
func (net *Network) Analyze(w io.Writer, run RunInfo, eval Evaluation) error {
	cw := csv.NewWriter(w)
	if run.WriteHeader {
		if err := cw.Write(analysisHeader); err != nil {
			return fmt.Errorf("writing csv headers: %w", err)
		}
	}

	shape := make([]string, len(net.shape))
	for i, n := range net.shape {
		shape[i] = strconv.Itoa(n)
	}

	record := make([]string, len(analysisHeader))
	record[0] = run.Name
	record[1] = net.activator.String()
	record[2] = strings.Join(shape, " ")
	record[3] = strconv.Itoa(run.Epochs)
	record[4] = strconv.FormatFloat(run.LearningRate, 'f', 4, 64)
	record[5] = strconv.FormatFloat(net.stats.TotalTime.Seconds(), 'f', 3, 64)
	record[6] = strconv.FormatFloat(eval.Cost, 'f', 6, 64)
	record[7] = strconv.FormatFloat(eval.Accuracy, 'f', 2, 64)

	if err := cw.Write(record); err != nil {
		return fmt.Errorf("writing csv record: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("error writing csv: %w", err)
	}
	return nil
}
