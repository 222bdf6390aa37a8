package m

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Activator is an elementwise nonlinearity paired with its derivative.
// Deactivate receives values that have already been through Activate.
type Activator interface {
	Activate(i, j int, sum float64) float64
	Deactivate(m mat.Matrix) mat.Matrix
	fmt.Stringer
}

var ActivatorLookup = map[string]Activator{
	"sigmoid": Sigmoid{},
	"tanh":    Tanh{},
	"relu":    ReLU{},
}

// SigmoidFn is the logistic function 1 / (1 + e^-x).
func SigmoidFn(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// SigmoidPrime is the sigmoid derivative expressed through a = SigmoidFn(x).
func SigmoidPrime(a float64) float64 {
	return a * (1 - a)
}

type Sigmoid struct{}

func (s Sigmoid) Activate(i, j int, sum float64) float64 {
	return SigmoidFn(sum)
}

func (s Sigmoid) Deactivate(matrix mat.Matrix) mat.Matrix {
	rows, cols := matrix.Dims()
	o := make([]float64, rows*cols)
	for i := range o {
		o[i] = 1
	}
	ones := mat.NewDense(rows, cols, o)
	return multiply(matrix, subtract(ones, matrix))
}

func (s Sigmoid) String() string {
	return "sigmoid"
}

type Tanh struct{}

func (t Tanh) Activate(i, j int, sum float64) float64 {
	return math.Tanh(sum)
}

func (t Tanh) Deactivate(matrix mat.Matrix) mat.Matrix {
	tanhPrime := func(i, j int, a float64) float64 {
		return 1.0 - a*a
	}

	return apply(tanhPrime, matrix)
}

func (t Tanh) String() string {
	return "tanh"
}

// ReLU is leaky below zero so that dead units still receive a gradient.
type ReLU struct{}

func (r ReLU) Activate(i, j int, sum float64) float64 {
	if sum < 0 {
		return 0.0001 * sum
	}
	return sum
}

func (r ReLU) Deactivate(matrix mat.Matrix) mat.Matrix {
	applyReLU := func(i, j int, a float64) float64 {
		if a < 0 {
			return 0.0001
		}
		return 1
	}
	return apply(applyReLU, matrix)
}

func (r ReLU) String() string {
	return "relu"
}

// Funcs adapts a pair of scalar functions into an Activator. Prime must take
// the activated value, the same convention as SigmoidPrime.
type Funcs struct {
	Name  string
	Fn    func(float64) float64
	Prime func(float64) float64
}

func (f Funcs) Activate(i, j int, sum float64) float64 {
	return f.Fn(sum)
}

func (f Funcs) Deactivate(matrix mat.Matrix) mat.Matrix {
	return apply(func(i, j int, a float64) float64 { return f.Prime(a) }, matrix)
}

func (f Funcs) String() string {
	if f.Name == "" {
		return "custom"
	}
	return f.Name
}
