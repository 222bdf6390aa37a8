package m

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

func dot(m, n mat.Matrix) mat.Matrix {
	r, _ := m.Dims()
	_, c := n.Dims()
	o := mat.NewDense(r, c, nil)
	o.Product(m, n)
	return o
}

func apply(fn func(i, j int, v float64) float64, m mat.Matrix) mat.Matrix {
	r, c := m.Dims()
	o := mat.NewDense(r, c, nil)
	o.Apply(fn, m)
	return o
}

func scale(s float64, m mat.Matrix) mat.Matrix {
	r, c := m.Dims()
	o := mat.NewDense(r, c, nil)
	o.Scale(s, m)
	return o
}

func multiply(m, n mat.Matrix) mat.Matrix {
	r, c := m.Dims()
	o := mat.NewDense(r, c, nil)
	o.MulElem(m, n)
	return o
}

func add(m, n mat.Matrix) mat.Matrix {
	r, c := m.Dims()
	o := mat.NewDense(r, c, nil)
	o.Add(m, n)
	return o
}

func subtract(m, n mat.Matrix) mat.Matrix {
	r, c := m.Dims()
	o := mat.NewDense(r, c, nil)
	o.Sub(m, n)
	return o
}

// outer returns the column vector x times the row vector yᵀ.
func outer(x, y mat.Matrix) mat.Matrix {
	return dot(x, y.T())
}

// column copies v into a len(v)×1 matrix.
func column(v []float64) *mat.Dense {
	return mat.NewDense(len(v), 1, append([]float64(nil), v...))
}

// GetColumn returns a copy of column j of matrix.
func GetColumn(matrix mat.Matrix, j int) []float64 {
	return mat.Col(nil, j, matrix)
}

func uniform(src rand.Source) distuv.Uniform {
	return distuv.Uniform{Min: -1, Max: 1, Src: src}
}

// RandomizeVector fills v in place with values drawn uniformly from [-1, 1).
// A nil src draws from the process-wide source in golang.org/x/exp/rand.
func RandomizeVector(v *mat.VecDense, src rand.Source) {
	dist := uniform(src)
	for i := 0; i < v.Len(); i++ {
		v.SetVec(i, dist.Rand())
	}
}

// RandomizeMatrix fills d in place with values drawn uniformly from [-1, 1).
func RandomizeMatrix(d *mat.Dense, src rand.Source) {
	dist := uniform(src)
	r, c := d.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			d.Set(i, j, dist.Rand())
		}
	}
}

// MSE is the mean squared error between output and target.
func MSE(output, target []float64) (float64, error) {
	if len(output) != len(target) {
		return 0, fmt.Errorf("%w: output has %d values, target has %d",
			ErrDimensionMismatch, len(output), len(target))
	}
	if len(output) == 0 {
		return 0, nil
	}
	diff := floats.SubTo(make([]float64, len(output)), output, target)
	return floats.Dot(diff, diff) / float64(len(diff)), nil
}
