package nn

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// WeightMatrix holds the weights of the edges between two adjacent layers.
// Rows are output neurons and columns are input neurons, so a matrix between
// layers of sizes n and m has m rows and n columns.
type WeightMatrix struct {
	data *mat.Dense
}

// NewWeightMatrix allocates a zero matrix connecting inputs neurons to outputs neurons.
func NewWeightMatrix(inputs, outputs int) (*WeightMatrix, error) {
	if inputs <= 0 || outputs <= 0 {
		return nil, fmt.Errorf("%w: matrix size %dx%d", ErrConfiguration, outputs, inputs)
	}
	return &WeightMatrix{data: mat.NewDense(outputs, inputs, nil)}, nil
}

// Dims returns the number of output neurons (rows) and input neurons (columns).
func (w *WeightMatrix) Dims() (outputs, inputs int) {
	return w.data.Dims()
}

// MatMul returns W·v. The length of v must equal the number of columns.
func (w *WeightMatrix) MatMul(v []float64) ([]float64, error) {
	rows, cols := w.data.Dims()
	if len(v) != cols {
		return nil, fmt.Errorf("%w: cannot multiply %dx%d matrix with %dx1 vector",
			ErrDimensionMismatch, rows, cols, len(v))
	}
	out := mat.NewVecDense(rows, nil)
	out.MulVec(w.data, mat.NewVecDense(cols, v))
	return out.RawVector().Data, nil
}

// Get returns the weight of the edge from input neuron in to output neuron out.
func (w *WeightMatrix) Get(in, out int) float64 {
	return w.data.At(out, in)
}

// Set overwrites the weight of the edge from input neuron in to output neuron out.
func (w *WeightMatrix) Set(in, out int, v float64) {
	w.data.Set(out, in, v)
}

// Column returns the weights leaving input neuron in, one per output neuron.
func (w *WeightMatrix) Column(in int) []float64 {
	return mat.Col(nil, in, w.data)
}

// Fill sets every weight to v.
func (w *WeightMatrix) Fill(v float64) {
	w.FillFunc(func() float64 { return v })
}

// FillFunc sets every weight to the next value of fn, row by row.
func (w *WeightMatrix) FillFunc(fn func() float64) {
	rows, cols := w.data.Dims()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			w.data.Set(r, c, fn())
		}
	}
}

// Rows returns a copy of the matrix as one slice per output neuron.
func (w *WeightMatrix) Rows() [][]float64 {
	rows, _ := w.data.Dims()
	out := make([][]float64, rows)
	for r := range out {
		out[r] = mat.Row(nil, r, w.data)
	}
	return out
}

func (w *WeightMatrix) clone() *WeightMatrix {
	return &WeightMatrix{data: mat.DenseCopyOf(w.data)}
}

func (w *WeightMatrix) String() string {
	rows, cols := w.data.Dims()
	lines := make([]string, rows)
	for r := 0; r < rows; r++ {
		cells := make([]string, cols)
		for c := 0; c < cols; c++ {
			cells[c] = fmt.Sprintf("Input neuron: %d Output neuron: %d Weight: % .5f", c, r, w.data.At(r, c))
		}
		lines[r] = strings.Join(cells, " || ")
	}
	return strings.Join(lines, "\n")
}
