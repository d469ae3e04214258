package nn

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Cost returns the mean squared error of output against the one-hot target
// for label. It is reported for monitoring and plays no part in training.
func Cost(output []float64, label int) float64 {
	if len(output) == 0 {
		return 0
	}
	return squaredError(output, label) / float64(len(output))
}

// TotalError returns the summed squared error of the stored output layer
// against label. The backward pass differentiates exactly this quantity.
func (net *Network) TotalError(label int) float64 {
	return squaredError(net.output(), label)
}

func squaredError(output []float64, label int) float64 {
	sum := 0.0
	for j, v := range output {
		sum += math.Pow(v-oneHot(j, label), 2)
	}
	return sum
}

// Argmax returns the index of the most active output neuron, or -1 for an
// empty vector.
func Argmax(output []float64) int {
	if len(output) == 0 {
		return -1
	}
	return floats.MaxIdx(output)
}
