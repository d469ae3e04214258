package nn

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Predict runs the forward pass and returns a copy of the output layer.
// The input is copied, so later changes to it do not affect the stored state.
// On error no state is modified.
func (net *Network) Predict(input []float64) ([]float64, error) {
	if len(input) != net.InputSize() {
		return nil, fmt.Errorf("%w: got %d values for an input layer of %d",
			ErrInputSizeMismatch, len(input), net.InputSize())
	}

	net.activations[0] = append(net.activations[0][:0], input...)
	for l, w := range net.weights {
		sums, err := w.MatMul(net.activations[l])
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", l, err)
		}
		floats.Add(sums, net.biases[l])
		for j, s := range sums {
			sums[j] = net.activator.Activate(s)
		}
		net.activations[l+1] = sums
	}

	return append([]float64(nil), net.output()...), nil
}

func (net *Network) output() []float64 {
	return net.activations[len(net.activations)-1]
}
