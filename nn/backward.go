package nn

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Gradients is the result of one backward pass.
//
// Biases[l][j] is the error term (delta) of neuron j in layer l+1. Weights[l]
// is shaped like the weight matrix of edge l and stores that same delta in
// every column: entry (i, j) equals Biases[l][j]. The factor activation[l][i]
// that turns it into ∂cost/∂w(i,j) is applied by the update step.
type Gradients struct {
	Weights []*WeightMatrix
	Biases  [][]float64
}

// Gradients runs the backward pass for label against the activations stored by
// the last Predict. It does not modify the network.
func (net *Network) Gradients(label int) (*Gradients, error) {
	if err := net.checkLabel(label); err != nil {
		return nil, err
	}
	return net.backward(label), nil
}

func (net *Network) checkLabel(label int) error {
	if label < 0 || label >= net.OutputSize() {
		return fmt.Errorf("%w: label %d for an output layer of %d", ErrLabelOutOfRange, label, net.OutputSize())
	}
	return nil
}

// backward derives the deltas of every edge from the last one to the first,
// reading only the current (pre-update) weights.
func (net *Network) backward(label int) *Gradients {
	last := len(net.weights) - 1
	deltas := make([][]float64, len(net.weights))

	for l := last; l >= 0; l-- {
		a := net.activations[l+1]
		delta := make([]float64, len(a))
		for j, v := range a {
			if l == last {
				delta[j] = net.activator.Deactivate(v) * 2 * (v - oneHot(j, label))
			} else {
				// neuron j of layer l+1 feeds every neuron k of layer l+2
				delta[j] = net.activator.Deactivate(v) * floats.Dot(net.weights[l+1].Column(j), deltas[l+1])
			}
		}
		deltas[l] = delta
	}

	g := &Gradients{
		Weights: make([]*WeightMatrix, len(deltas)),
		Biases:  deltas,
	}
	for l, delta := range deltas {
		w := &WeightMatrix{data: mat.NewDense(net.layers[l+1], net.layers[l], nil)}
		for j, d := range delta {
			for i := 0; i < net.layers[l]; i++ {
				w.Set(i, j, d)
			}
		}
		g.Weights[l] = w
	}
	return g
}

func oneHot(j, label int) float64 {
	if j == label {
		return 1.0
	}
	return 0.0
}
