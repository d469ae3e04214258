package nn

import (
	"fmt"
	"io"
	"strings"
)

// Snapshot is a deep copy of a network's parameters and last activations.
type Snapshot struct {
	Layers       []int         `json:"layers"`
	LearningRate float64       `json:"learning_rate"`
	Weights      [][][]float64 `json:"weights"` // Weights[l][out][in]
	Biases       [][]float64   `json:"biases"`
	Activations  [][]float64   `json:"activations"`
}

// Snapshot copies the current state. The result shares no memory with net.
func (net *Network) Snapshot() Snapshot {
	s := Snapshot{
		Layers:       net.Layers(),
		LearningRate: net.learningRate,
		Weights:      make([][][]float64, len(net.weights)),
		Biases:       copyVectors(net.biases),
		Activations:  copyVectors(net.activations),
	}
	for l, w := range net.weights {
		s.Weights[l] = w.Rows()
	}
	return s
}

// Dump writes biases, weights and activations in a human readable form.
func (net *Network) Dump(w io.Writer) error {
	var b strings.Builder

	b.WriteString("\nBiases\n")
	for l, bias := range net.biases {
		b.WriteString(joinNeurons(bias, func(n int, v float64) string {
			return fmt.Sprintf("Layer: %d Neuron: %d Bias:% .5f", l+1, n, v)
		}))
		b.WriteByte('\n')
	}

	b.WriteString("\nWeights\n")
	for l, m := range net.weights {
		fmt.Fprintf(&b, "Layer: %d\n%s\n", l, m)
	}

	b.WriteString("\nValues\n")
	for l, a := range net.activations {
		b.WriteString(joinNeurons(a, func(n int, v float64) string {
			return fmt.Sprintf("Layer: %d Neuron: %d Value:% .5f", l, n, v)
		}))
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// DumpGradients writes the state followed by the weight and bias gradients for
// label, computed from the stored activations.
func (net *Network) DumpGradients(w io.Writer, label int) error {
	g, err := net.Gradients(label)
	if err != nil {
		return err
	}
	if err := net.Dump(w); err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("\nGradients W\n")
	for l, m := range g.Weights {
		outputs, inputs := m.Dims()
		for i := 0; i < inputs; i++ {
			for j := 0; j < outputs; j++ {
				fmt.Fprintf(&b, "Layer: %d Neuron: %d Output: %d Gradient W:% .5f\n",
					l, i, j, m.Get(i, j)*net.activations[l][i])
			}
		}
	}
	b.WriteString("\nGradients B\n")
	for l, bias := range g.Biases {
		for n, v := range bias {
			fmt.Fprintf(&b, "Layer: %d Neuron: %d Gradient B:% .5f\n", l, n, v)
		}
	}

	_, err = io.WriteString(w, b.String())
	return err
}

func joinNeurons(vs []float64, format func(int, float64) string) string {
	parts := make([]string, len(vs))
	for n, v := range vs {
		parts[n] = format(n, v)
	}
	return strings.Join(parts, " || ")
}
