// Package nn implements a dense feedforward network with sigmoid activations,
// trained one sample at a time by backpropagation of a squared error.
//
// A Network is not safe for concurrent use. Predict overwrites the stored
// activations and Learn reads them, so callers that share a network must
// serialize access themselves.
package nn

import (
	"fmt"

	"golang.org/x/exp/rand"
)

// Config describes the network to build.
type Config struct {
	// Layers lists the neuron count of every layer from input to output.
	// At least three layers are required.
	Layers []int
	// LearningRate scales every update; it must lie in (0,1].
	LearningRate float64
	// Source drives weight initialisation. Nil seeds from the clock.
	Source rand.Source
}

// Network owns the weights, biases and activations of one model.
type Network struct {
	layers       []int
	learningRate float64
	activator    Sigmoid

	weights     []*WeightMatrix // weights[l] connects layer l to layer l+1
	biases      [][]float64     // biases[l] belongs to the neurons of layer l+1
	activations [][]float64     // activations[l] holds layer l after the last Predict
}

// NewNetwork validates c and returns a randomly initialised network.
func NewNetwork(c Config) (*Network, error) {
	if err := validateLayers(c.Layers); err != nil {
		return nil, err
	}
	if err := validateLearningRate(c.LearningRate); err != nil {
		return nil, err
	}

	net := &Network{
		layers:       append([]int(nil), c.Layers...),
		learningRate: c.LearningRate,
		weights:      make([]*WeightMatrix, len(c.Layers)-1),
		biases:       make([][]float64, len(c.Layers)-1),
		activations:  make([][]float64, len(c.Layers)),
	}
	for l := range net.weights {
		w, err := NewWeightMatrix(c.Layers[l], c.Layers[l+1])
		if err != nil {
			return nil, err
		}
		net.weights[l] = w
		net.biases[l] = make([]float64, c.Layers[l+1])
	}
	for l, size := range c.Layers {
		net.activations[l] = make([]float64, size)
	}

	net.initialize(c.Source)
	return net, nil
}

func validateLayers(layers []int) error {
	if len(layers) < 3 {
		return fmt.Errorf("%w: network must contain more than 2 layers, got %d", ErrConfiguration, len(layers))
	}
	for i, size := range layers {
		if size <= 0 {
			return fmt.Errorf("%w: layer %d has size %d", ErrConfiguration, i, size)
		}
	}
	return nil
}

func validateLearningRate(lr float64) error {
	if !(lr > 0 && lr <= 1) {
		return fmt.Errorf("%w: learning rate %v outside (0,1]", ErrConfiguration, lr)
	}
	return nil
}

// Layers returns a copy of the topology.
func (net *Network) Layers() []int {
	return append([]int(nil), net.layers...)
}

// InputSize is the number of neurons in the first layer.
func (net *Network) InputSize() int { return net.layers[0] }

// OutputSize is the number of neurons in the last layer.
func (net *Network) OutputSize() int { return net.layers[len(net.layers)-1] }

// LearningRate returns the current step size.
func (net *Network) LearningRate() float64 { return net.learningRate }

// SetLearningRate reconfigures the step size used by later updates.
func (net *Network) SetLearningRate(lr float64) error {
	if err := validateLearningRate(lr); err != nil {
		return err
	}
	net.learningRate = lr
	return nil
}

// Weight returns the weight from neuron in of layer edge to neuron out of layer edge+1.
func (net *Network) Weight(edge, in, out int) float64 {
	return net.weights[edge].Get(in, out)
}

// SetWeight overwrites one weight.
func (net *Network) SetWeight(edge, in, out int, v float64) {
	net.weights[edge].Set(in, out, v)
}

// Bias returns the bias of neuron j of layer edge+1.
func (net *Network) Bias(edge, j int) float64 {
	return net.biases[edge][j]
}

// SetBias overwrites one bias.
func (net *Network) SetBias(edge, j int, v float64) {
	net.biases[edge][j] = v
}

// Activations returns a copy of the activations left by the last Predict.
func (net *Network) Activations() [][]float64 {
	return copyVectors(net.activations)
}

func copyVectors(vs [][]float64) [][]float64 {
	out := make([][]float64, len(vs))
	for i, v := range vs {
		out[i] = append([]float64(nil), v...)
	}
	return out
}
