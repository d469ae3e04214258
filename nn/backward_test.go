package nn

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/diff/fd"
)

var centralDiff = &fd.Settings{Formula: fd.Central, Step: 1e-6}

func TestGradientsShape(t *testing.T) {
	net, err := NewNetwork(Config{Layers: []int{3, 4, 2}, LearningRate: 0.1, Source: rand.NewSource(1)})
	require.NoError(t, err)
	_, err = net.Predict([]float64{1, 0.5, 0})
	require.NoError(t, err)

	g, err := net.Gradients(1)
	require.NoError(t, err)

	require.Len(t, g.Weights, 2)
	for l, w := range g.Weights {
		wantOut, wantIn := net.weights[l].Dims()
		gotOut, gotIn := w.Dims()
		assert.Equal(t, wantOut, gotOut)
		assert.Equal(t, wantIn, gotIn)
		assert.Len(t, g.Biases[l], wantOut)

		// every column of the weight mirror holds the neuron delta
		for in := 0; in < gotIn; in++ {
			assert.Equal(t, g.Biases[l], w.Column(in))
		}
	}
}

func TestGradientsLabelOutOfRange(t *testing.T) {
	net := newFixed(t, 0.1)
	_, err := net.Gradients(2)
	assert.True(t, errors.Is(err, ErrLabelOutOfRange))
}

func TestGradientsOutputLayer(t *testing.T) {
	net := newFixed(t, 0.1)
	out, err := net.Predict([]float64{1, 0})
	require.NoError(t, err)

	g, err := net.Gradients(0)
	require.NoError(t, err)

	assert.InDelta(t, out[0]*(1-out[0])*2*(out[0]-1), g.Biases[1][0], 1e-15)
	assert.InDelta(t, out[1]*(1-out[1])*2*out[1], g.Biases[1][1], 1e-15)
}

func TestGradientsMatchFiniteDifferences(t *testing.T) {
	net := newFixed(t, 0.1)
	input := []float64{1.0, 0.0}
	const label = 0

	_, err := net.Predict(input)
	require.NoError(t, err)
	acts := net.Activations()
	g, err := net.Gradients(label)
	require.NoError(t, err)

	costAt := func() float64 {
		_, err := net.Predict(input)
		require.NoError(t, err)
		return net.TotalError(label)
	}

	for l := range net.weights {
		outputs, inputs := net.weights[l].Dims()
		for i := 0; i < inputs; i++ {
			for j := 0; j < outputs; j++ {
				orig := net.Weight(l, i, j)
				numeric := fd.Derivative(func(v float64) float64 {
					net.SetWeight(l, i, j, v)
					return costAt()
				}, orig, centralDiff)
				net.SetWeight(l, i, j, orig)

				analytic := g.Weights[l].Get(i, j) * acts[l][i]
				assert.InDelta(t, numeric, analytic, 1e-4, "weight edge %d (%d->%d)", l, i, j)
			}
		}
		for j := 0; j < outputs; j++ {
			orig := net.Bias(l, j)
			numeric := fd.Derivative(func(v float64) float64 {
				net.SetBias(l, j, v)
				return costAt()
			}, orig, centralDiff)
			net.SetBias(l, j, orig)

			assert.InDelta(t, numeric, g.Biases[l][j], 1e-4, "bias edge %d neuron %d", l, j)
		}
	}
}

func TestGradientsMatchFiniteDifferencesDeep(t *testing.T) {
	net, err := NewNetwork(Config{Layers: []int{4, 5, 4, 3}, LearningRate: 0.1, Source: rand.NewSource(17)})
	require.NoError(t, err)
	input := []float64{0.9, 0.1, 0.4, 0.0}
	const label = 2

	_, err = net.Predict(input)
	require.NoError(t, err)
	acts := net.Activations()
	g, err := net.Gradients(label)
	require.NoError(t, err)

	for l := range net.weights {
		outputs, inputs := net.weights[l].Dims()
		for i := 0; i < inputs; i++ {
			for j := 0; j < outputs; j++ {
				orig := net.Weight(l, i, j)
				numeric := fd.Derivative(func(v float64) float64 {
					net.SetWeight(l, i, j, v)
					_, err := net.Predict(input)
					require.NoError(t, err)
					return net.TotalError(label)
				}, orig, centralDiff)
				net.SetWeight(l, i, j, orig)

				assert.InDelta(t, numeric, g.Weights[l].Get(i, j)*acts[l][i], 1e-4,
					"weight edge %d (%d->%d)", l, i, j)
			}
		}
	}
}
