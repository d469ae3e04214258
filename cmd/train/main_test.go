package main

import (
	"bytes"
	"testing"

	"densenet/dataset"
	"densenet/nn"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestDumpState(t *testing.T) {
	net, err := nn.NewNetwork(nn.Config{Layers: []int{2, 3, 2}, LearningRate: 0.1, Source: rand.NewSource(5)})
	require.NoError(t, err)
	set := dataset.Set{
		{Label: 0, Features: []float64{1, 0}},
		{Label: 1, Features: []float64{0, 1}},
	}

	var plain bytes.Buffer
	require.NoError(t, dumpState(&plain, net, set, -1))
	assert.Contains(t, plain.String(), "Biases")
	assert.NotContains(t, plain.String(), "Gradients W")

	var withGrad bytes.Buffer
	require.NoError(t, dumpState(&withGrad, net, set, 1))
	assert.Contains(t, withGrad.String(), "Gradients W")
	assert.Contains(t, withGrad.String(), "Gradients B")
	act := net.Activations()
	assert.Equal(t, []float64{0, 1}, act[0])

	err = dumpState(&bytes.Buffer{}, net, set, 7)
	assert.Error(t, err)
}
