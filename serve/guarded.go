// Package serve exposes a single network to remote callers over HTTP or a gob
// stream. The network is not safe for concurrent use, so every call goes
// through Guarded.
package serve

import (
	"sync"

	"densenet/nn"

	"github.com/google/uuid"
)

// Guarded serialises access to one network.
type Guarded struct {
	mu      sync.Mutex
	net     *nn.Network
	id      string
	trained int
}

// Status describes the served network.
type Status struct {
	ID           string  `json:"id"`
	Layers       []int   `json:"layers"`
	LearningRate float64 `json:"learning_rate"`
	Trained      int     `json:"trained"`
}

// Prediction is the output of a forward pass and its most active neuron.
type Prediction struct {
	Output []float64 `json:"output"`
	Class  int       `json:"class"`
}

// NewGuarded takes ownership of net and assigns a fresh run id.
func NewGuarded(net *nn.Network) *Guarded {
	return &Guarded{net: net, id: uuid.New().String()}
}

// ID identifies this serving run.
func (g *Guarded) ID() string { return g.id }

// Predict runs a forward pass.
func (g *Guarded) Predict(features []float64) (*Prediction, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	out, err := g.net.Predict(features)
	if err != nil {
		return nil, err
	}
	return &Prediction{Output: out, Class: nn.Argmax(out)}, nil
}

// Train runs one online step and returns the prediction made before the update.
func (g *Guarded) Train(features []float64, label int) (*Prediction, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	out, err := g.net.TrainOnSample(features, label)
	if err != nil {
		return nil, err
	}
	g.trained++
	return &Prediction{Output: out, Class: nn.Argmax(out)}, nil
}

// Status reports the topology and the number of samples trained so far.
func (g *Guarded) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Status{
		ID:           g.id,
		Layers:       g.net.Layers(),
		LearningRate: g.net.LearningRate(),
		Trained:      g.trained,
	}
}

// Snapshot returns a deep copy of the network state.
func (g *Guarded) Snapshot() nn.Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.net.Snapshot()
}
