package nn

import "gonum.org/v1/gonum/floats"

// Learn applies one step of stochastic gradient descent for label.
//
// Learn uses the activations left by the most recent Predict; the caller must
// predict the matching sample first. Calling Learn without that prediction
// trains on whatever activations are stored, stale or zero. TrainOnSample
// performs both steps in one call.
func (net *Network) Learn(label int) error {
	if err := net.checkLabel(label); err != nil {
		return err
	}
	net.apply(net.backward(label))
	return nil
}

// TrainOnSample predicts input, then learns label from that prediction. It
// returns the output computed before the update. Both arguments are checked
// before anything is modified.
func (net *Network) TrainOnSample(input []float64, label int) ([]float64, error) {
	if err := net.checkLabel(label); err != nil {
		return nil, err
	}
	out, err := net.Predict(input)
	if err != nil {
		return nil, err
	}
	net.apply(net.backward(label))
	return out, nil
}

// apply walks the edges from last to first. All gradients were computed before
// the first write, so the order has no numerical effect.
func (net *Network) apply(g *Gradients) {
	lr := net.learningRate
	for l := len(net.weights) - 1; l >= 0; l-- {
		floats.AddScaled(net.biases[l], -lr, g.Biases[l])

		w, grad, src := net.weights[l], g.Weights[l], net.activations[l]
		for i := 0; i < net.layers[l]; i++ {
			for j := 0; j < net.layers[l+1]; j++ {
				w.Set(i, j, w.Get(i, j)-lr*src[i]*grad.Get(i, j))
			}
		}
	}
}
