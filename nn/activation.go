package nn

import "math"

// Sigmoid is the only activation the network supports.
type Sigmoid struct{}

// Activate squashes a weighted sum into (0,1).
func (s Sigmoid) Activate(sum float64) float64 {
	return 1.0 / (1.0 + math.Exp(-sum))
}

// Deactivate returns the derivative of the sigmoid expressed through its
// output value a, i.e. a(1-a).
func (s Sigmoid) Deactivate(a float64) float64 {
	return a * (1 - a)
}

func (s Sigmoid) String() string {
	return "sigmoid"
}
