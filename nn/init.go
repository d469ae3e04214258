package nn

import (
	"math"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// gaussian returns a generator of zero-mean normal values with standard
// deviation 1/sqrt(fanIn). A nil src seeds from the clock.
func gaussian(fanIn int, src rand.Source) func() float64 {
	if src == nil {
		src = rand.NewSource(uint64(time.Now().UnixNano()))
	}
	dist := distuv.Normal{
		Mu:    0,
		Sigma: 1 / math.Sqrt(float64(fanIn)),
		Src:   src,
	}
	return dist.Rand
}

// initialize draws every weight, then every bias, in layer order.
func (net *Network) initialize(src rand.Source) {
	next := gaussian(net.layers[0], src)
	for _, w := range net.weights {
		w.FillFunc(next)
	}
	for _, b := range net.biases {
		for j := range b {
			b[j] = next()
		}
	}
}
