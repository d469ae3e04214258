// Package train drives a network over a dataset: it samples packs of training
// samples, trains on them one at a time and reports accuracy and timing.
package train

import (
	"time"

	"densenet/dataset"
	"densenet/nn"
	"densenet/utils"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
)

// Options controls a training run. Each loop draws PackSize random samples and
// trains on that pack PackRepeats times.
type Options struct {
	Loops       int
	PackSize    int
	PackRepeats int
	// ReportEvery is the number of loops between progress lines. Zero reports
	// once per percent of the run.
	ReportEvery int
	Rand        *rand.Rand
}

// Report summarises a finished run.
type Report struct {
	UntrainedAccuracy float64
	TrainedAccuracy   float64
	LastPackAccuracy  float64
	Steps             int
	Stats             utils.TimingStats
}

// Evaluate returns the fraction of samples whose most active output neuron is
// the label. It only predicts; no parameters change.
func Evaluate(net *nn.Network, set dataset.Set) (float64, error) {
	if set.Len() == 0 {
		return 0, nil
	}
	correct := 0
	for i := 0; i < set.Len(); i++ {
		sample := set.At(i)
		out, err := net.Predict(sample.Features)
		if err != nil {
			return 0, errors.Wrapf(err, "sample %d", i)
		}
		if nn.Argmax(out) == sample.Label {
			correct++
		}
	}
	return float64(correct) / float64(set.Len()), nil
}

// Run evaluates net on testSet, trains it on trainSet and evaluates it again.
func Run(net *nn.Network, trainSet, testSet dataset.Set, opts Options) (*Report, error) {
	if trainSet.Len() == 0 {
		return nil, errors.New("empty training set")
	}
	if opts.PackSize <= 0 || opts.PackRepeats <= 0 {
		return nil, errors.New("pack size and repeats must be positive")
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	every := opts.ReportEvery
	if every <= 0 {
		every = max(opts.Loops/100, 1)
	}

	report := &Report{}
	start := time.Now()

	evalStart := time.Now()
	untrained, err := Evaluate(net, testSet)
	if err != nil {
		return nil, errors.Wrap(err, "evaluating untrained network")
	}
	report.UntrainedAccuracy = untrained
	report.Stats.EvaluationTime += time.Since(evalStart)
	utils.Logf("Correctness of untrained NN: %.2f%%", untrained*100)

	total := opts.Loops * opts.PackRepeats
	for l := 0; l < opts.Loops; l++ {
		pack := trainSet.Pack(opts.Rand, opts.PackSize)
		for r := 0; r < opts.PackRepeats; r++ {
			tick := time.Now()
			correct, err := trainPack(net, trainSet, pack, &report.Stats)
			if err != nil {
				return nil, errors.Wrapf(err, "loop %d", l)
			}
			report.Steps += len(pack)
			report.LastPackAccuracy = float64(correct) / float64(len(pack))

			if l%every == 0 {
				done := l*opts.PackRepeats + r
				utils.Logf("Done %.2f%%", float64(done)*100/float64(total))
				utils.Logf("Correctness of NN: %.2f%%", report.LastPackAccuracy*100)
				utils.Logf("Estimated time left: %s", utils.FormatETA(time.Duration(total-done)*time.Since(tick)))
			}
		}
	}

	evalStart = time.Now()
	trained, err := Evaluate(net, testSet)
	if err != nil {
		return nil, errors.Wrap(err, "evaluating trained network")
	}
	report.TrainedAccuracy = trained
	report.Stats.EvaluationTime += time.Since(evalStart)
	report.Stats.TotalTime = time.Since(start)

	utils.Logf("Correctness of untrained NN: %.2f%%", untrained*100)
	utils.Logf("Correctness of trained NN: %.2f%%", trained*100)
	return report, nil
}

// trainPack predicts and learns every sample of the pack once and returns how
// many predictions were correct before their update.
func trainPack(net *nn.Network, set dataset.Set, pack []int, stats *utils.TimingStats) (int, error) {
	correct := 0
	for _, i := range pack {
		sample := set.At(i)

		start := time.Now()
		out, err := net.Predict(sample.Features)
		if err != nil {
			return correct, errors.Wrapf(err, "sample %d", i)
		}
		stats.ForwardPassTime += time.Since(start)
		if nn.Argmax(out) == sample.Label {
			correct++
		}

		start = time.Now()
		if err := net.Learn(sample.Label); err != nil {
			return correct, errors.Wrapf(err, "sample %d", i)
		}
		stats.BackwardPassTime += time.Since(start)
	}
	return correct, nil
}
