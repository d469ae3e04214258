// densenet-train: trains a dense sigmoid network on a labelled CSV dataset.
//
// Usage:
//
//	densenet-train --train=mnist_train.csv --test=mnist_test.csv --lr=0.1
//
// Without --train a synthetic dataset is generated.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"densenet/dataset"
	"densenet/nn"
	"densenet/train"
	"densenet/utils"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
)

var (
	arch         = flag.String("arch", "", "Layer sizes, e.g. \"784,15,10\" (default: <input>,15,10)")
	learningRate = flag.Float64("lr", 0.1, "Learning rate in (0,1]")
	trainPath    = flag.String("train", "", "Training CSV (label first, pixel values 0-255)")
	testPath     = flag.String("test", "", "Test CSV (defaults to the training set)")
	loops        = flag.Int("loops", 200, "Number of packs drawn from the training set")
	packSize     = flag.Int("pack", 10, "Samples per pack")
	packRepeats  = flag.Int("repeat", 10, "Training passes over each pack")
	seed         = flag.Uint64("seed", 0, "Random seed (0 uses the clock)")
	samples      = flag.Int("samples", 2000, "Number of synthetic samples")
	dump         = flag.Bool("dump", false, "Print the full network state after training")
	dumpLabel    = flag.Int("dump-label", -1, "With -dump, also print gradients for the first test sample of this label")
	verbose      = flag.Bool("verbose", true, "Verbose output")
)

func main() {
	flag.Parse()
	utils.Verbose = *verbose
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewSource(*seed))
	stats := &utils.TimingStats{}
	totalStart := time.Now()

	config := &utils.Config{
		LearningRate: *learningRate,
		TrainPath:    *trainPath,
		TestPath:     *testPath,
		Loops:        *loops,
		PackSize:     *packSize,
		PackRepeats:  *packRepeats,
		Seed:         *seed,
	}

	utils.Logf("Loading data...")
	start := time.Now()
	trainSet, testSet, err := loadData(rng, config)
	if err != nil {
		return err
	}
	stats.DataLoadingTime = time.Since(start)
	utils.Logf("Loaded %d training and %d test samples", trainSet.Len(), testSet.Len())

	config.Architecture = []int{trainSet.InputSize(), 15, 10}
	if *arch != "" {
		if config.Architecture, err = utils.ParseArchitecture(*arch); err != nil {
			return errors.Wrap(err, "invalid architecture")
		}
	}
	if err := utils.ValidateConfig(config); err != nil {
		return err
	}

	utils.Logf("\nConfiguration:")
	utils.Logf("  Architecture:  %v", config.Architecture)
	utils.Logf("  Learning Rate: %.4f", config.LearningRate)
	utils.Logf("  Loops:         %d x %d x %d", config.Loops, config.PackRepeats, config.PackSize)
	utils.Logf("  Seed:          %d\n", config.Seed)

	start = time.Now()
	net, err := nn.NewNetwork(nn.Config{
		Layers:       config.Architecture,
		LearningRate: config.LearningRate,
		Source:       rand.NewSource(config.Seed),
	})
	if err != nil {
		return err
	}
	stats.ModelInitTime = time.Since(start)

	report, err := train.Run(net, trainSet, testSet, train.Options{
		Loops:       config.Loops,
		PackSize:    config.PackSize,
		PackRepeats: config.PackRepeats,
		Rand:        rng,
	})
	if err != nil {
		return err
	}

	stats.EvaluationTime = report.Stats.EvaluationTime
	stats.ForwardPassTime = report.Stats.ForwardPassTime
	stats.BackwardPassTime = report.Stats.BackwardPassTime
	stats.TotalTime = time.Since(totalStart)
	utils.PrintTimingStats(stats, report.Steps)

	if *dump {
		return dumpState(os.Stdout, net, testSet, *dumpLabel)
	}
	return nil
}

// dumpState prints the network state. For a label >= 0 it first predicts the
// first test sample carrying that label and adds the gradients of that sample.
func dumpState(w io.Writer, net *nn.Network, set dataset.Set, label int) error {
	if label < 0 {
		return net.Dump(w)
	}
	for i := 0; i < set.Len(); i++ {
		sample := set.At(i)
		if sample.Label != label {
			continue
		}
		if _, err := net.Predict(sample.Features); err != nil {
			return errors.Wrapf(err, "sample %d", i)
		}
		return net.DumpGradients(w, label)
	}
	return errors.Errorf("no test sample with label %d", label)
}

func loadData(rng *rand.Rand, config *utils.Config) (dataset.Set, dataset.Set, error) {
	if config.TrainPath == "" {
		data := dataset.Synthetic(rng, 64, 10, *samples)
		split := data.Len() * 4 / 5
		return data[:split], data[split:], nil
	}
	trainSet, err := dataset.Load(config.TrainPath)
	if err != nil {
		return nil, nil, err
	}
	if config.TestPath == "" {
		return trainSet, trainSet, nil
	}
	testSet, err := dataset.Load(config.TestPath)
	if err != nil {
		return nil, nil, err
	}
	return trainSet, testSet, nil
}
