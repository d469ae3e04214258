// Package dataset loads labeled samples for the network: one row per sample,
// the integer label first and the raw feature values after it.
package dataset

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
)

// PixelScale maps raw feature values onto [0,1].
const PixelScale = 255.0

// Sample is one labeled feature vector.
type Sample struct {
	Label    int
	Features []float64
}

// Set is an indexable collection of samples.
type Set []Sample

// Len is the number of samples.
func (s Set) Len() int { return len(s) }

// At returns sample i.
func (s Set) At(i int) Sample { return s[i] }

// InputSize is the feature count of the first sample, or 0 for an empty set.
func (s Set) InputSize() int {
	if len(s) == 0 {
		return 0
	}
	return len(s[0].Features)
}

// Pack draws n sample indices uniformly, with replacement.
func (s Set) Pack(rng *rand.Rand, n int) []int {
	if len(s) == 0 {
		return nil
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = rng.Intn(len(s))
	}
	return idx
}

// Load reads a delimited sample file from disk.
func Load(filename string) (Set, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "opening dataset")
	}
	defer file.Close()

	set, err := Read(file)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", filename)
	}
	return set, nil
}

// Read parses rows of "label,v1,...,vn". Every value is divided by PixelScale.
// Blank lines are skipped; all rows must have the width of the first one.
func Read(reader io.Reader) (Set, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)

	var set Set
	var lineNum, width int
	for scanner.Scan() {
		lineNum++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		splits := strings.Split(text, ",")
		if width == 0 {
			width = len(splits)
		}
		if len(splits) != width || width < 2 {
			return set, errInvalidLine{
				lineNum:  lineNum,
				splits:   len(splits),
				expected: max(width, 2),
			}
		}

		label, err := parseLabel(splits[0])
		if err != nil {
			return set, errors.Wrapf(err, "line %d: parsing label", lineNum)
		}

		features := make([]float64, width-1)
		for i, split := range splits[1:] {
			x, err := strconv.ParseFloat(strings.TrimSpace(split), 64)
			if err != nil {
				return set, errors.Wrapf(err, "line %d: parsing feature %d", lineNum, i)
			}
			features[i] = x / PixelScale
		}

		set = append(set, Sample{Label: label, Features: features})
	}
	if err := scanner.Err(); err != nil {
		return set, errors.Wrapf(err, "after line %d", lineNum)
	}
	return set, nil
}

// parseLabel accepts integral labels written either as "7" or "7.0".
func parseLabel(s string) (int, error) {
	x, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if x < 0 || x != math.Trunc(x) {
		return 0, errors.Errorf("label %q is not a non-negative integer", s)
	}
	return int(x), nil
}

type errInvalidLine struct {
	lineNum  int
	splits   int
	expected int
}

func (e errInvalidLine) Error() string {
	return fmt.Sprintf("at line %d, expected %d values, got %d",
		e.lineNum, e.expected, e.splits)
}

// Synthetic generates n samples over the given number of classes. Every class
// has a random prototype in [0,1]^inputs and samples are noisy copies of it,
// so the set is learnable.
func Synthetic(rng *rand.Rand, inputs, classes, n int) Set {
	prototypes := make([][]float64, classes)
	for c := range prototypes {
		prototypes[c] = make([]float64, inputs)
		for i := range prototypes[c] {
			prototypes[c][i] = rng.Float64()
		}
	}

	set := make(Set, n)
	for s := range set {
		label := rng.Intn(classes)
		features := make([]float64, inputs)
		for i, p := range prototypes[label] {
			features[i] = math.Min(1, math.Max(0, p+(rng.Float64()-0.5)*0.2))
		}
		set[s] = Sample{Label: label, Features: features}
	}
	return set
}
