package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// Config holds the settings of a training or serving run.
type Config struct {
	Architecture []int
	LearningRate float64
	TrainPath    string
	TestPath     string
	Loops        int
	PackSize     int
	PackRepeats  int
	Seed         uint64
}

// ParseArchitecture parses a space or comma separated list of layer sizes.
func ParseArchitecture(archStr string) ([]int, error) {
	archParts := strings.FieldsFunc(archStr, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
	arch := make([]int, len(archParts))
	for i, s := range archParts {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		arch[i] = n
	}
	return arch, nil
}

// ValidateConfig validates a run configuration.
func ValidateConfig(config *Config) error {
	if len(config.Architecture) < 3 {
		return fmt.Errorf("architecture must have at least 3 layers (input, hidden and output)")
	}
	for i, n := range config.Architecture {
		if n <= 0 {
			return fmt.Errorf("layer %d must be positive, got %d", i, n)
		}
	}

	if config.LearningRate <= 0 || config.LearningRate > 1 {
		return fmt.Errorf("learning rate must be in (0,1]")
	}

	if config.TestPath != "" && config.TrainPath == "" {
		return fmt.Errorf("test path %q given without a training path", config.TestPath)
	}

	if config.Loops < 0 {
		return fmt.Errorf("loops must not be negative")
	}

	if config.PackSize <= 0 {
		return fmt.Errorf("pack size must be positive")
	}

	if config.PackRepeats <= 0 {
		return fmt.Errorf("pack repeats must be positive")
	}

	return nil
}
