package nn

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is returned when a network is built from an invalid
	// topology or learning rate.
	ErrConfiguration = errors.New("invalid network configuration")

	// ErrDimensionMismatch is returned when a vector does not match the
	// dimension it is applied to.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrInputSizeMismatch is returned by Predict when the input length differs
	// from the input layer size. It matches ErrDimensionMismatch under errors.Is.
	ErrInputSizeMismatch = fmt.Errorf("input size mismatch: %w", ErrDimensionMismatch)

	// ErrLabelOutOfRange is returned when a label does not name an output neuron.
	ErrLabelOutOfRange = errors.New("label out of range")
)
