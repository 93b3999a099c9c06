package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Power analysis errors
	ErrInvalidParameterSet  = errors.New("exactly one power parameter must be unknown")
	ErrOutOfRangeParameter  = errors.New("parameter out of valid range")
	ErrDegenerateEffectSize = errors.New("effect size of zero requires an infinite sample")

	// Dataset errors
	ErrMissingColumn = errors.New("column not found in dataset")
	ErrColumnType    = errors.New("column has wrong type for this analysis")
	ErrEmptyDataset  = errors.New("dataset has no records")

	// Summarizer errors
	ErrEmptyGroup = errors.New("group has no usable records")

	// Mean-difference errors
	ErrGroupCount       = errors.New("grouping column must have exactly two distinct values")
	ErrInsufficientData = errors.New("too few records to estimate a variance")

	// Association errors
	ErrDegenerateTable = errors.New("contingency table has a zero marginal total")
)

// Error constructors with context
func NewMissingColumnError(column string) error {
	return fmt.Errorf("%w: %q", ErrMissingColumn, column)
}

func NewColumnTypeError(column, want, got string) error {
	return fmt.Errorf("%w: %q is %s, analysis needs %s", ErrColumnType, column, got, want)
}

func NewEmptyGroupError(group, column string) error {
	return fmt.Errorf("%w: group %q, column %q", ErrEmptyGroup, group, column)
}

func NewOutOfRangeError(name string, value, lo, hi float64) error {
	return fmt.Errorf("%w: %s=%g must be in (%g, %g)", ErrOutOfRangeParameter, name, value, lo, hi)
}

// Error checking helpers
func IsDatasetError(err error) bool {
	return errors.Is(err, ErrMissingColumn) ||
		errors.Is(err, ErrColumnType) ||
		errors.Is(err, ErrEmptyDataset)
}

func IsParameterError(err error) bool {
	return errors.Is(err, ErrInvalidParameterSet) ||
		errors.Is(err, ErrOutOfRangeParameter) ||
		errors.Is(err, ErrDegenerateEffectSize)
}

func IsAnalysisError(err error) bool {
	return errors.Is(err, ErrEmptyGroup) ||
		errors.Is(err, ErrGroupCount) ||
		errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrDegenerateTable)
}
