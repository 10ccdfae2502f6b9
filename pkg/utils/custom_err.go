package utils

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDayCount     = errors.New("day count must be greater than 0")
	ErrInvalidBudget       = errors.New("budget must be greater than 0")
	ErrMissingDestination  = errors.New("destination is required")
	ErrDestinationNotFound = errors.New("destination could not be resolved")
	ErrInvalidInput        = errors.New("invalid input")
	ErrDatabaseError       = errors.New("database error")
	ErrRegionProposalEmpty = errors.New("region proposal returned no regions")
)

// StageError marks a pipeline-stage failure the core cannot recover from.
// It carries the stage name so the surface can report where the chain broke.
type StageError struct {
	Stage string
	Err   error
}

func NewStageError(stage string, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline stage %q failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
