package types

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// ErrInvalidConfig indicates a ChunkConfig invariant violation.
	// Surfaced before any document processing begins.
	ErrInvalidConfig = errors.New("invalid chunk configuration")

	// ErrDataLoss indicates the completeness validator found coverage below
	// tolerance or unexplained line gaps. Only surfaced in strict mode.
	ErrDataLoss = errors.New("data loss detected")

	// ErrInvalidMetadata indicates chunk index sequencing or total-count
	// agreement failed an internal consistency check.
	ErrInvalidMetadata = errors.New("invalid chunk metadata")

	// ErrEmptyContent is returned when an operation requires non-empty input
	ErrEmptyContent = errors.New("content cannot be empty")
)

// StrategyError wraps a failure of a single splitting strategy. The selector
// recovers from these by advancing to the next strategy; they are never
// surfaced to the caller.
type StrategyError struct {
	Strategy string
	Err      error
}

func (e *StrategyError) Error() string {
	return fmt.Sprintf("strategy %s: %v", e.Strategy, e.Err)
}

func (e *StrategyError) Unwrap() error {
	return e.Err
}

// NewStrategyError creates a StrategyError for the named strategy
func NewStrategyError(strategy string, err error) *StrategyError {
	return &StrategyError{Strategy: strategy, Err: err}
}
