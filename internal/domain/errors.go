package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrRenderUnavailable signals that the external graph renderer is not
	// installed. It is an expected condition, not a fault.
	ErrRenderUnavailable = errors.New("graph renderer unavailable")
)

// ExtractionError reports that model output could not be structurally
// recovered as a JSON object. Raw carries the original text for diagnostics.
type ExtractionError struct {
	Raw string
	Err error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extract structured output: %v", e.Err)
	}
	return "extract structured output: model did not return JSON"
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// GenerationError reports that the upstream text-model call failed.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("text generation: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// StageError wraps a fault from a named pipeline stage. Its message becomes
// the job's terminal error message.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
