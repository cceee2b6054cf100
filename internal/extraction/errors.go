package extraction

import (
	"errors"
	"fmt"
)

// ErrorKind tags a fatal pipeline failure.
type ErrorKind string

const (
	KindConfig         ErrorKind = "config"
	KindFetch          ErrorKind = "fetch"
	KindTextExtraction ErrorKind = "text_extraction"
	KindCompletion     ErrorKind = "completion"
	KindSchema         ErrorKind = "schema"
)

// Sentinels for errors.Is against a *PipelineError.
var (
	ErrConfig         = errors.New("missing completion configuration")
	ErrFetch          = errors.New("page fetch failed")
	ErrTextExtraction = errors.New("page has no usable text")
	ErrCompletion     = errors.New("completion request failed")
	ErrSchema         = errors.New("completion output does not match the recipe schema")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindConfig:
		return ErrConfig
	case KindFetch:
		return ErrFetch
	case KindTextExtraction:
		return ErrTextExtraction
	case KindCompletion:
		return ErrCompletion
	case KindSchema:
		return ErrSchema
	default:
		return nil
	}
}

// PipelineError is the single failure value returned by ExtractRecipe.
type PipelineError struct {
	Kind  ErrorKind
	State State
	Err   error
}

func newPipelineError(kind ErrorKind, state State, err error) *PipelineError {
	return &PipelineError{Kind: kind, State: state, Err: err}
}

func (e *PipelineError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.State, e.Kind.sentinel())
	}
	return fmt.Sprintf("%s: %v: %v", e.State, e.Kind.sentinel(), e.Err)
}

// Unwrap exposes both the kind sentinel and the originating error.
func (e *PipelineError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// SchemaError reports completion output that is not valid JSON or violates the
// recipe schema. Raw holds the completion text exactly as received.
type SchemaError struct {
	Raw string
	Err error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid recipe JSON: %v", e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}
