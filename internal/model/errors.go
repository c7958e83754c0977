package model

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure surfaced by the report is classified as exactly
// one of these and can be tested with errors.Is.
var (
	ErrConnection     = errors.New("connection error")
	ErrQuery          = errors.New("query error")
	ErrSchemaMismatch = errors.New("schema mismatch")
	ErrIO             = errors.New("i/o error")
	ErrJoinKey        = errors.New("join key error")
	ErrRender         = errors.New("rendering error")
)

// StageError ties a failure to the question and stage that produced it.
type StageError struct {
	Question string
	Stage    string
	Kind     error
	Err      error
}

func (e *StageError) Error() string {
	if e.Question == "" {
		return fmt.Sprintf("%s: %s: %v", e.Stage, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s: %v", e.Question, e.Stage, e.Kind, e.Err)
}

func (e *StageError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// Fail wraps err as a StageError of the given kind. A nil err returns nil, and
// an err that is already a StageError is returned unchanged.
func Fail(question, stage string, kind, err error) error {
	if err == nil {
		return nil
	}
	var se *StageError
	if errors.As(err, &se) {
		return err
	}
	return &StageError{Question: question, Stage: stage, Kind: kind, Err: err}
}
