package services

import "errors"

// ErrInference marks failures of the question-answering backend.
var ErrInference = errors.New("inference failed")

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation error" }
