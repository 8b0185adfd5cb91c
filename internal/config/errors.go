package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotJSON indicates the document is not well-formed JSON.
var ErrNotJSON = errors.New("config: not valid JSON")

// ValidationError is a single validation failure.
type ValidationError struct {
	// Path is the dot-separated JSON path to the invalid value.
	Path string

	// Message describes what's wrong.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors collects every validation failure in a document.
type ValidationErrors struct {
	Errors []*ValidationError
}

// Error implements the error interface.
func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d validation errors:\n  - %s", len(e.Errors), strings.Join(msgs, "\n  - "))
}

// Add records a validation failure.
func (e *ValidationErrors) Add(path, message string) {
	e.Errors = append(e.Errors, &ValidationError{Path: path, Message: message})
}

func (e *ValidationErrors) orNil() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}
