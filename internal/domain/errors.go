package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidRange is returned when a stay's check-out is not after its check-in.
	ErrInvalidRange = errors.New("invalid range: check-out must be after check-in")
	// ErrInvalidInput is returned for payloads that cannot be processed at all.
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects per-field problems with a request. It matches
// ErrInvalidInput under errors.Is.
type ValidationError struct {
	Items []FieldError
}

func (e ValidationError) Error() string {
	if len(e.Items) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		parts = append(parts, item.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Add(field, msg string) {
	e.Items = append(e.Items, FieldError{Field: field, Message: msg})
}

func (e ValidationError) Is(target error) bool { return target == ErrInvalidInput }

func (e ValidationError) HasAny() bool { return len(e.Items) > 0 }
