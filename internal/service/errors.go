package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ValidationError reports bad input. Fields is keyed by JSON field name.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, m := range e.Fields {
		msgs = append(msgs, m)
	}
	sort.Strings(msgs)
	return strings.Join(msgs, "; ")
}

func invalid(field, msg string) error {
	return &ValidationError{Message: msg, Fields: map[string]string{field: msg}}
}

// DuplicateError is a business-rule conflict such as a phone number that is
// already registered.
type DuplicateError struct {
	Message string
}

func (e *DuplicateError) Error() string { return e.Message }

type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s not found", e.Entity) }

// StorageError wraps an unexpected persistence failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Cause() error { return e.Err }

var errPhoneTaken = &DuplicateError{Message: "Phone number already registered"}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	var de *DuplicateError
	return errors.As(err, &ve) || errors.As(err, &de)
}

// translate turns a gorm error into the service taxonomy. Errors that are
// already part of the taxonomy pass through untouched.
func translate(err error, op, entity string) error {
	if err == nil {
		return nil
	}
	var (
		ve *ValidationError
		de *DuplicateError
		nf *NotFoundError
	)
	switch {
	case errors.As(err, &ve), errors.As(err, &de), errors.As(err, &nf):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &NotFoundError{Entity: entity}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errPhoneTaken
	}
	return &StorageError{Op: op, Err: errors.WithStack(err)}
}
