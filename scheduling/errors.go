package scheduling

import (
	"errors"
	"fmt"
	"strings"

	"workforce/store"
)

// ValidationError reports missing or malformed input. No writes happen.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFoundError reports an id absent from the store. No writes happen.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// ConflictError reports a referential or eligibility violation detected
// against stored state. The caller should refresh and retry.
type ConflictError struct {
	Message   string
	WorkerIDs []uint
}

func (e *ConflictError) Error() string {
	if len(e.WorkerIDs) == 0 {
		return e.Message
	}
	ids := make([]string, 0, len(e.WorkerIDs))
	for _, id := range e.WorkerIDs {
		ids = append(ids, fmt.Sprint(id))
	}
	return fmt.Sprintf("%s (workers %s)", e.Message, strings.Join(ids, ", "))
}

// StoreError wraps a backend failure. Multi-record operations have already
// been rolled back when it is returned.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// classify passes engine errors through and wraps anything else.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var (
		validation *ValidationError
		notFound   *NotFoundError
		conflict   *ConflictError
		storeErr   *StoreError
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &notFound),
		errors.As(err, &conflict), errors.As(err, &storeErr):
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// lookup converts store.ErrNotFound into a NotFoundError for entity.
func lookup(entity string, id uint, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return err
}
