// Package store is the record-store collaborator of the scheduling engine.
// Each entity is exposed as a Table; multi-record writes go through
// Store.Transaction.
package store

import (
	"context"
	"errors"

	"workforce/models"
)

var (
	// ErrNotFound is returned when no record matches the given id.
	ErrNotFound = errors.New("store: not found")

	// ErrEmptyFilter guards UpdateWhere against unscoped table updates.
	ErrEmptyFilter = errors.New("store: empty filter")
)

// Filter is a set of column equality conditions. A slice value matches any
// of its elements.
type Filter map[string]interface{}

// Patch is a set of column assignments.
type Patch map[string]interface{}

type Table[T any] interface {
	List(ctx context.Context, filter Filter) ([]T, error)
	Get(ctx context.Context, id uint) (*T, error)
	Insert(ctx context.Context, record *T) error
	Update(ctx context.Context, id uint, patch Patch) error
	UpdateWhere(ctx context.Context, filter Filter, patch Patch) (int64, error)
	Delete(ctx context.Context, id uint) error
}

type Store interface {
	Workers() Table[models.Worker]
	Jobs() Table[models.Job]
	Allocations() Table[models.Allocation]

	// Transaction runs fn against a Store bound to a single database
	// transaction. Any error returned by fn rolls every write back.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
