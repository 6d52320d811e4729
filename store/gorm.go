package store

import (
	"context"
	"errors"

	"workforce/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

func New(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Workers() Table[models.Worker] {
	return &gormTable[models.Worker]{db: s.db}
}

func (s *GormStore) Jobs() Table[models.Job] {
	return &gormTable[models.Job]{db: s.db}
}

func (s *GormStore) Allocations() Table[models.Allocation] {
	return &gormTable[models.Allocation]{
		db: s.db,
		scope: func(db *gorm.DB) *gorm.DB {
			return db.Preload("Workers", func(db *gorm.DB) *gorm.DB {
				return db.Order("allocation_workers.id asc")
			})
		},
	}
}

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

type gormTable[T any] struct {
	db    *gorm.DB
	scope func(*gorm.DB) *gorm.DB
}

func (t *gormTable[T]) query(ctx context.Context) *gorm.DB {
	q := t.db.WithContext(ctx)
	if t.scope != nil {
		q = t.scope(q)
	}
	return q
}

func (t *gormTable[T]) List(ctx context.Context, filter Filter) ([]T, error) {
	var records []T
	q := t.query(ctx)
	if len(filter) > 0 {
		q = q.Where(map[string]interface{}(filter))
	}
	if err := q.Order("id asc").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (t *gormTable[T]) Get(ctx context.Context, id uint) (*T, error) {
	var record T
	if err := t.query(ctx).First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (t *gormTable[T]) Insert(ctx context.Context, record *T) error {
	return t.db.WithContext(ctx).Create(record).Error
}

func (t *gormTable[T]) Update(ctx context.Context, id uint, patch Patch) error {
	result := t.db.WithContext(ctx).Model(new(T)).
		Where("id = ?", id).
		Updates(map[string]interface{}(patch))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *gormTable[T]) UpdateWhere(ctx context.Context, filter Filter, patch Patch) (int64, error) {
	if len(filter) == 0 {
		return 0, ErrEmptyFilter
	}
	result := t.db.WithContext(ctx).Model(new(T)).
		Where(map[string]interface{}(filter)).
		Updates(map[string]interface{}(patch))
	return result.RowsAffected, result.Error
}

// Delete removes the record together with its has-many children.
func (t *gormTable[T]) Delete(ctx context.Context, id uint) error {
	record, err := t.Get(ctx, id)
	if err != nil {
		return err
	}
	return t.db.WithContext(ctx).Select(clause.Associations).Delete(record).Error
}
