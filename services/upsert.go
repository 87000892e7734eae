package services

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// firstOrCreate returns the row selected by find, inserting build() when
// there is none. The insert runs in a savepoint so a unique-constraint loss
// to a concurrent writer leaves tx usable; the winner is then re-read.
func firstOrCreate[T any](ctx context.Context, tx *gorm.DB, find func(*gorm.DB) *gorm.DB, build func() *T) (*T, bool, error) {
	var existing T
	err := find(tx.WithContext(ctx)).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	entity := build()
	createErr := tx.WithContext(ctx).Transaction(func(sp *gorm.DB) error {
		return sp.Create(entity).Error
	})
	if createErr == nil {
		return entity, true, nil
	}

	var winner T
	if err := find(tx.WithContext(ctx)).First(&winner).Error; err == nil {
		return &winner, false, nil
	}
	return nil, false, createErr
}
