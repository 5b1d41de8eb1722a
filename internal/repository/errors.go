package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Common repository errors
var (
	// ErrNotFound is returned when the requested row does not exist, or
	// exists outside the requested scope.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("duplicate record")
)

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

// updateRow writes every column of an existing row by primary key and
// returns ErrNotFound when no row matched. It never inserts.
func updateRow(ctx context.Context, db *gorm.DB, value any) error {
	result := db.WithContext(ctx).Model(value).Select("*").Omit(clause.Associations).Updates(value)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
