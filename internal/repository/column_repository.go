package repository

import (
	"context"

	"cardtrack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ColumnRepository struct {
	db *gorm.DB
}

func NewColumnRepository(db *gorm.DB) *ColumnRepository {
	return &ColumnRepository{db: db}
}

func (r *ColumnRepository) Create(ctx context.Context, column *model.Column) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(column).Error
}

// GetInBoard returns ErrNotFound when the column belongs to another board.
func (r *ColumnRepository) GetInBoard(ctx context.Context, boardID, id uuid.UUID) (*model.Column, error) {
	var column model.Column
	err := r.db.WithContext(ctx).
		Where("board_id = ? AND id = ?", boardID, id).
		First(&column).Error
	if err != nil {
		return nil, translate(err)
	}
	return &column, nil
}

// ListByBoard returns the board's columns with their cards, both in display order.
func (r *ColumnRepository) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]model.Column, error) {
	var columns []model.Column
	err := r.db.WithContext(ctx).
		Preload("Cards", func(db *gorm.DB) *gorm.DB { return db.Order(model.PositionOrder) }).
		Where("board_id = ?", boardID).
		Order(model.PositionOrder).
		Find(&columns).Error
	return columns, err
}

// MaxPosition returns -1 for a board without columns.
func (r *ColumnRepository) MaxPosition(ctx context.Context, boardID uuid.UUID) (int, error) {
	var maxPosition struct {
		Max int
	}
	err := r.db.WithContext(ctx).Model(&model.Column{}).
		Select("COALESCE(MAX(position), -1) as max").
		Where("board_id = ?", boardID).
		Scan(&maxPosition).Error

	return maxPosition.Max, err
}

func (r *ColumnRepository) Update(ctx context.Context, column *model.Column) error {
	return updateRow(ctx, r.db, column)
}

// Delete removes the column and its cards.
func (r *ColumnRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("column_id = ?", id).Delete(&model.Card{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Column{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
