package repository

import (
	"context"

	"cardtrack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) *CardRepository {
	return &CardRepository{db: db}
}

// Create adds a new card to the database
func (r *CardRepository) Create(ctx context.Context, card *model.Card) error {
	return r.db.WithContext(ctx).Create(card).Error
}

// GetScoped returns the card only if it sits in the column and the column
// sits in the board.
func (r *CardRepository) GetScoped(ctx context.Context, boardID, columnID, id uuid.UUID) (*model.Card, error) {
	var card model.Card
	err := r.db.WithContext(ctx).
		Joins("JOIN columns ON columns.id = cards.column_id").
		Where("cards.id = ? AND cards.column_id = ? AND columns.board_id = ?", id, columnID, boardID).
		First(&card).Error
	if err != nil {
		return nil, translate(err)
	}
	return &card, nil
}

// ListByColumn retrieves all cards in a column in display order
func (r *CardRepository) ListByColumn(ctx context.Context, columnID uuid.UUID) ([]model.Card, error) {
	var cards []model.Card
	result := r.db.WithContext(ctx).Where("column_id = ?", columnID).Order(model.PositionOrder).Find(&cards)
	if result.Error != nil {
		return nil, result.Error
	}
	return cards, nil
}

// MaxPosition returns -1 for an empty column.
func (r *CardRepository) MaxPosition(ctx context.Context, columnID uuid.UUID) (int, error) {
	var maxPosition struct {
		Max int
	}
	err := r.db.WithContext(ctx).Model(&model.Card{}).
		Select("COALESCE(MAX(position), -1) as max").
		Where("column_id = ?", columnID).
		Scan(&maxPosition).Error

	return maxPosition.Max, err
}

// Update writes the card back, or returns ErrNotFound if it was deleted.
func (r *CardRepository) Update(ctx context.Context, card *model.Card) error {
	return updateRow(ctx, r.db, card)
}

// Delete removes a card by its ID
func (r *CardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Card{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
