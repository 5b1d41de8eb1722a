package repository

import (
	"context"
	"errors"

	"cardtrack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BoardRepository struct {
	db *gorm.DB
}

func NewBoardRepository(db *gorm.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

// CreateWithOwner inserts the board and its owner membership atomically.
func (r *BoardRepository) CreateWithOwner(ctx context.Context, board *model.Board) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(board).Error; err != nil {
			return err
		}
		owner := model.Membership{
			BoardID: board.ID,
			UserID:  board.OwnerID,
			Role:    model.RoleOwner,
		}
		return tx.Omit(clause.Associations).Create(&owner).Error
	})
}

// ListForUser returns the boards the user owns or is a member of.
func (r *BoardRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Board, error) {
	var boards []model.Board
	memberOf := r.db.Model(&model.Membership{}).Select("board_id").Where("user_id = ?", userID)
	err := r.db.WithContext(ctx).
		Where("owner_id = ? OR id IN (?)", userID, memberOf).
		Order("created_at ASC, id ASC").
		Find(&boards).Error
	return boards, err
}

func (r *BoardRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Board, error) {
	var board model.Board
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&board).Error; err != nil {
		return nil, translate(err)
	}
	return &board, nil
}

// GetWithContent loads the board with its columns and their cards in display order.
func (r *BoardRepository) GetWithContent(ctx context.Context, id uuid.UUID) (*model.Board, error) {
	var board model.Board
	err := r.db.WithContext(ctx).
		Preload("Columns", func(db *gorm.DB) *gorm.DB { return db.Order(model.PositionOrder) }).
		Preload("Columns.Cards", func(db *gorm.DB) *gorm.DB { return db.Order(model.PositionOrder) }).
		Where("id = ?", id).
		First(&board).Error
	if err != nil {
		return nil, translate(err)
	}
	return &board, nil
}

// Update returns ErrNotFound for a board deleted in the meantime.
func (r *BoardRepository) Update(ctx context.Context, board *model.Board) error {
	return updateRow(ctx, r.db, board)
}

// Delete removes the board together with everything that belongs to it.
func (r *BoardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		columns := tx.Model(&model.Column{}).Select("id").Where("board_id = ?", id)
		if err := tx.Where("column_id IN (?)", columns).Delete(&model.Card{}).Error; err != nil {
			return err
		}
		for _, m := range []any{&model.Column{}, &model.Membership{}, &model.ChatMessage{}} {
			if err := tx.Where("board_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		res := tx.Where("id = ?", id).Delete(&model.Board{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// BackfillOwnerMemberships creates the missing owner membership of every
// board and returns how many were added.
func (r *BoardRepository) BackfillOwnerMemberships(ctx context.Context) (int, error) {
	var boards []model.Board
	hasOwner := r.db.Model(&model.Membership{}).Select("board_id").Where("role = ?", model.RoleOwner)
	if err := r.db.WithContext(ctx).Where("id NOT IN (?)", hasOwner).Find(&boards).Error; err != nil {
		return 0, err
	}

	added := 0
	for _, b := range boards {
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var existing model.Membership
			err := tx.Where("board_id = ? AND user_id = ?", b.ID, b.OwnerID).First(&existing).Error
			if err == nil {
				existing.Role = model.RoleOwner
				return updateRow(ctx, tx, &existing)
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			return tx.Omit(clause.Associations).Create(&model.Membership{
				BoardID: b.ID,
				UserID:  b.OwnerID,
				Role:    model.RoleOwner,
			}).Error
		})
		if err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}
