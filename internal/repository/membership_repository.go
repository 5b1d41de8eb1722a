package repository

import (
	"context"
	"errors"

	"cardtrack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MembershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// Get returns the membership of the user in the board, or ErrNotFound.
func (r *MembershipRepository) Get(ctx context.Context, boardID, userID uuid.UUID) (*model.Membership, error) {
	var m model.Membership
	err := r.db.WithContext(ctx).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

// GetInBoard looks a membership up by its own id, scoped to the board.
func (r *MembershipRepository) GetInBoard(ctx context.Context, boardID, id uuid.UUID) (*model.Membership, error) {
	var m model.Membership
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("board_id = ? AND id = ?", boardID, id).
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *MembershipRepository) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]model.Membership, error) {
	var members []model.Membership
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("board_id = ?", boardID).
		Order("invited_at ASC, id ASC").
		Find(&members).Error
	return members, err
}

// Upsert sets the user's role in the board, inserting the membership when
// absent. The stored row is written back into m.
func (r *MembershipRepository) Upsert(ctx context.Context, m *model.Membership) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Membership
		err := tx.Where("board_id = ? AND user_id = ?", m.BoardID, m.UserID).First(&existing).Error
		if err == nil {
			existing.Role = m.Role
			if err := updateRow(ctx, tx, &existing); err != nil {
				return err
			}
			*m = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return translate(tx.Omit(clause.Associations).Create(m).Error)
	})
}

func (r *MembershipRepository) UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) error {
	res := r.db.WithContext(ctx).Model(&model.Membership{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MembershipRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Membership{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
