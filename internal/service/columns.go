package service

import (
	"context"
	"errors"

	"cardtrack/internal/broadcast"
	"cardtrack/internal/model"
	"cardtrack/internal/repository"

	"github.com/google/uuid"
)

type ColumnService struct {
	columns *repository.ColumnRepository
	cards   *repository.CardRepository
	authz   *MembershipService
	notify  Notifier
}

func NewColumnService(
	columns *repository.ColumnRepository,
	cards *repository.CardRepository,
	authz *MembershipService,
	notify Notifier,
) *ColumnService {
	return &ColumnService{columns: columns, cards: cards, authz: authz, notify: notifierOrNop(notify)}
}

// ColumnInput describes a new column. A nil position appends the column.
type ColumnInput struct {
	Title    string
	Position *int
	Color    string
}

func (s *ColumnService) Create(ctx context.Context, actorID, boardID uuid.UUID, in ColumnInput) (*model.Column, error) {
	if _, _, err := s.authz.Require(ctx, boardID, actorID, model.CapWriteContent); err != nil {
		return nil, err
	}
	title, err := cleanTitle("title", in.Title)
	if err != nil {
		return nil, err
	}
	if in.Color != "" && !validColor(in.Color) {
		return nil, invalid("color", "must look like #RRGGBB")
	}

	column := &model.Column{
		BoardID: boardID,
		Title:   title,
		Color:   in.Color,
	}
	if in.Position != nil {
		column.Position = *in.Position
	} else {
		max, err := s.columns.MaxPosition(ctx, boardID)
		if err != nil {
			return nil, err
		}
		column.Position = max + 1
	}

	if err := s.columns.Create(ctx, column); err != nil {
		return nil, err
	}
	s.notify.Notify(ctx, broadcast.ColumnCreated(column))
	return column, nil
}

// List returns the board's columns with their cards, in display order.
func (s *ColumnService) List(ctx context.Context, actorID, boardID uuid.UUID) ([]model.Column, error) {
	if _, _, err := s.authz.Require(ctx, boardID, actorID, model.CapRead); err != nil {
		return nil, err
	}
	return s.columns.ListByBoard(ctx, boardID)
}

func (s *ColumnService) lookup(ctx context.Context, boardID, columnID uuid.UUID) (*model.Column, error) {
	column, err := s.columns.GetInBoard(ctx, boardID, columnID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return column, err
}

func (s *ColumnService) Get(ctx context.Context, actorID, boardID, columnID uuid.UUID) (*model.Column, error) {
	if _, _, err := s.authz.Require(ctx, boardID, actorID, model.CapRead); err != nil {
		return nil, err
	}
	column, err := s.lookup(ctx, boardID, columnID)
	if err != nil {
		return nil, err
	}
	column.Cards, err = s.cards.ListByColumn(ctx, column.ID)
	if err != nil {
		return nil, err
	}
	return column, nil
}

type ColumnUpdate struct {
	Title    *string
	Position *int
	Color    *string
}

func (s *ColumnService) Update(ctx context.Context, actorID, boardID, columnID uuid.UUID, upd ColumnUpdate) (*model.Column, error) {
	if _, _, err := s.authz.Require(ctx, boardID, actorID, model.CapWriteContent); err != nil {
		return nil, err
	}
	column, err := s.lookup(ctx, boardID, columnID)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		if column.Title, err = cleanTitle("title", *upd.Title); err != nil {
			return nil, err
		}
	}
	if upd.Position != nil {
		column.Position = *upd.Position
	}
	if upd.Color != nil {
		if !validColor(*upd.Color) {
			return nil, invalid("color", "must look like #RRGGBB")
		}
		column.Color = *upd.Color
	}

	if err := s.columns.Update(ctx, column); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.notify.Notify(ctx, broadcast.ColumnUpdated(column))
	return column, nil
}

// Delete removes the column and its cards.
func (s *ColumnService) Delete(ctx context.Context, actorID, boardID, columnID uuid.UUID) error {
	if _, _, err := s.authz.Require(ctx, boardID, actorID, model.CapWriteContent); err != nil {
		return err
	}
	column, err := s.lookup(ctx, boardID, columnID)
	if err != nil {
		return err
	}
	if err := s.columns.Delete(ctx, column.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.notify.Notify(ctx, broadcast.ColumnDeleted(column))
	return nil
}
