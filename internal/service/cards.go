package service

import (
	"context"
	"errors"
	"time"

	"cardtrack/internal/broadcast"
	"cardtrack/internal/model"
	"cardtrack/internal/repository"

	"github.com/google/uuid"
)

type CardService struct {
	cards   *repository.CardRepository
	columns *repository.ColumnRepository
	authz   *MembershipService
	notify  Notifier
}

func NewCardService(
	cards *repository.CardRepository,
	columns *repository.ColumnRepository,
	authz *MembershipService,
	notify Notifier,
) *CardService {
	return &CardService{cards: cards, columns: columns, authz: authz, notify: notifierOrNop(notify)}
}

// CardInput describes a new card. A nil position appends the card and an
// empty priority means medium.
type CardInput struct {
	Title       string
	Description string
	Position    *int
	DueDate     *time.Time
	IsCompleted bool
	Priority    model.Priority
}

// column resolves the column inside the board; a column of another board is
// reported as missing.
func (s *CardService) column(ctx context.Context, boardID, columnID uuid.UUID) (*model.Column, error) {
	column, err := s.columns.GetInBoard(ctx, boardID, columnID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return column, err
}

func (s *CardService) card(ctx context.Context, boardID, columnID, cardID uuid.UUID) (*model.Card, error) {
	card, err := s.cards.GetScoped(ctx, boardID, columnID, cardID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return card, err
}

func (s *CardService) nextPosition(ctx context.Context, columnID uuid.UUID) (int, error) {
	max, err := s.cards.MaxPosition(ctx, columnID)
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

func (s *CardService) Create(ctx context.Context, actorID, boardID, columnID uuid.UUID, in CardInput) (*model.Card, error) {
	if _, _, err := s.authz.Require(ctx, boardID, actorID, model.CapWriteContent); err != nil {
		return nil, err
	}
	column, err := s.column(ctx, boardID, columnID)
	if err != nil {
		return nil, err
	}
	title, err := cleanTitle("title", in.Title)
	if err != nil {
		return nil, err
	}
	if in.Priority != "" {
		if _, err := model.ParsePriority(string(in.Priority)); err != nil {
			return nil, invalid("priority", "must be low, medium or high")
		}
	}

	card := &model.Card{
		ColumnID:    column.ID,
		Title:       title,
		Description: in.Description,
		DueDate:     in.DueDate,
		IsCompleted: in.IsCompleted,
		Priority:    in.Priority,
	}
	if in.Position != nil {
		card.Position = *in.Position
	} else if card.Position, err = s.nextPosition(ctx, column.ID); err != nil {
		return nil, err
	}

	if err := s.cards.Create(ctx, card); err != nil {
		return nil, err
	}
	s.notify.Notify(ctx, broadcast.CardCreated(boardID, card))
	return card, nil
}

func (s *CardService) List(ctx context.Context, actorID, boardID, columnID uuid.UUID) ([]model.Card, error) {
	if _, _, err := s.authz.Require(ctx, boardID, actorID, model.CapRead); err != nil {
		return nil, err
	}
	column, err := s.column(ctx, boardID, columnID)
	if err != nil {
		return nil, err
	}
	return s.cards.ListByColumn(ctx, column.ID)
}

func (s *CardService) Get(ctx context.Context, actorID, boardID, columnID, cardID uuid.UUID) (*model.Card, error) {
	if _, _, err := s.authz.Require(ctx, boardID, actorID, model.CapRead); err != nil {
		return nil, err
	}
	return s.card(ctx, boardID, columnID, cardID)
}

// CardUpdate holds optional changes. ColumnID moves the card to another
// column of the same board; ClearDueDate removes the due date.
type CardUpdate struct {
	Title        *string
	Description  *string
	Position     *int
	DueDate      *time.Time
	ClearDueDate bool
	IsCompleted  *bool
	Priority     *model.Priority
	ColumnID     *uuid.UUID
}

func (s *CardService) Update(ctx context.Context, actorID, boardID, columnID, cardID uuid.UUID, upd CardUpdate) (*model.Card, error) {
	if _, _, err := s.authz.Require(ctx, boardID, actorID, model.CapWriteContent); err != nil {
		return nil, err
	}
	card, err := s.card(ctx, boardID, columnID, cardID)
	if err != nil {
		return nil, err
	}
	previousColumnID := card.ColumnID

	if upd.Title != nil {
		if card.Title, err = cleanTitle("title", *upd.Title); err != nil {
			return nil, err
		}
	}
	if upd.Description != nil {
		card.Description = *upd.Description
	}
	if upd.ClearDueDate {
		card.DueDate = nil
	} else if upd.DueDate != nil {
		card.DueDate = upd.DueDate
	}
	if upd.IsCompleted != nil {
		card.IsCompleted = *upd.IsCompleted
	}
	if upd.Priority != nil {
		p, err := model.ParsePriority(string(*upd.Priority))
		if err != nil {
			return nil, invalid("priority", "must be low, medium or high")
		}
		card.Priority = p
	}
	if upd.ColumnID != nil && *upd.ColumnID != card.ColumnID {
		target, err := s.column(ctx, boardID, *upd.ColumnID)
		if err != nil {
			return nil, err
		}
		card.ColumnID = target.ID
		if upd.Position == nil {
			if card.Position, err = s.nextPosition(ctx, target.ID); err != nil {
				return nil, err
			}
		}
	}
	if upd.Position != nil {
		card.Position = *upd.Position
	}

	if err := s.cards.Update(ctx, card); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.notify.Notify(ctx, broadcast.CardUpdated(boardID, card, previousColumnID))
	return card, nil
}

func (s *CardService) Delete(ctx context.Context, actorID, boardID, columnID, cardID uuid.UUID) error {
	if _, _, err := s.authz.Require(ctx, boardID, actorID, model.CapWriteContent); err != nil {
		return err
	}
	card, err := s.card(ctx, boardID, columnID, cardID)
	if err != nil {
		return err
	}
	if err := s.cards.Delete(ctx, card.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.notify.Notify(ctx, broadcast.CardDeleted(boardID, card))
	return nil
}
