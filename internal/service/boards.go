package service

import (
	"context"
	"errors"

	"cardtrack/internal/broadcast"
	"cardtrack/internal/model"
	"cardtrack/internal/repository"

	"github.com/google/uuid"
)

type BoardService struct {
	boards *repository.BoardRepository
	authz  *MembershipService
	notify Notifier
}

func NewBoardService(boards *repository.BoardRepository, authz *MembershipService, notify Notifier) *BoardService {
	return &BoardService{boards: boards, authz: authz, notify: notifierOrNop(notify)}
}

// Create stores the board together with the creator's owner membership.
func (s *BoardService) Create(ctx context.Context, actorID uuid.UUID, title, description string) (*model.Board, error) {
	title, err := cleanTitle("title", title)
	if err != nil {
		return nil, err
	}
	board := &model.Board{
		Title:       title,
		Description: description,
		OwnerID:     actorID,
	}
	if err := s.boards.CreateWithOwner(ctx, board); err != nil {
		return nil, err
	}
	return board, nil
}

func (s *BoardService) List(ctx context.Context, actorID uuid.UUID) ([]model.Board, error) {
	return s.boards.ListForUser(ctx, actorID)
}

// Get returns the board with its columns and cards, plus the actor's role.
func (s *BoardService) Get(ctx context.Context, actorID, boardID uuid.UUID) (*model.Board, model.Role, error) {
	_, role, err := s.authz.Require(ctx, boardID, actorID, model.CapRead)
	if err != nil {
		return nil, "", err
	}
	board, err := s.boards.GetWithContent(ctx, boardID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}
	return board, role, nil
}

type BoardUpdate struct {
	Title       *string
	Description *string
}

func (s *BoardService) requireOwner(ctx context.Context, actorID, boardID uuid.UUID) (*model.Board, error) {
	board, role, err := s.authz.Require(ctx, boardID, actorID, model.CapRead)
	if err != nil {
		return nil, err
	}
	if role != model.RoleOwner {
		return nil, ErrForbidden
	}
	return board, nil
}

func (s *BoardService) Update(ctx context.Context, actorID, boardID uuid.UUID, upd BoardUpdate) (*model.Board, error) {
	board, err := s.requireOwner(ctx, actorID, boardID)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		title, err := cleanTitle("title", *upd.Title)
		if err != nil {
			return nil, err
		}
		board.Title = title
	}
	if upd.Description != nil {
		board.Description = *upd.Description
	}

	if err := s.boards.Update(ctx, board); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.notify.Notify(ctx, broadcast.BoardUpdated(board))
	return board, nil
}

// Delete removes the board and everything under it. Owner only.
func (s *BoardService) Delete(ctx context.Context, actorID, boardID uuid.UUID) error {
	if _, err := s.requireOwner(ctx, actorID, boardID); err != nil {
		return err
	}
	if err := s.boards.Delete(ctx, boardID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.notify.Notify(ctx, broadcast.BoardDeleted(boardID))
	return nil
}

// BackfillOwners repairs boards that lack their owner membership.
func (s *BoardService) BackfillOwners(ctx context.Context) (int, error) {
	return s.boards.BackfillOwnerMemberships(ctx)
}
