package service

import (
	"context"
	"strings"

	"cardtrack/internal/broadcast"
	"cardtrack/internal/model"
	"cardtrack/internal/repository"

	"github.com/google/uuid"
)

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 200
)

type ChatService struct {
	messages *repository.MessageRepository
	authz    *MembershipService
	notify   Notifier
}

func NewChatService(messages *repository.MessageRepository, authz *MembershipService, notify Notifier) *ChatService {
	return &ChatService{messages: messages, authz: authz, notify: notifierOrNop(notify)}
}

// Post stores a chat message from a board member and broadcasts it. Blank
// content is ignored and yields a nil message.
func (s *ChatService) Post(ctx context.Context, author *model.User, boardID uuid.UUID, content string) (*model.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil
	}
	if _, _, err := s.authz.Require(ctx, boardID, author.ID, model.CapRead); err != nil {
		return nil, err
	}

	msg := &model.ChatMessage{
		BoardID: boardID,
		UserID:  author.ID,
		Content: content,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	msg.User = *author
	s.notify.Notify(ctx, broadcast.ChatMessage(msg, author.Name))
	return msg, nil
}

// History returns the newest messages, oldest first. The limit is clamped
// to MaxHistoryLimit; zero or negative means DefaultHistoryLimit.
func (s *ChatService) History(ctx context.Context, actorID, boardID uuid.UUID, limit int) ([]model.ChatMessage, error) {
	if _, _, err := s.authz.Require(ctx, boardID, actorID, model.CapRead); err != nil {
		return nil, err
	}
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}
	return s.messages.ListRecent(ctx, boardID, limit)
}
