// Package broadcast fans board mutation events out to realtime subscribers.
package broadcast

import (
	"time"

	"cardtrack/internal/model"

	"github.com/google/uuid"
)

type Kind string

const (
	KindCardCreated   Kind = "card.created"
	KindCardUpdated   Kind = "card.updated"
	KindCardDeleted   Kind = "card.deleted"
	KindColumnCreated Kind = "column.created"
	KindColumnUpdated Kind = "column.updated"
	KindColumnDeleted Kind = "column.deleted"
	KindChatMessage   Kind = "chat.message"
	KindBoardUpdated  Kind = "board.updated"
	KindBoardDeleted  Kind = "board.deleted"
	KindMemberAdded   Kind = "member.added"
	KindMemberUpdated Kind = "member.updated"
	KindMemberRemoved Kind = "member.removed"
)

// Event is the unit delivered to every subscriber of a board.
type Event struct {
	Kind      Kind      `json:"kind"`
	BoardID   uuid.UUID `json:"board_id"`
	EntityID  uuid.UUID `json:"entity_id"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`

	// Revokes names a user whose subscriptions to the board end once this
	// event has been delivered.
	Revokes *uuid.UUID `json:"revokes,omitempty"`
}

const dateLayout = "2006-01-02"

type CardPayload struct {
	ID               uuid.UUID      `json:"id"`
	ColumnID         uuid.UUID      `json:"column_id"`
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	Position         int            `json:"position"`
	DueDate          *string        `json:"due_date"`
	IsCompleted      bool           `json:"is_completed"`
	Priority         model.Priority `json:"priority"`
	PreviousColumnID *uuid.UUID     `json:"previous_column_id,omitempty"`
}

type ColumnPayload struct {
	ID       uuid.UUID `json:"id"`
	BoardID  uuid.UUID `json:"board_id"`
	Title    string    `json:"title"`
	Position int       `json:"position"`
	Color    string    `json:"color"`
}

type BoardPayload struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OwnerID     uuid.UUID `json:"owner_id"`
}

type MemberPayload struct {
	ID     uuid.UUID  `json:"id"`
	UserID uuid.UUID  `json:"user_id"`
	Email  string     `json:"email,omitempty"`
	Name   string     `json:"name,omitempty"`
	Role   model.Role `json:"role"`
}

type MessagePayload struct {
	ID        uuid.UUID `json:"id"`
	BoardID   uuid.UUID `json:"board"`
	UserID    uuid.UUID `json:"user"`
	UserName  string    `json:"user_name"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// DeletedPayload identifies a removed entity and, for cards, its column.
type DeletedPayload struct {
	ID       uuid.UUID  `json:"id"`
	ColumnID *uuid.UUID `json:"column_id,omitempty"`
}

func newEvent(kind Kind, boardID, entityID uuid.UUID, payload any) Event {
	return Event{
		Kind:      kind,
		BoardID:   boardID,
		EntityID:  entityID,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

func cardPayload(c *model.Card) CardPayload {
	p := CardPayload{
		ID:          c.ID,
		ColumnID:    c.ColumnID,
		Title:       c.Title,
		Description: c.Description,
		Position:    c.Position,
		IsCompleted: c.IsCompleted,
		Priority:    c.Priority,
	}
	if c.DueDate != nil {
		d := c.DueDate.Format(dateLayout)
		p.DueDate = &d
	}
	return p
}

func CardCreated(boardID uuid.UUID, c *model.Card) Event {
	return newEvent(KindCardCreated, boardID, c.ID, cardPayload(c))
}

// CardUpdated carries the previous column when the card moved.
func CardUpdated(boardID uuid.UUID, c *model.Card, previousColumnID uuid.UUID) Event {
	p := cardPayload(c)
	if previousColumnID != uuid.Nil && previousColumnID != c.ColumnID {
		p.PreviousColumnID = &previousColumnID
	}
	return newEvent(KindCardUpdated, boardID, c.ID, p)
}

func CardDeleted(boardID uuid.UUID, c *model.Card) Event {
	columnID := c.ColumnID
	return newEvent(KindCardDeleted, boardID, c.ID, DeletedPayload{ID: c.ID, ColumnID: &columnID})
}

func columnPayload(c *model.Column) ColumnPayload {
	return ColumnPayload{
		ID:       c.ID,
		BoardID:  c.BoardID,
		Title:    c.Title,
		Position: c.Position,
		Color:    c.Color,
	}
}

func ColumnCreated(c *model.Column) Event {
	return newEvent(KindColumnCreated, c.BoardID, c.ID, columnPayload(c))
}

func ColumnUpdated(c *model.Column) Event {
	return newEvent(KindColumnUpdated, c.BoardID, c.ID, columnPayload(c))
}

func ColumnDeleted(c *model.Column) Event {
	return newEvent(KindColumnDeleted, c.BoardID, c.ID, DeletedPayload{ID: c.ID})
}

func BoardUpdated(b *model.Board) Event {
	return newEvent(KindBoardUpdated, b.ID, b.ID, BoardPayload{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		OwnerID:     b.OwnerID,
	})
}

func BoardDeleted(boardID uuid.UUID) Event {
	return newEvent(KindBoardDeleted, boardID, boardID, DeletedPayload{ID: boardID})
}

func memberPayload(m *model.Membership) MemberPayload {
	return MemberPayload{
		ID:     m.ID,
		UserID: m.UserID,
		Email:  m.User.Email,
		Name:   m.User.Name,
		Role:   m.Role,
	}
}

func MemberAdded(m *model.Membership) Event {
	return newEvent(KindMemberAdded, m.BoardID, m.ID, memberPayload(m))
}

func MemberUpdated(m *model.Membership) Event {
	return newEvent(KindMemberUpdated, m.BoardID, m.ID, memberPayload(m))
}

// MemberRemoved also ends the removed user's open subscriptions.
func MemberRemoved(m *model.Membership) Event {
	ev := newEvent(KindMemberRemoved, m.BoardID, m.ID, memberPayload(m))
	userID := m.UserID
	ev.Revokes = &userID
	return ev
}

func ChatMessage(msg *model.ChatMessage, authorName string) Event {
	return newEvent(KindChatMessage, msg.BoardID, msg.ID, MessagePayload{
		ID:        msg.ID,
		BoardID:   msg.BoardID,
		UserID:    msg.UserID,
		UserName:  authorName,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	})
}
