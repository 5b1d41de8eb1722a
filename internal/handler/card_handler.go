package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"cardtrack/internal/model"
	"cardtrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type Cards interface {
	Create(ctx context.Context, actorID, boardID, columnID uuid.UUID, in service.CardInput) (*model.Card, error)
	List(ctx context.Context, actorID, boardID, columnID uuid.UUID) ([]model.Card, error)
	Get(ctx context.Context, actorID, boardID, columnID, cardID uuid.UUID) (*model.Card, error)
	Update(ctx context.Context, actorID, boardID, columnID, cardID uuid.UUID, upd service.CardUpdate) (*model.Card, error)
	Delete(ctx context.Context, actorID, boardID, columnID, cardID uuid.UUID) error
}

type CardHandler struct {
	cards  Cards
	logger *slog.Logger
}

func NewCardHandler(cards Cards, logger *slog.Logger) *CardHandler {
	return &CardHandler{cards: cards, logger: loggerOrDefault(logger)}
}

// OptionalDate tells an absent due_date apart from an explicit null, which
// clears it. Dates are "YYYY-MM-DD"; RFC 3339 timestamps are truncated.
type OptionalDate struct {
	Set   bool
	Value *time.Time
}

func (d *OptionalDate) UnmarshalJSON(b []byte) error {
	d.Set = true
	d.Value = nil
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		ts, tsErr := time.Parse(time.RFC3339, s)
		if tsErr != nil {
			return fmt.Errorf("due_date: %w", err)
		}
		t = time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
	}
	d.Value = &t
	return nil
}

type CreateCardRequest struct {
	Title       string       `json:"title" binding:"required,notblank,max=100"`
	Description string       `json:"description"`
	Position    *int         `json:"position"`
	DueDate     OptionalDate `json:"due_date" swaggertype:"string" format:"date"`
	IsCompleted bool         `json:"is_completed"`
	Priority    string       `json:"priority" binding:"omitempty,oneof=low medium high"`
}

// UpdateCardRequest may move the card by naming another column of the same board.
type UpdateCardRequest struct {
	Title       *string      `json:"title" binding:"omitempty,notblank,max=100"`
	Description *string      `json:"description"`
	Position    *int         `json:"position"`
	DueDate     OptionalDate `json:"due_date" swaggertype:"string" format:"date"`
	IsCompleted *bool        `json:"is_completed"`
	Priority    *string      `json:"priority" binding:"omitempty,oneof=low medium high"`
	ColumnID    *string      `json:"column_id" binding:"omitempty,uuid"`
}

type CardResponse struct {
	ID          string         `json:"id"`
	ColumnID    string         `json:"column_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Position    int            `json:"position"`
	DueDate     *string        `json:"due_date"`
	IsCompleted bool           `json:"is_completed"`
	Priority    model.Priority `json:"priority"`
	CreatedAt   string         `json:"created_at"`
}

func toCardResponse(card *model.Card) CardResponse {
	resp := CardResponse{
		ID:          card.ID.String(),
		ColumnID:    card.ColumnID.String(),
		Title:       card.Title,
		Description: card.Description,
		Position:    card.Position,
		IsCompleted: card.IsCompleted,
		Priority:    card.Priority,
		CreatedAt:   card.CreatedAt.UTC().Format(time.RFC3339),
	}
	if card.DueDate != nil {
		d := card.DueDate.Format(dateLayout)
		resp.DueDate = &d
	}
	return resp
}

func toCardResponses(cards []model.Card) []CardResponse {
	response := make([]CardResponse, len(cards))
	for i := range cards {
		response[i] = toCardResponse(&cards[i])
	}
	return response
}

func cardPath(c *gin.Context) (boardID, columnID, cardID uuid.UUID, ok bool) {
	if boardID, columnID, ok = columnPath(c); !ok {
		return
	}
	cardID, ok = pathID(c, "card_id")
	return
}

// Create godoc
// @Summary      Create a card in a column
// @Tags         Cards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        board_id   path      string             true  "Board ID"
// @Param        column_id  path      string             true  "Column ID"
// @Param        body       body      CreateCardRequest  true  "Card"
// @Success      201        {object}  CardResponse
// @Failure      403        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Router       /boards/{board_id}/columns/{column_id}/cards [post]
func (h *CardHandler) Create(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, columnID, ok := columnPath(c)
	if !ok {
		return
	}
	var req CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	card, err := h.cards.Create(c.Request.Context(), actorID, boardID, columnID, service.CardInput{
		Title:       req.Title,
		Description: req.Description,
		Position:    req.Position,
		DueDate:     req.DueDate.Value,
		IsCompleted: req.IsCompleted,
		Priority:    model.Priority(req.Priority),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, toCardResponse(card))
}

// GetAll godoc
// @Summary      Cards of a column, ordered by position
// @Tags         Cards
// @Produce      json
// @Security     BearerAuth
// @Param        board_id   path      string  true  "Board ID"
// @Param        column_id  path      string  true  "Column ID"
// @Success      200        {array}   CardResponse
// @Failure      404        {object}  map[string]string
// @Router       /boards/{board_id}/columns/{column_id}/cards [get]
func (h *CardHandler) GetAll(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, columnID, ok := columnPath(c)
	if !ok {
		return
	}

	cards, err := h.cards.List(c.Request.Context(), actorID, boardID, columnID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toCardResponses(cards))
}

// GetByID godoc
// @Summary      A single card
// @Tags         Cards
// @Produce      json
// @Security     BearerAuth
// @Param        board_id   path      string  true  "Board ID"
// @Param        column_id  path      string  true  "Column ID"
// @Param        card_id    path      string  true  "Card ID"
// @Success      200        {object}  CardResponse
// @Failure      404        {object}  map[string]string
// @Router       /boards/{board_id}/columns/{column_id}/cards/{card_id} [get]
func (h *CardHandler) GetByID(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, columnID, cardID, ok := cardPath(c)
	if !ok {
		return
	}

	card, err := h.cards.Get(c.Request.Context(), actorID, boardID, columnID, cardID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toCardResponse(card))
}

// Update godoc
// @Summary      Update or move a card
// @Tags         Cards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        board_id   path      string             true  "Board ID"
// @Param        column_id  path      string             true  "Column ID"
// @Param        card_id    path      string             true  "Card ID"
// @Param        body       body      UpdateCardRequest  true  "Changed fields"
// @Success      200        {object}  CardResponse
// @Failure      403        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Router       /boards/{board_id}/columns/{column_id}/cards/{card_id} [patch]
func (h *CardHandler) Update(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, columnID, cardID, ok := cardPath(c)
	if !ok {
		return
	}
	var req UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	upd := service.CardUpdate{
		Title:        req.Title,
		Description:  req.Description,
		Position:     req.Position,
		DueDate:      req.DueDate.Value,
		ClearDueDate: req.DueDate.Set && req.DueDate.Value == nil,
		IsCompleted:  req.IsCompleted,
	}
	if req.Priority != nil {
		p := model.Priority(*req.Priority)
		upd.Priority = &p
	}
	if req.ColumnID != nil {
		target, err := uuid.Parse(*req.ColumnID)
		if err != nil {
			badRequest(c, "Invalid column ID format")
			return
		}
		upd.ColumnID = &target
	}

	card, err := h.cards.Update(c.Request.Context(), actorID, boardID, columnID, cardID, upd)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toCardResponse(card))
}

// Delete godoc
// @Summary      Delete a card
// @Tags         Cards
// @Security     BearerAuth
// @Param        board_id   path  string  true  "Board ID"
// @Param        column_id  path  string  true  "Column ID"
// @Param        card_id    path  string  true  "Card ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /boards/{board_id}/columns/{column_id}/cards/{card_id} [delete]
func (h *CardHandler) Delete(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, columnID, cardID, ok := cardPath(c)
	if !ok {
		return
	}

	if err := h.cards.Delete(c.Request.Context(), actorID, boardID, columnID, cardID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
