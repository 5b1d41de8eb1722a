package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"cardtrack/internal/model"
	"cardtrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Columns interface {
	Create(ctx context.Context, actorID, boardID uuid.UUID, in service.ColumnInput) (*model.Column, error)
	List(ctx context.Context, actorID, boardID uuid.UUID) ([]model.Column, error)
	Get(ctx context.Context, actorID, boardID, columnID uuid.UUID) (*model.Column, error)
	Update(ctx context.Context, actorID, boardID, columnID uuid.UUID, upd service.ColumnUpdate) (*model.Column, error)
	Delete(ctx context.Context, actorID, boardID, columnID uuid.UUID) error
}

type ColumnHandler struct {
	columns Columns
	logger  *slog.Logger
}

func NewColumnHandler(columns Columns, logger *slog.Logger) *ColumnHandler {
	return &ColumnHandler{columns: columns, logger: loggerOrDefault(logger)}
}

// CreateColumnRequest has no board id: the board always comes from the path.
type CreateColumnRequest struct {
	Title    string `json:"title" binding:"required,notblank,max=100"`
	Position *int   `json:"position"`
	Color    string `json:"color" binding:"omitempty,hexcolor,len=7"`
}

type UpdateColumnRequest struct {
	Title    *string `json:"title" binding:"omitempty,notblank,max=100"`
	Position *int    `json:"position"`
	Color    *string `json:"color" binding:"omitempty,hexcolor,len=7"`
}

type ColumnResponse struct {
	ID        string         `json:"id"`
	BoardID   string         `json:"board_id"`
	Title     string         `json:"title"`
	Position  int            `json:"position"`
	Color     string         `json:"color"`
	CreatedAt string         `json:"created_at"`
	Cards     []CardResponse `json:"cards"`
}

func toColumnResponse(col *model.Column) ColumnResponse {
	return ColumnResponse{
		ID:        col.ID.String(),
		BoardID:   col.BoardID.String(),
		Title:     col.Title,
		Position:  col.Position,
		Color:     col.Color,
		CreatedAt: col.CreatedAt.UTC().Format(time.RFC3339),
		Cards:     toCardResponses(col.Cards),
	}
}

func toColumnResponses(columns []model.Column) []ColumnResponse {
	response := make([]ColumnResponse, len(columns))
	for i := range columns {
		response[i] = toColumnResponse(&columns[i])
	}
	return response
}

func columnPath(c *gin.Context) (boardID, columnID uuid.UUID, ok bool) {
	if boardID, ok = pathID(c, "board_id"); !ok {
		return
	}
	columnID, ok = pathID(c, "column_id")
	return
}

// Create godoc
// @Summary      Create a column on a board
// @Tags         Columns
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        board_id  path      string               true  "Board ID"
// @Param        body      body      CreateColumnRequest  true  "Column"
// @Success      201       {object}  ColumnResponse
// @Failure      403       {object}  map[string]string
// @Failure      404       {object}  map[string]string
// @Router       /boards/{board_id}/columns [post]
func (h *ColumnHandler) Create(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "board_id")
	if !ok {
		return
	}
	var req CreateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	column, err := h.columns.Create(c.Request.Context(), actorID, boardID, service.ColumnInput{
		Title:    req.Title,
		Position: req.Position,
		Color:    req.Color,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, toColumnResponse(column))
}

// GetAll godoc
// @Summary      Columns of a board, ordered by position
// @Tags         Columns
// @Produce      json
// @Security     BearerAuth
// @Param        board_id  path      string  true  "Board ID"
// @Success      200       {array}   ColumnResponse
// @Failure      404       {object}  map[string]string
// @Router       /boards/{board_id}/columns [get]
func (h *ColumnHandler) GetAll(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "board_id")
	if !ok {
		return
	}

	columns, err := h.columns.List(c.Request.Context(), actorID, boardID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toColumnResponses(columns))
}

// GetByID godoc
// @Summary      Column with its cards
// @Tags         Columns
// @Produce      json
// @Security     BearerAuth
// @Param        board_id   path      string  true  "Board ID"
// @Param        column_id  path      string  true  "Column ID"
// @Success      200        {object}  ColumnResponse
// @Failure      404        {object}  map[string]string
// @Router       /boards/{board_id}/columns/{column_id} [get]
func (h *ColumnHandler) GetByID(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, columnID, ok := columnPath(c)
	if !ok {
		return
	}

	column, err := h.columns.Get(c.Request.Context(), actorID, boardID, columnID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toColumnResponse(column))
}

// Update godoc
// @Summary      Update a column
// @Tags         Columns
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        board_id   path      string               true  "Board ID"
// @Param        column_id  path      string               true  "Column ID"
// @Param        body       body      UpdateColumnRequest  true  "Changed fields"
// @Success      200        {object}  ColumnResponse
// @Failure      403        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Router       /boards/{board_id}/columns/{column_id} [patch]
func (h *ColumnHandler) Update(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, columnID, ok := columnPath(c)
	if !ok {
		return
	}
	var req UpdateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	column, err := h.columns.Update(c.Request.Context(), actorID, boardID, columnID, service.ColumnUpdate{
		Title:    req.Title,
		Position: req.Position,
		Color:    req.Color,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toColumnResponse(column))
}

// Delete godoc
// @Summary      Delete a column and its cards
// @Tags         Columns
// @Security     BearerAuth
// @Param        board_id   path  string  true  "Board ID"
// @Param        column_id  path  string  true  "Column ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /boards/{board_id}/columns/{column_id} [delete]
func (h *ColumnHandler) Delete(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, columnID, ok := columnPath(c)
	if !ok {
		return
	}

	if err := h.columns.Delete(c.Request.Context(), actorID, boardID, columnID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
