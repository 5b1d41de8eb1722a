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

type Boards interface {
	Create(ctx context.Context, actorID uuid.UUID, title, description string) (*model.Board, error)
	List(ctx context.Context, actorID uuid.UUID) ([]model.Board, error)
	Get(ctx context.Context, actorID, boardID uuid.UUID) (*model.Board, model.Role, error)
	Update(ctx context.Context, actorID, boardID uuid.UUID, upd service.BoardUpdate) (*model.Board, error)
	Delete(ctx context.Context, actorID, boardID uuid.UUID) error
}

type BoardHandler struct {
	boards Boards
	logger *slog.Logger
}

func NewBoardHandler(boards Boards, logger *slog.Logger) *BoardHandler {
	return &BoardHandler{boards: boards, logger: loggerOrDefault(logger)}
}

type CreateBoardRequest struct {
	Title       string `json:"title" binding:"required,notblank,max=100"`
	Description string `json:"description"`
}

type UpdateBoardRequest struct {
	Title       *string `json:"title" binding:"omitempty,notblank,max=100"`
	Description *string `json:"description"`
}

type BoardResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	OwnerID     string `json:"owner_id"`
	CreatedAt   string `json:"created_at"`
}

// BoardDetailResponse is a board with its ordered columns and cards.
type BoardDetailResponse struct {
	BoardResponse
	Role    model.Role       `json:"role"`
	Columns []ColumnResponse `json:"columns"`
}

func toBoardResponse(b *model.Board) BoardResponse {
	return BoardResponse{
		ID:          b.ID.String(),
		Title:       b.Title,
		Description: b.Description,
		OwnerID:     b.OwnerID.String(),
		CreatedAt:   b.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Create godoc
// @Summary      Create a board
// @Description  The creator becomes the board owner.
// @Tags         Boards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      CreateBoardRequest  true  "Board"
// @Success      201   {object}  BoardResponse
// @Failure      400   {object}  map[string]string
// @Router       /boards [post]
func (h *BoardHandler) Create(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	board, err := h.boards.Create(c.Request.Context(), actorID, req.Title, req.Description)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, toBoardResponse(board))
}

// GetAll godoc
// @Summary      Boards the user owns or is a member of
// @Tags         Boards
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  BoardResponse
// @Router       /boards [get]
func (h *BoardHandler) GetAll(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	boards, err := h.boards.List(c.Request.Context(), actorID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response := make([]BoardResponse, len(boards))
	for i := range boards {
		response[i] = toBoardResponse(&boards[i])
	}
	c.JSON(http.StatusOK, response)
}

// GetByID godoc
// @Summary      Board with columns and cards
// @Tags         Boards
// @Produce      json
// @Security     BearerAuth
// @Param        board_id  path      string  true  "Board ID"
// @Success      200       {object}  BoardDetailResponse
// @Failure      404       {object}  map[string]string
// @Router       /boards/{board_id} [get]
func (h *BoardHandler) GetByID(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "board_id")
	if !ok {
		return
	}

	board, role, err := h.boards.Get(c.Request.Context(), actorID, boardID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, BoardDetailResponse{
		BoardResponse: toBoardResponse(board),
		Role:          role,
		Columns:       toColumnResponses(board.Columns),
	})
}

// Update godoc
// @Summary      Update a board
// @Tags         Boards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        board_id  path      string              true  "Board ID"
// @Param        body      body      UpdateBoardRequest  true  "Changed fields"
// @Success      200       {object}  BoardResponse
// @Failure      403       {object}  map[string]string
// @Failure      404       {object}  map[string]string
// @Router       /boards/{board_id} [patch]
func (h *BoardHandler) Update(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "board_id")
	if !ok {
		return
	}
	var req UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	board, err := h.boards.Update(c.Request.Context(), actorID, boardID, service.BoardUpdate{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toBoardResponse(board))
}

// Delete godoc
// @Summary      Delete a board with its columns, cards and memberships
// @Tags         Boards
// @Security     BearerAuth
// @Param        board_id  path  string  true  "Board ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /boards/{board_id} [delete]
func (h *BoardHandler) Delete(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "board_id")
	if !ok {
		return
	}

	if err := h.boards.Delete(c.Request.Context(), actorID, boardID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
