package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"cardtrack/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ChatHistory interface {
	History(ctx context.Context, actorID, boardID uuid.UUID, limit int) ([]model.ChatMessage, error)
}

type MessageHandler struct {
	chat   ChatHistory
	logger *slog.Logger
}

func NewMessageHandler(chat ChatHistory, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{chat: chat, logger: loggerOrDefault(logger)}
}

// MessageResponse matches the payload of chat.message events.
type MessageResponse struct {
	ID        string `json:"id"`
	BoardID   string `json:"board"`
	UserID    string `json:"user"`
	UserName  string `json:"user_name"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// GetAll godoc
// @Summary      Recent chat messages, oldest first
// @Tags         Chat
// @Produce      json
// @Security     BearerAuth
// @Param        board_id  path      string  true   "Board ID"
// @Param        limit     query     int     false  "Max messages (default 50, max 200)"
// @Success      200       {array}   MessageResponse
// @Failure      404       {object}  map[string]string
// @Router       /boards/{board_id}/messages [get]
func (h *MessageHandler) GetAll(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "board_id")
	if !ok {
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, "limit must be an integer")
			return
		}
		limit = n
	}

	msgs, err := h.chat.History(c.Request.Context(), actorID, boardID, limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response := make([]MessageResponse, len(msgs))
	for i, m := range msgs {
		response[i] = MessageResponse{
			ID:        m.ID.String(),
			BoardID:   m.BoardID.String(),
			UserID:    m.UserID.String(),
			UserName:  m.User.Name,
			Content:   m.Content,
			CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339Nano),
		}
	}
	c.JSON(http.StatusOK, response)
}
