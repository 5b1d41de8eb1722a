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

type Members interface {
	Invite(ctx context.Context, actorID, boardID uuid.UUID, target service.InviteTarget, role model.Role) (*model.Membership, error)
	ChangeRole(ctx context.Context, actorID, boardID, membershipID uuid.UUID, role model.Role) (*model.Membership, error)
	Remove(ctx context.Context, actorID, boardID, membershipID uuid.UUID) error
	Leave(ctx context.Context, actorID, boardID uuid.UUID) error
	ListMembers(ctx context.Context, actorID, boardID uuid.UUID) ([]model.Membership, error)
}

type MemberHandler struct {
	members Members
	logger  *slog.Logger
}

func NewMemberHandler(members Members, logger *slog.Logger) *MemberHandler {
	return &MemberHandler{members: members, logger: loggerOrDefault(logger)}
}

// InviteRequest names the invitee by user_id or by email. An unknown email
// creates a placeholder account.
type InviteRequest struct {
	UserID string `json:"user_id" binding:"omitempty,uuid"`
	Email  string `json:"email" binding:"omitempty,email"`
	Role   string `json:"role" binding:"required"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type MemberResponse struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Role      model.Role `json:"role"`
	InvitedAt string     `json:"invited_at"`
}

func toMemberResponse(m *model.Membership) MemberResponse {
	return MemberResponse{
		ID:        m.ID.String(),
		UserID:    m.UserID.String(),
		Email:     m.User.Email,
		Name:      m.User.Name,
		Role:      m.Role,
		InvitedAt: m.InvitedAt.UTC().Format(time.RFC3339),
	}
}

func parseRole(c *gin.Context, s string) (model.Role, bool) {
	role, err := model.ParseRole(s)
	if err != nil {
		badRequest(c, "Role must be one of owner, editor, viewer")
		return "", false
	}
	return role, true
}

func memberPath(c *gin.Context) (boardID, memberID uuid.UUID, ok bool) {
	if boardID, ok = pathID(c, "board_id"); !ok {
		return
	}
	memberID, ok = pathID(c, "member_id")
	return
}

// List godoc
// @Summary      Board members, owner first
// @Tags         Members
// @Produce      json
// @Security     BearerAuth
// @Param        board_id  path      string  true  "Board ID"
// @Success      200       {array}   MemberResponse
// @Failure      404       {object}  map[string]string
// @Router       /boards/{board_id}/members [get]
func (h *MemberHandler) List(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "board_id")
	if !ok {
		return
	}

	members, err := h.members.ListMembers(c.Request.Context(), actorID, boardID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response := make([]MemberResponse, len(members))
	for i := range members {
		response[i] = toMemberResponse(&members[i])
	}
	c.JSON(http.StatusOK, response)
}

// Invite godoc
// @Summary      Invite a user as editor or viewer
// @Tags         Members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        board_id  path      string         true  "Board ID"
// @Param        body      body      InviteRequest  true  "Invitee"
// @Success      201       {object}  MemberResponse
// @Failure      400       {object}  map[string]string
// @Failure      403       {object}  map[string]string
// @Failure      404       {object}  map[string]string
// @Router       /boards/{board_id}/members [post]
func (h *MemberHandler) Invite(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "board_id")
	if !ok {
		return
	}
	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}
	role, ok := parseRole(c, req.Role)
	if !ok {
		return
	}

	target := service.InviteTarget{Email: req.Email}
	if req.UserID != "" {
		target.UserID = uuid.MustParse(req.UserID)
	}

	m, err := h.members.Invite(c.Request.Context(), actorID, boardID, target, role)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, toMemberResponse(m))
}

// ChangeRole godoc
// @Summary      Change a member's role
// @Description  The owner may set editor or viewer; an editor may only promote a viewer.
// @Tags         Members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        board_id   path      string             true  "Board ID"
// @Param        member_id  path      string             true  "Membership ID"
// @Param        body       body      ChangeRoleRequest  true  "Role"
// @Success      200        {object}  MemberResponse
// @Failure      403        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Router       /boards/{board_id}/members/{member_id} [patch]
func (h *MemberHandler) ChangeRole(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, memberID, ok := memberPath(c)
	if !ok {
		return
	}
	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}
	role, ok := parseRole(c, req.Role)
	if !ok {
		return
	}

	m, err := h.members.ChangeRole(c.Request.Context(), actorID, boardID, memberID, role)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toMemberResponse(m))
}

// Remove godoc
// @Summary      Remove a member
// @Tags         Members
// @Security     BearerAuth
// @Param        board_id   path  string  true  "Board ID"
// @Param        member_id  path  string  true  "Membership ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /boards/{board_id}/members/{member_id} [delete]
func (h *MemberHandler) Remove(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, memberID, ok := memberPath(c)
	if !ok {
		return
	}

	if err := h.members.Remove(c.Request.Context(), actorID, boardID, memberID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Leave godoc
// @Summary      Leave a board
// @Tags         Members
// @Security     BearerAuth
// @Param        board_id  path  string  true  "Board ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /boards/{board_id}/leave [post]
func (h *MemberHandler) Leave(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "board_id")
	if !ok {
		return
	}

	if err := h.members.Leave(c.Request.Context(), actorID, boardID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
