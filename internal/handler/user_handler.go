package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"cardtrack/internal/middleware"
	"cardtrack/internal/model"
	"cardtrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Credentials is the part of the credential store the user endpoints use.
type Credentials interface {
	Register(ctx context.Context, name, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (string, *model.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, actorID, userID uuid.UUID, upd service.ProfileUpdate) (*model.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error
}

type UserHandler struct {
	creds  Credentials
	logger *slog.Logger
}

func NewUserHandler(creds Credentials, logger *slog.Logger) *UserHandler {
	return &UserHandler{creds: creds, logger: loggerOrDefault(logger)}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,notblank,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Name           *string `json:"name" binding:"omitempty,notblank,max=100"`
	AboutMe        *string `json:"aboutme"`
	ProfilePicture *string `json:"profile_picture"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

type UserResponse struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	ProfilePicture   string  `json:"profile_picture"`
	AboutMe          string  `json:"aboutme"`
	RegistrationDate string  `json:"registration_date"`
	LastLogin        *string `json:"last_login"`
}

type AuthResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

func toUserResponse(u *model.User) UserResponse {
	resp := UserResponse{
		ID:               u.ID.String(),
		Name:             u.Name,
		Email:            u.Email,
		ProfilePicture:   u.ProfilePicture,
		AboutMe:          u.AboutMe,
		RegistrationDate: u.RegistrationDate.UTC().Format(time.RFC3339),
	}
	if u.LastLogin != nil {
		ts := u.LastLogin.UTC().Format(time.RFC3339)
		resp.LastLogin = &ts
	}
	return resp
}

// Register godoc
// @Summary      Register a user
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        body  body      RegisterRequest  true  "New user"
// @Success      201   {object}  UserResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /users/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid input")
		return
	}

	user, err := h.creds.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, toUserResponse(user))
}

// Login godoc
// @Summary      Log in and receive a token
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        body  body      LoginRequest  true  "Credentials"
// @Success      200   {object}  AuthResponse
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid input")
		return
	}

	token, user, err := h.creds.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, AuthResponse{
		Token:  token,
		UserID: user.ID.String(),
		Name:   user.Name,
		Email:  user.Email,
	})
}

// Me godoc
// @Summary      Current user profile
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  UserResponse
// @Failure      401  {object}  map[string]string
// @Router       /users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

// GetByID godoc
// @Summary      User profile
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  path      string  true  "User ID"
// @Success      200      {object}  UserResponse
// @Failure      404      {object}  map[string]string
// @Router       /users/{user_id} [get]
func (h *UserHandler) GetByID(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	user, err := h.creds.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateProfile godoc
// @Summary      Update own profile
// @Tags         Users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  path      string                true  "User ID"
// @Param        body     body      UpdateProfileRequest  true  "Changed fields"
// @Success      200      {object}  UserResponse
// @Failure      403      {object}  map[string]string
// @Router       /users/{user_id} [patch]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid input")
		return
	}

	user, err := h.creds.UpdateProfile(c.Request.Context(), actorID, userID, service.ProfileUpdate{
		Name:           req.Name,
		AboutMe:        req.AboutMe,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

// ChangePassword godoc
// @Summary      Change own password
// @Tags         Users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  path      string                 true  "User ID"
// @Param        body     body      ChangePasswordRequest  true  "Passwords"
// @Success      200      {object}  map[string]string
// @Failure      400      {object}  map[string]string
// @Failure      403      {object}  map[string]string
// @Router       /users/{user_id}/change-password [post]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	if actorID != userID {
		respondError(c, h.logger, service.ErrForbidden)
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid input")
		return
	}

	err := h.creds.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
	case errors.Is(err, service.ErrInvalidCredentials):
		// the caller is authenticated; a wrong current password is bad input
		badRequest(c, "Current password is incorrect")
	default:
		respondError(c, h.logger, err)
	}
}
