package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"cardtrack/internal/handler"
	"cardtrack/internal/logging"
	"cardtrack/internal/model"
	"cardtrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCards struct {
	mock.Mock
}

func (m *MockCards) Create(ctx context.Context, actorID, boardID, columnID uuid.UUID, in service.CardInput) (*model.Card, error) {
	args := m.Called(ctx, actorID, boardID, columnID, in)
	card, _ := args.Get(0).(*model.Card)
	return card, args.Error(1)
}

func (m *MockCards) List(ctx context.Context, actorID, boardID, columnID uuid.UUID) ([]model.Card, error) {
	args := m.Called(ctx, actorID, boardID, columnID)
	cards, _ := args.Get(0).([]model.Card)
	return cards, args.Error(1)
}

func (m *MockCards) Get(ctx context.Context, actorID, boardID, columnID, cardID uuid.UUID) (*model.Card, error) {
	args := m.Called(ctx, actorID, boardID, columnID, cardID)
	card, _ := args.Get(0).(*model.Card)
	return card, args.Error(1)
}

func (m *MockCards) Update(ctx context.Context, actorID, boardID, columnID, cardID uuid.UUID, upd service.CardUpdate) (*model.Card, error) {
	args := m.Called(ctx, actorID, boardID, columnID, cardID, upd)
	card, _ := args.Get(0).(*model.Card)
	return card, args.Error(1)
}

func (m *MockCards) Delete(ctx context.Context, actorID, boardID, columnID, cardID uuid.UUID) error {
	return m.Called(ctx, actorID, boardID, columnID, cardID).Error(0)
}

type cardRoute struct {
	router  *gin.Engine
	cards   *MockCards
	user    *model.User
	boardID uuid.UUID
	colID   uuid.UUID
}

func (r cardRoute) path(suffix string) string {
	return "/boards/" + r.boardID.String() + "/columns/" + r.colID.String() + "/cards" + suffix
}

func setupCards(t *testing.T) cardRoute {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, handler.RegisterValidators())

	user := testUser()
	cards := new(MockCards)
	h := handler.NewCardHandler(cards, logging.Discard())

	r := gin.New()
	g := r.Group("/boards/:board_id/columns/:column_id/cards", withUser(user))
	g.GET("", h.GetAll)
	g.POST("", h.Create)
	g.PATCH("/:card_id", h.Update)
	g.DELETE("/:card_id", h.Delete)

	return cardRoute{router: r, cards: cards, user: user, boardID: uuid.New(), colID: uuid.New()}
}

func TestCardCreate_ParsesDueDate(t *testing.T) {
	rt := setupCards(t)
	due := time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)
	card := &model.Card{ID: uuid.New(), ColumnID: rt.colID, Title: "Ship", DueDate: &due, Priority: model.PriorityHigh}

	rt.cards.On("Create", mock.Anything, rt.user.ID, rt.boardID, rt.colID, mock.MatchedBy(func(in service.CardInput) bool {
		return in.Title == "Ship" && in.DueDate != nil && in.DueDate.Equal(due) && in.Priority == model.PriorityHigh && in.Position == nil
	})).Return(card, nil)

	resp := doJSON(rt.router, "POST", rt.path(""), map[string]any{
		"title":    "Ship",
		"due_date": "2026-11-02",
		"priority": "high",
	})

	assert.Equal(t, http.StatusCreated, resp.Code)
	assert.Contains(t, resp.Body.String(), `"due_date":"2026-11-02"`)
	rt.cards.AssertExpectations(t)
}

func TestCardCreate_RejectsUnknownPriority(t *testing.T) {
	rt := setupCards(t)

	resp := doJSON(rt.router, "POST", rt.path(""), map[string]any{"title": "Ship", "priority": "urgent"})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	rt.cards.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCardUpdate_NullDueDateClears(t *testing.T) {
	rt := setupCards(t)
	cardID := uuid.New()
	rt.cards.On("Update", mock.Anything, rt.user.ID, rt.boardID, rt.colID, cardID, mock.MatchedBy(func(upd service.CardUpdate) bool {
		return upd.ClearDueDate && upd.DueDate == nil && upd.Title == nil
	})).Return(&model.Card{ID: cardID, ColumnID: rt.colID, Title: "Ship"}, nil)

	resp := doJSON(rt.router, "PATCH", rt.path("/"+cardID.String()), map[string]any{"due_date": nil})

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"due_date":null`)
	rt.cards.AssertExpectations(t)
}

func TestCardUpdate_AbsentDueDateKept(t *testing.T) {
	rt := setupCards(t)
	cardID := uuid.New()
	target := uuid.New()
	rt.cards.On("Update", mock.Anything, rt.user.ID, rt.boardID, rt.colID, cardID, mock.MatchedBy(func(upd service.CardUpdate) bool {
		return !upd.ClearDueDate && upd.ColumnID != nil && *upd.ColumnID == target
	})).Return(&model.Card{ID: cardID, ColumnID: target, Title: "Ship"}, nil)

	resp := doJSON(rt.router, "PATCH", rt.path("/"+cardID.String()), map[string]any{"column_id": target.String()})

	assert.Equal(t, http.StatusOK, resp.Code)
	rt.cards.AssertExpectations(t)
}

func TestCardErrorsMapToStatus(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{service.ErrNotFound, http.StatusNotFound},
		{service.ErrForbidden, http.StatusForbidden},
		{&service.ValidationError{Field: "title", Message: "must not be blank"}, http.StatusBadRequest},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			rt := setupCards(t)
			cardID := uuid.New()
			rt.cards.On("Delete", mock.Anything, rt.user.ID, rt.boardID, rt.colID, cardID).Return(tc.err)

			resp := doJSON(rt.router, "DELETE", rt.path("/"+cardID.String()), nil)
			assert.Equal(t, tc.code, resp.Code)
		})
	}
}

func TestCardMalformedIDIsNotFound(t *testing.T) {
	rt := setupCards(t)

	resp := doJSON(rt.router, "DELETE", rt.path("/not-a-uuid"), nil)

	assert.Equal(t, http.StatusNotFound, resp.Code)
	rt.cards.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
