package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"cardtrack/internal/auth"
	"cardtrack/internal/broadcast"
	"cardtrack/internal/logging"
	"cardtrack/internal/model"
	"cardtrack/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumns_PositionOrdering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com")
	board := f.board(t, owner, "Proj")

	f.column(t, owner, board, "Two", ptr(2))
	f.column(t, owner, board, "One", ptr(1))
	appended := f.column(t, owner, board, "Last", nil)
	assert.Equal(t, 3, appended.Position)
	assert.Equal(t, model.DefaultColumnColor, appended.Color)

	cols, err := f.columns.List(ctx, owner.ID, board.ID)
	require.NoError(t, err)
	require.Len(t, cols, 3)
	assert.Equal(t, "One", cols[0].Title)
	assert.Equal(t, "Two", cols[1].Title)
	assert.Equal(t, "Last", cols[2].Title)

	detail, _, err := f.boards.Get(ctx, owner.ID, board.ID)
	require.NoError(t, err)
	require.Len(t, detail.Columns, 3)
	assert.Equal(t, "One", detail.Columns[0].Title)
}

func TestColumns_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com")
	board := f.board(t, owner, "Proj")

	var verr *service.ValidationError
	_, err := f.columns.Create(ctx, owner.ID, board.ID, service.ColumnInput{Title: "   "})
	assert.ErrorAs(t, err, &verr)
	_, err = f.columns.Create(ctx, owner.ID, board.ID, service.ColumnInput{Title: strings.Repeat("x", 101)})
	assert.ErrorAs(t, err, &verr)
	_, err = f.columns.Create(ctx, owner.ID, board.ID, service.ColumnInput{Title: "ok", Color: "red"})
	assert.ErrorAs(t, err, &verr)

	col, err := f.columns.Create(ctx, owner.ID, board.ID, service.ColumnInput{Title: "ok", Color: "#a1B2c3"})
	require.NoError(t, err)
	assert.Equal(t, "#a1B2c3", col.Color)
}

func TestCards_TiesKeepInsertionOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com")
	board := f.board(t, owner, "Proj")
	col := f.column(t, owner, board, "Todo", nil)

	for _, title := range []string{"first", "second", "third"} {
		_, err := f.cards.Create(ctx, owner.ID, board.ID, col.ID, service.CardInput{Title: title, Position: ptr(5)})
		require.NoError(t, err)
	}
	_, err := f.cards.Create(ctx, owner.ID, board.ID, col.ID, service.CardInput{Title: "top", Position: ptr(0)})
	require.NoError(t, err)

	cards, err := f.cards.List(ctx, owner.ID, board.ID, col.ID)
	require.NoError(t, err)
	var titles []string
	for i, c := range cards {
		titles = append(titles, c.Title)
		if i > 0 {
			assert.LessOrEqual(t, cards[i-1].Position, c.Position)
		}
	}
	assert.Equal(t, []string{"top", "first", "second", "third"}, titles)
}

func TestCards_ScopedToBoard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice@example.com")
	mallory := f.user(t, "mallory@example.com")
	aliceBoard := f.board(t, alice, "Alice")
	malloryBoard := f.board(t, mallory, "Mallory")
	aliceCol := f.column(t, alice, aliceBoard, "Todo", nil)
	malloryCol := f.column(t, mallory, malloryBoard, "Todo", nil)

	// Mallory controls her own board but names Alice's column in the path.
	_, err := f.cards.Create(ctx, mallory.ID, malloryBoard.ID, aliceCol.ID, service.CardInput{Title: "sneaky"})
	assert.ErrorIs(t, err, service.ErrNotFound)

	card, err := f.cards.Create(ctx, alice.ID, aliceBoard.ID, aliceCol.ID, service.CardInput{Title: "real"})
	require.NoError(t, err)
	_, err = f.cards.Get(ctx, mallory.ID, malloryBoard.ID, aliceCol.ID, card.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
	_, err = f.cards.Get(ctx, alice.ID, aliceBoard.ID, malloryCol.ID, card.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = f.cards.Update(ctx, alice.ID, aliceBoard.ID, aliceCol.ID, card.ID, service.CardUpdate{ColumnID: &malloryCol.ID})
	assert.ErrorIs(t, err, service.ErrNotFound, "move into another board's column")
}

func TestCards_UpdateAndMove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com")
	board := f.board(t, owner, "Proj")
	todo := f.column(t, owner, board, "Todo", nil)
	done := f.column(t, owner, board, "Done", nil)
	_, err := f.cards.Create(ctx, owner.ID, board.ID, done.ID, service.CardInput{Title: "old", Position: ptr(7)})
	require.NoError(t, err)

	due := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	card, err := f.cards.Create(ctx, owner.ID, board.ID, todo.ID, service.CardInput{Title: "Ship", DueDate: &due})
	require.NoError(t, err)
	assert.Equal(t, model.PriorityMedium, card.Priority)
	assert.Equal(t, 0, card.Position)

	_, err = f.cards.Update(ctx, owner.ID, board.ID, todo.ID, card.ID, service.CardUpdate{Priority: ptr(model.Priority("urgent"))})
	var verr *service.ValidationError
	assert.ErrorAs(t, err, &verr)

	f.rec.reset()
	moved, err := f.cards.Update(ctx, owner.ID, board.ID, todo.ID, card.ID, service.CardUpdate{
		ColumnID:     &done.ID,
		IsCompleted:  ptr(true),
		Priority:     ptr(model.PriorityHigh),
		ClearDueDate: true,
	})
	require.NoError(t, err)
	assert.Equal(t, done.ID, moved.ColumnID)
	assert.Equal(t, 8, moved.Position)
	assert.True(t, moved.IsCompleted)
	assert.Nil(t, moved.DueDate)

	ev := f.rec.last()
	assert.Equal(t, broadcast.KindCardUpdated, ev.Kind)
	payload := ev.Payload.(broadcast.CardPayload)
	require.NotNil(t, payload.PreviousColumnID)
	assert.Equal(t, todo.ID, *payload.PreviousColumnID)
	assert.Equal(t, model.PriorityHigh, payload.Priority)

	_, err = f.cards.Get(ctx, owner.ID, board.ID, todo.ID, card.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
	got, err := f.cards.Get(ctx, owner.ID, board.ID, done.ID, card.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ship", got.Title)
}

func TestHierarchy_EventsFollowCommits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com")
	board := f.board(t, owner, "Proj")
	assert.Empty(t, f.rec.kinds())

	col := f.column(t, owner, board, "Todo", nil)
	_, err := f.columns.Update(ctx, owner.ID, board.ID, col.ID, service.ColumnUpdate{Title: ptr("Doing")})
	require.NoError(t, err)
	card, err := f.cards.Create(ctx, owner.ID, board.ID, col.ID, service.CardInput{Title: "x"})
	require.NoError(t, err)
	_, err = f.cards.Update(ctx, owner.ID, board.ID, col.ID, card.ID, service.CardUpdate{Title: ptr("y")})
	require.NoError(t, err)
	require.NoError(t, f.cards.Delete(ctx, owner.ID, board.ID, col.ID, card.ID))
	require.NoError(t, f.columns.Delete(ctx, owner.ID, board.ID, col.ID))
	_, err = f.boards.Update(ctx, owner.ID, board.ID, service.BoardUpdate{Description: ptr("d")})
	require.NoError(t, err)
	require.NoError(t, f.boards.Delete(ctx, owner.ID, board.ID))

	assert.Equal(t, []broadcast.Kind{
		broadcast.KindColumnCreated,
		broadcast.KindColumnUpdated,
		broadcast.KindCardCreated,
		broadcast.KindCardUpdated,
		broadcast.KindCardDeleted,
		broadcast.KindColumnDeleted,
		broadcast.KindBoardUpdated,
		broadcast.KindBoardDeleted,
	}, f.rec.kinds())

	// Failed writes emit nothing.
	f.rec.reset()
	_, err = f.columns.Create(ctx, owner.ID, board.ID, service.ColumnInput{Title: "gone"})
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.Empty(t, f.rec.kinds())
}

func TestBoards_OwnerOnlyUpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com")
	editor := f.user(t, "editor@example.com")
	board := f.board(t, owner, "Proj")
	f.invite(t, owner, board, editor, model.RoleEditor)

	_, err := f.boards.Update(ctx, editor.ID, board.ID, service.BoardUpdate{Title: ptr("mine")})
	assert.ErrorIs(t, err, service.ErrForbidden)
	assert.ErrorIs(t, f.boards.Delete(ctx, editor.ID, board.ID), service.ErrForbidden)

	updated, err := f.boards.Update(ctx, owner.ID, board.ID, service.BoardUpdate{Title: ptr("Renamed")})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)

	_, role, err := f.boards.Get(ctx, editor.ID, board.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleEditor, role)

	list, err := f.boards.List(ctx, editor.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, f.boards.Delete(ctx, owner.ID, board.ID))
	list, err = f.boards.List(ctx, editor.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestChat_PostAndHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com")
	viewer := f.user(t, "viewer@example.com")
	board := f.board(t, owner, "Proj")
	f.invite(t, owner, board, viewer, model.RoleViewer)

	msg, err := f.chat.Post(ctx, viewer, board.ID, "   ")
	require.NoError(t, err)
	assert.Nil(t, msg)

	f.rec.reset()
	msg, err = f.chat.Post(ctx, viewer, board.ID, "  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Content)
	ev := f.rec.last()
	assert.Equal(t, broadcast.KindChatMessage, ev.Kind)
	assert.Equal(t, viewer.Name, ev.Payload.(broadcast.MessagePayload).UserName)

	for i := 0; i < 3; i++ {
		_, err := f.chat.Post(ctx, owner, board.ID, "again")
		require.NoError(t, err)
	}
	history, err := f.chat.History(ctx, viewer.ID, board.ID, 2)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	history, err = f.chat.History(ctx, viewer.ID, board.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.Equal(t, "hello", history[0].Content)
	assert.Equal(t, viewer.Email, history[0].User.Email)
}

func TestHierarchy_BroadcastFailureKeepsWrite(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	relay := broadcast.NewRedisRelay(rdb, "test", broadcast.NewHub(1), nil)
	notifier := broadcast.New(relay, logging.Discard())

	f := newFixtureWith(t, auth.NewPrefixCodec(auth.DefaultPrefix), notifier)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com")
	board := f.board(t, owner, "Proj")

	col, err := f.columns.Create(ctx, owner.ID, board.ID, service.ColumnInput{Title: "Todo"})
	require.NoError(t, err)

	got, err := f.columns.Get(ctx, owner.ID, board.ID, col.ID)
	require.NoError(t, err)
	assert.Equal(t, "Todo", got.Title)
}

func TestBoards_BackfillOwners(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com")
	legacy := &model.Board{Title: "legacy", OwnerID: owner.ID}
	require.NoError(t, f.db.Create(legacy).Error)

	added, err := f.boards.BackfillOwners(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	list, err := f.members.ListMembers(ctx, owner.ID, legacy.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.RoleOwner, list[0].Role)
}
