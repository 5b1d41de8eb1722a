package broadcast_test

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"cardtrack/internal/broadcast"
	"cardtrack/internal/logging"
	"cardtrack/internal/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, sub *broadcast.Subscription) broadcast.Event {
	t.Helper()
	select {
	case ev, ok := <-sub.Events():
		require.True(t, ok, "subscription closed")
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
	return broadcast.Event{}
}

func assertClosed(t *testing.T, sub *broadcast.Subscription) {
	t.Helper()
	for {
		select {
		case _, ok := <-sub.Events():
			if !ok {
				return
			}
		case <-time.After(time.Second):
			t.Fatal("subscription still open")
		}
	}
}

func TestHub_DeliversOnlyToBoardGroup(t *testing.T) {
	hub := broadcast.NewHub(4)
	boardA, boardB := uuid.New(), uuid.New()
	subA := hub.Subscribe(boardA, uuid.New())
	subB := hub.Subscribe(boardB, uuid.New())

	col := &model.Column{ID: uuid.New(), BoardID: boardA, Title: "Todo", Position: 1, Color: "#000000"}
	require.NoError(t, hub.Publish(context.Background(), broadcast.ColumnCreated(col)))

	ev := receive(t, subA)
	assert.Equal(t, broadcast.KindColumnCreated, ev.Kind)
	assert.Equal(t, boardA, ev.BoardID)
	assert.Equal(t, col.ID, ev.EntityID)

	select {
	case <-subB.Events():
		t.Fatal("event leaked to another board")
	default:
	}
}

func TestHub_UnsubscribeIsIdempotent(t *testing.T) {
	hub := broadcast.NewHub(1)
	board := uuid.New()
	sub := hub.Subscribe(board, uuid.New())
	assert.Equal(t, 1, hub.Count(board))

	hub.Unsubscribe(sub)
	hub.Unsubscribe(sub)

	assert.Zero(t, hub.Count(board))
	assertClosed(t, sub)
	assert.NoError(t, hub.Publish(context.Background(), broadcast.BoardDeleted(board)))
}

func TestHub_SlowSubscriberDropped(t *testing.T) {
	hub := broadcast.NewHub(1)
	board := uuid.New()
	slow := hub.Subscribe(board, uuid.New())

	ev := broadcast.BoardUpdated(&model.Board{ID: board, Title: "t"})
	require.NoError(t, hub.Publish(context.Background(), ev))
	require.NoError(t, hub.Publish(context.Background(), ev))

	assert.Zero(t, hub.Count(board))
	receive(t, slow)
	assertClosed(t, slow)
}

func TestHub_BoardDeletedClosesGroup(t *testing.T) {
	hub := broadcast.NewHub(4)
	board := uuid.New()
	subs := []*broadcast.Subscription{hub.Subscribe(board, uuid.New()), hub.Subscribe(board, uuid.New())}

	require.NoError(t, hub.Publish(context.Background(), broadcast.BoardDeleted(board)))

	for _, sub := range subs {
		assert.Equal(t, broadcast.KindBoardDeleted, receive(t, sub).Kind)
		assertClosed(t, sub)
	}
	assert.Zero(t, hub.Count(board))
}

func TestHub_MemberRemovedRevokesUser(t *testing.T) {
	hub := broadcast.NewHub(4)
	board := uuid.New()
	removed, stays := uuid.New(), uuid.New()
	gone := hub.Subscribe(board, removed)
	kept := hub.Subscribe(board, stays)

	m := &model.Membership{ID: uuid.New(), BoardID: board, UserID: removed, Role: model.RoleViewer}
	require.NoError(t, hub.Publish(context.Background(), broadcast.MemberRemoved(m)))

	assert.Equal(t, broadcast.KindMemberRemoved, receive(t, gone).Kind)
	assertClosed(t, gone)
	assert.Equal(t, broadcast.KindMemberRemoved, receive(t, kept).Kind)
	assert.Equal(t, 1, hub.Count(board))
}

func TestHub_ConcurrentSubscribePublish(t *testing.T) {
	hub := broadcast.NewHub(1024)
	board := uuid.New()
	ev := broadcast.BoardUpdated(&model.Board{ID: board})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			sub := hub.Subscribe(board, uuid.New())
			hub.Unsubscribe(sub)
		}()
		go func() {
			defer wg.Done()
			_ = hub.Publish(context.Background(), ev)
		}()
	}
	wg.Wait()
	assert.Zero(t, hub.Count(board))
}

func TestEvent_CardPayloadIsDenormalized(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	prev := uuid.New()
	card := &model.Card{
		ID:          uuid.New(),
		ColumnID:    uuid.New(),
		Title:       "Ship",
		Position:    3,
		DueDate:     &due,
		IsCompleted: true,
		Priority:    model.PriorityHigh,
	}

	data, err := json.Marshal(broadcast.CardUpdated(uuid.New(), card, prev))
	require.NoError(t, err)

	var decoded struct {
		Kind    string         `json:"kind"`
		Payload map[string]any `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "card.updated", decoded.Kind)
	assert.Equal(t, "Ship", decoded.Payload["title"])
	assert.Equal(t, float64(3), decoded.Payload["position"])
	assert.Equal(t, "2026-03-01", decoded.Payload["due_date"])
	assert.Equal(t, true, decoded.Payload["is_completed"])
	assert.Equal(t, "high", decoded.Payload["priority"])
	assert.Equal(t, prev.String(), decoded.Payload["previous_column_id"])
}

func TestBroadcaster_SwallowsTransportErrors(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	relay := broadcast.NewRedisRelay(rdb, "test", broadcast.NewHub(1), nil)
	board := uuid.New()
	assert.Equal(t, "test:board:"+board.String(), relay.Channel(board))
	assert.Error(t, relay.Publish(context.Background(), broadcast.BoardDeleted(board)))

	var buf bytes.Buffer
	b := broadcast.New(relay, logging.New(&buf, "debug", "text"))
	assert.NotPanics(t, func() { b.Notify(context.Background(), broadcast.BoardDeleted(board)) })
	assert.Contains(t, buf.String(), "broadcast failed")
}

func TestBroadcaster_NilPublisher(t *testing.T) {
	b := broadcast.New(nil, logging.Discard())
	assert.NotPanics(t, func() { b.Notify(context.Background(), broadcast.BoardDeleted(uuid.New())) })
}
