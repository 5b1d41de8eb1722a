package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"cardtrack/internal/broadcast"
	"cardtrack/internal/model"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// inbound is what clients send. Only type "message" is acted on.
type inbound struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type session struct {
	gateway *Gateway
	conn    *websocket.Conn
	sub     *broadcast.Subscription
	user    *model.User
	boardID uuid.UUID
}

// run pumps hub events to the socket until either side goes away. The
// subscription is released before run returns.
func (s *session) run(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.readLoop(ctx)
	}()

	s.writeLoop(done)

	s.gateway.hub.Unsubscribe(s.sub)
	_ = s.conn.Close()
	<-done
}

func (s *session) readLoop(ctx context.Context) {
	// A gone client ends the subscription right away, which also stops
	// the write loop.
	defer s.gateway.hub.Unsubscribe(s.sub)

	log := s.gateway.logger
	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(s.gateway.pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.gateway.pongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.DebugContext(ctx, "websocket read failed", "board_id", s.boardID, "error", err)
			}
			return
		}

		var msg inbound
		if err := json.Unmarshal(data, &msg); err != nil || msg.Type != "message" {
			continue
		}
		if _, err := s.gateway.chat.Post(ctx, s.user, s.boardID, msg.Content); err != nil {
			log.WarnContext(ctx, "chat message not stored",
				"board_id", s.boardID,
				"user_id", s.user.ID,
				"error", err,
			)
		}
	}
}

func (s *session) writeLoop(done <-chan struct{}) {
	ticker := time.NewTicker(s.gateway.pongWait * 9 / 10)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case ev, ok := <-s.sub.Events():
			_ = s.conn.SetWriteDeadline(time.Now().Add(s.gateway.writeWait))
			if !ok {
				// dropped by the hub: slow reader, revoked member or deleted board
				_ = s.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.ClosePolicyViolation, ""))
				return
			}
			if err := s.conn.WriteJSON(ev); err != nil {
				if !errors.Is(err, websocket.ErrCloseSent) {
					s.gateway.logger.Debug("websocket write failed", "board_id", s.boardID, "error", err)
				}
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(s.gateway.writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
