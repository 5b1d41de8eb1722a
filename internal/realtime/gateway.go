// Package realtime serves the per-board websocket channel: it authenticates
// the connection, checks board membership, relays board events and stores
// chat messages sent by the client.
package realtime

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cardtrack/internal/auth"
	"cardtrack/internal/broadcast"
	"cardtrack/internal/middleware"
	"cardtrack/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	defaultWriteWait = 10 * time.Second
	defaultPongWait  = 60 * time.Second
	maxMessageSize   = 8 << 10
)

// State is where a connection is in its lifecycle.
type State int

const (
	StateConnecting State = iota
	StateAuthenticating
	StateSubscribed
	StateRejected
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateAuthenticating:
		return "authenticating"
	case StateSubscribed:
		return "subscribed"
	case StateRejected:
		return "rejected"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

type Members interface {
	RoleOf(ctx context.Context, boardID, userID uuid.UUID) (model.Role, bool, error)
}

type Chat interface {
	Post(ctx context.Context, author *model.User, boardID uuid.UUID, content string) (*model.ChatMessage, error)
}

type Subscriber interface {
	Subscribe(boardID, userID uuid.UUID) *broadcast.Subscription
	Unsubscribe(sub *broadcast.Subscription)
}

type Options struct {
	// AllowedOrigins lists accepted Origin values such as
	// "https://app.example.com". Empty accepts any origin.
	AllowedOrigins []string
	WriteWait      time.Duration
	PongWait       time.Duration
}

type Gateway struct {
	authn   middleware.Authenticator
	members Members
	chat    Chat
	hub     Subscriber
	logger  *slog.Logger

	upgrader  websocket.Upgrader
	writeWait time.Duration
	pongWait  time.Duration
}

func NewGateway(authn middleware.Authenticator, members Members, chat Chat, hub Subscriber, opts Options, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Gateway{
		authn:     authn,
		members:   members,
		chat:      chat,
		hub:       hub,
		logger:    logger,
		writeWait: opts.WriteWait,
		pongWait:  opts.PongWait,
	}
	if g.writeWait <= 0 {
		g.writeWait = defaultWriteWait
	}
	if g.pongWait <= 0 {
		g.pongWait = defaultPongWait
	}
	g.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(opts.AllowedOrigins),
	}
	return g
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		o = strings.TrimSuffix(strings.TrimSpace(o), "/")
		if o != "" {
			set[strings.ToLower(o)] = struct{}{}
		}
	}
	return func(r *http.Request) bool {
		origin := r.Header["Origin"]
		if len(origin) == 0 || len(set) == 0 {
			return true
		}
		if _, ok := set["*"]; ok {
			return true
		}
		u, err := url.Parse(origin[0])
		if err != nil {
			return false
		}
		_, ok := set[strings.ToLower(u.Scheme+"://"+u.Host)]
		return ok
	}
}

// requestToken reads the Authorization header first and falls back to the
// token query parameter, which is all browsers can send on a websocket.
func requestToken(r *http.Request) string {
	if token, ok := auth.ExtractToken(r.Header.Get("Authorization")); ok {
		return token
	}
	return strings.TrimSpace(r.URL.Query().Get("token"))
}

// Handle serves GET /ws/boards/:board_id. Unauthenticated callers and
// non-members get a bare 403 before the upgrade.
func (g *Gateway) Handle(c *gin.Context) {
	ctx := c.Request.Context()
	state := StateConnecting

	boardID, err := uuid.Parse(c.Param("board_id"))
	if err != nil {
		g.reject(c, state, "bad board id")
		return
	}

	state = StateAuthenticating
	user := g.authn.Authenticate(ctx, requestToken(c.Request))
	if user == nil {
		g.reject(c, state, "no user")
		return
	}
	_, member, err := g.members.RoleOf(ctx, boardID, user.ID)
	if err != nil {
		g.logger.ErrorContext(ctx, "membership lookup failed", "board_id", boardID, "user_id", user.ID, "error", err)
		g.reject(c, state, "membership lookup failed")
		return
	}
	if !member {
		g.reject(c, state, "not a member")
		return
	}

	// Subscribe before the handshake completes so nothing published after
	// the client sees the upgrade is missed.
	sub := g.hub.Subscribe(boardID, user.ID)
	conn, err := g.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		g.hub.Unsubscribe(sub)
		g.logger.WarnContext(ctx, "websocket upgrade failed", "board_id", boardID, "error", err)
		return
	}

	s := &session{
		gateway: g,
		conn:    conn,
		sub:     sub,
		user:    user,
		boardID: boardID,
	}
	group := model.GroupName(boardID)
	g.logger.DebugContext(ctx, "websocket state", "state", StateSubscribed, "group", group, "user_id", user.ID)
	s.run(ctx)
	g.logger.DebugContext(ctx, "websocket state", "state", StateClosed, "group", group, "user_id", user.ID)
}

func (g *Gateway) reject(c *gin.Context, from State, reason string) {
	g.logger.DebugContext(c.Request.Context(), "websocket state",
		"state", StateRejected,
		"from", from,
		"reason", reason,
		"board", c.Param("board_id"),
	)
	c.AbortWithStatus(http.StatusForbidden)
}
