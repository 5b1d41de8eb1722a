package service_test

import (
	"context"
	"sync"
	"testing"

	"cardtrack/internal/auth"
	"cardtrack/internal/broadcast"
	"cardtrack/internal/logging"
	"cardtrack/internal/model"
	"cardtrack/internal/repository"
	"cardtrack/internal/service"
	"cardtrack/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testPassword = "s3cret!!"

type recorder struct {
	mu     sync.Mutex
	events []broadcast.Event
}

func (r *recorder) Notify(_ context.Context, ev broadcast.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) kinds() []broadcast.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]broadcast.Kind, len(r.events))
	for i, ev := range r.events {
		kinds[i] = ev.Kind
	}
	return kinds
}

func (r *recorder) last() broadcast.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

type fixture struct {
	db      *gorm.DB
	creds   *service.CredentialStore
	members *service.MembershipService
	boards  *service.BoardService
	columns *service.ColumnService
	cards   *service.CardService
	chat    *service.ChatService
	rec     *recorder
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWith(t, auth.NewPrefixCodec(auth.DefaultPrefix), nil)
}

// newFixtureWith builds the services over a fresh database. A nil notifier
// means events are recorded.
func newFixtureWith(t *testing.T, codec auth.TokenCodec, notify service.Notifier) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	rec := &recorder{}
	if notify == nil {
		notify = rec
	}

	userRepo := repository.NewUserRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	memberRepo := repository.NewMembershipRepository(db)
	columnRepo := repository.NewColumnRepository(db)
	cardRepo := repository.NewCardRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	creds := service.NewCredentialStore(userRepo, codec, logging.Discard())
	members := service.NewMembershipService(boardRepo, memberRepo, creds, notify)
	return &fixture{
		db:      db,
		creds:   creds,
		members: members,
		boards:  service.NewBoardService(boardRepo, members, notify),
		columns: service.NewColumnService(columnRepo, cardRepo, members, notify),
		cards:   service.NewCardService(cardRepo, columnRepo, members, notify),
		chat:    service.NewChatService(messageRepo, members, notify),
		rec:     rec,
	}
}

func (f *fixture) user(t *testing.T, email string) *model.User {
	t.Helper()
	u, err := f.creds.Register(context.Background(), email, email, testPassword)
	require.NoError(t, err)
	return u
}

func (f *fixture) board(t *testing.T, owner *model.User, title string) *model.Board {
	t.Helper()
	b, err := f.boards.Create(context.Background(), owner.ID, title, "")
	require.NoError(t, err)
	return b
}

func (f *fixture) invite(t *testing.T, owner *model.User, board *model.Board, u *model.User, role model.Role) *model.Membership {
	t.Helper()
	m, err := f.members.Invite(context.Background(), owner.ID, board.ID, service.InviteTarget{UserID: u.ID}, role)
	require.NoError(t, err)
	return m
}

func (f *fixture) column(t *testing.T, actor *model.User, board *model.Board, title string, pos *int) *model.Column {
	t.Helper()
	c, err := f.columns.Create(context.Background(), actor.ID, board.ID, service.ColumnInput{Title: title, Position: pos})
	require.NoError(t, err)
	return c
}

func ptr[T any](v T) *T {
	return &v
}

var unknownID = uuid.MustParse("00000000-0000-4000-8000-000000000001")
