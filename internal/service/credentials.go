package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"cardtrack/internal/auth"
	"cardtrack/internal/model"
	"cardtrack/internal/repository"

	"github.com/google/uuid"
)

type CredentialStore struct {
	users  *repository.UserRepository
	tokens auth.TokenCodec
	logger *slog.Logger
}

func NewCredentialStore(users *repository.UserRepository, tokens auth.TokenCodec, logger *slog.Logger) *CredentialStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &CredentialStore{users: users, tokens: tokens, logger: logger}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	local, domain, ok := strings.Cut(email, "@")
	return ok && local != "" && domain != "" && !strings.ContainsAny(email, " \t")
}

func (s *CredentialStore) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	switch {
	case name == "":
		return nil, invalid("name", "must not be blank")
	case !validEmail(email):
		return nil, invalid("email", "must be a valid email address")
	case password == "":
		return nil, invalid("password", "must not be empty")
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Email:          email,
		Name:           name,
		HashedPassword: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return user, nil
}

// Login checks the password, records the login time and mints a token.
func (s *CredentialStore) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, ErrNotFound
	}
	if user.IsPlaceholder() || !auth.CheckPassword(user.HashedPassword, password) {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		return "", nil, err
	}
	user.LastLogin = &now

	token, err := s.tokens.Issue(auth.Identity{UserID: user.ID, Email: user.Email})
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Authenticate resolves a token to its user. It never fails: absent,
// malformed and orphaned tokens all yield nil.
func (s *CredentialStore) Authenticate(ctx context.Context, token string) *model.User {
	if token == "" {
		return nil
	}
	id, err := s.tokens.Parse(token)
	if err != nil {
		return nil
	}

	var user *model.User
	if id.UserID != uuid.Nil {
		user, err = s.users.GetByID(ctx, id.UserID)
	} else {
		user, err = s.users.FindByEmail(ctx, id.Email)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "token lookup failed", "error", err)
		return nil
	}
	return user
}

func (s *CredentialStore) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.HashedPassword, current) {
		return ErrInvalidCredentials
	}
	if len(next) < auth.MinPasswordLength {
		return ErrWeakPassword
	}

	hash, err := auth.HashPassword(next)
	if err != nil {
		return err
	}
	user.HashedPassword = hash
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// EnsureUserByEmail returns the user with the email, creating a placeholder
// named after the address' local part when there is none. Safe to call
// concurrently for the same address.
func (s *CredentialStore) EnsureUserByEmail(ctx context.Context, email string) (*model.User, error) {
	email = normalizeEmail(email)
	if !validEmail(email) {
		return nil, invalid("email", "must be a valid email address")
	}
	local, _, _ := strings.Cut(email, "@")
	return s.users.EnsureByEmail(ctx, email, local)
}

func (s *CredentialStore) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// ProfileUpdate holds the optional profile fields; nil leaves a field as is.
type ProfileUpdate struct {
	Name           *string
	AboutMe        *string
	ProfilePicture *string
}

func (s *CredentialStore) UpdateProfile(ctx context.Context, actorID, userID uuid.UUID, upd ProfileUpdate) (*model.User, error) {
	if actorID != userID {
		return nil, ErrForbidden
	}
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, invalid("name", "must not be blank")
		}
		user.Name = name
	}
	if upd.AboutMe != nil {
		user.AboutMe = *upd.AboutMe
	}
	if upd.ProfilePicture != nil {
		pic := strings.TrimSpace(*upd.ProfilePicture)
		if pic == "" {
			pic = model.DefaultProfilePicture
		}
		user.ProfilePicture = pic
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}
