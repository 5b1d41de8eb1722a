package service

import (
	"context"
	"errors"
	"sort"

	"cardtrack/internal/broadcast"
	"cardtrack/internal/model"
	"cardtrack/internal/repository"

	"github.com/google/uuid"
)

// MembershipService decides who may do what on a board and manages the
// membership rows behind that decision.
type MembershipService struct {
	boards  *repository.BoardRepository
	members *repository.MembershipRepository
	creds   *CredentialStore
	notify  Notifier
}

func NewMembershipService(
	boards *repository.BoardRepository,
	members *repository.MembershipRepository,
	creds *CredentialStore,
	notify Notifier,
) *MembershipService {
	return &MembershipService{
		boards:  boards,
		members: members,
		creds:   creds,
		notify:  notifierOrNop(notify),
	}
}

// RoleOf returns the user's role on the board and whether they have one.
// Owning the board row counts even without a membership row.
func (s *MembershipService) RoleOf(ctx context.Context, boardID, userID uuid.UUID) (model.Role, bool, error) {
	_, role, err := s.resolve(ctx, boardID, userID)
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return role, true, nil
}

func (s *MembershipService) resolve(ctx context.Context, boardID, userID uuid.UUID) (*model.Board, model.Role, error) {
	board, err := s.boards.GetByID(ctx, boardID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}
	if board.OwnerID == userID {
		return board, model.RoleOwner, nil
	}

	m, err := s.members.Get(ctx, boardID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}
	return board, m.Role, nil
}

func (s *MembershipService) Authorize(ctx context.Context, boardID, userID uuid.UUID, c model.Capability) (bool, error) {
	role, ok, err := s.RoleOf(ctx, boardID, userID)
	if err != nil || !ok {
		return false, err
	}
	return role.Can(c), nil
}

// Require loads the board for a user holding the capability. Non-members get
// ErrNotFound so the board's existence stays hidden; members lacking the
// capability get ErrForbidden.
func (s *MembershipService) Require(ctx context.Context, boardID, userID uuid.UUID, c model.Capability) (*model.Board, model.Role, error) {
	board, role, err := s.resolve(ctx, boardID, userID)
	if err != nil {
		return nil, "", err
	}
	if !role.Can(c) {
		return nil, role, ErrForbidden
	}
	return board, role, nil
}

// InviteTarget names the invitee by id or, failing that, by email.
type InviteTarget struct {
	UserID uuid.UUID
	Email  string
}

func assignable(role model.Role) error {
	switch role {
	case model.RoleEditor, model.RoleViewer:
		return nil
	case model.RoleOwner:
		return ErrForbiddenRoleAssignment
	}
	return invalid("role", "must be editor or viewer")
}

// Invite grants the target a role on the board, replacing the role of an
// existing membership. Inviting by an unknown email creates a placeholder user.
func (s *MembershipService) Invite(ctx context.Context, actorID, boardID uuid.UUID, target InviteTarget, role model.Role) (*model.Membership, error) {
	board, _, err := s.Require(ctx, boardID, actorID, model.CapManageMembers)
	if err != nil {
		return nil, err
	}
	if err := assignable(role); err != nil {
		return nil, err
	}

	var user *model.User
	switch {
	case target.UserID != uuid.Nil:
		user, err = s.creds.GetUser(ctx, target.UserID)
	case target.Email != "":
		user, err = s.creds.EnsureUserByEmail(ctx, target.Email)
	default:
		return nil, invalid("user", "user_id or email is required")
	}
	if err != nil {
		return nil, err
	}
	if user.ID == board.OwnerID {
		return nil, ErrForbiddenRoleAssignment
	}

	_, err = s.members.Get(ctx, boardID, user.ID)
	existed := err == nil
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	m := &model.Membership{BoardID: boardID, UserID: user.ID, Role: role}
	if err := s.members.Upsert(ctx, m); err != nil {
		return nil, err
	}
	m.User = *user

	if existed {
		s.notify.Notify(ctx, broadcast.MemberUpdated(m))
	} else {
		s.notify.Notify(ctx, broadcast.MemberAdded(m))
	}
	return m, nil
}

func (s *MembershipService) target(ctx context.Context, board *model.Board, membershipID uuid.UUID) (*model.Membership, error) {
	m, err := s.members.GetInBoard(ctx, board.ID, membershipID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if m.UserID == board.OwnerID {
		m.Role = model.RoleOwner
	}
	return m, nil
}

// ChangeRole lets the owner move any non-owner member between editor and
// viewer. An editor may only promote a viewer to editor.
func (s *MembershipService) ChangeRole(ctx context.Context, actorID, boardID, membershipID uuid.UUID, role model.Role) (*model.Membership, error) {
	board, actorRole, err := s.Require(ctx, boardID, actorID, model.CapRead)
	if err != nil {
		return nil, err
	}
	m, err := s.target(ctx, board, membershipID)
	if err != nil {
		return nil, err
	}
	if m.Role == model.RoleOwner {
		return nil, ErrForbiddenRoleAssignment
	}
	if err := assignable(role); err != nil {
		return nil, err
	}

	switch actorRole {
	case model.RoleOwner:
	case model.RoleEditor:
		if m.Role != model.RoleViewer || role != model.RoleEditor {
			return nil, ErrForbidden
		}
	case model.RoleViewer:
		return nil, ErrForbidden
	}

	if m.Role == role {
		return m, nil
	}
	if err := s.members.UpdateRole(ctx, m.ID, role); err != nil {
		return nil, err
	}
	m.Role = role
	s.notify.Notify(ctx, broadcast.MemberUpdated(m))
	return m, nil
}

// Remove deletes a membership. Members may remove themselves; only the owner
// may remove others; the owner's own membership is never removable.
func (s *MembershipService) Remove(ctx context.Context, actorID, boardID, membershipID uuid.UUID) error {
	board, actorRole, err := s.Require(ctx, boardID, actorID, model.CapRead)
	if err != nil {
		return err
	}
	m, err := s.target(ctx, board, membershipID)
	if err != nil {
		return err
	}
	if m.Role == model.RoleOwner {
		return ErrForbidden
	}
	if m.UserID != actorID && !actorRole.Can(model.CapManageMembers) {
		return ErrForbidden
	}
	return s.delete(ctx, m)
}

// Leave removes the actor's own membership.
func (s *MembershipService) Leave(ctx context.Context, actorID, boardID uuid.UUID) error {
	_, role, err := s.Require(ctx, boardID, actorID, model.CapRead)
	if err != nil {
		return err
	}
	if role == model.RoleOwner {
		return ErrForbidden
	}
	m, err := s.members.Get(ctx, boardID, actorID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return s.delete(ctx, m)
}

func (s *MembershipService) delete(ctx context.Context, m *model.Membership) error {
	if err := s.members.Delete(ctx, m.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.notify.Notify(ctx, broadcast.MemberRemoved(m))
	return nil
}

// ListMembers returns the owner first, then everyone else by invite time.
func (s *MembershipService) ListMembers(ctx context.Context, actorID, boardID uuid.UUID) ([]model.Membership, error) {
	board, _, err := s.Require(ctx, boardID, actorID, model.CapRead)
	if err != nil {
		return nil, err
	}
	members, err := s.members.ListByBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].UserID == board.OwnerID && members[j].UserID != board.OwnerID
	})
	return members, nil
}
