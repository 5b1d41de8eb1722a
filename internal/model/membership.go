package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the closed set of board roles.
type Role string

const (
	RoleOwner  Role = "owner"  // created together with the board
	RoleEditor Role = "editor" // may change columns and cards
	RoleViewer Role = "viewer" // read only
)

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleOwner, RoleEditor, RoleViewer:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Capability is an action class checked against a role.
type Capability int

const (
	CapRead Capability = iota
	CapWriteContent
	CapManageMembers
)

func (c Capability) String() string {
	switch c {
	case CapRead:
		return "read"
	case CapWriteContent:
		return "write-content"
	case CapManageMembers:
		return "manage-members"
	}
	return fmt.Sprintf("capability(%d)", int(c))
}

// Can reports whether the role grants the capability.
func (r Role) Can(c Capability) bool {
	switch r {
	case RoleOwner:
		return true
	case RoleEditor:
		return c == CapRead || c == CapWriteContent
	case RoleViewer:
		return c == CapRead
	}
	return false
}

type Membership struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	BoardID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_membership_board_user"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_membership_board_user;index"`
	Role      Role      `gorm:"size:10;not null"`
	InvitedAt time.Time `gorm:"autoCreateTime"`

	User User `gorm:"foreignKey:UserID"`
}

func (m *Membership) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.Must(uuid.NewV7())
	}
	return nil
}
