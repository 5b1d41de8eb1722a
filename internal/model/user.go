package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultProfilePicture is the reference stored for users that never uploaded one.
const DefaultProfilePicture = "profilepic/default.jpg"

type User struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email            string    `gorm:"uniqueIndex;not null"`
	HashedPassword   string    `gorm:"not null"`
	Name             string    `gorm:"not null"`
	ProfilePicture   string    `gorm:"not null"`
	AboutMe          string
	RegistrationDate time.Time `gorm:"autoCreateTime"`
	LastLogin        *time.Time
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.Must(uuid.NewV7())
	}
	if u.ProfilePicture == "" {
		u.ProfilePicture = DefaultProfilePicture
	}
	return nil
}

// IsPlaceholder reports whether the user was created by an email invite and
// never set a password.
func (u *User) IsPlaceholder() bool {
	return u.HashedPassword == ""
}
