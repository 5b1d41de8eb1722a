package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultColumnColor is applied when a column is created without a color.
const DefaultColumnColor = "#007ACF"

// PositionOrder is the ordering clause shared by columns and cards. Duplicate
// positions fall back to insertion order.
const PositionOrder = "position ASC, created_at ASC, id ASC"

type Column struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	BoardID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Title     string    `gorm:"size:100;not null"`
	Position  int       `gorm:"not null"`
	Color     string    `gorm:"size:7;not null"`
	CreatedAt time.Time

	Cards []Card `gorm:"foreignKey:ColumnID"`
}

func (c *Column) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.Must(uuid.NewV7())
	}
	if c.Color == "" {
		c.Color = DefaultColumnColor
	}
	return nil
}
