package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func ParsePriority(s string) (Priority, error) {
	switch p := Priority(s); p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	}
	return "", fmt.Errorf("unknown priority %q", s)
}

type Card struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ColumnID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	Title       string     `gorm:"size:100;not null"`
	Description string
	Position    int        `gorm:"not null"`
	DueDate     *time.Time `gorm:"type:date"`
	IsCompleted bool       `gorm:"not null"`
	Priority    Priority   `gorm:"size:10;not null"`
	CreatedAt   time.Time
}

func (c *Card) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.Must(uuid.NewV7())
	}
	if c.Priority == "" {
		c.Priority = PriorityMedium
	}
	return nil
}
