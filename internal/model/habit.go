package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultHabitColor is assigned when a habit is created without a color.
const DefaultHabitColor = "#4CAF50"

// Habit represents a user-defined recurring activity being tracked.
type Habit struct {
	ID        uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID      `json:"user_id" gorm:"type:char(36);not null;index:idx_habits_user_created,priority:1"`
	Name      string         `json:"name" gorm:"size:255;not null"`
	Color     string         `json:"color" gorm:"size:7;not null;default:'#4CAF50'"`
	CreatedAt time.Time      `json:"created_at" gorm:"index:idx_habits_user_created,priority:2,sort:desc"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	User    User          `json:"-" gorm:"foreignKey:UserID"`
	Records []HabitRecord `json:"-" gorm:"foreignKey:HabitID"`
}

// BeforeCreate sets UUID and default color before creating the record.
func (h *Habit) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	if h.Color == "" {
		h.Color = DefaultHabitColor
	}
	return nil
}
