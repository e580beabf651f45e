package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HabitRecord holds one day's completion counter for one habit. Date is
// stored at UTC midnight; the unique (habit_id, date) index backs the
// insert-or-increment upsert performed by the tracking engine.
type HabitRecord struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	HabitID   uuid.UUID `json:"habit_id" gorm:"type:char(36);not null;uniqueIndex:idx_records_habit_date,priority:1"`
	Date      time.Time `json:"date" gorm:"not null;uniqueIndex:idx_records_habit_date,priority:2"`
	Count     int       `json:"count" gorm:"not null;default:1"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Habit Habit `json:"-" gorm:"foreignKey:HabitID"`
}

// BeforeCreate sets UUID before creating the record.
func (r *HabitRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// IntensityLevel buckets the day's counter into 0..4 for heat-grid shading.
// It is derived on every read and never persisted, so threshold changes
// reclassify history retroactively.
func (r *HabitRecord) IntensityLevel() int {
	return IntensityLevel(r.Count)
}

// IntensityLevel maps a completion counter to its 0..4 intensity bucket.
func IntensityLevel(count int) int {
	switch {
	case count <= 0:
		return 0
	case count >= 4:
		return 4
	default:
		return count
	}
}

// NormalizeDate truncates t to UTC midnight. Both the track write path and
// the year read path normalize through this single function so same-day
// inputs always collide onto the same record.
func NormalizeDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
