package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"habitgrid/internal/model"
)

// HabitRecordRepository defines tracking record persistence operations.
type HabitRecordRepository interface {
	UpsertIncrement(ctx context.Context, habitID uuid.UUID, date time.Time) (*model.HabitRecord, error)
	FindByHabitAndRange(ctx context.Context, habitID uuid.UUID, start, end time.Time) ([]model.HabitRecord, error)
	FindByHabit(ctx context.Context, habitID uuid.UUID) ([]model.HabitRecord, error)
}

type habitRecordRepository struct {
	db *gorm.DB
}

// NewHabitRecordRepository creates a new habit record repository.
func NewHabitRecordRepository(db *gorm.DB) HabitRecordRepository {
	return &habitRecordRepository{db: db}
}

// UpsertIncrement inserts a record with count 1 for (habitID, date), or
// atomically increments the existing one. The unique (habit_id, date) index
// turns the insert into ON DUPLICATE KEY UPDATE count = count + 1, closing
// the concurrent same-day race without a read-then-write in app code.
func (r *habitRecordRepository) UpsertIncrement(ctx context.Context, habitID uuid.UUID, date time.Time) (*model.HabitRecord, error) {
	record := &model.HabitRecord{
		HabitID: habitID,
		Date:    date,
		Count:   1,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "habit_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"count": gorm.Expr("count + 1"),
		}),
	}).Create(record).Error
	if err != nil {
		return nil, err
	}

	// Read back: on the update path the incremented count lives in the
	// pre-existing row, not in the struct we just passed to Create.
	var current model.HabitRecord
	if err := r.db.WithContext(ctx).
		Where("habit_id = ? AND date = ?", habitID, date).
		First(&current).Error; err != nil {
		return nil, err
	}
	return &current, nil
}

// FindByHabitAndRange returns a habit's records inside [start, end] inclusive, date ascending.
func (r *habitRecordRepository) FindByHabitAndRange(ctx context.Context, habitID uuid.UUID, start, end time.Time) ([]model.HabitRecord, error) {
	var records []model.HabitRecord
	if err := r.db.WithContext(ctx).
		Where("habit_id = ? AND date >= ? AND date <= ?", habitID, start, end).
		Order("date ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindByHabit returns all of a habit's records, date ascending.
func (r *habitRecordRepository) FindByHabit(ctx context.Context, habitID uuid.UUID) ([]model.HabitRecord, error) {
	var records []model.HabitRecord
	if err := r.db.WithContext(ctx).
		Where("habit_id = ?", habitID).
		Order("date ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
