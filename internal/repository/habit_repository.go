package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"habitgrid/internal/model"
)

// HabitRepository defines habit persistence operations. Every lookup is
// scoped by owner so a wrong-owner id behaves exactly like an unknown id.
type HabitRepository interface {
	Create(ctx context.Context, habit *model.Habit) error
	Save(ctx context.Context, habit *model.Habit) error
	FindOwned(ctx context.Context, id, userID uuid.UUID) (*model.Habit, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Habit, error)
	DeleteWithRecords(ctx context.Context, habit *model.Habit) error
}

type habitRepository struct {
	db *gorm.DB
}

// NewHabitRepository creates a new habit repository.
func NewHabitRepository(db *gorm.DB) HabitRepository {
	return &habitRepository{db: db}
}

// Create creates a new habit.
func (r *habitRepository) Create(ctx context.Context, habit *model.Habit) error {
	return r.db.WithContext(ctx).Create(habit).Error
}

// Save persists changes to an existing habit.
func (r *habitRepository) Save(ctx context.Context, habit *model.Habit) error {
	return r.db.WithContext(ctx).Save(habit).Error
}

// FindOwned finds a habit by ID restricted to the given owner.
func (r *habitRepository) FindOwned(ctx context.Context, id, userID uuid.UUID) (*model.Habit, error) {
	var habit model.Habit
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&habit).Error; err != nil {
		return nil, err
	}
	return &habit, nil
}

// ListByUser lists all habits owned by a user, newest first.
func (r *habitRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Habit, error) {
	var habits []model.Habit
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&habits).Error; err != nil {
		return nil, err
	}
	return habits, nil
}

// DeleteWithRecords removes a habit together with all of its tracking
// records in one transaction, so a failure partway leaves no orphans.
func (r *habitRepository) DeleteWithRecords(ctx context.Context, habit *model.Habit) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("habit_id = ?", habit.ID).Delete(&model.HabitRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(habit).Error
	})
}
