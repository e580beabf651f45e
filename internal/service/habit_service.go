package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"habitgrid/internal/cache"
	apperrors "habitgrid/internal/errors"
	"habitgrid/internal/model"
	"habitgrid/internal/repository"
)

const habitListCacheTTL = 5 * time.Minute

// HabitUpdate carries the allow-listed mutable habit fields. Nil means
// "leave unchanged"; anything else in an update payload is ignored.
type HabitUpdate struct {
	Name  *string
	Color *string
}

// HabitService handles habit CRUD scoped to the owning user.
type HabitService interface {
	Create(ctx context.Context, userID uuid.UUID, name, color string) (*model.Habit, error)
	List(ctx context.Context, userID uuid.UUID) ([]model.Habit, error)
	Update(ctx context.Context, userID, habitID uuid.UUID, update HabitUpdate) (*model.Habit, error)
	Delete(ctx context.Context, userID, habitID uuid.UUID) error
}

type habitService struct {
	habitRepo repository.HabitRepository
	cache     *cache.Client
}

// NewHabitService creates a new habit service.
func NewHabitService(habitRepo repository.HabitRepository, cache *cache.Client) HabitService {
	return &habitService{
		habitRepo: habitRepo,
		cache:     cache,
	}
}

func (s *habitService) listCacheKey(userID uuid.UUID) string {
	return fmt.Sprintf("habits:%s", userID.String())
}

// Create creates a habit owned by the given user.
func (s *habitService) Create(ctx context.Context, userID uuid.UUID, name, color string) (*model.Habit, error) {
	habit := &model.Habit{
		UserID: userID,
		Name:   name,
		Color:  color,
	}
	if err := s.habitRepo.Create(ctx, habit); err != nil {
		return nil, fmt.Errorf("create habit: %w", err)
	}

	_ = s.cache.Delete(ctx, s.listCacheKey(userID))
	return habit, nil
}

// List returns the user's habits newest-first, served from cache when fresh.
func (s *habitService) List(ctx context.Context, userID uuid.UUID) ([]model.Habit, error) {
	if data, _ := s.cache.Get(ctx, s.listCacheKey(userID)); data != nil {
		var cached []model.Habit
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	habits, err := s.habitRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}

	if data, err := json.Marshal(habits); err == nil {
		_ = s.cache.Set(ctx, s.listCacheKey(userID), data, habitListCacheTTL)
	}
	return habits, nil
}

// Update mutates a habit's allow-listed fields after an ownership check.
func (s *habitService) Update(ctx context.Context, userID, habitID uuid.UUID, update HabitUpdate) (*model.Habit, error) {
	habit, err := s.findOwned(ctx, habitID, userID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		habit.Name = *update.Name
	}
	if update.Color != nil {
		habit.Color = *update.Color
	}

	if err := s.habitRepo.Save(ctx, habit); err != nil {
		return nil, fmt.Errorf("update habit: %w", err)
	}

	_ = s.cache.Delete(ctx, s.listCacheKey(userID))
	return habit, nil
}

// Delete removes a habit and cascades to its tracking records.
func (s *habitService) Delete(ctx context.Context, userID, habitID uuid.UUID) error {
	habit, err := s.findOwned(ctx, habitID, userID)
	if err != nil {
		return err
	}

	if err := s.habitRepo.DeleteWithRecords(ctx, habit); err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}

	_ = s.cache.Delete(ctx, s.listCacheKey(userID))
	return nil
}

func (s *habitService) findOwned(ctx context.Context, habitID, userID uuid.UUID) (*model.Habit, error) {
	habit, err := s.habitRepo.FindOwned(ctx, habitID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHabitNotFound
		}
		return nil, fmt.Errorf("find habit: %w", err)
	}
	return habit, nil
}
