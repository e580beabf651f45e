package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "habitgrid/internal/errors"
	"habitgrid/internal/model"
)

// MockHabitRepository is a mock implementation of HabitRepository.
type MockHabitRepository struct {
	mock.Mock
}

func (m *MockHabitRepository) Create(ctx context.Context, habit *model.Habit) error {
	args := m.Called(ctx, habit)
	return args.Error(0)
}

func (m *MockHabitRepository) Save(ctx context.Context, habit *model.Habit) error {
	args := m.Called(ctx, habit)
	return args.Error(0)
}

func (m *MockHabitRepository) FindOwned(ctx context.Context, id, userID uuid.UUID) (*model.Habit, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Habit), args.Error(1)
}

func (m *MockHabitRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Habit, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Habit), args.Error(1)
}

func (m *MockHabitRepository) DeleteWithRecords(ctx context.Context, habit *model.Habit) error {
	args := m.Called(ctx, habit)
	return args.Error(0)
}

func TestHabitService_Create(t *testing.T) {
	userID := uuid.New()

	mockRepo := new(MockHabitRepository)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Habit")).Return(nil)

	svc := NewHabitService(mockRepo, nil)
	habit, err := svc.Create(context.Background(), userID, "Read", "#2196F3")

	assert.NoError(t, err)
	assert.Equal(t, "Read", habit.Name)
	assert.Equal(t, "#2196F3", habit.Color)
	assert.Equal(t, userID, habit.UserID)
	mockRepo.AssertExpectations(t)
}

func TestHabitService_List(t *testing.T) {
	userID := uuid.New()
	habits := []model.Habit{
		{ID: uuid.New(), UserID: userID, Name: "Exercise", Color: "#FF5722"},
		{ID: uuid.New(), UserID: userID, Name: "Read", Color: "#2196F3"},
	}

	mockRepo := new(MockHabitRepository)
	mockRepo.On("ListByUser", mock.Anything, userID).Return(habits, nil)

	svc := NewHabitService(mockRepo, nil)
	got, err := svc.List(context.Background(), userID)

	assert.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, habits, got)
	mockRepo.AssertExpectations(t)
}

func TestHabitService_Update(t *testing.T) {
	userID := uuid.New()
	habitID := uuid.New()

	t.Run("updates allow-listed fields only", func(t *testing.T) {
		habit := &model.Habit{ID: habitID, UserID: userID, Name: "Read", Color: "#2196F3"}

		mockRepo := new(MockHabitRepository)
		mockRepo.On("FindOwned", mock.Anything, habitID, userID).Return(habit, nil)
		mockRepo.On("Save", mock.Anything, habit).Return(nil)

		newName := "Read More"
		svc := NewHabitService(mockRepo, nil)
		updated, err := svc.Update(context.Background(), userID, habitID, HabitUpdate{Name: &newName})

		assert.NoError(t, err)
		assert.Equal(t, "Read More", updated.Name)
		assert.Equal(t, "#2196F3", updated.Color) // untouched
		mockRepo.AssertExpectations(t)
	})

	t.Run("wrong owner looks like not found", func(t *testing.T) {
		otherUser := uuid.New()

		mockRepo := new(MockHabitRepository)
		mockRepo.On("FindOwned", mock.Anything, habitID, otherUser).Return(nil, gorm.ErrRecordNotFound)

		newName := "Hijacked"
		svc := NewHabitService(mockRepo, nil)
		_, err := svc.Update(context.Background(), otherUser, habitID, HabitUpdate{Name: &newName})

		assert.ErrorIs(t, err, apperrors.ErrHabitNotFound)
		mockRepo.AssertExpectations(t)
	})
}

func TestHabitService_Delete(t *testing.T) {
	userID := uuid.New()
	habitID := uuid.New()

	t.Run("cascades to tracking records", func(t *testing.T) {
		habit := &model.Habit{ID: habitID, UserID: userID, Name: "Read"}

		mockRepo := new(MockHabitRepository)
		mockRepo.On("FindOwned", mock.Anything, habitID, userID).Return(habit, nil)
		mockRepo.On("DeleteWithRecords", mock.Anything, habit).Return(nil)

		svc := NewHabitService(mockRepo, nil)
		err := svc.Delete(context.Background(), userID, habitID)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		mockRepo := new(MockHabitRepository)
		mockRepo.On("FindOwned", mock.Anything, habitID, userID).Return(nil, gorm.ErrRecordNotFound)

		svc := NewHabitService(mockRepo, nil)
		err := svc.Delete(context.Background(), userID, habitID)

		assert.ErrorIs(t, err, apperrors.ErrHabitNotFound)
		mockRepo.AssertExpectations(t)
	})
}
