package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "habitgrid/internal/errors"
	"habitgrid/internal/model"
)

// MockHabitRecordRepository is a mock implementation of HabitRecordRepository.
type MockHabitRecordRepository struct {
	mock.Mock
}

func (m *MockHabitRecordRepository) UpsertIncrement(ctx context.Context, habitID uuid.UUID, date time.Time) (*model.HabitRecord, error) {
	args := m.Called(ctx, habitID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.HabitRecord), args.Error(1)
}

func (m *MockHabitRecordRepository) FindByHabitAndRange(ctx context.Context, habitID uuid.UUID, start, end time.Time) ([]model.HabitRecord, error) {
	args := m.Called(ctx, habitID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.HabitRecord), args.Error(1)
}

func (m *MockHabitRecordRepository) FindByHabit(ctx context.Context, habitID uuid.UUID) ([]model.HabitRecord, error) {
	args := m.Called(ctx, habitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.HabitRecord), args.Error(1)
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestParseTrackDate(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    time.Time
		wantErr bool
	}{
		{name: "calendar day", raw: "2024-03-01", want: day(2024, time.March, 1)},
		{name: "timestamped same day", raw: "2024-03-01T15:00:00", want: day(2024, time.March, 1)},
		{name: "rfc3339 utc", raw: "2024-03-01T08:30:00Z", want: day(2024, time.March, 1)},
		{name: "empty", raw: "", wantErr: true},
		{name: "garbage", raw: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTrackDate(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidDate)
				return
			}
			assert.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestTrackingService_Track_SameDayBucketing(t *testing.T) {
	userID := uuid.New()
	habitID := uuid.New()
	habit := &model.Habit{ID: habitID, UserID: userID, Name: "Read", Color: "#2196F3"}
	bucket := day(2024, time.March, 1)

	mockHabits := new(MockHabitRepository)
	mockHabits.On("FindOwned", mock.Anything, habitID, userID).Return(habit, nil)

	mockRecords := new(MockHabitRecordRepository)
	mockRecords.On("UpsertIncrement", mock.Anything, habitID, bucket).
		Return(&model.HabitRecord{HabitID: habitID, Date: bucket, Count: 1}, nil).Once()
	mockRecords.On("UpsertIncrement", mock.Anything, habitID, bucket).
		Return(&model.HabitRecord{HabitID: habitID, Date: bucket, Count: 2}, nil).Once()

	svc := NewTrackingService(mockHabits, mockRecords, nil)

	// Date-only and timestamped inputs on the same calendar day must land
	// in the same bucket.
	first, err := svc.Track(context.Background(), userID, habitID, "2024-03-01")
	assert.NoError(t, err)
	assert.Equal(t, "2024-03-01", first.Date)
	assert.Equal(t, 1, first.Count)
	assert.Equal(t, 1, first.IntensityLevel)

	second, err := svc.Track(context.Background(), userID, habitID, "2024-03-01T15:00:00")
	assert.NoError(t, err)
	assert.Equal(t, "2024-03-01", second.Date)
	assert.Equal(t, 2, second.Count)
	assert.Equal(t, 2, second.IntensityLevel)

	mockRecords.AssertExpectations(t)
}

func TestTrackingService_Track_Errors(t *testing.T) {
	userID := uuid.New()
	habitID := uuid.New()

	t.Run("foreign habit is not found", func(t *testing.T) {
		mockHabits := new(MockHabitRepository)
		mockHabits.On("FindOwned", mock.Anything, habitID, userID).Return(nil, gorm.ErrRecordNotFound)
		mockRecords := new(MockHabitRecordRepository)

		svc := NewTrackingService(mockHabits, mockRecords, nil)
		_, err := svc.Track(context.Background(), userID, habitID, "2024-03-01")

		assert.ErrorIs(t, err, apperrors.ErrHabitNotFound)
		mockRecords.AssertNotCalled(t, "UpsertIncrement", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("bad date", func(t *testing.T) {
		habit := &model.Habit{ID: habitID, UserID: userID, Name: "Read"}
		mockHabits := new(MockHabitRepository)
		mockHabits.On("FindOwned", mock.Anything, habitID, userID).Return(habit, nil)
		mockRecords := new(MockHabitRecordRepository)

		svc := NewTrackingService(mockHabits, mockRecords, nil)
		_, err := svc.Track(context.Background(), userID, habitID, "03/01/2024")

		assert.ErrorIs(t, err, apperrors.ErrInvalidDate)
	})
}

func TestTrackingService_GetYear(t *testing.T) {
	userID := uuid.New()
	habitID := uuid.New()
	habit := &model.Habit{ID: habitID, UserID: userID, Name: "Read", Color: "#2196F3"}

	t.Run("leap year bounds are inclusive", func(t *testing.T) {
		wantStart := day(2024, time.January, 1)
		wantEnd := time.Date(2024, time.December, 31, 23, 59, 59, 0, time.UTC)
		records := []model.HabitRecord{
			{HabitID: habitID, Date: day(2024, time.February, 29), Count: 2},
			{HabitID: habitID, Date: day(2024, time.December, 31), Count: 5},
		}

		mockHabits := new(MockHabitRepository)
		mockHabits.On("FindOwned", mock.Anything, habitID, userID).Return(habit, nil)
		mockRecords := new(MockHabitRecordRepository)
		mockRecords.On("FindByHabitAndRange", mock.Anything, habitID, wantStart, wantEnd).Return(records, nil)

		svc := NewTrackingService(mockHabits, mockRecords, nil)
		view, err := svc.GetYear(context.Background(), userID, habitID, 2024)

		assert.NoError(t, err)
		assert.Equal(t, 2024, view.Year)
		assert.Equal(t, "Read", view.Habit.Name)
		assert.Len(t, view.Records, 2)
		assert.Equal(t, "2024-02-29", view.Records[0].Date)
		assert.Equal(t, 2, view.Records[0].IntensityLevel)
		assert.Equal(t, "2024-12-31", view.Records[1].Date)
		assert.Equal(t, 4, view.Records[1].IntensityLevel)
		mockRecords.AssertExpectations(t)
	})

	t.Run("defaults to the current year", func(t *testing.T) {
		mockHabits := new(MockHabitRepository)
		mockHabits.On("FindOwned", mock.Anything, habitID, userID).Return(habit, nil)
		mockRecords := new(MockHabitRecordRepository)
		mockRecords.On("FindByHabitAndRange", mock.Anything, habitID, day(2023, time.January, 1),
			time.Date(2023, time.December, 31, 23, 59, 59, 0, time.UTC)).Return([]model.HabitRecord{}, nil)

		svc := NewTrackingService(mockHabits, mockRecords, nil).(*trackingService)
		svc.now = func() time.Time { return time.Date(2023, time.June, 15, 12, 0, 0, 0, time.UTC) }

		view, err := svc.GetYear(context.Background(), userID, habitID, 0)

		assert.NoError(t, err)
		assert.Equal(t, 2023, view.Year)
		assert.Empty(t, view.Records)
		mockRecords.AssertExpectations(t)
	})

	t.Run("foreign habit is not found", func(t *testing.T) {
		mockHabits := new(MockHabitRepository)
		mockHabits.On("FindOwned", mock.Anything, habitID, userID).Return(nil, gorm.ErrRecordNotFound)
		mockRecords := new(MockHabitRecordRepository)

		svc := NewTrackingService(mockHabits, mockRecords, nil)
		_, err := svc.GetYear(context.Background(), userID, habitID, 2024)

		assert.ErrorIs(t, err, apperrors.ErrHabitNotFound)
	})
}

func TestTrackingService_GetStats(t *testing.T) {
	userID := uuid.New()
	habitID := uuid.New()
	habit := &model.Habit{ID: habitID, UserID: userID, Name: "Read", Color: "#2196F3"}

	records := []model.HabitRecord{
		{HabitID: habitID, Date: day(2024, time.January, 1), Count: 1},
		{HabitID: habitID, Date: day(2024, time.January, 2), Count: 2},
		{HabitID: habitID, Date: day(2024, time.January, 3), Count: 1},
		{HabitID: habitID, Date: day(2024, time.January, 4), Count: 1},
		{HabitID: habitID, Date: day(2024, time.January, 5), Count: 3},
		{HabitID: habitID, Date: day(2024, time.March, 7), Count: 1},
		{HabitID: habitID, Date: day(2024, time.March, 8), Count: 1},
		{HabitID: habitID, Date: day(2024, time.March, 9), Count: 2},
	}

	mockHabits := new(MockHabitRepository)
	mockHabits.On("FindOwned", mock.Anything, habitID, userID).Return(habit, nil)
	mockRecords := new(MockHabitRecordRepository)
	mockRecords.On("FindByHabit", mock.Anything, habitID).Return(records, nil)

	svc := NewTrackingService(mockHabits, mockRecords, nil).(*trackingService)
	svc.now = func() time.Time { return time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC) }

	stats, err := svc.GetStats(context.Background(), userID, habitID, 2024)

	assert.NoError(t, err)
	assert.Equal(t, 8, stats.TotalDays)
	assert.Equal(t, 12, stats.TotalCount)
	assert.Equal(t, 3, stats.CurrentStreak) // Mar 7-9, still alive on Mar 10
	assert.Equal(t, 5, stats.LongestStreak) // Jan 1-5
	// 8 tracked days over the 70 elapsed days of 2024 by Mar 10.
	assert.Equal(t, "0.1143", stats.CompletionRate)
}

func TestStreaks(t *testing.T) {
	today := day(2024, time.March, 10)

	t.Run("no records", func(t *testing.T) {
		current, longest := streaks(nil, today)
		assert.Equal(t, 0, current)
		assert.Equal(t, 0, longest)
	})

	t.Run("streak broken two days ago", func(t *testing.T) {
		records := []model.HabitRecord{
			{Date: day(2024, time.March, 6), Count: 1},
			{Date: day(2024, time.March, 7), Count: 1},
			{Date: day(2024, time.March, 8), Count: 1},
		}
		current, longest := streaks(records, today)
		assert.Equal(t, 0, current)
		assert.Equal(t, 3, longest)
	})

	t.Run("tracked today counts", func(t *testing.T) {
		records := []model.HabitRecord{
			{Date: day(2024, time.March, 9), Count: 1},
			{Date: day(2024, time.March, 10), Count: 1},
		}
		current, longest := streaks(records, today)
		assert.Equal(t, 2, current)
		assert.Equal(t, 2, longest)
	})
}
