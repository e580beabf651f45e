package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"habitgrid/internal/cache"
	apperrors "habitgrid/internal/errors"
	"habitgrid/internal/model"
	"habitgrid/internal/repository"
)

const yearViewCacheTTL = time.Minute

// trackDateLayouts are accepted by the track endpoint. Whatever the layout,
// the parsed value is collapsed to UTC midnight before it touches storage.
var trackDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// DayRecord is one tracked day as exposed to clients.
type DayRecord struct {
	Date           string `json:"date"`
	Count          int    `json:"count"`
	IntensityLevel int    `json:"intensity_level"`
}

// YearView is a habit's sparse record list for one calendar year. Days with
// no record are absent; the client fills the grid with zero-intensity cells.
type YearView struct {
	Habit   HabitSummary `json:"habit"`
	Year    int          `json:"year"`
	Records []DayRecord  `json:"records"`
}

// HabitSummary is the habit header attached to year and stats views.
type HabitSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
}

// HabitStats aggregates a habit's tracking history. Everything here is
// derived from records on each read; nothing is stored.
type HabitStats struct {
	Habit          HabitSummary `json:"habit"`
	Year           int          `json:"year"`
	TotalDays      int          `json:"total_days"`
	TotalCount     int          `json:"total_count"`
	CurrentStreak  int          `json:"current_streak"`
	LongestStreak  int          `json:"longest_streak"`
	CompletionRate string       `json:"completion_rate"`
}

// TrackingService records daily completions and serves year views.
type TrackingService interface {
	Track(ctx context.Context, userID, habitID uuid.UUID, rawDate string) (*DayRecord, error)
	GetYear(ctx context.Context, userID, habitID uuid.UUID, year int) (*YearView, error)
	GetStats(ctx context.Context, userID, habitID uuid.UUID, year int) (*HabitStats, error)
}

type trackingService struct {
	habitRepo  repository.HabitRepository
	recordRepo repository.HabitRecordRepository
	cache      *cache.Client
	now        func() time.Time
}

// NewTrackingService creates a new tracking service.
func NewTrackingService(habitRepo repository.HabitRepository, recordRepo repository.HabitRecordRepository, cache *cache.Client) TrackingService {
	return &trackingService{
		habitRepo:  habitRepo,
		recordRepo: recordRepo,
		cache:      cache,
		now:        time.Now,
	}
}

// ParseTrackDate parses a client-supplied date and normalizes it to UTC
// midnight. Two calls on the same calendar day collide onto the same record
// regardless of the time component submitted.
func ParseTrackDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, apperrors.ErrInvalidDate
	}
	for _, layout := range trackDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return model.NormalizeDate(t), nil
		}
	}
	return time.Time{}, apperrors.ErrInvalidDate
}

func (s *trackingService) yearCacheKey(habitID uuid.UUID, year int) string {
	return fmt.Sprintf("track:%s:%d", habitID.String(), year)
}

// Track records one completion of a habit on the given day. Repeat tracking
// on the same day is a deliberate "did it again" signal and increments the
// day's counter rather than being suppressed.
func (s *trackingService) Track(ctx context.Context, userID, habitID uuid.UUID, rawDate string) (*DayRecord, error) {
	if _, err := s.findOwned(ctx, habitID, userID); err != nil {
		return nil, err
	}

	date, err := ParseTrackDate(rawDate)
	if err != nil {
		return nil, err
	}

	record, err := s.recordRepo.UpsertIncrement(ctx, habitID, date)
	if err != nil {
		return nil, fmt.Errorf("track day: %w", err)
	}

	_ = s.cache.Delete(ctx, s.yearCacheKey(habitID, date.Year()))

	return &DayRecord{
		Date:           record.Date.UTC().Format("2006-01-02"),
		Count:          record.Count,
		IntensityLevel: record.IntensityLevel(),
	}, nil
}

// GetYear returns the habit's records inside the requested calendar year,
// date ascending. Year 0 means the current year.
func (s *trackingService) GetYear(ctx context.Context, userID, habitID uuid.UUID, year int) (*YearView, error) {
	habit, err := s.findOwned(ctx, habitID, userID)
	if err != nil {
		return nil, err
	}

	if year == 0 {
		year = s.now().UTC().Year()
	}
	if year < 1 {
		return nil, apperrors.ErrInvalidYear
	}

	if data, _ := s.cache.Get(ctx, s.yearCacheKey(habitID, year)); data != nil {
		var cached YearView
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	start, end := yearBounds(year)
	records, err := s.recordRepo.FindByHabitAndRange(ctx, habitID, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch year records: %w", err)
	}

	view := &YearView{
		Habit:   summarize(habit),
		Year:    year,
		Records: make([]DayRecord, 0, len(records)),
	}
	for i := range records {
		view.Records = append(view.Records, DayRecord{
			Date:           records[i].Date.UTC().Format("2006-01-02"),
			Count:          records[i].Count,
			IntensityLevel: records[i].IntensityLevel(),
		})
	}

	if data, err := json.Marshal(view); err == nil {
		_ = s.cache.Set(ctx, s.yearCacheKey(habitID, year), data, yearViewCacheTTL)
	}
	return view, nil
}

// GetStats derives streaks and a completion rate for the requested year.
func (s *trackingService) GetStats(ctx context.Context, userID, habitID uuid.UUID, year int) (*HabitStats, error) {
	habit, err := s.findOwned(ctx, habitID, userID)
	if err != nil {
		return nil, err
	}

	today := model.NormalizeDate(s.now())
	if year == 0 {
		year = today.Year()
	}
	if year < 1 {
		return nil, apperrors.ErrInvalidYear
	}

	all, err := s.recordRepo.FindByHabit(ctx, habitID)
	if err != nil {
		return nil, fmt.Errorf("fetch records: %w", err)
	}

	stats := &HabitStats{
		Habit: summarize(habit),
		Year:  year,
	}

	start, end := yearBounds(year)
	for i := range all {
		d := all[i].Date
		if !d.Before(start) && !d.After(end) {
			stats.TotalDays++
			stats.TotalCount += all[i].Count
		}
	}

	stats.CurrentStreak, stats.LongestStreak = streaks(all, today)
	stats.CompletionRate = completionRate(stats.TotalDays, year, today)

	return stats, nil
}

func (s *trackingService) findOwned(ctx context.Context, habitID, userID uuid.UUID) (*model.Habit, error) {
	habit, err := s.habitRepo.FindOwned(ctx, habitID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHabitNotFound
		}
		return nil, fmt.Errorf("find habit: %w", err)
	}
	return habit, nil
}

func summarize(h *model.Habit) HabitSummary {
	return HabitSummary{ID: h.ID, Name: h.Name, Color: h.Color}
}

// yearBounds returns the inclusive UTC range covering one calendar year.
// Building the end from Dec 31 of the same year keeps leap years correct.
func yearBounds(year int) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
	return start, end
}

// streaks walks date-ascending records and returns the current run (ending
// today or yesterday) and the longest run of consecutive tracked days.
func streaks(records []model.HabitRecord, today time.Time) (current, longest int) {
	if len(records) == 0 {
		return 0, 0
	}

	run := 1
	longest = 1
	for i := 1; i < len(records); i++ {
		prev := records[i-1].Date
		if records[i].Date.Sub(prev) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	last := records[len(records)-1].Date
	switch today.Sub(last) {
	case 0, 24 * time.Hour:
		current = run
	default:
		current = 0
	}
	return current, longest
}

// completionRate is tracked days divided by days elapsed in the year, as a
// fixed-point decimal string.
func completionRate(totalDays, year int, today time.Time) string {
	var elapsed int
	switch {
	case year < today.Year():
		elapsed = int(time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC).
			Sub(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)).Hours() / 24)
	case year == today.Year():
		elapsed = today.YearDay()
	default:
		elapsed = 0
	}
	if elapsed == 0 {
		return decimal.Zero.StringFixed(4)
	}
	return decimal.NewFromInt(int64(totalDays)).
		Div(decimal.NewFromInt(int64(elapsed))).
		Round(4).
		StringFixed(4)
}
