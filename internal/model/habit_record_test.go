package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIntensityLevel(t *testing.T) {
	tests := []struct {
		count int
		level int
	}{
		{0, 0},
		{1, 1},
		{2, 2},
		{3, 3},
		{4, 4},
		{5, 4},
		{100, 4},
		{-1, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.level, IntensityLevel(tt.count), "count %d", tt.count)
		record := HabitRecord{Count: tt.count}
		assert.Equal(t, tt.level, record.IntensityLevel(), "count %d", tt.count)
	}
}

func TestIntensityLevelMonotone(t *testing.T) {
	prev := IntensityLevel(0)
	for count := 1; count <= 50; count++ {
		level := IntensityLevel(count)
		assert.GreaterOrEqual(t, level, prev, "count %d", count)
		prev = level
	}
}

func TestNormalizeDate(t *testing.T) {
	midnight := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"already midnight utc", midnight, midnight},
		{"afternoon utc", time.Date(2024, time.March, 1, 15, 42, 7, 123, time.UTC), midnight},
		{
			"non-utc zone normalizes in utc frame",
			time.Date(2024, time.March, 1, 23, 30, 0, 0, time.FixedZone("UTC-5", -5*3600)),
			time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDate(tt.in)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}
