package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"habit-tracker/date"
)

var today = date.Key{Year: 2026, Month: time.October, Day: 19}

func TestNewHabit(t *testing.T) {
	h := NewHabit("Run", "Fitness")

	assert.Equal(t, "Run", h.Name)
	assert.Equal(t, "Fitness", h.Category)
	assert.Equal(t, 0, h.Streak())
	assert.Empty(t, h.Completions())
}

func TestToggle(t *testing.T) {
	h := NewHabit("Read", "Learning")

	assert.True(t, h.Toggle(today, today))
	assert.True(t, h.CompletedOn(today))
	assert.Equal(t, 1, h.Streak())

	assert.True(t, h.Toggle(today.AddDays(-1), today))
	assert.Equal(t, 2, h.Streak())

	assert.False(t, h.Toggle(today, today))
	assert.False(t, h.CompletedOn(today))
	assert.Equal(t, 0, h.Streak())
	assert.Equal(t, []date.Key{today.AddDays(-1)}, h.Completions())
}

func TestToggleAnchorsAtToday(t *testing.T) {
	h := NewHabit("Read", "Learning")
	past := today.AddDays(-10)

	// 切换过去的日期不会把连续天数锚定到该日期
	h.Toggle(past, today)
	assert.True(t, h.CompletedOn(past))
	assert.Equal(t, 0, h.Streak())
}

func TestToggleZeroValueHabit(t *testing.T) {
	h := &Habit{Name: "Walk", Category: "Health"}

	assert.True(t, h.Toggle(today, today))
	assert.Equal(t, 1, h.Streak())
}

func TestRestoreHabit(t *testing.T) {
	src := date.NewSet(today, today.AddDays(-1), today.AddDays(-5), today.AddDays(-6), today.AddDays(-7))
	h := RestoreHabit("Meditate", "Mind", src, today)

	assert.Equal(t, 2, h.Streak())
	assert.Equal(t, 3, h.LongestStreak())
	assert.Equal(t, 5, h.CompletionCount())

	// 重建后的记录与源集合互不影响
	src.Remove(today)
	assert.True(t, h.CompletedOn(today))
}
