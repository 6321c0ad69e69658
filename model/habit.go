package model

import (
	"habit-tracker/date"
	"habit-tracker/streak"
)

// Habit 表示一个习惯及其按日完成记录
type Habit struct {
	Name     string
	Category string

	completions date.Set
	streak      int // 缓存值，每次变更后按今天重新计算
}

// Stats 某一天的统计信息
type Stats struct {
	Total          int `json:"total"`           // 习惯总数
	CompletedCount int `json:"completed_count"` // 当天已完成数
}

// NewHabit 创建一个新的习惯，完成记录为空，连续天数为 0
func NewHabit(name, category string) *Habit {
	return &Habit{
		Name:        name,
		Category:    category,
		completions: date.NewSet(),
	}
}

// RestoreHabit 用已持久化的完成记录重建习惯，并按 today 重新计算连续天数
func RestoreHabit(name, category string, completions date.Set, today date.Key) *Habit {
	h := NewHabit(name, category)
	for k := range completions {
		h.completions.Add(k)
	}
	h.Recompute(today)
	return h
}

// CompletedOn 该日是否已完成
func (h *Habit) CompletedOn(d date.Key) bool {
	return h.completions.Has(d)
}

// Toggle 切换某日的完成状态，返回切换后的状态。
// 连续天数始终以 today 为锚点重新计算，而不是以被切换的日期。
func (h *Habit) Toggle(d, today date.Key) bool {
	if h.completions == nil {
		h.completions = date.NewSet()
	}

	completed := !h.completions.Has(d)
	if completed {
		h.completions.Add(d)
	} else {
		// 取消完成时删除键，而不是写入 false
		h.completions.Remove(d)
	}

	h.Recompute(today)
	return completed
}

// Recompute 按 today 重新计算缓存的连续天数
func (h *Habit) Recompute(today date.Key) {
	h.streak = streak.Current(h.completions, today)
}

// Streak 当前连续完成天数
func (h *Habit) Streak() int {
	return h.streak
}

// LongestStreak 历史最长连续天数
func (h *Habit) LongestStreak() int {
	return streak.Longest(h.completions)
}

// Completions 返回升序排列的完成日期副本
func (h *Habit) Completions() []date.Key {
	return h.completions.Sorted()
}

// CompletionCount 完成总天数
func (h *Habit) CompletionCount() int {
	return len(h.completions)
}
