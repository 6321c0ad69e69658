// Package store 持有习惯集合，负责所有变更操作，并保证每次变更后连续天数不过期。
//
// Store 不是并发安全的：调用方需要保证同一时刻只有一个操作在执行。
package store

import (
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"go.uber.org/zap"

	"habit-tracker/date"
	"habit-tracker/model"
)

var (
	ErrInvalidHabit    = errors.New("invalid habit")
	ErrIndexOutOfRange = errors.New("habit index out of range")
)

// Op 变更类型
type Op string

const (
	OpAdd    Op = "add"
	OpDelete Op = "delete"
	OpToggle Op = "toggle"
	OpLoad   Op = "load"
)

// Event 变更通知，在状态完全落定之后同步发出
type Event struct {
	Op        Op
	Index     int          // 受影响的位置；load 时为 -1
	Habit     *model.Habit // 受影响的习惯；delete 时为被删除的习惯，load 时为 nil
	Date      date.Key     // toggle 的日期
	Completed bool         // toggle 之后的状态
	Count     int          // load 之后的习惯数量
}

// Store 习惯集合，插入顺序即展示顺序
type Store struct {
	habits    []*model.Habit
	now       func() time.Time
	logger    *zap.Logger
	observers []func(Event)
}

// Option 配置 Store
type Option func(*Store)

// WithClock 替换获取当前时间的函数，用于测试
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New 创建一个空的 Store
func New(opts ...Option) *Store {
	s := &Store{
		habits: []*model.Habit{},
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today 返回 Store 时钟下的今天
func (s *Store) Today() date.Key {
	return date.Of(s.now())
}

// Subscribe 注册变更监听
func (s *Store) Subscribe(fn func(Event)) {
	s.observers = append(s.observers, fn)
}

func (s *Store) emit(ev Event) {
	for _, fn := range s.observers {
		fn(ev)
	}
}

// Load 用持久化数据替换整个集合。数据缺失或损坏时得到空集合，不会返回错误。
func (s *Store) Load(raw []byte) []*model.Habit {
	habits, problems := Decode(raw, s.Today())
	for _, p := range problems {
		s.logger.Warn("Skipped malformed habit data", zap.Error(p))
	}

	s.habits = habits
	s.logger.Debug("Habits loaded", zap.Int("count", len(habits)))
	s.emit(Event{Op: OpLoad, Index: -1, Count: len(habits)})
	return s.Habits()
}

// Encode 序列化当前集合
func (s *Store) Encode() ([]byte, error) {
	return Encode(s.habits)
}

// AddHabit 在末尾追加一个习惯。名称或分类去除首尾空白后为空时拒绝，集合不变。
func (s *Store) AddHabit(name, category string) (*model.Habit, error) {
	name = strings.TrimSpace(name)
	category = strings.TrimSpace(category)

	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidHabit)
	}
	if category == "" {
		return nil, fmt.Errorf("%w: category is required", ErrInvalidHabit)
	}

	h := model.NewHabit(name, category)
	s.habits = append(s.habits, h)

	s.emit(Event{Op: OpAdd, Index: len(s.habits) - 1, Habit: h})
	return h, nil
}

// DeleteHabit 删除指定位置的习惯，后续习惯前移。删除确认属于界面层，不在这里处理。
func (s *Store) DeleteHabit(index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}

	removed := s.habits[index]
	s.habits = append(s.habits[:index], s.habits[index+1:]...)

	s.emit(Event{Op: OpDelete, Index: index, Habit: removed})
	return nil
}

// ToggleCompletion 切换指定习惯在 d 这天的完成状态，返回切换后的状态。
// 连续天数以 Store 时钟的今天为锚点重新计算。
func (s *Store) ToggleCompletion(index int, d date.Key) (bool, error) {
	if err := s.checkIndex(index); err != nil {
		return false, err
	}

	h := s.habits[index]
	completed := h.Toggle(d, s.Today())

	s.emit(Event{Op: OpToggle, Index: index, Habit: h, Date: d, Completed: completed})
	return completed, nil
}

// RefreshStreaks 按今天重新计算所有缓存的连续天数，跨过午夜后调用
func (s *Store) RefreshStreaks() {
	today := s.Today()
	for _, h := range s.habits {
		h.Recompute(today)
	}
}

// HasAnyCompletionOn 是否至少有一个习惯在 d 这天完成
func (s *Store) HasAnyCompletionOn(d date.Key) bool {
	for _, h := range s.habits {
		if h.CompletedOn(d) {
			return true
		}
	}
	return false
}

// CompletedOn 按集合顺序惰性产出在 d 这天完成的习惯。可以重复遍历，每次都读取当前集合。
func (s *Store) CompletedOn(d date.Key) iter.Seq[*model.Habit] {
	return func(yield func(*model.Habit) bool) {
		for _, h := range s.habits {
			if !h.CompletedOn(d) {
				continue
			}
			if !yield(h) {
				return
			}
		}
	}
}

// Stats 返回 d 这天的统计
func (s *Store) Stats(d date.Key) model.Stats {
	stats := model.Stats{Total: len(s.habits)}
	for range s.CompletedOn(d) {
		stats.CompletedCount++
	}
	return stats
}

// Habits 返回按顺序排列的习惯，切片是新分配的
func (s *Store) Habits() []*model.Habit {
	out := make([]*model.Habit, len(s.habits))
	copy(out, s.habits)
	return out
}

// Habit 返回指定位置的习惯
func (s *Store) Habit(index int) (*model.Habit, error) {
	if err := s.checkIndex(index); err != nil {
		return nil, err
	}
	return s.habits[index], nil
}

func (s *Store) Len() int {
	return len(s.habits)
}

func (s *Store) checkIndex(index int) error {
	if index < 0 || index >= len(s.habits) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, index, len(s.habits))
	}
	return nil
}
