// Package calendar 构建月历视图所需的数据：首日前的空白格、每天是否为今天/选中/有完成记录。
package calendar

import (
	"fmt"
	"time"

	"habit-tracker/date"
)

// Month 表示某年某月
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf 返回某天所在的月份
func MonthOf(d date.Key) Month {
	return Month{Year: d.Year, Month: d.Month}
}

// ParseMonth 解析 YYYY-MM
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Title 例如 "October 2026"
func (m Month) Title() string {
	return fmt.Sprintf("%s %d", m.Month, m.Year)
}

func (m Month) Prev() Month {
	return m.add(-1)
}

func (m Month) Next() Month {
	return m.add(1)
}

func (m Month) add(n int) Month {
	t := time.Date(m.Year, m.Month+time.Month(n), 1, 12, 0, 0, 0, time.UTC)
	return Month{Year: t.Year(), Month: t.Month()}
}

// First 该月第一天
func (m Month) First() date.Key {
	return date.Key{Year: m.Year, Month: m.Month, Day: 1}
}

// Days 该月天数
func (m Month) Days() int {
	// 下个月第 0 天即本月最后一天
	return time.Date(m.Year, m.Month+1, 0, 12, 0, 0, 0, time.UTC).Day()
}

// Marker 判断某天是否有任意习惯完成，*store.Store 实现了该接口
type Marker interface {
	HasAnyCompletionOn(d date.Key) bool
}

// Day 月历中的一个日期格
type Day struct {
	Date           date.Key `json:"date"`
	Today          bool     `json:"today"`
	Selected       bool     `json:"selected"`
	HasCompletions bool     `json:"has_completions"`
}

// Grid 一个月的月历，周日为每周第一天
type Grid struct {
	Month   Month `json:"-"`
	Leading int   `json:"leading"` // 一号之前的空白格数量
	Days    []Day `json:"days"`
}

// Build 构建月历。selected 为零值时表示没有选中的日期。
func Build(m Month, today, selected date.Key, marker Marker) Grid {
	first := m.First()
	g := Grid{
		Month:   m,
		Leading: int(first.Weekday()),
		Days:    make([]Day, 0, m.Days()),
	}

	for i := 0; i < m.Days(); i++ {
		d := first.AddDays(i)
		g.Days = append(g.Days, Day{
			Date:           d,
			Today:          d == today,
			Selected:       !selected.IsZero() && d == selected,
			HasCompletions: marker != nil && marker.HasAnyCompletionOn(d),
		})
	}
	return g
}

// Weeks 按 7 列切分成行，空白格为 nil
func (g Grid) Weeks() [][]*Day {
	var (
		weeks [][]*Day
		week  []*Day
	)
	for i := 0; i < g.Leading; i++ {
		week = append(week, nil)
	}
	for i := range g.Days {
		week = append(week, &g.Days[i])
		if len(week) == 7 {
			weeks = append(weeks, week)
			week = nil
		}
	}
	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, nil)
		}
		weeks = append(weeks, week)
	}
	return weeks
}
