// Package date 提供本地日历日的标识(年、月、日)，不含时刻与时区。
package date

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Layout 日期键的规范序列化格式
const Layout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date key")

// Key 表示本地挂钟下的一个日历日
type Key struct {
	Year  int
	Month time.Month
	Day   int
}

// Of 将任意时刻归一化为它所在时区的日历日
func Of(t time.Time) Key {
	y, m, d := t.Date()
	return Key{Year: y, Month: m, Day: d}
}

// Today 返回本地时区的今天
func Today() Key {
	return Of(time.Now())
}

// Parse 解析 YYYY-MM-DD 格式的日期键(严格补零)
func Parse(s string) (Key, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Of(t), nil
}

// String 返回规范格式 YYYY-MM-DD
func (k Key) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", k.Year, int(k.Month), k.Day)
}

// IsZero 是否为零值
func (k Key) IsZero() bool {
	return k == Key{}
}

// AddDays 按日历天数前后移动，处理跨月、跨年和闰年
func (k Key) AddDays(n int) Key {
	// 用 UTC 正午计算，避免夏令时切换影响
	return Of(time.Date(k.Year, k.Month, k.Day+n, 12, 0, 0, 0, time.UTC))
}

// Before 是否早于 other
func (k Key) Before(other Key) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	if k.Month != other.Month {
		return k.Month < other.Month
	}
	return k.Day < other.Day
}

// Weekday 返回星期几
func (k Key) Weekday() time.Weekday {
	return time.Date(k.Year, k.Month, k.Day, 12, 0, 0, 0, time.UTC).Weekday()
}

// In 返回该日在 loc 中的零点
func (k Key) In(loc *time.Location) time.Time {
	return time.Date(k.Year, k.Month, k.Day, 0, 0, 0, 0, loc)
}

func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Key) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Set 完成记录：存在即完成，不存在即未完成
type Set map[Key]struct{}

// NewSet 创建包含给定日期的集合
func NewSet(keys ...Key) Set {
	s := make(Set, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

func (s Set) Has(k Key) bool {
	_, ok := s[k]
	return ok
}

func (s Set) Add(k Key) {
	s[k] = struct{}{}
}

func (s Set) Remove(k Key) {
	delete(s, k)
}

// Sorted 返回升序排列的日期副本
func (s Set) Sorted() []Key {
	keys := make([]Key, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Before(keys[j])
	})
	return keys
}

// Clone 复制集合
func (s Set) Clone() Set {
	c := make(Set, len(s))
	for k := range s {
		c[k] = struct{}{}
	}
	return c
}
