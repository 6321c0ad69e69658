package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habit-tracker/date"
	"habit-tracker/store"
)

type markerFunc func(date.Key) bool

func (f markerFunc) HasAnyCompletionOn(d date.Key) bool { return f(d) }

func TestMonthNavigation(t *testing.T) {
	m := Month{Year: 2026, Month: time.January}
	assert.Equal(t, Month{Year: 2025, Month: time.December}, m.Prev())
	assert.Equal(t, Month{Year: 2026, Month: time.February}, m.Next())
	assert.Equal(t, Month{Year: 2027, Month: time.January}, Month{Year: 2026, Month: time.December}.Next())
	assert.Equal(t, "2026-01", m.String())
	assert.Equal(t, "January 2026", m.Title())
}

func TestParseMonth(t *testing.T) {
	m, err := ParseMonth("2026-10")
	require.NoError(t, err)
	assert.Equal(t, Month{Year: 2026, Month: time.October}, m)

	_, err = ParseMonth("2026-13")
	assert.Error(t, err)
	_, err = ParseMonth("October")
	assert.Error(t, err)
}

func TestDays(t *testing.T) {
	assert.Equal(t, 31, Month{2026, time.October}.Days())
	assert.Equal(t, 28, Month{2026, time.February}.Days())
	assert.Equal(t, 29, Month{2028, time.February}.Days())
	assert.Equal(t, 30, Month{2026, time.November}.Days())
}

func TestBuild(t *testing.T) {
	today := date.Key{Year: 2026, Month: time.October, Day: 19}
	selected := date.Key{Year: 2026, Month: time.October, Day: 3}
	marked := date.NewSet(date.Key{Year: 2026, Month: time.October, Day: 18}, today)

	g := Build(MonthOf(today), today, selected, markerFunc(marked.Has))

	// 2026-10-01 是星期四
	assert.Equal(t, 4, g.Leading)
	require.Len(t, g.Days, 31)
	assert.Equal(t, date.Key{Year: 2026, Month: time.October, Day: 1}, g.Days[0].Date)
	assert.Equal(t, date.Key{Year: 2026, Month: time.October, Day: 31}, g.Days[30].Date)

	for _, d := range g.Days {
		assert.Equal(t, d.Date == today, d.Today, d.Date.String())
		assert.Equal(t, d.Date == selected, d.Selected, d.Date.String())
		assert.Equal(t, marked.Has(d.Date), d.HasCompletions, d.Date.String())
	}
}

func TestBuildWithoutSelectionOrMarker(t *testing.T) {
	g := Build(Month{2026, time.February}, date.Key{Year: 2026, Month: time.March, Day: 1}, date.Key{}, nil)

	require.Len(t, g.Days, 28)
	for _, d := range g.Days {
		assert.False(t, d.Today)
		assert.False(t, d.Selected)
		assert.False(t, d.HasCompletions)
	}
}

func TestBuildFromStore(t *testing.T) {
	now := time.Date(2026, time.October, 19, 8, 0, 0, 0, time.Local)
	s := store.New(store.WithClock(func() time.Time { return now }))
	_, err := s.AddHabit("Run", "Fitness")
	require.NoError(t, err)
	_, err = s.ToggleCompletion(0, s.Today())
	require.NoError(t, err)

	g := Build(MonthOf(s.Today()), s.Today(), date.Key{}, s)
	assert.True(t, g.Days[18].HasCompletions)
	assert.False(t, g.Days[17].HasCompletions)
}

func TestWeeks(t *testing.T) {
	// 2026-02-01 是星期日，正好四行
	g := Build(Month{2026, time.February}, date.Key{}, date.Key{}, nil)
	weeks := g.Weeks()
	require.Len(t, weeks, 4)
	assert.Equal(t, 1, weeks[0][0].Date.Day)

	g = Build(Month{2026, time.October}, date.Key{}, date.Key{}, nil)
	weeks = g.Weeks()
	require.Len(t, weeks, 5)
	for _, w := range weeks {
		assert.Len(t, w, 7)
	}
	assert.Nil(t, weeks[0][3])
	assert.Equal(t, 1, weeks[0][4].Date.Day)
	assert.Equal(t, 31, weeks[4][6].Date.Day)
}
