package tui

import (
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christopherklint97/studyplan/internal/planner"
)

type fakeChecklist struct {
	done      map[string]bool
	streak    int
	toggleErr error
}

func (f *fakeChecklist) ToggleCompleted(id string) (bool, error) {
	if f.toggleErr != nil {
		return false, f.toggleErr
	}
	f.done[id] = !f.done[id]
	return f.done[id], nil
}

func (f *fakeChecklist) IncrementFocusStreak() (int, error) {
	f.streak++
	return f.streak, nil
}

func monday() civil.Date { return civil.Date{Year: 2024, Month: time.June, Day: 3} }

func plan() []planner.Session {
	d := monday()
	return []planner.Session{
		{ID: "s1", Subject: "Physics", Date: d, StartTime: planner.MustClock("09:00"), EndTime: planner.MustClock("09:50"), Type: planner.TypeStudy},
		{ID: "r1", Subject: planner.RestSubject, Date: d, StartTime: planner.MustClock("12:00"), EndTime: planner.MustClock("13:00"), Type: planner.TypeRest},
		{ID: "s2", Subject: "Physics", Date: d.AddDays(2), StartTime: planner.MustClock("10:00"), EndTime: planner.MustClock("10:50"), Type: planner.TypeStudy},
		{ID: "e1", Subject: "Physics", Date: d.AddDays(3), StartTime: planner.Midnight, EndTime: planner.EndOfDay, Type: planner.TypeExam},
	}
}

func at(d civil.Date, clock string) time.Time {
	c := planner.MustClock(clock)
	return time.Date(d.Year, d.Month, d.Day, c.Hour(), c.Minute(), 0, 0, time.UTC)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, a *App, msg tea.Msg) tea.Cmd {
	t.Helper()
	m, cmd := a.Update(msg)
	require.Same(t, a, m)
	return cmd
}

func TestAppDayNavigation(t *testing.T) {
	a := NewApp("Kim", plan(), nil, nil, at(monday(), "08:00"))

	require.Len(t, a.days, 4)
	assert.Equal(t, 0, a.dayIdx)
	assert.Len(t, a.day(), 2)

	send(t, a, key("right"))
	assert.Equal(t, monday().AddDays(1), a.days[a.dayIdx])
	assert.Empty(t, a.day())
	assert.Contains(t, a.View(), "Free time!")

	send(t, a, key("right"))
	send(t, a, key("right"))
	send(t, a, key("right"))
	assert.Equal(t, 3, a.dayIdx)
	assert.Contains(t, a.View(), "all day")

	send(t, a, key("t"))
	assert.Equal(t, 0, a.dayIdx)

	send(t, a, key("left"))
	assert.Equal(t, 0, a.dayIdx)
}

func TestAppStartsOnToday(t *testing.T) {
	a := NewApp("", plan(), nil, nil, at(monday().AddDays(2), "08:00"))
	assert.Equal(t, 2, a.dayIdx)

	// Outside the plan the browser opens on the first day.
	a = NewApp("", plan(), nil, nil, at(monday().AddDays(30), "08:00"))
	assert.Equal(t, 0, a.dayIdx)
}

func TestAppToggle(t *testing.T) {
	check := &fakeChecklist{done: map[string]bool{}}
	a := NewApp("", plan(), nil, check, at(monday(), "08:00"))

	send(t, a, key("down"))
	assert.Equal(t, 1, a.cursor)
	send(t, a, key("down"))
	assert.Equal(t, 1, a.cursor, "cursor stays on the last session")

	cmd := send(t, a, key(" "))
	require.NotNil(t, cmd)
	send(t, a, cmd())
	assert.True(t, a.completed["r1"])
	assert.Contains(t, a.View(), "1/4 sessions done")

	send(t, a, send(t, a, key("x"))())
	assert.False(t, a.completed["r1"])

	check.toggleErr = errors.New("database is locked")
	send(t, a, send(t, a, key("x"))())
	assert.Contains(t, a.View(), "database is locked")
}

func TestAppQuoteRotates(t *testing.T) {
	a := NewApp("", plan(), nil, nil, at(monday(), "08:00"))
	first := a.quote.Quote()

	cmd := send(t, a, quoteMsg{})
	assert.NotNil(t, cmd)
	assert.NotEqual(t, first, a.quote.Quote())

	for range len(quotes) - 1 {
		send(t, a, quoteMsg{})
	}
	assert.Equal(t, first, a.quote.Quote())
}

func TestAppQuit(t *testing.T) {
	a := NewApp("", plan(), nil, nil, at(monday(), "08:00"))
	cmd := send(t, a, key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestStatus(t *testing.T) {
	sessions := plan()

	assert.Equal(t, "Study Physics until 9:50 AM (40m0s left)", Status(sessions, at(monday(), "09:10")))
	assert.Equal(t, "Break until 1:00 PM", Status(sessions, at(monday(), "12:30")))
	assert.Equal(t, "Rest until 12:00 PM. Next: REST in 1h0m0s", Status(sessions, at(monday(), "11:00")))
	assert.Equal(t, "EXAM DAY for Physics! Good luck.", Status(sessions, at(monday().AddDays(3), "10:00")))
	assert.Equal(t, "No upcoming sessions. All done!", Status(sessions, at(monday().AddDays(4), "10:00")))
}

func TestFocusMode(t *testing.T) {
	check := &fakeChecklist{done: map[string]bool{}}

	a := NewApp("", plan(), nil, check, at(monday(), "11:00"))
	send(t, a, key("f"))
	assert.Equal(t, dayView, a.state)
	assert.Contains(t, a.View(), "No study session is running")

	a = NewApp("", plan(), nil, check, at(monday(), "09:45"))
	cmd := send(t, a, key("f"))
	require.NotNil(t, cmd)
	assert.Equal(t, focusView, a.state)
	assert.Equal(t, 5*time.Minute, a.focus.timer.Timeout)
	assert.Contains(t, a.View(), "Focus: Physics")

	send(t, a, timer.TimeoutMsg{ID: a.focus.timer.ID()})
	assert.True(t, a.focus.finished)
	assert.Equal(t, 1, check.streak)
	assert.Contains(t, a.View(), "Focus streak: 1")

	// A second timeout for the same session is not counted again.
	send(t, a, timer.TimeoutMsg{ID: a.focus.timer.ID()})
	assert.Equal(t, 1, check.streak)

	send(t, a, key("esc"))
	assert.Equal(t, dayView, a.state)
}

func TestOpenFocus(t *testing.T) {
	a := NewApp("", plan(), nil, nil, at(monday(), "09:30"))
	require.True(t, a.OpenFocus())
	assert.Equal(t, 20*time.Minute, a.focus.timer.Timeout)
	assert.NotNil(t, a.Init())

	a = NewApp("", plan(), nil, nil, at(monday(), "12:30"))
	assert.False(t, a.OpenFocus())
}
