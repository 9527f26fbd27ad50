package tui

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/christopherklint97/studyplan/internal/planner"
	"github.com/christopherklint97/studyplan/internal/report"
)

// Checklist persists what the student ticks off.
type Checklist interface {
	ToggleCompleted(sessionID string) (bool, error)
	IncrementFocusStreak() (int, error)
}

type viewState int

const (
	dayView viewState = iota
	focusView
)

type clockMsg time.Time

type quoteMsg struct{}

type toggledMsg struct {
	id   string
	done bool
	err  error
}

type App struct {
	state     viewState
	focus     focusModel
	sessions  []planner.Session
	days      []civil.Date
	dayIdx    int
	cursor    int
	completed map[string]bool
	checklist Checklist
	name      string
	now       time.Time
	quote     motivation
	errMsg    string
}

func NewApp(name string, sessions []planner.Session, completed map[string]bool, checklist Checklist, now time.Time) *App {
	if completed == nil {
		completed = make(map[string]bool)
	}
	a := &App{
		state:     dayView,
		sessions:  sessions,
		days:      planDays(sessions),
		completed: completed,
		checklist: checklist,
		name:      name,
		now:       now,
	}
	a.jumpTo(civil.DateOf(now))
	return a
}

// planDays lists every calendar day from the first to the last session.
func planDays(sessions []planner.Session) []civil.Date {
	_, dates := planner.GroupByDate(sessions)
	if len(dates) == 0 {
		return nil
	}
	var days []civil.Date
	for d := dates[0]; !d.After(dates[len(dates)-1]); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

func (a *App) jumpTo(d civil.Date) {
	a.dayIdx = 0
	for i, day := range a.days {
		if day == d {
			a.dayIdx = i
			break
		}
	}
	a.cursor = 0
}

func (a *App) day() []planner.Session {
	if len(a.days) == 0 {
		return nil
	}
	return planner.ForDay(a.sessions, a.days[a.dayIdx])
}

func tickClock() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg { return clockMsg(t) })
}

func tickQuote() tea.Cmd {
	return tea.Tick(quoteInterval, func(time.Time) tea.Msg { return quoteMsg{} })
}

func (a *App) Init() tea.Cmd {
	if a.state == focusView {
		return tea.Batch(tickClock(), tickQuote(), a.focus.Init())
	}
	return tea.Batch(tickClock(), tickQuote())
}

// OpenFocus switches to the focus timer for the study session running now.
// It reports false when no study session is running.
func (a *App) OpenFocus() bool {
	cur, ok := planner.Current(a.sessions, a.now)
	if !ok || cur.Type != planner.TypeStudy {
		return false
	}
	a.focus = newFocusModel(cur, a.now)
	a.state = focusView
	return true
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
	case clockMsg:
		a.now = time.Time(msg)
		return a, tickClock()
	case quoteMsg:
		a.quote = a.quote.next()
		return a, tickQuote()
	case toggledMsg:
		if msg.err != nil {
			a.errMsg = msg.err.Error()
			return a, nil
		}
		a.errMsg = ""
		a.completed[msg.id] = msg.done
		return a, nil
	}

	switch a.state {
	case focusView:
		return a.updateFocus(msg)
	default:
		return a.updateDay(msg)
	}
}

func (a *App) updateDay(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}

	day := a.day()
	switch keyMsg.String() {
	case "q", "esc":
		return a, tea.Quit
	case "left", "h":
		if a.dayIdx > 0 {
			a.dayIdx--
			a.cursor = 0
		}
	case "right", "l":
		if a.dayIdx < len(a.days)-1 {
			a.dayIdx++
			a.cursor = 0
		}
	case "t":
		a.jumpTo(civil.DateOf(a.now))
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(day)-1 {
			a.cursor++
		}
	case " ", "x":
		if a.cursor < len(day) {
			return a, a.toggle(day[a.cursor].ID)
		}
	case "f":
		if !a.OpenFocus() {
			a.errMsg = "No study session is running right now."
			return a, nil
		}
		a.errMsg = ""
		return a, a.focus.Init()
	}
	return a, nil
}

func (a *App) updateFocus(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		a.state = dayView
		return a, nil
	}

	var cmd tea.Cmd
	a.focus, cmd = a.focus.Update(msg)
	if a.focus.finished && !a.focus.recorded {
		a.focus.recorded = true
		if a.checklist != nil {
			streak, err := a.checklist.IncrementFocusStreak()
			if err != nil {
				a.errMsg = err.Error()
			}
			a.focus.streak = streak
		}
	}
	return a, cmd
}

func (a *App) toggle(id string) tea.Cmd {
	if a.checklist == nil {
		return func() tea.Msg { return toggledMsg{id: id, done: !a.completed[id]} }
	}
	return func() tea.Msg {
		done, err := a.checklist.ToggleCompleted(id)
		return toggledMsg{id: id, done: done, err: err}
	}
}

func (a *App) View() string {
	var body string
	if a.state == focusView {
		body = a.focus.View()
	} else {
		body = a.dayViewString()
	}
	if a.errMsg != "" {
		body += "\n" + errorStyle.Render(a.errMsg)
	}
	return body
}

// Status is the one-line now/next summary.
func Status(sessions []planner.Session, now time.Time) string {
	if cur, ok := planner.Current(sessions, now); ok {
		switch cur.Type {
		case planner.TypeExam:
			return fmt.Sprintf("EXAM DAY for %s! Good luck.", cur.Subject)
		case planner.TypeStudy:
			left := cur.End(now.Location()).Sub(now).Truncate(time.Second)
			return fmt.Sprintf("Study %s until %s (%s left)", cur.Subject, cur.EndTime.Format12(), left)
		default:
			return fmt.Sprintf("Break until %s", cur.EndTime.Format12())
		}
	}
	if next, ok := planner.Next(sessions, now); ok {
		wait := next.Start(now.Location()).Sub(now).Truncate(time.Second)
		return fmt.Sprintf("Rest until %s. Next: %s in %s", next.StartTime.Format12(), next.Subject, wait)
	}
	return "No upcoming sessions. All done!"
}

func (a *App) dayViewString() string {
	var sb strings.Builder

	header := "Study Plan"
	if a.name != "" {
		header += " for " + a.name
	}
	sb.WriteString(titleStyle.Render(header))
	sb.WriteString("\n")
	sb.WriteString(highlightStyle.Render(Status(a.sessions, a.now)))
	sb.WriteString("\n")
	sb.WriteString(subtitleStyle.Render(a.quote.Quote()))
	sb.WriteString("\n")

	if len(a.days) == 0 {
		sb.WriteString(dimStyle.Render("The plan is empty."))
		sb.WriteString("\n")
		sb.WriteString(helpStyle.Render("q: quit"))
		return sb.String()
	}

	var list strings.Builder
	d := a.days[a.dayIdx]
	list.WriteString(titleStyle.Render("Plan for " + report.FormatDate(d)))
	list.WriteString("\n")

	day := a.day()
	if len(day) == 0 {
		list.WriteString(dimStyle.Render("No scheduled activities on this day. Free time!"))
		list.WriteString("\n")
	}
	for i, s := range day {
		prefix := "  "
		if i == a.cursor {
			prefix = "> "
		}
		box := "[ ]"
		if a.completed[s.ID] {
			box = successStyle.Render("[x]")
		}
		when := s.StartTime.Format12() + " - " + s.EndTime.Format12()
		if s.Type == planner.TypeExam {
			when = "all day"
		}
		line := fmt.Sprintf("%s%s %-20s %s", prefix, box, typeStyle(s.Type).Render(s.Subject), dimStyle.Render(when))
		if i == a.cursor {
			line = highlightStyle.Render(line)
		}
		list.WriteString(line)
		list.WriteString("\n")
	}

	sb.WriteString(boxStyle.Render(strings.TrimRight(list.String(), "\n")))
	sb.WriteString("\n")

	done := 0
	for _, s := range a.sessions {
		if a.completed[s.ID] {
			done++
		}
	}
	sb.WriteString(dimStyle.Render(fmt.Sprintf("Day %d of %d • %d/%d sessions done",
		a.dayIdx+1, len(a.days), done, len(a.sessions))))
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("←/→: day • ↑/↓: move • space: check • t: today • f: focus • q: quit"))
	return sb.String()
}
