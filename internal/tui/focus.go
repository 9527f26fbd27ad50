package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/christopherklint97/studyplan/internal/planner"
)

// focusModel counts down to the end of one study session.
type focusModel struct {
	session  planner.Session
	timer    timer.Model
	finished bool
	recorded bool
	streak   int
}

func newFocusModel(s planner.Session, now time.Time) focusModel {
	left := s.End(now.Location()).Sub(now).Truncate(time.Second)
	if left <= 0 {
		left = time.Second
	}
	return focusModel{
		session: s,
		timer:   timer.NewWithInterval(left, time.Second),
	}
}

func (m focusModel) Init() tea.Cmd {
	return m.timer.Init()
}

func (m focusModel) Update(msg tea.Msg) (focusModel, tea.Cmd) {
	switch msg := msg.(type) {
	case timer.TimeoutMsg:
		if msg.ID == m.timer.ID() {
			m.finished = true
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "p", " ":
			if !m.finished {
				return m, m.timer.Toggle()
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.timer, cmd = m.timer.Update(msg)
	return m, cmd
}

func (m focusModel) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Focus: " + m.session.Subject))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(fmt.Sprintf("%s - %s",
		m.session.StartTime.Format12(), m.session.EndTime.Format12())))
	sb.WriteString("\n\n")

	if m.finished {
		sb.WriteString(successStyle.Render("Session complete!"))
		sb.WriteString("\n")
		if m.streak > 0 {
			sb.WriteString(fmt.Sprintf("Focus streak: %d\n", m.streak))
		}
	} else {
		sb.WriteString(timerStyle.Render(m.timer.View()))
		sb.WriteString("\n")
		if !m.timer.Running() {
			sb.WriteString(warningStyle.Render("Paused"))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("p: pause/resume • esc: back • ctrl+c: quit"))
	return sb.String()
}
