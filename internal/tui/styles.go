package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/christopherklint97/studyplan/internal/planner"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			MarginBottom(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(0, 1)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("14")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			MarginTop(1)

	studyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	restStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	examStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	timerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")).Padding(1, 4)
)

func typeStyle(t planner.SessionType) lipgloss.Style {
	switch t {
	case planner.TypeExam:
		return examStyle
	case planner.TypeRest:
		return restStyle
	default:
		return studyStyle
	}
}
