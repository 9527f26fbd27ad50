package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"github.com/christopherklint97/studyplan/internal/planner"
)

// ShareText is the short plain-text summary a student can paste anywhere.
func ShareText(name string, sessions []planner.Session, completed map[string]bool, now time.Time) string {
	if name == "" {
		name = "Not specified"
	}
	st := planner.Summarize(sessions)

	var sb strings.Builder
	sb.WriteString("My Study Plan\n\n")
	fmt.Fprintf(&sb, "Student: %s\n", name)
	fmt.Fprintf(&sb, "Total Study Hours: %sh\n", formatHours(st.TotalHours))
	fmt.Fprintf(&sb, "Active Study Days: %d\n", st.DaysWithStudy)
	fmt.Fprintf(&sb, "Completion Rate: %d%%\n", planner.CompletionRate(sessions, completed))
	fmt.Fprintf(&sb, "Generated: %s\n", now.Format("2006-01-02"))
	return sb.String()
}

func formatHours(h float64) string {
	s := fmt.Sprintf("%.1f", h)
	return strings.TrimSuffix(s, ".0")
}

// FormatDate renders a date as "Mon, Jan 2".
func FormatDate(d civil.Date) string {
	return d.In(time.UTC).Format("Mon, Jan 2")
}

func typePrefix(t planner.SessionType) string {
	switch t {
	case planner.TypeExam:
		return "EXAM: "
	case planner.TypeRest:
		return "BREAK: "
	default:
		return "STUDY: "
	}
}

// Printable renders the whole plan as a checklist grouped by day.
func Printable(name string, sessions []planner.Session, completed map[string]bool, now time.Time) string {
	st := planner.Summarize(sessions)

	var sb strings.Builder
	sb.WriteString("STUDY PLAN\n")
	if name != "" {
		fmt.Fprintf(&sb, "Student: %s\n", name)
	}
	fmt.Fprintf(&sb, "Total study: %sh over %d days, %d of %d sessions done (%d%%)\n",
		formatHours(st.TotalHours), st.DaysWithStudy,
		countDone(sessions, completed), len(sessions), planner.CompletionRate(sessions, completed))

	if len(st.MinutesBySubject) > 0 {
		subjects := make([]string, 0, len(st.MinutesBySubject))
		for s := range st.MinutesBySubject {
			subjects = append(subjects, s)
		}
		sort.Strings(subjects)
		sb.WriteString("\nBy subject:\n")
		for _, s := range subjects {
			fmt.Fprintf(&sb, "  %-20s %4d min\n", s, st.MinutesBySubject[s])
		}
	}

	grouped, dates := planner.GroupByDate(sessions)
	for _, d := range dates {
		fmt.Fprintf(&sb, "\n%s\n", FormatDate(d))
		for _, s := range planner.ForDay(grouped[d], d) {
			box := "[ ]"
			if completed[s.ID] {
				box = "[x]"
			}
			when := s.StartTime.Format12() + " - " + s.EndTime.Format12()
			if s.Type == planner.TypeExam {
				when = "all day"
			}
			fmt.Fprintf(&sb, "  %s %s%s  (%s)\n", box, typePrefix(s.Type), s.Subject, when)
			if s.Description != "" {
				fmt.Fprintf(&sb, "      %s\n", s.Description)
			}
		}
	}

	fmt.Fprintf(&sb, "\nGenerated on %s at %s\n", now.Format("2006-01-02"), now.Format("15:04"))
	return sb.String()
}

func countDone(sessions []planner.Session, completed map[string]bool) int {
	n := 0
	for _, s := range sessions {
		if completed[s.ID] {
			n++
		}
	}
	return n
}

// Marker returns the single-character day marker used by MonthGrid: 'E' for
// an exam day, 'S' for a study day, '.' otherwise.
func Marker(day []planner.Session) byte {
	m := byte('.')
	for _, s := range day {
		switch s.Type {
		case planner.TypeExam:
			return 'E'
		case planner.TypeStudy:
			m = 'S'
		}
	}
	return m
}

// MonthGrid draws a Monday-first calendar of month with a marker after each
// day number.
func MonthGrid(year int, month time.Month, sessions []planner.Session) string {
	grouped, _ := planner.GroupByDate(sessions)
	first := civil.Date{Year: year, Month: month, Day: 1}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %d\n", month, year)
	sb.WriteString(" Mo   Tu   We   Th   Fr   Sa   Su\n")

	offset := (int(planner.Weekday(first)) + 6) % 7
	sb.WriteString(strings.Repeat("     ", offset))
	col := offset
	for d := first; d.Month == month; d = d.AddDays(1) {
		fmt.Fprintf(&sb, " %2d%c ", d.Day, Marker(grouped[d]))
		col++
		if col == 7 {
			sb.WriteString("\n")
			col = 0
		}
	}
	if col != 0 {
		sb.WriteString("\n")
	}
	return sb.String()
}
