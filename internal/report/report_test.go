package report

import (
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"

	"github.com/christopherklint97/studyplan/internal/planner"
)

func plan() []planner.Session {
	d := civil.Date{Year: 2024, Month: time.April, Day: 1}
	return []planner.Session{
		{ID: "a", Subject: "Math", Date: d, StartTime: planner.MustClock("09:00"), EndTime: planner.MustClock("09:50"), Type: planner.TypeStudy, Duration: 50, Description: "Focused study on Math"},
		{ID: "b", Subject: "Math", Date: d, StartTime: planner.MustClock("13:00"), EndTime: planner.MustClock("13:50"), Type: planner.TypeStudy, Duration: 50},
		{ID: "c", Subject: planner.RestSubject, Date: d, StartTime: planner.MustClock("12:00"), EndTime: planner.MustClock("13:00"), Type: planner.TypeRest, Duration: 60},
		{ID: "d", Subject: "Math", Date: d.AddDays(2), StartTime: planner.Midnight, EndTime: planner.EndOfDay, Type: planner.TypeExam, Duration: planner.ExamMarkerDuration},
	}
}

func TestShareText(t *testing.T) {
	now := time.Date(2024, 3, 30, 18, 0, 0, 0, time.UTC)
	text := ShareText("", plan(), map[string]bool{"a": true}, now)

	assert.Contains(t, text, "Student: Not specified")
	assert.Contains(t, text, "Total Study Hours: 1.7h")
	assert.Contains(t, text, "Active Study Days: 1")
	assert.Contains(t, text, "Completion Rate: 25%")
	assert.Contains(t, text, "Generated: 2024-03-30")
}

func TestPrintable(t *testing.T) {
	now := time.Date(2024, 3, 30, 18, 5, 0, 0, time.UTC)
	out := Printable("Kim", plan(), map[string]bool{"c": true}, now)

	assert.Contains(t, out, "Student: Kim")
	assert.Contains(t, out, "Mon, Apr 1")
	assert.Contains(t, out, "Wed, Apr 3")
	assert.Contains(t, out, "[x] BREAK: REST  (12:00 PM - 1:00 PM)")
	assert.Contains(t, out, "[ ] EXAM: Math  (all day)")
	assert.Contains(t, out, "      Focused study on Math")

	// Within a day, sessions are listed by start time.
	assert.Less(t, strings.Index(out, "9:00 AM"), strings.Index(out, "12:00 PM"))
	assert.Less(t, strings.Index(out, "12:00 PM - 1:00 PM"), strings.Index(out, "1:00 PM - 1:50 PM"))
}

func TestMonthGrid(t *testing.T) {
	grid := MonthGrid(2024, time.April, plan())
	lines := strings.Split(strings.TrimRight(grid, "\n"), "\n")

	assert.Equal(t, "April 2024", lines[0])
	// April 1 2024 is a Monday.
	assert.True(t, strings.HasPrefix(lines[2], "  1S   2.   3E "), "got %q", lines[2])
	assert.Len(t, lines, 2+5)
}

func TestMarker(t *testing.T) {
	assert.Equal(t, byte('.'), Marker(nil))
	assert.Equal(t, byte('S'), Marker(plan()[:3]))
	assert.Equal(t, byte('E'), Marker(plan()))
}
