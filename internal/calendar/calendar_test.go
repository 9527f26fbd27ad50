package calendar

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	ical "github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christopherklint97/studyplan/internal/planner"
)

func sessions() []planner.Session {
	d := civil.Date{Year: 2024, Month: time.May, Day: 13}
	return []planner.Session{
		{ID: "exam-1", Subject: "Math", Date: d.AddDays(1), StartTime: planner.Midnight, EndTime: planner.EndOfDay, Type: planner.TypeExam, Duration: planner.ExamMarkerDuration},
		{ID: "study-1", Subject: "Math", Date: d, StartTime: planner.MustClock("09:00"), EndTime: planner.MustClock("09:50"), Type: planner.TypeStudy, Duration: 50, Description: "Focused study on Math"},
		{ID: "rest-1", Subject: planner.RestSubject, Date: d, StartTime: planner.MustClock("12:00"), EndTime: planner.MustClock("13:00"), Type: planner.TypeRest, Duration: 60, Description: "Long break"},
	}
}

func TestExport(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, sessions(), loc, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))

	cal, err := ical.NewDecoder(&buf).Decode()
	require.NoError(t, err)

	events := cal.Events()
	require.Len(t, events, 2)

	uid, err := events[0].Props.Text(ical.PropUID)
	require.NoError(t, err)
	assert.Equal(t, "study-1", uid)

	summary, err := events[0].Props.Text(ical.PropSummary)
	require.NoError(t, err)
	assert.Equal(t, "Study: Math", summary)

	start, err := events[0].DateTimeStart(nil)
	require.NoError(t, err)
	assert.True(t, start.Equal(time.Date(2024, 5, 13, 8, 0, 0, 0, time.UTC)), "start %s", start)

	end, err := events[1].DateTimeEnd(nil)
	require.NoError(t, err)
	assert.True(t, end.Equal(time.Date(2024, 5, 13, 12, 0, 0, 0, time.UTC)), "end %s", end)
}

func TestExport_OnlyExams(t *testing.T) {
	var buf bytes.Buffer
	err := Export(&buf, sessions()[:1], time.UTC, time.Now())
	assert.ErrorIs(t, err, ErrNothingToExport)
}

const commitments = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//test//EN
BEGIN:VEVENT
UID:1
DTSTAMP:20240101T000000Z
DTSTART:20240513T160000Z
DTEND:20240513T173000Z
SUMMARY:Soccer Training
END:VEVENT
BEGIN:VEVENT
UID:2
DTSTAMP:20240101T000000Z
DTSTART:20240520T160000Z
DTEND:20240520T173000Z
SUMMARY:Soccer Training
END:VEVENT
BEGIN:VEVENT
UID:3
DTSTAMP:20240101T000000Z
DTSTART:20240515T180000Z
DTEND:20240516T020000Z
SUMMARY:Overnight trip
END:VEVENT
BEGIN:VEVENT
UID:4
DTSTAMP:20240101T000000Z
DTSTART:20240901T090000Z
DTEND:20240901T100000Z
SUMMARY:Outside window
END:VEVENT
END:VCALENDAR
`

func TestFetchAndBlocks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "commitments.ics")
	require.NoError(t, os.WriteFile(path, []byte(commitments), 0644))

	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	events, err := Fetch(context.Background(), path, from, to)
	require.NoError(t, err)
	require.Len(t, events, 3)

	blocks := Blocks(events, time.UTC)
	require.Len(t, blocks, 1)
	assert.Equal(t, planner.RecurringBlock{
		Day:   "Monday",
		Start: planner.MustClock("16:00"),
		End:   planner.MustClock("17:30"),
		Name:  "Soccer Training",
	}, blocks[0])
	require.NoError(t, planner.Validate(planner.Preferences{
		StartDate:     civil.Date{Year: 2024, Month: time.May, Day: 13},
		DailyStart:    planner.NewClock("08:00"),
		DailyEnd:      planner.NewClock("20:00"),
		MaxStudyHours: 2,
		Chronotype:    planner.Night,
		BlockedTimes:  blocks,
	}))
}

func TestFetch_MissingFile(t *testing.T) {
	_, err := Fetch(context.Background(), filepath.Join(t.TempDir(), "nope.ics"), time.Time{}, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening calendar file")
}
