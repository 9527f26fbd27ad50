package calendar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	ical "github.com/emersion/go-ical"

	"github.com/christopherklint97/studyplan/internal/planner"
)

const productID = "-//studyplan//study schedule//EN"

// ErrNothingToExport is returned when a plan has no study or rest sessions.
var ErrNothingToExport = errors.New("plan has no study or rest sessions to export")

// Event represents a parsed calendar event.
type Event struct {
	Summary   string
	StartTime time.Time
	EndTime   time.Time
}

// Export writes the study and rest sessions as an iCalendar stream. Exam-day
// markers are left out. Session times are interpreted in loc and written in
// UTC.
func Export(w io.Writer, sessions []planner.Session, loc *time.Location, stamp time.Time) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	for _, s := range sessions {
		if s.Type == planner.TypeExam {
			continue
		}
		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, s.ID)
		event.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
		event.Props.SetDateTime(ical.PropDateTimeStart, s.Start(loc).UTC())
		event.Props.SetDateTime(ical.PropDateTimeEnd, s.End(loc).UTC())
		event.Props.SetText(ical.PropSummary, Summary(s))
		event.Props.SetText(ical.PropDescription, s.Description)
		cal.Children = append(cal.Children, event.Component)
	}
	if len(cal.Children) == 0 {
		return ErrNothingToExport
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encoding calendar: %w", err)
	}
	return nil
}

// Summary is the one-line title of a session.
func Summary(s planner.Session) string {
	switch s.Type {
	case planner.TypeRest:
		return "Break"
	case planner.TypeExam:
		return "Exam: " + s.Subject
	default:
		return "Study: " + s.Subject
	}
}

// Fetch retrieves and parses iCalendar events from a URL or file path,
// returning events that overlap with the given time window.
func Fetch(ctx context.Context, source string, windowStart, windowEnd time.Time) ([]Event, error) {
	var r io.ReadCloser

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetching calendar: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("calendar fetch returned status %d", resp.StatusCode)
		}
		r = resp.Body
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("opening calendar file: %w", err)
		}
		r = f
	}
	defer r.Close()

	return decode(r, windowStart, windowEnd)
}

func decode(r io.Reader, windowStart, windowEnd time.Time) ([]Event, error) {
	dec := ical.NewDecoder(r)
	var events []Event

	for {
		cal, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing calendar: %w", err)
		}

		for _, component := range cal.Children {
			if component.Name != ical.CompEvent {
				continue
			}
			event := ical.Event{Component: component}

			start, err := event.DateTimeStart(nil)
			if err != nil {
				continue // skip malformed events
			}
			end, err := event.DateTimeEnd(nil)
			if err != nil {
				continue
			}

			if start.Before(windowEnd) && end.After(windowStart) {
				summary, _ := event.Props.Text(ical.PropSummary)
				if summary != "" {
					events = append(events, Event{
						Summary:   summary,
						StartTime: start,
						EndTime:   end,
					})
				}
			}
		}
	}

	return events, nil
}

// Blocks turns timed events into weekly recurring blocks on the event's
// weekday in loc. All-day and multi-day events are skipped, and identical
// blocks are merged.
func Blocks(events []Event, loc *time.Location) []planner.RecurringBlock {
	seen := make(map[planner.RecurringBlock]bool)
	var blocks []planner.RecurringBlock
	for _, e := range events {
		start, end := e.StartTime.In(loc), e.EndTime.In(loc)
		if start.YearDay() != end.YearDay() || start.Year() != end.Year() {
			continue
		}
		b := planner.RecurringBlock{
			Day:   start.Weekday().String(),
			Start: planner.Clock(start.Hour()*60 + start.Minute()),
			End:   planner.Clock(end.Hour()*60 + end.Minute()),
			Name:  e.Summary,
		}
		if b.End <= b.Start || seen[b] {
			continue
		}
		seen[b] = true
		blocks = append(blocks, b)
	}
	return blocks
}
