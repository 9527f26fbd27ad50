package planner

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

type Chronotype string

const (
	Morning   Chronotype = "morning"
	Afternoon Chronotype = "afternoon"
	Night     Chronotype = "night"
)

// Exam priority weights offered by the preferences wizard. Any positive
// weight is accepted.
const (
	PriorityNormal    = 1.0
	PriorityImportant = 1.5
	PriorityHigh      = 2.0
	PriorityCritical  = 3.0
)

// Everyday is the RecurringBlock day that matches every weekday.
const Everyday = "Everyday"

// Weekday returns the day of the week of d.
func Weekday(d civil.Date) time.Weekday {
	return d.In(time.UTC).Weekday()
}

// Preferences is everything the student entered; one generation run reads
// it without modifying it.
type Preferences struct {
	Name           string           `json:"name" toml:"name"`
	StartDate      civil.Date       `json:"startDate" toml:"start_date"`
	DailyStart     *Clock           `json:"dailyStart" toml:"daily_start" validate:"required"`
	DailyEnd       *Clock           `json:"dailyEnd" toml:"daily_end" validate:"required"`
	MaxStudyHours  float64          `json:"maxStudyHours" toml:"max_study_hours" validate:"gt=0,lte=24"`
	Chronotype     Chronotype       `json:"chronotype" toml:"chronotype" validate:"oneof=morning afternoon night"`
	Exams          []Exam           `json:"exams" toml:"exams" validate:"dive"`
	BlockedTimes   []RecurringBlock `json:"blockedTimes" toml:"blocked_times" validate:"dive"`
	SchoolSchedule SchoolSchedule   `json:"schoolSchedule" toml:"school_schedule"`
}

// DailyWindow is the daily availability window. Unset bounds read as 00:00;
// Validate rejects them.
func (p Preferences) DailyWindow() Window {
	var w Window
	if p.DailyStart != nil {
		w.Start = *p.DailyStart
	}
	if p.DailyEnd != nil {
		w.End = *p.DailyEnd
	}
	return w
}

// MaxDailyMinutes is the per-day study budget derived from MaxStudyHours.
func (p Preferences) MaxDailyMinutes() int {
	return int(p.MaxStudyHours*60 + 0.5)
}

type Exam struct {
	ID         string     `json:"id" toml:"id"`
	Subject    string     `json:"subject" toml:"subject" validate:"required"`
	Date       civil.Date `json:"date" toml:"date"`
	Difficulty int        `json:"difficulty" toml:"difficulty" validate:"min=1,max=10"`
	Priority   float64    `json:"priority" toml:"priority" validate:"gt=0"`
}

// RecurringBlock is a weekly commitment that makes [Start, End) unavailable
// on every matching weekday of the horizon.
type RecurringBlock struct {
	Day   string `json:"day" toml:"day" validate:"required,weekday"`
	Start Clock  `json:"start" toml:"start"`
	End   Clock  `json:"end" toml:"end"`
	Name  string `json:"name" toml:"name"`
}

// AppliesOn reports whether the block recurs on the given weekday.
func (b RecurringBlock) AppliesOn(day time.Weekday) bool {
	return strings.EqualFold(b.Day, Everyday) || strings.EqualFold(b.Day, day.String())
}

func (b RecurringBlock) Window() Window { return Window{Start: b.Start, End: b.End} }

// SchoolSchedule holds the weekly class windows. StartDate and EndDate are
// recorded but school days apply on every matching weekday.
type SchoolSchedule struct {
	StartDate *civil.Date          `json:"startDate,omitempty" toml:"start_date,omitempty"`
	EndDate   *civil.Date          `json:"endDate,omitempty" toml:"end_date,omitempty"`
	Weekly    map[string]SchoolDay `json:"weeklySchedule" toml:"weekly"`
}

type SchoolDay struct {
	HasSchool bool  `json:"hasSchool" toml:"has_school"`
	Start     Clock `json:"start" toml:"start"`
	End       Clock `json:"end" toml:"end"`
}

// On returns the school entry for a weekday. Keys are weekday names matched
// without regard to case.
func (s SchoolSchedule) On(day time.Weekday) (SchoolDay, bool) {
	if sd, ok := s.Weekly[day.String()]; ok {
		return sd, true
	}
	for k, sd := range s.Weekly {
		if strings.EqualFold(k, day.String()) {
			return sd, true
		}
	}
	return SchoolDay{}, false
}

type SessionType string

const (
	TypeStudy SessionType = "study"
	TypeRest  SessionType = "rest"
	TypeExam  SessionType = "exam"
)

// RestSubject is the subject carried by long-break sessions.
const RestSubject = "REST"

// Session is one emitted block of the plan. Sessions are never mutated after
// generation; completion is tracked separately by ID.
type Session struct {
	ID          string      `json:"id"`
	Subject     string      `json:"subject"`
	Date        civil.Date  `json:"date"`
	StartTime   Clock       `json:"startTime"`
	EndTime     Clock       `json:"endTime"`
	Type        SessionType `json:"type"`
	Duration    int         `json:"duration"`
	Description string      `json:"description"`
}

func (s Session) Window() Window { return Window{Start: s.StartTime, End: s.EndTime} }

// Start returns the absolute start instant of the session in loc.
func (s Session) Start(loc *time.Location) time.Time {
	return atClock(s.Date, s.StartTime, loc)
}

// End returns the absolute end instant of the session in loc.
func (s Session) End(loc *time.Location) time.Time {
	return atClock(s.Date, s.EndTime, loc)
}

func atClock(d civil.Date, c Clock, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, c.Hour(), c.Minute(), 0, 0, loc)
}
