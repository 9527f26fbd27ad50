package planner

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

// Generator turns Preferences into a flat list of sessions. It holds no state
// between calls, so one Generator may serve concurrent callers.
type Generator struct {
	rules  Rules
	logger *slog.Logger
	newID  func() string
	today  func() civil.Date
}

type Option func(*Generator)

func WithRules(r Rules) Option {
	return func(g *Generator) { g.rules = r.normalized() }
}

func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithIDFunc replaces the random session id source.
func WithIDFunc(f func() string) Option {
	return func(g *Generator) { g.newID = f }
}

// WithToday fixes the date used as the horizon end when there are no exams.
func WithToday(f func() civil.Date) Option {
	return func(g *Generator) { g.today = f }
}

func New(opts ...Option) *Generator {
	g := &Generator{
		rules:  DefaultRules(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID:  uuid.NewString,
		today:  func() civil.Date { return civil.DateOf(time.Now()) },
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Generate runs a default Generator.
func Generate(p Preferences) ([]Session, error) {
	return New().Generate(p)
}

// Horizon returns the first and last day the generator walks. With no exams
// the last day is today, which leaves an empty plan.
func (g *Generator) Horizon(p Preferences) (civil.Date, civil.Date) {
	if len(p.Exams) == 0 {
		return p.StartDate, g.today()
	}
	last := p.Exams[0].Date
	for _, e := range p.Exams[1:] {
		if e.Date.After(last) {
			last = e.Date
		}
	}
	return p.StartDate, last.AddDays(1)
}

// Generate validates p and builds the plan. The only error it returns is a
// *ValidationError; a sparse or empty plan is a normal result.
func (g *Generator) Generate(p Preferences) ([]Session, error) {
	if err := Validate(p); err != nil {
		return nil, err
	}

	start, end := g.Horizon(p)
	maxDaily := p.MaxDailyMinutes()

	var sessions []Session
	days := 0
	for day := start; !day.After(end) && days < g.rules.MaxDays; day = day.AddDays(1) {
		before := len(sessions)
		sessions = g.planDay(sessions, p, day, maxDaily)
		days++
		g.logger.Debug("planned day",
			"date", day.String(),
			"weekday", Weekday(day).String(),
			"windows", len(AvailableWindows(p, Weekday(day))),
			"sessions", len(sessions)-before,
		)
	}
	if days == g.rules.MaxDays && !end.Before(start.AddDays(days)) {
		g.logger.Warn("horizon truncated", "start", start.String(), "end", end.String(), "max_days", g.rules.MaxDays)
	}

	g.logger.Info("generated plan",
		"days", days,
		"sessions", len(sessions),
		"exams", len(p.Exams),
	)
	return sessions, nil
}

// dayState is reset at the start of every day.
type dayState struct {
	studied        int
	sinceLongBreak int
	consecutive    map[string]int
}

func (s *dayState) picked(subject string) {
	for k := range s.consecutive {
		if k != subject {
			s.consecutive[k] = 0
		}
	}
	s.consecutive[subject]++
}

func (g *Generator) planDay(out []Session, p Preferences, day civil.Date, maxDaily int) []Session {
	for _, e := range p.Exams {
		if e.Date == day {
			out = append(out, g.examMarker(e))
		}
	}

	weekday := Weekday(day)
	var blocks []Window
	for _, b := range p.BlockedTimes {
		if b.AppliesOn(weekday) {
			blocks = append(blocks, b.Window())
		}
	}

	candidates := upcoming(p.Exams, day)
	st := &dayState{consecutive: make(map[string]int)}
	for _, w := range AvailableWindows(p, weekday) {
		out = g.fillWindow(out, p, day, w, blocks, candidates, st, maxDaily)
	}
	return out
}

func (g *Generator) fillWindow(out []Session, p Preferences, day civil.Date, w Window, blocks []Window, candidates []Exam, st *dayState, maxDaily int) []Session {
	r := g.rules
	t := w.Start
	for t < w.End && st.studied < maxDaily {
		if end, ok := blockedAt(blocks, t); ok {
			t = end
			continue
		}

		if st.sinceLongBreak >= r.LongBreakAfter {
			rest := Window{Start: t, End: t.Add(r.LongBreakMinutes)}
			if rest.End > w.End {
				break
			}
			if end, ok := blockedWithin(blocks, rest); ok {
				t = end
				continue
			}
			out = append(out, g.restSession(day, rest))
			t = rest.End
			st.sinceLongBreak = 0
			continue
		}

		if len(candidates) == 0 {
			break
		}

		i := pickExam(candidates, day, t, st.consecutive, p.Chronotype)
		if i < 0 {
			t = t.Add(r.FallbackStep)
			continue
		}

		study := Window{Start: t, End: t.Add(r.StudyMinutes)}
		if study.End > w.End || st.studied+r.StudyMinutes > maxDaily {
			break
		}
		if end, ok := blockedWithin(blocks, study); ok {
			t = end
			continue
		}

		exam := candidates[i]
		out = append(out, g.studySession(day, study, exam))
		st.studied += r.StudyMinutes
		st.sinceLongBreak++
		st.picked(exam.Subject)
		t = t.Add(r.slot())
	}
	return out
}

// AvailableWindows splits the daily window around the school hours of the
// weekday, dropping empty pieces.
func AvailableWindows(p Preferences, weekday time.Weekday) []Window {
	daily := p.DailyWindow()
	sd, ok := p.SchoolSchedule.On(weekday)
	if !ok || !sd.HasSchool {
		if daily.Empty() {
			return nil
		}
		return []Window{daily}
	}

	var windows []Window
	if sd.Start > daily.Start {
		before := Window{Start: daily.Start, End: min(sd.Start, daily.End)}
		if !before.Empty() {
			windows = append(windows, before)
		}
	}
	if sd.End < daily.End {
		after := Window{Start: max(sd.End, daily.Start), End: daily.End}
		if !after.Empty() {
			windows = append(windows, after)
		}
	}
	return windows
}

// upcoming keeps exams strictly after day; an exam gets no study time on or
// after its own date.
func upcoming(exams []Exam, day civil.Date) []Exam {
	var out []Exam
	for _, e := range exams {
		if e.Date.After(day) {
			out = append(out, e)
		}
	}
	return out
}

func blockedAt(blocks []Window, t Clock) (Clock, bool) {
	for _, b := range blocks {
		if b.Contains(t) {
			return b.End, true
		}
	}
	return 0, false
}

// blockedWithin returns the earliest end among blocks intersecting w.
func blockedWithin(blocks []Window, w Window) (Clock, bool) {
	var end Clock
	found := false
	for _, b := range blocks {
		if b.Overlaps(w) && (!found || b.End < end) {
			end, found = b.End, true
		}
	}
	return end, found
}

func (g *Generator) examMarker(e Exam) Session {
	return Session{
		ID:          g.newID(),
		Subject:     e.Subject,
		Date:        e.Date,
		StartTime:   Midnight,
		EndTime:     EndOfDay,
		Type:        TypeExam,
		Duration:    ExamMarkerDuration,
		Description: fmt.Sprintf("Exam day for %s. Good luck!", e.Subject),
	}
}

func (g *Generator) restSession(day civil.Date, w Window) Session {
	return Session{
		ID:          g.newID(),
		Subject:     RestSubject,
		Date:        day,
		StartTime:   w.Start,
		EndTime:     w.End,
		Type:        TypeRest,
		Duration:    w.Minutes(),
		Description: "Long break: step away from the desk, eat something and move around.",
	}
}

func (g *Generator) studySession(day civil.Date, w Window, e Exam) Session {
	n := DaysUntil(e, day)
	unit := "days"
	if n == 1 {
		unit = "day"
	}
	return Session{
		ID:          g.newID(),
		Subject:     e.Subject,
		Date:        day,
		StartTime:   w.Start,
		EndTime:     w.End,
		Type:        TypeStudy,
		Duration:    w.Minutes(),
		Description: fmt.Sprintf("Focused study on %s (difficulty %d/10), exam in %d %s.", e.Subject, e.Difficulty, n, unit),
	}
}
