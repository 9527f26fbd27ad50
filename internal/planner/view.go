package planner

import (
	"sort"
	"time"

	"cloud.google.com/go/civil"
)

// ForDay returns the sessions on date, exam markers first and then by start
// time.
func ForDay(sessions []Session, date civil.Date) []Session {
	var out []Session
	for _, s := range sessions {
		if s.Date == date {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ei, ej := out[i].Type == TypeExam, out[j].Type == TypeExam
		if ei != ej {
			return ei
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

// GroupByDate buckets sessions by date and returns the dates in order.
func GroupByDate(sessions []Session) (map[civil.Date][]Session, []civil.Date) {
	grouped := make(map[civil.Date][]Session)
	var dates []civil.Date
	for _, s := range sessions {
		if _, ok := grouped[s.Date]; !ok {
			dates = append(dates, s.Date)
		}
		grouped[s.Date] = append(grouped[s.Date], s)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return grouped, dates
}

// Current returns the session running at now, if any. Exam markers count,
// so on an exam day the marker covers the whole day unless a study or rest
// session is running.
func Current(sessions []Session, now time.Time) (Session, bool) {
	today := civil.DateOf(now)
	var marker *Session
	for _, s := range ForDay(sessions, today) {
		if !now.Before(s.Start(now.Location())) && now.Before(s.End(now.Location())) {
			if s.Type != TypeExam {
				return s, true
			}
			if marker == nil {
				m := s
				marker = &m
			}
		}
	}
	if marker != nil {
		return *marker, true
	}
	return Session{}, false
}

// Next returns the earliest study or rest session starting after now.
func Next(sessions []Session, now time.Time) (Session, bool) {
	var next Session
	found := false
	for _, s := range sessions {
		if s.Type == TypeExam {
			continue
		}
		start := s.Start(now.Location())
		if !start.After(now) {
			continue
		}
		if !found || start.Before(next.Start(now.Location())) {
			next, found = s, true
		}
	}
	return next, found
}
