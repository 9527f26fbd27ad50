package planner

import (
	"math"

	"cloud.google.com/go/civil"
)

type Stats struct {
	TotalHours       float64
	StudyMinutes     int
	DaysWithStudy    int
	StudySessions    int
	RestSessions     int
	ExamDays         int
	MinutesBySubject map[string]int
}

// Summarize computes plan totals. TotalHours is rounded to one decimal.
func Summarize(sessions []Session) Stats {
	st := Stats{MinutesBySubject: make(map[string]int)}
	studyDays := make(map[civil.Date]bool)
	for _, s := range sessions {
		switch s.Type {
		case TypeStudy:
			st.StudySessions++
			st.StudyMinutes += s.Duration
			st.MinutesBySubject[s.Subject] += s.Duration
			studyDays[s.Date] = true
		case TypeRest:
			st.RestSessions++
		case TypeExam:
			st.ExamDays++
		}
	}
	st.DaysWithStudy = len(studyDays)
	st.TotalHours = math.Round(float64(st.StudyMinutes)/60*10) / 10
	return st
}

// CompletionRate is the rounded percentage of sessions marked done.
func CompletionRate(sessions []Session, completed map[string]bool) int {
	if len(sessions) == 0 {
		return 0
	}
	done := 0
	for _, s := range sessions {
		if completed[s.ID] {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(len(sessions)) * 100))
}
