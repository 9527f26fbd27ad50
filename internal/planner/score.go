package planner

import "cloud.google.com/go/civil"

// DaysUntil is the whole number of days from day to the exam, at least 1.
func DaysUntil(exam Exam, day civil.Date) int {
	n := exam.Date.DaysSince(day)
	if n < 1 {
		return 1
	}
	return n
}

// Score rates how urgently exam should be studied in the slot starting at
// `at` on day. consecutive is the number of times the subject was picked in a
// row immediately before this slot.
func Score(exam Exam, day civil.Date, at Clock, consecutive int, chronotype Chronotype) float64 {
	d := float64(exam.Difficulty)
	score := d * d * exam.Priority / (float64(DaysUntil(exam, day)) + daysUntilOffset)

	switch {
	case consecutive >= 2:
		score *= repeatTwiceDamp
	case consecutive == 1:
		score *= repeatOnceDamping
	}

	if (chronotype == Morning && at.Hour() < morningUntilHour) ||
		(chronotype == Night && at.Hour() >= nightFromHour) {
		score *= chronotypeBonus
	}
	return score
}

// pickExam returns the index of the candidate with the strictly highest
// positive score, or -1 when none scores above zero. Ties keep the earliest
// candidate.
func pickExam(candidates []Exam, day civil.Date, at Clock, consecutive map[string]int, chronotype Chronotype) int {
	best := -1
	bestScore := 0.0
	for i, e := range candidates {
		s := Score(e, day, at, consecutive[e.Subject], chronotype)
		if s > bestScore {
			best, bestScore = i, s
		}
	}
	return best
}
