package planner

// Default pacing of a generated plan.
const (
	DefaultStudyMinutes      = 50
	DefaultShortBreakMinutes = 10
	DefaultLongBreakMinutes  = 60
	DefaultLongBreakAfter    = 3
	DefaultMaxDays           = 365
	DefaultFallbackStep      = 30
)

// Score multipliers.
const (
	chronotypeBonus   = 1.3
	repeatOnceDamping = 0.5
	repeatTwiceDamp   = 0.05
	daysUntilOffset   = 0.1
	morningUntilHour  = 12
	nightFromHour     = 18
)

// ExamMarkerDuration is the duration recorded on exam-day sessions.
const ExamMarkerDuration = 24 * 60

// Rules controls session lengths and loop bounds.
type Rules struct {
	StudyMinutes      int `toml:"study_minutes"`
	ShortBreakMinutes int `toml:"short_break_minutes"`
	LongBreakMinutes  int `toml:"long_break_minutes"`
	LongBreakAfter    int `toml:"long_break_after"`
	MaxDays           int `toml:"max_days"`
	FallbackStep      int `toml:"fallback_step_minutes"`
}

func DefaultRules() Rules {
	return Rules{
		StudyMinutes:      DefaultStudyMinutes,
		ShortBreakMinutes: DefaultShortBreakMinutes,
		LongBreakMinutes:  DefaultLongBreakMinutes,
		LongBreakAfter:    DefaultLongBreakAfter,
		MaxDays:           DefaultMaxDays,
		FallbackStep:      DefaultFallbackStep,
	}
}

// normalized replaces non-positive fields with their defaults so that every
// loop step makes progress.
func (r Rules) normalized() Rules {
	d := DefaultRules()
	if r.StudyMinutes <= 0 {
		r.StudyMinutes = d.StudyMinutes
	}
	if r.ShortBreakMinutes < 0 {
		r.ShortBreakMinutes = d.ShortBreakMinutes
	}
	if r.LongBreakMinutes <= 0 {
		r.LongBreakMinutes = d.LongBreakMinutes
	}
	if r.LongBreakAfter <= 0 {
		r.LongBreakAfter = d.LongBreakAfter
	}
	if r.MaxDays <= 0 {
		r.MaxDays = d.MaxDays
	}
	if r.FallbackStep <= 0 {
		r.FallbackStep = d.FallbackStep
	}
	return r
}

// slot is the cursor advance after placing a study session.
func (r Rules) slot() int { return r.StudyMinutes + r.ShortBreakMinutes }
