package planner

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ValidationError reports the first preferences field that makes a
// generation run meaningless.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
			return isDayName(fl.Field().String())
		})
		validate = v
	})
	return validate
}

var dayNames = []string{Everyday, "Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

func isDayName(s string) bool {
	for _, d := range dayNames {
		if strings.EqualFold(s, d) {
			return true
		}
	}
	return false
}

// Validate checks the preconditions of Generate.
func Validate(p Preferences) error {
	if err := structValidator().Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fromFieldError(verrs[0])
		}
		return fmt.Errorf("validating preferences: %w", err)
	}

	if !p.StartDate.IsValid() {
		return &ValidationError{Field: "startDate", Reason: "not a calendar date"}
	}
	daily := p.DailyWindow()
	if err := checkWindow("dailyStart", "dailyEnd", daily.Start, daily.End); err != nil {
		return err
	}
	for i, e := range p.Exams {
		if !e.Date.IsValid() {
			return &ValidationError{Field: fmt.Sprintf("exams[%d].date", i), Reason: "not a calendar date"}
		}
	}
	for i, b := range p.BlockedTimes {
		prefix := fmt.Sprintf("blockedTimes[%d].", i)
		if err := checkWindow(prefix+"start", prefix+"end", b.Start, b.End); err != nil {
			return err
		}
	}
	for day, sd := range p.SchoolSchedule.Weekly {
		prefix := "schoolSchedule.weeklySchedule." + day
		if !isDayName(day) || strings.EqualFold(day, Everyday) {
			return &ValidationError{Field: prefix, Reason: "not a weekday name"}
		}
		if !sd.HasSchool {
			continue
		}
		if err := checkWindow(prefix+".start", prefix+".end", sd.Start, sd.End); err != nil {
			return err
		}
	}
	return nil
}

func checkWindow(startField, endField string, start, end Clock) error {
	if start < Midnight || start > EndOfDay {
		return &ValidationError{Field: startField, Reason: "outside 00:00-23:59"}
	}
	if end < Midnight || end > EndOfDay {
		return &ValidationError{Field: endField, Reason: "outside 00:00-23:59"}
	}
	if start >= end {
		return &ValidationError{Field: endField, Reason: fmt.Sprintf("%s is not after %s", end, start)}
	}
	return nil
}

func fromFieldError(fe validator.FieldError) *ValidationError {
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}

	var reason string
	switch fe.Tag() {
	case "required":
		reason = "is required"
	case "min", "gte":
		reason = "must be at least " + fe.Param()
	case "max", "lte":
		reason = "must be at most " + fe.Param()
	case "gt":
		reason = "must be greater than " + fe.Param()
	case "oneof":
		reason = "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "weekday":
		reason = "must be Everyday or a weekday name"
	default:
		reason = "is invalid"
	}
	return &ValidationError{Field: field, Reason: reason}
}
