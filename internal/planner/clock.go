package planner

import (
	"fmt"
	"strconv"
	"strings"
)

// Clock is a time of day counted in minutes since midnight.
type Clock int

const (
	Midnight  Clock = 0
	EndOfDay  Clock = 23*60 + 59
	dayLength       = 24 * 60
)

// ParseClock parses a zero-padded or bare "HH:MM" 24-hour string.
func ParseClock(s string) (Clock, error) {
	hs, ms, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(ms) != 2 || len(hs) == 0 || len(hs) > 2 {
		return 0, fmt.Errorf("invalid time of day %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(hs)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(ms)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return Clock(h*60 + m), nil
}

// MustClock is ParseClock for literals; it panics on malformed input.
func MustClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// NewClock is MustClock returning a pointer, for optional fields.
func NewClock(s string) *Clock {
	c := MustClock(s)
	return &c
}

func (c Clock) Hour() int { return int(c) / 60 }
func (c Clock) Minute() int { return int(c) % 60 }

// Add returns the clock advanced by n minutes. The result is not wrapped at
// midnight so that window arithmetic can compare against window ends.
func (c Clock) Add(minutes int) Clock { return c + Clock(minutes) }

// Sub returns c - o in minutes.
func (c Clock) Sub(o Clock) int { return int(c - o) }

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// Format12 renders the clock as "h:MM AM/PM".
func (c Clock) Format12() string {
	h := c.Hour()
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h %= 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, c.Minute(), suffix)
}

func (c Clock) MarshalText() ([]byte, error) {
	if c < 0 || c >= dayLength {
		return nil, fmt.Errorf("time of day %d out of range", int(c))
	}
	return []byte(c.String()), nil
}

func (c *Clock) UnmarshalText(b []byte) error {
	v, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Window is a half-open [Start, End) interval of a single day.
type Window struct {
	Start Clock
	End   Clock
}

func (w Window) Empty() bool { return w.End <= w.Start }
func (w Window) Minutes() int { return w.End.Sub(w.Start) }
func (w Window) Contains(c Clock) bool { return c >= w.Start && c < w.End }

// Overlaps reports whether the two half-open intervals intersect.
func (w Window) Overlaps(o Window) bool {
	return w.Start < o.End && o.Start < w.End
}

func (w Window) String() string {
	return w.Start.String() + "-" + w.End.String()
}
