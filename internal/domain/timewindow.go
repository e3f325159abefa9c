package domain

import (
	"fmt"
	"strings"
	"time"
)

const minutesPerDay = 24 * 60

// TimeOfDay is a wall-clock time as minutes since midnight.
type TimeOfDay int

func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay accepts "HH:MM" or "HH:MM:SS" (seconds are dropped).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewTimeOfDay(t.Hour(), t.Minute()), nil
		}
	}
	return 0, fmt.Errorf("parse time of day %q: expected HH:MM", s)
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

// AddMinutes wraps around midnight the way a wall clock does.
func (t TimeOfDay) AddMinutes(n int) TimeOfDay {
	v := (int(t) + n) % minutesPerDay
	if v < 0 {
		v += minutesPerDay
	}
	return TimeOfDay(v)
}

func (t TimeOfDay) AddHours(n int) TimeOfDay { return t.AddMinutes(n * 60) }

func (t TimeOfDay) String() string { return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute()) }

func (t TimeOfDay) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	parsed, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// TimeWindow is the half-open interval [Start, End) within one day.
type TimeWindow struct {
	Start TimeOfDay
	End   TimeOfDay
}

func (w TimeWindow) Valid() bool { return w.Start < w.End }

func (w TimeWindow) Minutes() int64 { return int64(w.End - w.Start) }

// Overlaps reports whether w (an existing window) and other (a new window) intersect.
// Touching endpoints do not overlap.
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return (w.Start <= other.Start && w.End > other.Start) ||
		(w.Start < other.End && w.End >= other.End) ||
		(w.Start >= other.Start && w.End <= other.End)
}

func (w TimeWindow) String() string { return w.Start.String() + "-" + w.End.String() }
