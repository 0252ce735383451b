package queue

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// TimeOfDay is a wall-clock time expressed in minutes after midnight.
type TimeOfDay int

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("time of day %q: %w", s, ErrInvalidTime)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// On places t on the calendar day of day, in day's location.
func (t TimeOfDay) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), int(t)/60, int(t)%60, 0, 0, day.Location())
}

// Window is a [Start, End) range within a day.
type Window struct {
	Start TimeOfDay
	End   TimeOfDay
}

// ParseWindows reads "12:00-13:00,15:30-15:45".
func ParseWindows(raw string) ([]Window, error) {
	var out []Window
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		from, to, ok := strings.Cut(part, "-")
		if !ok {
			return nil, fmt.Errorf("window %q: want HH:MM-HH:MM: %w", part, ErrInvalidTime)
		}
		start, err := ParseTimeOfDay(from)
		if err != nil {
			return nil, err
		}
		end, err := ParseTimeOfDay(to)
		if err != nil {
			return nil, err
		}
		if end <= start {
			return nil, fmt.Errorf("window %q ends before it starts: %w", part, ErrInvalidTime)
		}
		out = append(out, Window{Start: start, End: end})
	}
	return out, nil
}

// DaySchedule is the business-hours configuration for one barber day.
// Open == Close means the barber does not work that day.
type DaySchedule struct {
	Open     TimeOfDay
	Close    TimeOfDay
	Breaks   []Window
	Location *time.Location
}

func (s DaySchedule) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

// ParseDate resolves a YYYY-MM-DD partition date in loc.
func ParseDate(date string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	d, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: %w", date, ErrInvalidDate)
	}
	return d, nil
}

// Bounds returns the business interval and the break intervals for date.
func (s DaySchedule) Bounds(date string) (Interval, []Interval, error) {
	day, err := ParseDate(date, s.location())
	if err != nil {
		return Interval{}, nil, err
	}
	hours := Interval{Start: s.Open.On(day), End: s.Close.On(day)}
	breaks := make([]Interval, 0, len(s.Breaks))
	for _, b := range s.Breaks {
		breaks = append(breaks, Interval{Start: b.Start.On(day), End: b.End.On(day)})
	}
	return hours, breaks, nil
}
