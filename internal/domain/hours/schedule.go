package hours

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownDay marks an entry whose day is not a weekday name.
	ErrUnknownDay = errors.New("unknown day")
	// ErrDuplicateDay marks a second entry for a day already present in the schedule.
	ErrDuplicateDay = errors.New("duplicate day")
	// ErrTooManyDays marks a schedule with more than one entry per weekday.
	ErrTooManyDays = errors.New("schedule has more than 7 entries")
)

// DayHours is a caller-supplied schedule entry, as found in configuration files and request bodies.
type DayHours struct {
	Day    string `json:"day" yaml:"day"`
	Open   string `json:"open" yaml:"open"`
	Close  string `json:"close" yaml:"close"`
	Closed bool   `json:"closed,omitempty" yaml:"closed"`
}

// ScheduleError points at the entry that failed validation.
type ScheduleError struct {
	Index int
	Day   string
	Field string
	Err   error
}

func (e *ScheduleError) Error() string {
	subject := fmt.Sprintf("hours[%d]", e.Index)
	if e.Day != "" {
		subject += " (" + e.Day + ")"
	}
	if e.Field != "" {
		subject += "." + e.Field
	}
	return subject + ": " + e.Err.Error()
}

func (e *ScheduleError) Unwrap() error {
	return e.Err
}

// Window is a half-open [Open, Close) interval of wall-clock time.
type Window struct {
	Open  TimeOfDay
	Close TimeOfDay
}

// Overnight reports whether the window crosses midnight.
func (w Window) Overnight() bool {
	return w.Close < w.Open
}

// Contains reports whether t falls inside the window, wrapping past midnight for overnight windows.
// A window whose bounds are equal contains nothing.
func (w Window) Contains(t TimeOfDay) bool {
	if w.Overnight() {
		return t >= w.Open || t < w.Close
	}
	return t >= w.Open && t < w.Close
}

// Day is a validated schedule entry.
type Day struct {
	Weekday Weekday
	Window  Window
	Closed  bool
}

// Schedule is an immutable, validated weekly schedule with at most one entry per weekday.
type Schedule struct {
	days  []Day
	index [daysPerWeek]int
}

// NewSchedule validates raw entries once so that evaluation never has to fail.
// Every problem is reported; the returned error joins one *ScheduleError per bad entry.
func NewSchedule(entries []DayHours) (Schedule, error) {
	var problems []error
	if len(entries) > daysPerWeek {
		problems = append(problems, ErrTooManyDays)
	}

	s := Schedule{days: make([]Day, 0, len(entries))}
	for i := range s.index {
		s.index[i] = -1
	}

	for i, entry := range entries {
		weekday, ok := ParseWeekday(entry.Day)
		if !ok {
			problems = append(problems, &ScheduleError{Index: i, Day: entry.Day, Field: "day", Err: ErrUnknownDay})
			continue
		}
		if s.index[weekday] >= 0 {
			problems = append(problems, &ScheduleError{Index: i, Day: entry.Day, Field: "day", Err: ErrDuplicateDay})
			continue
		}

		day := Day{Weekday: weekday, Closed: entry.Closed}
		if !entry.Closed {
			open, err := ParseTimeOfDay(entry.Open)
			if err != nil {
				problems = append(problems, &ScheduleError{Index: i, Day: entry.Day, Field: "open", Err: err})
			}
			closes, closeErr := ParseTimeOfDay(entry.Close)
			if closeErr != nil {
				problems = append(problems, &ScheduleError{Index: i, Day: entry.Day, Field: "close", Err: closeErr})
			}
			if err != nil || closeErr != nil {
				continue
			}
			day.Window = Window{Open: open, Close: closes}
		}

		s.index[weekday] = len(s.days)
		s.days = append(s.days, day)
	}

	if len(problems) > 0 {
		return Schedule{}, errors.Join(problems...)
	}
	return s, nil
}

// MustSchedule is NewSchedule for literals known to be valid; it panics otherwise.
func MustSchedule(entries []DayHours) Schedule {
	s, err := NewSchedule(entries)
	if err != nil {
		panic(err)
	}
	return s
}

// Lookup returns the entry for weekday, if the schedule has one.
func (s Schedule) Lookup(weekday Weekday) (Day, bool) {
	if !weekday.Valid() || len(s.days) == 0 {
		return Day{}, false
	}
	i := s.index[weekday]
	if i < 0 {
		return Day{}, false
	}
	return s.days[i], true
}

// Days returns a copy of the entries in the order they were supplied.
func (s Schedule) Days() []Day {
	out := make([]Day, len(s.days))
	copy(out, s.days)
	return out
}

// Len reports the number of entries.
func (s Schedule) Len() int {
	return len(s.days)
}

// Entries converts the schedule back into its raw form.
func (s Schedule) Entries() []DayHours {
	out := make([]DayHours, 0, len(s.days))
	for _, day := range s.days {
		entry := DayHours{Day: day.Weekday.String(), Closed: day.Closed}
		if !day.Closed {
			entry.Open = day.Window.Open.String()
			entry.Close = day.Window.Close.String()
		}
		out = append(out, entry)
	}
	return out
}
