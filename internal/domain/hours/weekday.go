package hours

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Weekday enumerates the days of a weekly schedule using the Sunday=0 ordering of time.Weekday.
type Weekday int

const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

const daysPerWeek = 7

var weekdayNames = [daysPerWeek]string{
	"Sunday",
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
}

var weekdaysByName = map[string]Weekday{
	"SUNDAY":    Sunday,
	"MONDAY":    Monday,
	"TUESDAY":   Tuesday,
	"WEDNESDAY": Wednesday,
	"THURSDAY":  Thursday,
	"FRIDAY":    Friday,
	"SATURDAY":  Saturday,
}

// ParseWeekday resolves a day name, ignoring case and surrounding whitespace.
func ParseWeekday(raw string) (Weekday, bool) {
	day, ok := weekdaysByName[strings.ToUpper(strings.TrimSpace(raw))]
	return day, ok
}

// WeekdayOf derives the weekday of t from its calendar date in t's own location.
func WeekdayOf(t time.Time) Weekday {
	return Weekday(t.Weekday())
}

// Valid reports whether d is one of the seven enumerated days.
func (d Weekday) Valid() bool {
	return d >= Sunday && d <= Saturday
}

// Add returns the weekday offset days after d, wrapping around the week.
func (d Weekday) Add(offset int) Weekday {
	next := (int(d) + offset) % daysPerWeek
	if next < 0 {
		next += daysPerWeek
	}
	return Weekday(next)
}

func (d Weekday) String() string {
	if !d.Valid() {
		return "Weekday(" + strconv.Itoa(int(d)) + ")"
	}
	return weekdayNames[d]
}

// MarshalText renders the weekday by name so JSON payloads read "Monday" instead of 1.
func (d Weekday) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText accepts any casing of a weekday name.
func (d *Weekday) UnmarshalText(text []byte) error {
	day, ok := ParseWeekday(string(text))
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownDay, string(text))
	}
	*d = day
	return nil
}
