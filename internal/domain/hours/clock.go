package hours

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidTime is matched by every TimeParseError.
var ErrInvalidTime = errors.New("invalid time of day")

// TimeParseError describes a wall-clock string that is not a valid 24-hour HH:MM value.
type TimeParseError struct {
	Value  string
	Reason string
}

func (e *TimeParseError) Error() string {
	return fmt.Sprintf("invalid time of day %q: %s", e.Value, e.Reason)
}

// Is lets callers match any parse failure with errors.Is(err, ErrInvalidTime).
func (e *TimeParseError) Is(target error) bool {
	return target == ErrInvalidTime
}

// TimeOfDay is a wall-clock time expressed as minutes since midnight.
type TimeOfDay int

const minutesPerDay = 24 * 60

// ParseTimeOfDay parses a 24-hour "HH:MM" string. Single digit hours and minutes are accepted.
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	value := strings.TrimSpace(raw)
	hourPart, minutePart, found := strings.Cut(value, ":")
	if !found {
		return 0, &TimeParseError{Value: raw, Reason: "missing ':' separator"}
	}
	hour, err := parseClockField(hourPart)
	if err != nil {
		return 0, &TimeParseError{Value: raw, Reason: "hour is not numeric"}
	}
	minute, err := parseClockField(minutePart)
	if err != nil {
		return 0, &TimeParseError{Value: raw, Reason: "minute is not numeric"}
	}
	if hour > 23 {
		return 0, &TimeParseError{Value: raw, Reason: "hour must be between 0 and 23"}
	}
	if minute > 59 {
		return 0, &TimeParseError{Value: raw, Reason: "minute must be between 0 and 59"}
	}
	return TimeOfDay(hour*60 + minute), nil
}

func parseClockField(field string) (int, error) {
	if len(field) == 0 || len(field) > 2 {
		return 0, strconv.ErrSyntax
	}
	for _, r := range field {
		if r < '0' || r > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.Atoi(field)
}

// TimeOfDayOf reads the hour and minute of t. The date and seconds are ignored.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

// String renders the 24-hour form, e.g. "08:05".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Format12h renders the 12-hour display form, e.g. "8:05 AM" or "12:00 PM".
func (t TimeOfDay) Format12h() string {
	hour := t.Hour()
	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	display := hour
	switch {
	case hour == 0:
		display = 12
	case hour > 12:
		display = hour - 12
	}
	return fmt.Sprintf("%d:%02d %s", display, t.Minute(), period)
}

// FormatTimeOfDay converts a 24-hour "HH:MM" string into its 12-hour display form.
func FormatTimeOfDay(raw string) (string, error) {
	t, err := ParseTimeOfDay(raw)
	if err != nil {
		return "", err
	}
	return t.Format12h(), nil
}
