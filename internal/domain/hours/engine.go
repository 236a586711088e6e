package hours

import "time"

// NextOpening describes the nearest future day on which the business opens.
type NextOpening struct {
	Day         Weekday   `json:"day"`
	Opens       TimeOfDay `json:"-"`
	DisplayTime string    `json:"displayTime"`
	DaysAhead   int       `json:"daysAhead"`
	IsToday     bool      `json:"isToday"`
	IsTomorrow  bool      `json:"isTomorrow"`
}

// Evaluation is the outcome of checking a schedule against an instant.
type Evaluation struct {
	Weekday     Weekday
	IsOpen      bool
	NextOpening *NextOpening
}

// IsOpenNow reports whether the entry for weekday contains the wall-clock time of instant.
// Only the hour and minute of instant are read.
func IsOpenNow(s Schedule, weekday Weekday, instant time.Time) bool {
	day, ok := s.Lookup(weekday)
	if !ok || day.Closed {
		return false
	}
	return day.Window.Contains(TimeOfDayOf(instant))
}

// FindNextOpening searches forward from the day after weekday, wrapping through the whole week, for
// the first day that is not closed. The evaluated day itself is only reached again a week later.
func FindNextOpening(s Schedule, weekday Weekday) (NextOpening, bool) {
	for offset := 1; offset <= daysPerWeek; offset++ {
		candidate := weekday.Add(offset)
		day, ok := s.Lookup(candidate)
		if !ok || day.Closed {
			continue
		}
		return NextOpening{
			Day:         candidate,
			Opens:       day.Window.Open,
			DisplayTime: day.Window.Open.Format12h(),
			DaysAhead:   offset,
			IsToday:     offset == 0,
			IsTomorrow:  offset == 1,
		}, true
	}
	return NextOpening{}, false
}

// Evaluate checks s against instant. The weekday comes from the instant's calendar date in its own
// location; callers that want business civil time convert the instant before calling.
func Evaluate(s Schedule, instant time.Time) Evaluation {
	weekday := WeekdayOf(instant)
	result := Evaluation{
		Weekday: weekday,
		IsOpen:  IsOpenNow(s, weekday, instant),
	}
	if result.IsOpen {
		return result
	}
	if next, ok := FindNextOpening(s, weekday); ok {
		result.NextOpening = &next
	}
	return result
}
