package hours

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewScheduleValid(t *testing.T) {
	s, err := NewSchedule([]DayHours{
		{Day: "Monday", Open: "08:00", Close: "18:00"},
		{Day: "Friday", Open: "22:00", Close: "02:00"},
		{Day: "Sunday", Closed: true},
	})
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())

	monday, ok := s.Lookup(Monday)
	require.True(t, ok)
	require.Equal(t, Window{Open: 8 * 60, Close: 18 * 60}, monday.Window)
	require.False(t, monday.Window.Overnight())

	friday, ok := s.Lookup(Friday)
	require.True(t, ok)
	require.True(t, friday.Window.Overnight())

	sunday, ok := s.Lookup(Sunday)
	require.True(t, ok)
	require.True(t, sunday.Closed)

	_, ok = s.Lookup(Tuesday)
	require.False(t, ok)
}

func TestNewScheduleClosedDayIgnoresTimes(t *testing.T) {
	_, err := NewSchedule([]DayHours{{Day: "Sunday", Open: "garbage", Close: "", Closed: true}})
	require.NoError(t, err)
}

func TestNewScheduleReportsEveryProblem(t *testing.T) {
	_, err := NewSchedule([]DayHours{
		{Day: "Monday", Open: "08:00", Close: "18:00"},
		{Day: "Mondey", Open: "08:00", Close: "18:00"},
		{Day: "monday", Open: "09:00", Close: "17:00"},
		{Day: "Tuesday", Open: "25:00", Close: "8pm"},
	})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrUnknownDay)
	require.ErrorIs(t, err, ErrDuplicateDay)
	require.ErrorIs(t, err, ErrInvalidTime)

	var joined interface{ Unwrap() []error }
	require.True(t, errors.As(err, &joined))
	require.Len(t, joined.Unwrap(), 4)
	require.Contains(t, err.Error(), "hours[3] (Tuesday).open")
}

func TestNewScheduleRejectsTooManyEntries(t *testing.T) {
	entries := make([]DayHours, 0, 8)
	for _, name := range weekdayNames {
		entries = append(entries, DayHours{Day: name, Open: "08:00", Close: "17:00"})
	}
	entries = append(entries, DayHours{Day: "Monday", Closed: true})

	_, err := NewSchedule(entries)
	require.ErrorIs(t, err, ErrTooManyDays)
}

func TestScheduleDaysReturnsCopy(t *testing.T) {
	s := MustSchedule([]DayHours{{Day: "Monday", Open: "08:00", Close: "18:00"}})
	days := s.Days()
	days[0].Closed = true

	monday, _ := s.Lookup(Monday)
	require.False(t, monday.Closed)
}

func TestScheduleEntriesRoundTrip(t *testing.T) {
	raw := []DayHours{
		{Day: "Saturday", Open: "09:00", Close: "14:00"},
		{Day: "Sunday", Closed: true},
	}
	s := MustSchedule(raw)
	require.Equal(t, raw, s.Entries())
}

func TestZeroScheduleHasNoDays(t *testing.T) {
	var s Schedule
	for d := Sunday; d <= Saturday; d++ {
		_, ok := s.Lookup(d)
		require.False(t, ok)
	}
}
