package hours

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		input    string
		expected Weekday
		ok       bool
	}{
		{input: "Sunday", expected: Sunday, ok: true},
		{input: "  monday ", expected: Monday, ok: true},
		{input: "SATURDAY", expected: Saturday, ok: true},
		{input: "Funday", ok: false},
		{input: "", ok: false},
	}

	for _, tc := range tests {
		got, ok := ParseWeekday(tc.input)
		if ok != tc.ok {
			t.Fatalf("%q: expected ok=%v, got %v", tc.input, tc.ok, ok)
		}
		if ok && got != tc.expected {
			t.Fatalf("%q: expected %v, got %v", tc.input, tc.expected, got)
		}
	}
}

func TestWeekdayAddWraps(t *testing.T) {
	if got := Saturday.Add(1); got != Sunday {
		t.Fatalf("expected Sunday, got %v", got)
	}
	if got := Wednesday.Add(7); got != Wednesday {
		t.Fatalf("expected Wednesday, got %v", got)
	}
	if got := Sunday.Add(-1); got != Saturday {
		t.Fatalf("expected Saturday, got %v", got)
	}
}

func TestWeekdayOfUsesSundayZero(t *testing.T) {
	sunday := time.Date(2024, 6, 2, 12, 0, 0, 0, time.UTC)
	if got := WeekdayOf(sunday); got != Sunday {
		t.Fatalf("expected Sunday, got %v", got)
	}
	if got := WeekdayOf(sunday.AddDate(0, 0, 6)); got != Saturday {
		t.Fatalf("expected Saturday, got %v", got)
	}
}

func TestWeekdayJSON(t *testing.T) {
	raw, err := json.Marshal(Thursday)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `"Thursday"` {
		t.Fatalf("unexpected encoding %s", raw)
	}

	var day Weekday
	if err := json.Unmarshal([]byte(`"friday"`), &day); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if day != Friday {
		t.Fatalf("expected Friday, got %v", day)
	}
	if err := json.Unmarshal([]byte(`"someday"`), &day); err == nil {
		t.Fatal("expected error for unknown day")
	}
}

func TestWeekdayUnmarshalErrorNamesValueOnly(t *testing.T) {
	var days []Weekday
	err := json.Unmarshal([]byte(`["Monday","Moonday"]`), &days)
	if !errors.Is(err, ErrUnknownDay) {
		t.Fatalf("expected ErrUnknownDay, got %v", err)
	}
	if !strings.Contains(err.Error(), `unknown day: "Moonday"`) {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if strings.Contains(err.Error(), "hours[") {
		t.Fatalf("message carries a schedule position: %q", err.Error())
	}
}
