package hours

import "time"

// Location is a business site with its validated weekly schedule.
type Location struct {
	Slug     string
	Name     string
	Timezone string
	Schedule Schedule
}

// Config wires runtime knobs for the hours service.
type Config struct {
	CacheTTL time.Duration
}

// StatusRequest asks for the open/closed state of a location. At is an optional RFC3339 instant.
type StatusRequest struct {
	Slug string `json:"slug"`
	At   string `json:"at"`
}

// StatusResponse is serialized back to API consumers.
type StatusResponse struct {
	Location    string           `json:"location,omitempty"`
	EvaluatedAt string           `json:"evaluatedAt"`
	Weekday     string           `json:"weekday"`
	IsOpen      bool             `json:"isOpen"`
	Label       string           `json:"label"`
	NextOpening *NextOpeningView `json:"nextOpening,omitempty"`
	Message     string           `json:"message,omitempty"`
	Timezone    string           `json:"timezone,omitempty"`
}

// NextOpeningView is the display form of NextOpening.
type NextOpeningView struct {
	Day         string `json:"day"`
	DisplayTime string `json:"displayTime"`
	IsToday     bool   `json:"isToday"`
	IsTomorrow  bool   `json:"isTomorrow"`
}

// WeekRequest asks for the full schedule listing of a location.
type WeekRequest struct {
	Slug string `json:"slug"`
	At   string `json:"at"`
}

// WeekResponse lists every configured day alongside the current status.
type WeekResponse struct {
	Status       StatusResponse `json:"status"`
	Days         []DayRow       `json:"days"`
	Timezone     string         `json:"timezone,omitempty"`
	TimezoneNote string         `json:"timezoneNote,omitempty"`
}

// DayRow is one line of the schedule listing.
type DayRow struct {
	Day       string `json:"day"`
	Hours     string `json:"hours"`
	Closed    bool   `json:"closed"`
	IsToday   bool   `json:"isToday"`
	IsOpenNow bool   `json:"isOpenNow"`
}

// OpeningHoursSpecification follows schema.org/OpeningHoursSpecification for JSON-LD output.
type OpeningHoursSpecification struct {
	Type      string `json:"@type"`
	DayOfWeek string `json:"dayOfWeek"`
	Opens     string `json:"opens"`
	Closes    string `json:"closes"`
}

// LocalBusinessSchema is a standalone schema.org LocalBusiness JSON-LD document.
type LocalBusinessSchema struct {
	Context                   string                      `json:"@context"`
	Type                      string                      `json:"@type"`
	Name                      string                      `json:"name"`
	OpeningHoursSpecification []OpeningHoursSpecification `json:"openingHoursSpecification"`
}

// EvaluateRequest evaluates an ad-hoc schedule that is not stored anywhere.
type EvaluateRequest struct {
	Hours    []DayHours `json:"hours"`
	At       string     `json:"at"`
	Timezone string     `json:"timezone"`
}

// LocationSummary is the listing form of a Location.
type LocationSummary struct {
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Timezone string `json:"timezone,omitempty"`
}
