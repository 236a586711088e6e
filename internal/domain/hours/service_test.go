package hours

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/opening-hours/pkg/errors"
)

func TestServiceStatusClosedWithNextOpening(t *testing.T) {
	svc := newServiceUnderTest(t, mustParse("2024-06-02T10:00:00Z"))

	resp, err := svc.Status(context.Background(), StatusRequest{Slug: " MAIN "})
	require.NoError(t, err)
	require.Equal(t, "main", resp.Location)
	require.Equal(t, "Sunday", resp.Weekday)
	require.False(t, resp.IsOpen)
	require.Equal(t, "Closed", resp.Label)
	require.Equal(t, &NextOpeningView{Day: "Monday", DisplayTime: "8:00 AM", IsTomorrow: true}, resp.NextOpening)
	require.Equal(t, "Opens tomorrow at 8:00 AM", resp.Message)
	require.Equal(t, "UTC", resp.Timezone)
}

func TestServiceStatusExplicitInstant(t *testing.T) {
	svc := newServiceUnderTest(t, mustParse("2024-06-02T10:00:00Z"))

	resp, err := svc.Status(context.Background(), StatusRequest{Slug: "main", At: "2024-06-08T13:00:00Z"})
	require.NoError(t, err)
	require.True(t, resp.IsOpen)
	require.Equal(t, "Open Now", resp.Label)
	require.Nil(t, resp.NextOpening)
	require.Empty(t, resp.Message)
	require.Equal(t, "2024-06-08T13:00:00Z", resp.EvaluatedAt)
}

func TestServiceStatusNamesDayBeyondTomorrow(t *testing.T) {
	svc := newServiceUnderTest(t, mustParse("2024-06-02T10:00:00Z"))

	resp, err := svc.Status(context.Background(), StatusRequest{Slug: "main", At: "2024-06-08T15:00:00Z"})
	require.NoError(t, err)
	require.False(t, resp.IsOpen)
	require.Equal(t, "Opens Monday at 8:00 AM", resp.Message)
}

func TestServiceStatusConvertsClockIntoLocationZone(t *testing.T) {
	svc := newServiceUnderTest(t, mustParse("2024-06-03T02:00:00Z"))
	svc.repo = &stubRepository{locations: map[string]Location{
		"nyc": {Slug: "nyc", Name: "NYC", Timezone: "America/New_York", Schedule: siteSchedule()},
	}}

	resp, err := svc.Status(context.Background(), StatusRequest{Slug: "nyc"})
	require.NoError(t, err)
	require.Equal(t, "Sunday", resp.Weekday)
	require.Equal(t, "2024-06-02T22:00:00-04:00", resp.EvaluatedAt)
}

func TestServiceStatusUnknownTimezoneLabelKeepsClockZone(t *testing.T) {
	svc := newServiceUnderTest(t, mustParse("2024-06-03T09:00:00Z"))
	svc.repo = &stubRepository{locations: map[string]Location{
		"shop": {Slug: "shop", Timezone: "Eastern Time", Schedule: siteSchedule()},
	}}

	resp, err := svc.Status(context.Background(), StatusRequest{Slug: "shop"})
	require.NoError(t, err)
	require.True(t, resp.IsOpen)
	require.Equal(t, "Eastern Time", resp.Timezone)
}

func TestServiceStatusUsesCache(t *testing.T) {
	svc := newServiceUnderTest(t, mustParse("2024-06-02T10:00:30Z"))
	cache := svc.cache.(*stubCache)

	first, err := svc.Status(context.Background(), StatusRequest{Slug: "main"})
	require.NoError(t, err)
	require.Equal(t, 1, cache.saves)
	require.Equal(t, time.Minute, cache.lastTTL)
	_, ok := cache.items["main:2024-06-02T10:00:00Z"]
	require.True(t, ok)

	repo := svc.repo.(*stubRepository)
	repo.locations["main"] = Location{Slug: "main", Schedule: MustSchedule(nil)}
	second, err := svc.Status(context.Background(), StatusRequest{Slug: "main"})
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, cache.saves)
}

func TestServiceStatusCacheHitReportsRequestedInstant(t *testing.T) {
	svc := newServiceUnderTest(t, mustParse("2024-06-02T10:00:00Z"))
	cache := svc.cache.(*stubCache)

	first, err := svc.Status(context.Background(), StatusRequest{Slug: "main", At: "2024-06-02T10:00:05Z"})
	require.NoError(t, err)
	require.Equal(t, "2024-06-02T10:00:05Z", first.EvaluatedAt)

	second, err := svc.Status(context.Background(), StatusRequest{Slug: "main", At: "2024-06-02T10:00:45Z"})
	require.NoError(t, err)
	require.Equal(t, 1, cache.saves)
	require.Equal(t, "2024-06-02T10:00:45Z", second.EvaluatedAt)
	require.Equal(t, first.Message, second.Message)

	third, err := svc.Status(context.Background(), StatusRequest{Slug: "main", At: "2024-06-02T10:00:05Z"})
	require.NoError(t, err)
	require.Equal(t, "2024-06-02T10:00:05Z", third.EvaluatedAt)
}

func TestServiceStatusAcceptsUnescapedPositiveOffset(t *testing.T) {
	svc := newServiceUnderTest(t, mustParse("2024-06-02T10:00:00Z"))

	resp, err := svc.Status(context.Background(), StatusRequest{Slug: "main", At: "2024-06-08T15:00:00 02:00"})
	require.NoError(t, err)
	require.Equal(t, "2024-06-08T15:00:00+02:00", resp.EvaluatedAt)
	require.False(t, resp.IsOpen)

	_, err = svc.Status(context.Background(), StatusRequest{Slug: "main", At: "2024-06-08 15:00:00"})
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func TestServiceStatusIgnoresCacheFailures(t *testing.T) {
	svc := newServiceUnderTest(t, mustParse("2024-06-02T10:00:00Z"))
	svc.cache = &stubCache{err: errors.New("connection refused")}

	resp, err := svc.Status(context.Background(), StatusRequest{Slug: "main"})
	require.NoError(t, err)
	require.False(t, resp.IsOpen)
}

func TestServiceStatusErrors(t *testing.T) {
	svc := newServiceUnderTest(t, mustParse("2024-06-02T10:00:00Z"))
	ctx := context.Background()

	_, err := svc.Status(ctx, StatusRequest{Slug: ""})
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	_, err = svc.Status(ctx, StatusRequest{Slug: "missing"})
	require.True(t, apperrors.IsCode(err, "not_found"))

	_, err = svc.Status(ctx, StatusRequest{Slug: "main", At: "yesterday"})
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	svc.repo = &stubRepository{err: errors.New("dial tcp: timeout")}
	_, err = svc.Status(ctx, StatusRequest{Slug: "main"})
	require.True(t, apperrors.IsCode(err, "repository_error"))

	svc.repo = &stubRepository{err: ErrScheduleUnavailable}
	_, err = svc.Status(ctx, StatusRequest{Slug: "main"})
	require.True(t, apperrors.IsCode(err, "hours_unavailable"))
	require.Contains(t, err.Error(), "Hours unavailable")
}

func TestServiceWeek(t *testing.T) {
	svc := newServiceUnderTest(t, mustParse("2024-06-08T13:00:00Z"))
	svc.repo = &stubRepository{locations: map[string]Location{
		"main": {Slug: "main", Timezone: "America/New_York", Schedule: siteSchedule()},
	}}

	resp, err := svc.Week(context.Background(), WeekRequest{Slug: "main", At: "2024-06-08T13:00:00Z"})
	require.NoError(t, err)
	require.True(t, resp.Status.IsOpen)
	require.Equal(t, "All times shown in America/New York timezone", resp.TimezoneNote)
	require.Len(t, resp.Days, 7)

	require.Equal(t, DayRow{Day: "Monday", Hours: "8:00 AM - 6:00 PM"}, resp.Days[0])
	require.Equal(t, DayRow{Day: "Saturday", Hours: "9:00 AM - 2:00 PM", IsToday: true, IsOpenNow: true}, resp.Days[5])
	require.Equal(t, DayRow{Day: "Sunday", Hours: "Closed", Closed: true}, resp.Days[6])
}

func TestServiceOpeningHoursSkipsClosedDays(t *testing.T) {
	svc := newServiceUnderTest(t, mustParse("2024-06-02T10:00:00Z"))

	doc, err := svc.OpeningHours(context.Background(), "main")
	require.NoError(t, err)
	require.Equal(t, "https://schema.org", doc.Context)
	require.Equal(t, "LocalBusiness", doc.Type)
	require.Equal(t, "Main Street", doc.Name)
	specs := doc.OpeningHoursSpecification
	require.Len(t, specs, 6)
	require.Equal(t, OpeningHoursSpecification{
		Type:      "OpeningHoursSpecification",
		DayOfWeek: "Saturday",
		Opens:     "09:00",
		Closes:    "14:00",
	}, specs[5])
}

func TestServiceEvaluateAdHocSchedule(t *testing.T) {
	svc := newServiceUnderTest(t, mustParse("2024-06-05T12:00:00Z"))

	resp, err := svc.Evaluate(context.Background(), EvaluateRequest{
		Hours: []DayHours{
			{Day: "Wednesday", Closed: true},
			{Day: "Thursday", Open: "09:00", Close: "17:00"},
		},
	})
	require.NoError(t, err)
	require.False(t, resp.IsOpen)
	require.Equal(t, "Thursday", resp.NextOpening.Day)
	require.True(t, resp.NextOpening.IsTomorrow)
	require.Empty(t, resp.Location)
}

func TestServiceEvaluateRejectsInvalidHours(t *testing.T) {
	svc := newServiceUnderTest(t, mustParse("2024-06-05T12:00:00Z"))

	_, err := svc.Evaluate(context.Background(), EvaluateRequest{
		Hours: []DayHours{{Day: "Wednesday", Open: "9am", Close: "17:00"}},
	})
	require.True(t, apperrors.IsCode(err, "invalid_input"))
	require.ErrorIs(t, err, ErrInvalidTime)
}

func TestServiceLocations(t *testing.T) {
	svc := newServiceUnderTest(t, mustParse("2024-06-05T12:00:00Z"))

	items, err := svc.Locations(context.Background())
	require.NoError(t, err)
	require.Equal(t, []LocationSummary{{Slug: "main", Name: "Main Street", Timezone: "UTC"}}, items)
}

func newServiceUnderTest(t *testing.T, now time.Time) *service {
	t.Helper()
	return &service{
		cfg: Config{CacheTTL: time.Minute},
		repo: &stubRepository{locations: map[string]Location{
			"main": {Slug: "main", Name: "Main Street", Timezone: "UTC", Schedule: siteSchedule()},
		}},
		cache:  &stubCache{items: map[string]StatusResponse{}},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    func() time.Time { return now },
	}
}

type stubRepository struct {
	locations map[string]Location
	err       error
}

func (r *stubRepository) List(context.Context) ([]Location, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make([]Location, 0, len(r.locations))
	for _, loc := range r.locations {
		out = append(out, loc)
	}
	return out, nil
}

func (r *stubRepository) FindBySlug(_ context.Context, slug string) (Location, bool, error) {
	if r.err != nil {
		return Location{}, false, r.err
	}
	loc, ok := r.locations[slug]
	return loc, ok, nil
}

type stubCache struct {
	items   map[string]StatusResponse
	err     error
	saves   int
	lastTTL time.Duration
}

func (c *stubCache) Get(_ context.Context, key string) (StatusResponse, bool, error) {
	if c.err != nil {
		return StatusResponse{}, false, c.err
	}
	status, ok := c.items[key]
	return status, ok, nil
}

func (c *stubCache) Save(_ context.Context, key string, status StatusResponse, ttl time.Duration) error {
	if c.err != nil {
		return c.err
	}
	c.saves++
	c.lastTTL = ttl
	c.items[key] = status
	return nil
}

func mustParse(value string) time.Time {
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return ts
}
