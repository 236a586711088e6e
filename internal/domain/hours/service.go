package hours

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/yanqian/opening-hours/pkg/errors"
	"github.com/yanqian/opening-hours/pkg/util"
)

const (
	labelOpen   = "Open Now"
	labelClosed = "Closed"
)

// Service exposes business-hours queries for configured locations.
type Service interface {
	Status(ctx context.Context, req StatusRequest) (StatusResponse, error)
	Week(ctx context.Context, req WeekRequest) (WeekResponse, error)
	OpeningHours(ctx context.Context, slug string) (LocalBusinessSchema, error)
	Evaluate(ctx context.Context, req EvaluateRequest) (StatusResponse, error)
	Locations(ctx context.Context) ([]LocationSummary, error)
}

type service struct {
	cfg    Config
	repo   LocationRepository
	cache  StatusCache
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires up the hours domain.
func NewService(cfg Config, repo LocationRepository, cache StatusCache, logger *slog.Logger) Service {
	return &service{
		cfg:    cfg,
		repo:   repo,
		cache:  cache,
		logger: logger.With("component", "hours.service"),
		now:    time.Now,
	}
}

func (s *service) Status(ctx context.Context, req StatusRequest) (StatusResponse, error) {
	loc, err := s.location(ctx, req.Slug)
	if err != nil {
		return StatusResponse{}, err
	}
	instant, err := s.resolveInstant(req.At, loc.Timezone)
	if err != nil {
		return StatusResponse{}, err
	}

	key := statusCacheKey(loc.Slug, instant)
	if cached, ok := s.cachedStatus(ctx, key); ok {
		cached.EvaluatedAt = instant.Format(time.RFC3339)
		return cached, nil
	}

	status := buildStatus(loc.Slug, loc.Timezone, instant, Evaluate(loc.Schedule, instant))
	s.logger.Info("hours status evaluated", "location", loc.Slug, "weekday", status.Weekday, "open", status.IsOpen)
	s.storeStatus(ctx, key, status)
	return status, nil
}

func (s *service) Week(ctx context.Context, req WeekRequest) (WeekResponse, error) {
	loc, err := s.location(ctx, req.Slug)
	if err != nil {
		return WeekResponse{}, err
	}
	instant, err := s.resolveInstant(req.At, loc.Timezone)
	if err != nil {
		return WeekResponse{}, err
	}

	eval := Evaluate(loc.Schedule, instant)
	days := loc.Schedule.Days()
	rows := make([]DayRow, 0, len(days))
	for _, day := range days {
		isToday := day.Weekday == eval.Weekday
		rows = append(rows, DayRow{
			Day:       day.Weekday.String(),
			Hours:     displayHours(day),
			Closed:    day.Closed,
			IsToday:   isToday,
			IsOpenNow: isToday && eval.IsOpen,
		})
	}

	return WeekResponse{
		Status:       buildStatus(loc.Slug, loc.Timezone, instant, eval),
		Days:         rows,
		Timezone:     loc.Timezone,
		TimezoneNote: timezoneNote(loc.Timezone),
	}, nil
}

func (s *service) OpeningHours(ctx context.Context, slug string) (LocalBusinessSchema, error) {
	loc, err := s.location(ctx, slug)
	if err != nil {
		return LocalBusinessSchema{}, err
	}
	days := loc.Schedule.Days()
	specs := make([]OpeningHoursSpecification, 0, len(days))
	for _, day := range days {
		if day.Closed {
			continue
		}
		specs = append(specs, OpeningHoursSpecification{
			Type:      "OpeningHoursSpecification",
			DayOfWeek: day.Weekday.String(),
			Opens:     day.Window.Open.String(),
			Closes:    day.Window.Close.String(),
		})
	}
	name := loc.Name
	if name == "" {
		name = loc.Slug
	}
	return LocalBusinessSchema{
		Context:                   "https://schema.org",
		Type:                      "LocalBusiness",
		Name:                      name,
		OpeningHoursSpecification: specs,
	}, nil
}

func (s *service) Evaluate(_ context.Context, req EvaluateRequest) (StatusResponse, error) {
	schedule, err := NewSchedule(req.Hours)
	if err != nil {
		s.logger.Warn("ad-hoc schedule rejected", "entries", len(req.Hours), "error", err)
		return StatusResponse{}, apperrors.Wrap("invalid_input", "hours are invalid", err)
	}
	instant, err := s.resolveInstant(req.At, req.Timezone)
	if err != nil {
		return StatusResponse{}, err
	}
	return buildStatus("", strings.TrimSpace(req.Timezone), instant, Evaluate(schedule, instant)), nil
}

func (s *service) Locations(ctx context.Context) ([]LocationSummary, error) {
	locations, err := s.repo.List(ctx)
	if err != nil {
		return nil, s.repositoryError(err)
	}
	out := make([]LocationSummary, 0, len(locations))
	for _, loc := range locations {
		out = append(out, LocationSummary{Slug: loc.Slug, Name: loc.Name, Timezone: loc.Timezone})
	}
	return out, nil
}

func (s *service) location(ctx context.Context, slug string) (Location, error) {
	key := normalizeSlug(slug)
	if key == "" {
		return Location{}, apperrors.Wrap("invalid_input", "location slug cannot be empty", nil)
	}
	loc, ok, err := s.repo.FindBySlug(ctx, key)
	if err != nil {
		return Location{}, s.repositoryError(err)
	}
	if !ok {
		return Location{}, apperrors.Wrap("not_found", fmt.Sprintf("location %q not found", key), nil)
	}
	return loc, nil
}

func (s *service) repositoryError(err error) error {
	if errors.Is(err, ErrScheduleUnavailable) {
		s.logger.Error("stored schedule failed validation", "error", err)
		return apperrors.Wrap("hours_unavailable", "Hours unavailable", err)
	}
	s.logger.Error("location lookup failed", "error", err)
	return apperrors.Wrap("repository_error", "failed to load location", err)
}

// resolveInstant returns the explicit instant when given, otherwise the injected clock moved into the
// business timezone when the label names a loadable IANA zone.
func (s *service) resolveInstant(at, timezone string) (time.Time, error) {
	if trimmed := strings.TrimSpace(at); trimmed != "" {
		instant, err := parseInstant(trimmed)
		if err != nil {
			return time.Time{}, apperrors.Wrap("invalid_input", "at must be an RFC3339 timestamp", err)
		}
		return instant, nil
	}
	now := s.now()
	local, ok := util.InZone(now, timezone)
	if !ok && strings.TrimSpace(timezone) != "" {
		s.logger.Debug("timezone label is not an IANA zone, using clock zone", "timezone", timezone)
	}
	return local, nil
}

func (s *service) cachedStatus(ctx context.Context, key string) (StatusResponse, bool) {
	if s.cache == nil || s.cfg.CacheTTL <= 0 {
		return StatusResponse{}, false
	}
	status, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("status cache read failed", "key", key, "error", err)
		return StatusResponse{}, false
	}
	return status, ok
}

func (s *service) storeStatus(ctx context.Context, key string, status StatusResponse) {
	if s.cache == nil || s.cfg.CacheTTL <= 0 {
		return
	}
	if err := s.cache.Save(ctx, key, status, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("status cache write failed", "key", key, "error", err)
	}
}

func buildStatus(slug, timezone string, instant time.Time, eval Evaluation) StatusResponse {
	status := StatusResponse{
		Location:    slug,
		EvaluatedAt: instant.Format(time.RFC3339),
		Weekday:     eval.Weekday.String(),
		IsOpen:      eval.IsOpen,
		Label:       labelClosed,
		Timezone:    timezone,
	}
	if eval.IsOpen {
		status.Label = labelOpen
		return status
	}
	if next := eval.NextOpening; next != nil {
		status.NextOpening = &NextOpeningView{
			Day:         next.Day.String(),
			DisplayTime: next.DisplayTime,
			IsToday:     next.IsToday,
			IsTomorrow:  next.IsTomorrow,
		}
		status.Message = openingMessage(*next)
	}
	return status
}

func openingMessage(next NextOpening) string {
	when := next.Day.String()
	if next.IsTomorrow {
		when = "tomorrow"
	}
	return fmt.Sprintf("Opens %s at %s", when, next.DisplayTime)
}

func displayHours(day Day) string {
	if day.Closed {
		return labelClosed
	}
	return day.Window.Open.Format12h() + " - " + day.Window.Close.Format12h()
}

func timezoneNote(timezone string) string {
	tz := strings.TrimSpace(timezone)
	if tz == "" {
		return ""
	}
	return "All times shown in " + strings.Replace(tz, "_", " ", 1) + " timezone"
}

// parseInstant reads an RFC3339 timestamp. A positive offset whose "+" arrived unescaped in a query
// string decodes to a space, so that form is accepted too.
func parseInstant(raw string) (time.Time, error) {
	instant, err := time.Parse(time.RFC3339, raw)
	if err == nil || !strings.Contains(raw, " ") {
		return instant, err
	}
	if repaired, repairErr := time.Parse(time.RFC3339, strings.Replace(raw, " ", "+", 1)); repairErr == nil {
		return repaired, nil
	}
	return time.Time{}, err
}

func statusCacheKey(slug string, instant time.Time) string {
	return slug + ":" + instant.Truncate(time.Minute).Format(time.RFC3339)
}

func normalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}
