package hours

import (
	"context"
	"errors"
	"time"
)

// ErrScheduleUnavailable is returned by repositories when stored hours fail validation.
var ErrScheduleUnavailable = errors.New("stored schedule is invalid")

// LocationRepository loads locations and their schedules.
type LocationRepository interface {
	List(ctx context.Context) ([]Location, error)
	FindBySlug(ctx context.Context, slug string) (Location, bool, error)
}

// StatusCache stores rendered statuses keyed by location and minute.
type StatusCache interface {
	Get(ctx context.Context, key string) (StatusResponse, bool, error)
	Save(ctx context.Context, key string, status StatusResponse, ttl time.Duration) error
}
