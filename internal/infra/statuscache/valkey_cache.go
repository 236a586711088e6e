package statuscache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/opening-hours/internal/domain/hours"
)

// ValkeyCache shares rendered statuses between instances through a Valkey-compatible database.
type ValkeyCache struct {
	client valkey.Client
	prefix string
}

// NewValkeyCache constructs a new cache backed by Valkey.
func NewValkeyCache(client valkey.Client, prefix string) *ValkeyCache {
	if prefix == "" {
		prefix = "hours"
	}
	return &ValkeyCache{client: client, prefix: prefix}
}

func (c *ValkeyCache) Get(ctx context.Context, key string) (hours.StatusResponse, bool, error) {
	cmd := c.client.B().Get().Key(c.entryKey(key)).Build()
	payload, err := c.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return hours.StatusResponse{}, false, nil
		}
		return hours.StatusResponse{}, false, err
	}
	var status hours.StatusResponse
	if err := json.Unmarshal([]byte(payload), &status); err != nil {
		return hours.StatusResponse{}, false, err
	}
	return status, true, nil
}

func (c *ValkeyCache) Save(ctx context.Context, key string, status hours.StatusResponse, ttl time.Duration) error {
	payload, err := json.Marshal(status)
	if err != nil {
		return err
	}
	builder := c.client.B().Set().Key(c.entryKey(key)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return c.client.Do(ctx, cmd).Error()
}

func (c *ValkeyCache) entryKey(key string) string {
	return c.prefix + ":status:" + key
}

var _ hours.StatusCache = (*ValkeyCache)(nil)
