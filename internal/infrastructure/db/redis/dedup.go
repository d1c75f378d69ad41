package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// dedupTTL matches the payment provider's redelivery window: Stripe retries
// failed webhook deliveries for up to three days.
const dedupTTL = 72 * time.Hour

// EventDedup provides webhook idempotency checks backed by Redis.
// Key format: webhook:event:<event_id>
type EventDedup struct {
	client *redis.Client
}

// NewEventDedup creates an EventDedup wrapping the given Redis client.
func NewEventDedup(client *redis.Client) *EventDedup {
	return &EventDedup{client: client}
}

// Seen reports whether this event id has already been processed.
func (d *EventDedup) Seen(ctx context.Context, eventID string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(eventID)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this event has been processed (expires after dedupTTL).
func (d *EventDedup) Mark(ctx context.Context, eventID string) error {
	return d.client.Set(ctx, d.key(eventID), "1", dedupTTL).Err()
}

func (d *EventDedup) key(eventID string) string {
	return "webhook:event:" + eventID
}
