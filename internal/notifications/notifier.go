// Package notifications publishes swap lifecycle events to Redis channels
// so downstream consumers (mailers, activity feeds) can react without
// coupling to the request path.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"skillswap/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// Event types published on user channels.
const (
	EventSwapRequested = "swap.requested"
	EventSwapAccepted  = "swap.accepted"
	EventSwapRejected  = "swap.rejected"
)

// Event is the payload published for a swap lifecycle change.
type Event struct {
	Type      string    `json:"type"`
	RequestID uint      `json:"request_id"`
	ActorID   uint      `json:"actor_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Notifier provides helpers to publish events into Redis channels.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
// A nil client disables publishing.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishUser sends a swap event to a user's channel. Publish failures are
// logged, never surfaced: event delivery is best-effort.
func (n *Notifier) PublishUser(ctx context.Context, userID uint, event Event) {
	if n.rdb == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to marshal swap event", "error", err)
		return
	}

	channel := fmt.Sprintf("events:user:%d", userID)
	if err := n.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to publish swap event",
			"channel", channel, "error", err)
	}
}
