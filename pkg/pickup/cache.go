package pickup

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// SnapshotCache holds short-lived JSON snapshots of event status in Redis.
// Status polling from a classroom full of guardian phones is by far the
// hottest path; a TTL of a couple of seconds takes that load off the
// database while keeping the view fresh enough for a human.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.SugaredLogger
}

// NewSnapshotCache wraps a redis client. A nil client disables caching; all
// methods become no-ops.
func NewSnapshotCache(client *redis.Client, ttl time.Duration, log *zap.SugaredLogger) *SnapshotCache {
	if ttl <= 0 {
		ttl = 2 * time.Second
	}
	return &SnapshotCache{client: client, ttl: ttl, log: log.Named("snapshot-cache")}
}

func snapshotKey(eventID string) string {
	return "pickup:event:" + eventID + ":snapshot"
}

// Get returns the cached snapshot, or nil on miss or error. Cache trouble is
// logged and treated as a miss.
func (sc *SnapshotCache) Get(ctx context.Context, eventID string) []byte {
	if sc == nil || sc.client == nil {
		return nil
	}
	data, err := sc.client.Get(ctx, snapshotKey(eventID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			sc.log.Warnw("Snapshot cache read failed", "event", eventID, "error", err)
		}
		return nil
	}
	return data
}

// Set stores a snapshot with the configured TTL.
func (sc *SnapshotCache) Set(ctx context.Context, eventID string, data []byte) {
	if sc == nil || sc.client == nil {
		return
	}
	if err := sc.client.Set(ctx, snapshotKey(eventID), data, sc.ttl).Err(); err != nil {
		sc.log.Warnw("Snapshot cache write failed", "event", eventID, "error", err)
	}
}

// Invalidate drops a cached snapshot after a state change so the next poll
// sees the new state immediately instead of after TTL expiry.
func (sc *SnapshotCache) Invalidate(ctx context.Context, eventID string) {
	if sc == nil || sc.client == nil {
		return
	}
	if err := sc.client.Del(ctx, snapshotKey(eventID)).Err(); err != nil {
		sc.log.Warnw("Snapshot cache invalidation failed", "event", eventID, "error", err)
	}
}
