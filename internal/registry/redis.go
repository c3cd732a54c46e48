package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/matst80/telbridge/internal/obs"
)

// redisStore keeps the authoritative table in memory (the registry actor is
// the single writer either way) and mirrors session records into Redis with a
// TTL so sessions across gateway instances are visible from one place.
type redisStore struct {
	Store
	client     *redis.Client
	instanceID string
	keyTTL     time.Duration
}

// sessionData is the JSON form stored in Redis.
type sessionData struct {
	ID          string    `json:"id"`
	Addr        string    `json:"addr"`
	ConnectedAt time.Time `json:"connected_at"`
	Instance    string    `json:"instance"`
}

// NewRedisStore connects to Redis and returns a mirroring store.
func NewRedisStore(addr, password string, db int) (Store, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return &redisStore{
		Store:      NewMemoryStore(),
		client:     rdb,
		instanceID: fmt.Sprintf("telbridge-%d", time.Now().UnixNano()),
		keyTTL:     24 * time.Hour,
	}, nil
}

func (r *redisStore) Add(sess Session) {
	r.Store.Add(sess)
	data, err := json.Marshal(sessionData{
		ID:          sess.ID.String(),
		Addr:        sess.Addr,
		ConnectedAt: sess.ConnectedAt,
		Instance:    r.instanceID,
	})
	if err != nil {
		obs.Error("redis.marshal_session", obs.Fields{"err": err.Error(), "id": sess.ID.String()})
		return
	}
	// Mirror writes are best effort; the in-memory table stays authoritative.
	if err := r.client.Set(context.Background(), sessionKey(sess.ID), data, r.keyTTL).Err(); err != nil {
		obs.Error("redis.set_session", obs.Fields{"err": err.Error(), "id": sess.ID.String()})
	}
}

func (r *redisStore) Remove(id uuid.UUID) bool {
	removed := r.Store.Remove(id)
	if err := r.client.Del(context.Background(), sessionKey(id)).Err(); err != nil {
		obs.Error("redis.del_session", obs.Fields{"err": err.Error(), "id": id.String()})
	}
	return removed
}

func sessionKey(id uuid.UUID) string { return "session:" + id.String() }
