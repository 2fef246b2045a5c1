package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	dom "github.com/malusanacoza-ui/TodoListManager/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	keyListPrefix = "task:list:"
	keyGenPrefix  = "task:gen:"
)

// TaskCache caches each owner's ordered task list in Redis.
type TaskCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTaskCache returns a new TaskCache.
func NewTaskCache(rdb *redis.Client, ttl time.Duration) *TaskCache {
	return &TaskCache{rdb: rdb, ttl: ttl}
}

// listKey includes the owner's generation, so a list loaded before a write is
// stored under a key no reader asks for once the write bumps the generation.
func listKey(ownerID, gen int64) string {
	return keyListPrefix + strconv.FormatInt(ownerID, 10) + ":" + strconv.FormatInt(gen, 10)
}

func genKey(ownerID int64) string {
	return keyGenPrefix + strconv.FormatInt(ownerID, 10)
}

// cachedTask is the Redis representation; the domain type carries no JSON tags.
type cachedTask struct {
	ID          int64        `json:"id"`
	OwnerID     int64        `json:"owner_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	IsCompleted bool         `json:"is_completed"`
	IsPinned    bool         `json:"is_pinned"`
	Priority    dom.Priority `json:"priority"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Generation returns the owner's current list generation (0 before the first write).
func (c *TaskCache) Generation(ctx context.Context, ownerID int64) (int64, error) {
	gen, err := c.rdb.Get(ctx, genKey(ownerID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// GetList returns the list cached for ownerID at generation gen. ok is false on a miss.
func (c *TaskCache) GetList(ctx context.Context, ownerID, gen int64) (list []dom.Task, ok bool, err error) {
	b, err := c.rdb.Get(ctx, listKey(ownerID, gen)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var raw []cachedTask
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, false, err
	}
	list = make([]dom.Task, len(raw))
	for i, t := range raw {
		list[i] = dom.Task(t)
	}
	return list, true, nil
}

// SetList stores the list for ownerID under generation gen, which must be the
// value read before the list was loaded from the store.
func (c *TaskCache) SetList(ctx context.Context, ownerID, gen int64, list []dom.Task) error {
	raw := make([]cachedTask, len(list))
	for i, t := range list {
		raw[i] = cachedTask(t)
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, listKey(ownerID, gen), b, c.ttl).Err()
}

// Invalidate bumps the owner's generation (called after every write) and drops
// the list cached under the previous one.
func (c *TaskCache) Invalidate(ctx context.Context, ownerID int64) error {
	gen, err := c.rdb.Incr(ctx, genKey(ownerID)).Result()
	if err != nil {
		return err
	}
	return c.rdb.Del(ctx, listKey(ownerID, gen-1)).Err()
}
