package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	dom "github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix   = "todo:"
	keyGen      = keyPrefix + "gen"
	keyListPfx  = keyPrefix + "list:"
	keyItemPfx  = keyPrefix + "item:"
	scanPageLen = 100
)

// TodoCache caches todo pages and single todos (with relations) in Redis.
// A nil *TodoCache is valid and always misses.
//
// Entries are keyed by a generation that every invalidation bumps. A reader
// takes the generation before loading from the store and stores under it, so
// a load that races a write lands under a generation nobody reads any more.
type TodoCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTodoCache returns a new TodoCache.
func NewTodoCache(rdb *redis.Client, ttl time.Duration) *TodoCache {
	return &TodoCache{rdb: rdb, ttl: ttl}
}

func genPart(gen uint64) string {
	return strconv.FormatUint(gen, 10) + ":"
}

// ListKey names a page under generation gen. Also used as a singleflight key.
func ListKey(gen, skip, limit uint64) string {
	return keyListPfx + genPart(gen) + strconv.FormatUint(skip, 10) + ":" + strconv.FormatUint(limit, 10)
}

// ItemKey names one todo under generation gen.
func ItemKey(gen uint64, id int64) string {
	return keyItemPfx + genPart(gen) + strconv.FormatInt(id, 10)
}

// Generation returns the current generation; 0 before the first write.
func (c *TodoCache) Generation(ctx context.Context) (uint64, error) {
	if c == nil {
		return 0, nil
	}
	gen, err := c.rdb.Get(ctx, keyGen).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// GetList returns a cached page, or ok=false on a miss.
func (c *TodoCache) GetList(ctx context.Context, gen, skip, limit uint64) ([]dom.TodoWithRelations, bool, error) {
	var list []dom.TodoWithRelations
	ok, err := c.get(ctx, ListKey(gen, skip, limit), &list)
	return list, ok, err
}

// SetList stores a page loaded under generation gen.
func (c *TodoCache) SetList(ctx context.Context, gen, skip, limit uint64, list []dom.TodoWithRelations) error {
	return c.set(ctx, ListKey(gen, skip, limit), list)
}

// GetTodo returns a cached todo, or ok=false on a miss.
func (c *TodoCache) GetTodo(ctx context.Context, gen uint64, id int64) (dom.TodoWithRelations, bool, error) {
	var t dom.TodoWithRelations
	ok, err := c.get(ctx, ItemKey(gen, id), &t)
	return t, ok, err
}

// SetTodo stores one todo loaded under generation gen.
func (c *TodoCache) SetTodo(ctx context.Context, gen uint64, t dom.TodoWithRelations) error {
	return c.set(ctx, ItemKey(gen, t.ID), t)
}

// InvalidateAll bumps the generation and removes every cached todo key.
func (c *TodoCache) InvalidateAll(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if err := c.rdb.Incr(ctx, keyGen).Err(); err != nil {
		return err
	}
	iter := c.rdb.Scan(ctx, 0, keyPrefix+"*", scanPageLen).Iterator()
	var keys []string
	for iter.Next(ctx) {
		if key := iter.Val(); key != keyGen {
			keys = append(keys, key)
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

func (c *TodoCache) get(ctx context.Context, key string, dst interface{}) (bool, error) {
	if c == nil {
		return false, nil
	}
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *TodoCache) set(ctx context.Context, key string, v interface{}) error {
	if c == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}
