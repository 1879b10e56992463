package gazetteer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache decorates another Gazetteer with a shared Redis cache, so
// repeated lookups of the same toponym type across trainer runs skip
// the backing store.  Negative results are cached too: a corpus asks
// about the same missing names every run.
type RedisCache struct {
	backend Gazetteer
	client  *redis.Client
	ttl     time.Duration
}

func NewRedisCache(backend Gazetteer, addr string, ttl time.Duration) *RedisCache {
	return &RedisCache{
		backend: backend,
		client:  redis.NewClient(&redis.Options{Addr: addr}),
		ttl:     ttl,
	}
}

func nameKey(name string) string { return "gaz:name:" + name }
func locKey(id int32) string     { return fmt.Sprintf("gaz:loc:%d", id) }

func (c *RedisCache) Contains(name string) bool {
	return len(c.Get(name)) > 0
}

func (c *RedisCache) Get(name string) []int32 {
	ctx := context.Background()
	if val, e := c.client.Get(ctx, nameKey(name)).Result(); e == nil {
		var ids []int32
		if e := json.Unmarshal([]byte(val), &ids); e == nil {
			return ids
		}
	} else if e != redis.Nil {
		log.Printf("gazetteer: redis get(%q): %v", name, e)
	}

	ids := c.backend.Get(name)
	if b, e := json.Marshal(ids); e == nil {
		if e := c.client.Set(ctx, nameKey(name), b, c.ttl).Err(); e != nil {
			log.Printf("gazetteer: redis set(%q): %v", name, e)
		}
	}
	return ids
}

func (c *RedisCache) Location(id int32) (Location, bool) {
	ctx := context.Background()
	if val, e := c.client.Get(ctx, locKey(id)).Result(); e == nil {
		var loc Location
		if e := json.Unmarshal([]byte(val), &loc); e == nil {
			return loc, true
		}
	} else if e != redis.Nil {
		log.Printf("gazetteer: redis location(%d): %v", id, e)
	}

	loc, ok := c.backend.Location(id)
	if !ok {
		return Location{}, false
	}
	if b, e := json.Marshal(loc); e == nil {
		if e := c.client.Set(ctx, locKey(id), b, c.ttl).Err(); e != nil {
			log.Printf("gazetteer: redis set loc(%d): %v", id, e)
		}
	}
	return loc, true
}
