package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Response cache for the anonymous read surface. Only thread-list pages are
// cached: they are the hot path and carry no viewer-specific state for
// anonymous callers. Every write that can change a list page (new thread, new
// comment, thread vote) drops the whole prefix.

const threadListCachePrefix = "cache:threads:list:"

// ThreadListKey names the cached page for one (sort, page, size) combination.
func ThreadListKey(sort string, page, size int) string {
	return fmt.Sprintf("%ssort=%s:page=%d:size=%d", threadListCachePrefix, sort, page, size)
}

// InvalidateThreadLists drops every cached thread-list page.
func InvalidateThreadLists() {
	InvalidateByPrefix(threadListCachePrefix)
}

func redisCtx(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}

// CacheGetBytes returns the cached response body for key, if any. A redis
// error is treated as a miss; the handler then serves from the database.
func CacheGetBytes(key string) ([]byte, bool) {
	rc := GetRedis()
	if rc == nil {
		return nil, false
	}
	ctx, cancel := redisCtx(2 * time.Second)
	defer cancel()
	b, err := rc.Get(ctx, key).Bytes()
	if err != nil {
		if Sugar != nil {
			Sugar.Debugf("cache miss key=%s err=%v", key, err)
		}
		return nil, false
	}
	return b, true
}

// CacheSetJSON stores the marshalled response wrapper under key. Failures are
// logged and swallowed; caching is never allowed to fail a request.
func CacheSetJSON(key string, v interface{}, ttl time.Duration) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	rc := GetRedis()
	if rc == nil {
		return
	}
	ctx, cancel := redisCtx(2 * time.Second)
	defer cancel()
	if err := rc.Set(ctx, key, b, ttl).Err(); err != nil {
		if Sugar != nil {
			Sugar.Warnf("cache set failed key=%s err=%v", key, err)
		}
	}
}

// InvalidateByPrefix deletes keys matching prefix via SCAN, pipelining the
// deletes. Rounds are capped so a huge keyspace cannot stall a write request.
func InvalidateByPrefix(prefix string) {
	rc := GetRedis()
	if rc == nil {
		return
	}
	ctx, cancel := redisCtx(3 * time.Second)
	defer cancel()
	var cursor uint64
	for round := 0; round < 10; round++ {
		keys, next, err := rc.Scan(ctx, cursor, prefix+"*", 1000).Result()
		if err != nil {
			return
		}
		if len(keys) > 0 {
			pipe := rc.Pipeline()
			for _, k := range keys {
				pipe.Del(ctx, k)
			}
			_, _ = pipe.Exec(ctx)
		}
		cursor = next
		if cursor == 0 {
			return
		}
	}
}
