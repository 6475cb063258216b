package utils

import (
	"sync"
	"time"
)

// Logout works by revoking the bearer token until its natural expiry. Redis
// carries the revocation set so it survives restarts and is shared across
// instances; the in-memory table is the single-node fallback.

var (
	revoked   = map[string]time.Time{}
	revokedMu sync.RWMutex
)

const revokedKeyPrefix = "session:revoked:"

// RevokeToken marks a token as logged out until expiresAt.
func RevokeToken(token string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}
	if rc := GetRedis(); rc != nil {
		ctx, cancel := redisCtx(2 * time.Second)
		defer cancel()
		if err := rc.Set(ctx, revokedKeyPrefix+token, "1", ttl).Err(); err == nil {
			return
		}
	}
	revokedMu.Lock()
	revoked[token] = expiresAt
	revokedMu.Unlock()
}

// IsTokenRevoked reports whether the token was logged out before its natural
// expiry. Redis errors fail open: a revoked token is at worst live until it
// expires, while failing closed would log everyone out on a redis outage.
func IsTokenRevoked(token string) bool {
	if rc := GetRedis(); rc != nil {
		ctx, cancel := redisCtx(2 * time.Second)
		defer cancel()
		n, err := rc.Exists(ctx, revokedKeyPrefix+token).Result()
		if err == nil {
			return n > 0
		}
	}
	revokedMu.RLock()
	expiresAt, ok := revoked[token]
	revokedMu.RUnlock()
	if !ok {
		return false
	}
	if time.Now().After(expiresAt) {
		revokedMu.Lock()
		delete(revoked, token)
		revokedMu.Unlock()
		return false
	}
	return true
}
