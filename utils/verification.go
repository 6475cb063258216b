package utils

import (
	"crypto/rand"
	"math/big"
	"sync"
	"time"
)

// Email verification codes for the register flow. The code itself is
// locale-neutral digits; the localized subject and body around it come from
// the mailer's caller. Redis holds codes with a TTL; a small in-memory table
// keeps single-node deployments working when redis is unreachable.

type memoryCode struct {
	code    string
	expires time.Time
}

var (
	memCodes   = map[string]memoryCode{}
	memCodesMu sync.Mutex
)

func verificationKey(email string) string {
	return "verify:email:" + email
}

func cooldownKey(email string) string {
	return "verify:cooldown:" + email
}

// GenerateVerificationCode returns n random decimal digits.
func GenerateVerificationCode(n int) string {
	if n <= 0 {
		n = 6
	}
	digits := make([]byte, n)
	for i := range digits {
		v, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			v = big.NewInt(time.Now().UnixNano() % 10)
		}
		digits[i] = byte('0' + v.Int64())
	}
	return string(digits)
}

// StoreVerificationCode saves the code for email with a TTL. Called only
// after the mail carrying the code was accepted, so unsendable codes never
// accumulate.
func StoreVerificationCode(email, code string, ttl time.Duration) {
	if rc := GetRedis(); rc != nil {
		ctx, cancel := redisCtx(2 * time.Second)
		defer cancel()
		if err := rc.Set(ctx, verificationKey(email), code, ttl).Err(); err == nil {
			return
		}
	}
	memCodesMu.Lock()
	pruneMemCodesLocked()
	memCodes[verificationKey(email)] = memoryCode{code: code, expires: time.Now().Add(ttl)}
	memCodesMu.Unlock()
}

// ConsumeVerificationCode checks the code for email. The stored code is
// deleted atomically with the read, match or not, so one code allows exactly
// one attempt and can never be replayed.
func ConsumeVerificationCode(email, code string) bool {
	if rc := GetRedis(); rc != nil {
		ctx, cancel := redisCtx(2 * time.Second)
		defer cancel()
		key := verificationKey(email)
		if val, err := rc.GetDel(ctx, key).Result(); err == nil {
			return val == code
		}
		// GETDEL needs redis >= 6.2; older servers get the lua equivalent.
		script := `local v=redis.call('GET', KEYS[1]); if v then redis.call('DEL', KEYS[1]); end; return v`
		if res, err := rc.Eval(ctx, script, []string{key}).Result(); err == nil {
			s, ok := res.(string)
			return ok && s == code
		}
		// redis unreachable; fall through to the memory table
	}
	memCodesMu.Lock()
	defer memCodesMu.Unlock()
	key := verificationKey(email)
	entry, ok := memCodes[key]
	if !ok {
		return false
	}
	delete(memCodes, key)
	if time.Now().After(entry.expires) {
		return false
	}
	return entry.code == code
}

// VerificationCooldownTry claims the per-email resend cooldown. Returns false
// while a previous claim is still live; redis errors fail open so mail
// delivery does not depend on redis health.
func VerificationCooldownTry(email string, cooldown time.Duration) bool {
	if rc := GetRedis(); rc != nil {
		ctx, cancel := redisCtx(2 * time.Second)
		defer cancel()
		ok, err := rc.SetNX(ctx, cooldownKey(email), "1", cooldown).Result()
		if err == nil {
			return ok
		}
	}
	memCodesMu.Lock()
	defer memCodesMu.Unlock()
	key := cooldownKey(email)
	if entry, ok := memCodes[key]; ok && time.Now().Before(entry.expires) {
		return false
	}
	memCodes[key] = memoryCode{expires: time.Now().Add(cooldown)}
	return true
}

func pruneMemCodesLocked() {
	now := time.Now()
	for k, v := range memCodes {
		if now.After(v.expires) {
			delete(memCodes, k)
		}
	}
}
