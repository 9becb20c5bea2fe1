package quota

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/protoguide/protoguide/internal/db"
	"github.com/protoguide/protoguide/internal/domain"
	"github.com/protoguide/protoguide/internal/domain/identity"
)

// KeyPrefix namespaces counter hashes.
const KeyPrefix = "protoguide:quota:"

// DefaultTTL outlives one calendar day so a stale hash still resets correctly.
const DefaultTTL = 48 * time.Hour

// incrementScript resets the hash when its day differs from ARGV[1],
// otherwise increments. KEYS[1] = hash, ARGV[1] = day, ARGV[2] = ttl seconds.
const incrementScript = `
local day = redis.call('HGET', KEYS[1], 'day')
local count
if day == ARGV[1] then
  count = redis.call('HINCRBY', KEYS[1], 'count', 1)
else
  redis.call('HSET', KEYS[1], 'count', 1, 'day', ARGV[1])
  count = 1
end
redis.call('EXPIRE', KEYS[1], ARGV[2])
return count
`

// scriptStore is the consumer interface for counter operations (ISP).
type scriptStore interface {
	EvalInt(ctx context.Context, script string, keys []string, args ...string) (int64, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// Redis keeps one hash {count, day} per identity.
type Redis struct {
	store scriptStore
	ttl   time.Duration
}

// NewRedis creates a Redis-backed counter store. ttl <= 0 uses DefaultTTL.
func NewRedis(s scriptStore, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{store: s, ttl: ttl}
}

// Load returns the counter hash. A missing hash is a fresh identity.
func (r *Redis) Load(ctx context.Context, identityID int64) (identity.QuotaState, error) {
	m, err := r.store.HGetAll(ctx, key(identityID))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return identity.QuotaState{}, nil
		}
		return identity.QuotaState{}, domain.NewStoreError("quota.load", err)
	}

	count, err := strconv.Atoi(m["count"])
	if err != nil {
		return identity.QuotaState{}, domain.NewStoreError("quota.load", err)
	}
	return identity.QuotaState{CountToday: count, LastDay: identity.Day(m["day"])}, nil
}

// Increment counts one call on today and returns the new count.
func (r *Redis) Increment(ctx context.Context, identityID int64, today identity.Day) (int, error) {
	ttl := strconv.FormatInt(int64(r.ttl/time.Second), 10)
	n, err := r.store.EvalInt(ctx, incrementScript, []string{key(identityID)}, string(today), ttl)
	if err != nil {
		return 0, domain.NewStoreError("quota.increment", err)
	}
	return int(n), nil
}

func key(identityID int64) string {
	return KeyPrefix + strconv.FormatInt(identityID, 10)
}
