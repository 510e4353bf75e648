package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/salestrack/salestrack-api/internal/core/domain"
	"github.com/salestrack/salestrack-api/internal/core/ports"
)

const (
	defaultVersionTTL = 24 * time.Hour

	// fenceTTL bounds how long an unsettled increment keeps readers on the
	// store. Increments are given half of it to reach the store.
	fenceTTL = time.Minute
)

// Per-user keys share a hash tag so the scripts stay single-slot on a cluster.
//
//	version  cached token version
//	pending  number of increments between fence and settle
//	gen      bumped by every fence; a fill must see the gen it started with
//	max      highest version settled while increments overlap
type userKeys struct {
	version, pending, gen, max string
}

func keysFor(userID string) userKeys {
	tag := "{" + userID + "}"
	return userKeys{
		version: "token_version:" + tag,
		pending: "token_version_pending:" + tag,
		gen:     "token_version_gen:" + tag,
		max:     "token_version_max:" + tag,
	}
}

func versionKey(userID string) string {
	return keysFor(userID).version
}

// readScript returns {version or -1, gen, pending}. The version is withheld
// while an increment is in flight.
var readScript = redis.NewScript(`
local gen = tonumber(redis.call('GET', KEYS[3]) or '0')
if redis.call('EXISTS', KEYS[2]) == 1 then
  return {-1, gen, 1}
end
local v = redis.call('GET', KEYS[1])
if v == false then
  return {-1, gen, 0}
end
return {tonumber(v), gen, 0}
`)

// fillScript caches ARGV[1] unless an increment is in flight or has started
// since the caller's read (gen differs from ARGV[2]). The cached value never
// moves backwards. Returns the value left in place, or -1 when refused.
var fillScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[2]) == 1 then
  return -1
end
if tonumber(redis.call('GET', KEYS[3]) or '0') ~= tonumber(ARGV[2]) then
  return -1
end
local cur = redis.call('GET', KEYS[1])
local want = tonumber(ARGV[1])
if cur == false or tonumber(cur) < want then
  redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
  return want
end
redis.call('PEXPIRE', KEYS[1], ARGV[3])
return tonumber(cur)
`)

// fenceScript opens an increment: it counts it as pending, bumps the
// generation and drops the cached version.
var fenceScript = redis.NewScript(`
redis.call('INCR', KEYS[2])
redis.call('PEXPIRE', KEYS[2], ARGV[1])
redis.call('INCR', KEYS[3])
redis.call('PEXPIRE', KEYS[3], ARGV[2])
redis.call('DEL', KEYS[1])
return 1
`)

// settleScript closes an increment that committed ARGV[1]. Only the last
// pending increment publishes, and it publishes the highest value settled
// while they overlapped. Returns the published version or 0.
var settleScript = redis.NewScript(`
local cur = redis.call('GET', KEYS[4])
if cur == false or tonumber(cur) < tonumber(ARGV[1]) then
  redis.call('SET', KEYS[4], ARGV[1], 'PX', ARGV[2])
end
if redis.call('DECR', KEYS[2]) > 0 then
  return 0
end
redis.call('DEL', KEYS[2])
local max = redis.call('GET', KEYS[4])
redis.call('DEL', KEYS[4])
cur = redis.call('GET', KEYS[1])
if cur == false or tonumber(cur) < tonumber(max) then
  redis.call('SET', KEYS[1], max, 'PX', ARGV[3])
end
return tonumber(max)
`)

// TokenVersionCache decorates an AuthRepository with a Redis read cache for
// token versions.
//
// An increment fences the user's keys before touching the store and settles
// them afterwards. While a fence is open readers go to the store and fills are
// refused, so a version read before a committed increment is never cached
// after it. If the fence cannot be set the login fails before anything is
// written. If the settle fails the fence simply expires.
type TokenVersionCache struct {
	next   ports.AuthRepository
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

func NewTokenVersionCache(next ports.AuthRepository, client *redis.Client, ttl time.Duration, log zerolog.Logger) *TokenVersionCache {
	if ttl <= 0 {
		ttl = defaultVersionTTL
	}
	return &TokenVersionCache{next: next, client: client, ttl: ttl, log: log}
}

func (c *TokenVersionCache) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return c.next.FindByEmail(ctx, email)
}

func (c *TokenVersionCache) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	return c.next.Create(ctx, user)
}

func (c *TokenVersionCache) IncrementTokenVersion(ctx context.Context, userID string) (int64, error) {
	k := keysFor(userID)
	fence := []string{k.version, k.pending, k.gen}
	if err := fenceScript.Run(ctx, c.client, fence, fenceTTL.Milliseconds(), c.ttl.Milliseconds()).Err(); err != nil {
		return 0, fmt.Errorf("token version cache: %w: %w", domain.ErrStoreUnavailable, err)
	}

	incCtx, cancel := context.WithTimeout(ctx, fenceTTL/2)
	v, err := c.next.IncrementTokenVersion(incCtx, userID)
	cancel()
	if err != nil {
		// The outcome may be unknown; the fence stays until it expires.
		return 0, err
	}

	settle := []string{k.version, k.pending, k.gen, k.max}
	if err := settleScript.Run(ctx, c.client, settle, v, fenceTTL.Milliseconds(), c.ttl.Milliseconds()).Err(); err != nil {
		c.log.Warn().Err(err).Str("user_id", userID).Msg("token version cache settle failed, fence left to expire")
	}
	return v, nil
}

func (c *TokenVersionCache) GetTokenVersion(ctx context.Context, userID string) (int64, error) {
	k := keysFor(userID)
	read, err := readScript.Run(ctx, c.client, []string{k.version, k.pending, k.gen}).Int64Slice()
	if err != nil || len(read) != 3 {
		c.log.Warn().Err(err).Msg("token version cache read failed, using store")
		return c.next.GetTokenVersion(ctx, userID)
	}
	if read[0] >= 0 {
		return read[0], nil
	}

	v, err := c.next.GetTokenVersion(ctx, userID)
	if err != nil {
		return 0, err
	}
	if read[2] == 1 {
		return v, nil
	}

	cached, err := c.fill(ctx, userID, v, read[1])
	switch {
	case err != nil:
		c.log.Warn().Err(err).Msg("token version cache fill failed")
		return v, nil
	case cached < 0:
		return v, nil
	}
	// A settled login may already have cached a newer version.
	return cached, nil
}

// fill caches v if the user's generation is still gen. It returns -1 when
// the fill was refused.
func (c *TokenVersionCache) fill(ctx context.Context, userID string, v, gen int64) (int64, error) {
	k := keysFor(userID)
	return fillScript.Run(ctx, c.client, []string{k.version, k.pending, k.gen}, v, gen, c.ttl.Milliseconds()).Int64()
}
