package redis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salestrack/salestrack-api/internal/core/domain"
)

// memRepo is an in-memory AuthRepository that counts version reads.
type memRepo struct {
	mu       sync.Mutex
	versions map[string]int64
	reads    int
}

func (m *memRepo) FindByEmail(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (m *memRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.versions[u.ID] = u.TokenVersion
	return u, nil
}

func (m *memRepo) IncrementTokenVersion(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.versions[userID]
	if !ok {
		return 0, domain.ErrUserNotFound
	}
	m.versions[userID] = v + 1
	return v + 1, nil
}

func (m *memRepo) GetTokenVersion(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	v, ok := m.versions[userID]
	if !ok {
		return 0, domain.ErrUserNotFound
	}
	return v, nil
}

func (m *memRepo) readCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

func setup(t *testing.T) (*miniredis.Miniredis, *memRepo, *TokenVersionCache) {
	t.Helper()
	return setupWith(t, miniredis.RunT(t))
}

func setupWith(t *testing.T, mr *miniredis.Miniredis) (*miniredis.Miniredis, *memRepo, *TokenVersionCache) {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := &memRepo{versions: map[string]int64{"u1": 1}}
	return mr, repo, NewTokenVersionCache(repo, client, time.Hour, zerolog.Nop())
}

func TestTokenVersionCache_MissFillsFromStore(t *testing.T) {
	mr, repo, cache := setup(t)
	ctx := context.Background()

	v, err := cache.GetTokenVersion(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
	assert.Equal(t, 1, repo.readCount())

	got, err := mr.Get(versionKey("u1"))
	require.NoError(t, err)
	assert.Equal(t, "1", got)
	assert.Equal(t, time.Hour, mr.TTL(versionKey("u1")))

	v, err = cache.GetTokenVersion(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
	assert.Equal(t, 1, repo.readCount(), "second read must be served from redis")
}

func TestTokenVersionCache_IncrementRaisesCache(t *testing.T) {
	mr, repo, cache := setup(t)
	ctx := context.Background()

	_, err := cache.GetTokenVersion(ctx, "u1")
	require.NoError(t, err)

	v, err := cache.IncrementTokenVersion(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)

	got, err := mr.Get(versionKey("u1"))
	require.NoError(t, err)
	assert.Equal(t, "2", got)

	v, err = cache.GetTokenVersion(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)
	assert.Equal(t, 1, repo.readCount())
}

func TestTokenVersionCache_FillNeverMovesBackwards(t *testing.T) {
	mr, _, cache := setup(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(versionKey("u1"), "7"))

	left, err := cache.fill(ctx, "u1", 5, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(7), left)

	got, err := mr.Get(versionKey("u1"))
	require.NoError(t, err)
	assert.Equal(t, "7", got)

	left, err = cache.fill(ctx, "u1", 8, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(8), left)
}

func TestTokenVersionCache_FillRefusedAfterGenerationMoves(t *testing.T) {
	mr, _, cache := setup(t)
	ctx := context.Background()

	_, err := cache.IncrementTokenVersion(ctx, "u1")
	require.NoError(t, err)
	mr.Del(versionKey("u1"))

	left, err := cache.fill(ctx, "u1", 1, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), left)
	assert.False(t, mr.Exists(versionKey("u1")))
}

func TestTokenVersionCache_RedisDownFallsBackToStore(t *testing.T) {
	down, err := miniredis.Run()
	require.NoError(t, err)
	_, repo, cache := setupWith(t, down)
	ctx := context.Background()
	down.Close()

	v, err := cache.GetTokenVersion(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
	assert.Equal(t, 1, repo.readCount())

	_, err = cache.IncrementTokenVersion(ctx, "u1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStoreUnavailable))

	v, err = repo.GetTokenVersion(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v, "nothing is written when the cache cannot be fenced")
}

// hookRepo runs a callback at a chosen point of the wrapped repository's calls.
type hookRepo struct {
	*memRepo
	afterIncrement func()
	afterRead      func()
}

func (h *hookRepo) IncrementTokenVersion(ctx context.Context, userID string) (int64, error) {
	v, err := h.memRepo.IncrementTokenVersion(ctx, userID)
	if h.afterIncrement != nil {
		h.afterIncrement()
	}
	return v, err
}

func (h *hookRepo) GetTokenVersion(ctx context.Context, userID string) (int64, error) {
	v, err := h.memRepo.GetTokenVersion(ctx, userID)
	if fn := h.afterRead; fn != nil {
		h.afterRead = nil
		fn()
	}
	return v, err
}

func newHookCache(t *testing.T, mr *miniredis.Miniredis) (*hookRepo, *TokenVersionCache) {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := &hookRepo{memRepo: &memRepo{versions: map[string]int64{"u1": 1}}}
	return repo, NewTokenVersionCache(repo, client, time.Hour, zerolog.Nop())
}

func TestTokenVersionCache_RedisErrorAfterCommitNeverServesOldVersion(t *testing.T) {
	mr := miniredis.RunT(t)
	repo, cache := newHookCache(t, mr)
	ctx := context.Background()

	v, err := cache.GetTokenVersion(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, int64(1), v)

	repo.afterIncrement = func() { mr.SetError("ERR server unavailable") }
	v, err = cache.IncrementTokenVersion(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)

	mr.SetError("")
	repo.afterIncrement = nil

	v, err = cache.GetTokenVersion(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)

	mr.FastForward(fenceTTL + time.Second)

	v, err = cache.GetTokenVersion(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)
	got, err := mr.Get(versionKey("u1"))
	require.NoError(t, err)
	assert.Equal(t, "2", got)
}

func TestTokenVersionCache_StaleFillLosesToConcurrentLogin(t *testing.T) {
	mr := miniredis.RunT(t)
	repo, cache := newHookCache(t, mr)
	ctx := context.Background()

	// The login lands between the reader's store read and its fill.
	repo.afterRead = func() {
		_, err := cache.IncrementTokenVersion(ctx, "u1")
		require.NoError(t, err)
	}

	v, err := cache.GetTokenVersion(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v, "the read completed before the login")

	got, err := mr.Get(versionKey("u1"))
	require.NoError(t, err)
	assert.Equal(t, "2", got)

	v, err = cache.GetTokenVersion(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)
}

func TestTokenVersionCache_StaleFillLosesToUnsettledLogin(t *testing.T) {
	mr := miniredis.RunT(t)
	repo, cache := newHookCache(t, mr)
	ctx := context.Background()

	repo.afterRead = func() {
		repo.afterIncrement = func() { mr.SetError("ERR server unavailable") }
		_, err := cache.IncrementTokenVersion(ctx, "u1")
		require.NoError(t, err)
		repo.afterIncrement = nil
		mr.SetError("")
	}

	_, err := cache.GetTokenVersion(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, mr.Exists(versionKey("u1")))

	mr.FastForward(fenceTTL + time.Second)

	v, err := cache.GetTokenVersion(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)
}

func TestTokenVersionCache_OverlappingLoginsPublishHighest(t *testing.T) {
	mr := miniredis.RunT(t)
	repo, cache := newHookCache(t, mr)
	ctx := context.Background()

	var inner int64
	repo.afterIncrement = func() {
		repo.afterIncrement = nil
		v, err := cache.IncrementTokenVersion(ctx, "u1")
		require.NoError(t, err)
		inner = v
		assert.False(t, mr.Exists(versionKey("u1")), "an overlapping login must not publish")
	}

	outer, err := cache.IncrementTokenVersion(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), outer)
	assert.Equal(t, int64(3), inner)

	got, err := mr.Get(versionKey("u1"))
	require.NoError(t, err)
	assert.Equal(t, "3", got)
}

func TestTokenVersionCache_UnknownUser(t *testing.T) {
	_, _, cache := setup(t)

	_, err := cache.GetTokenVersion(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = cache.IncrementTokenVersion(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
