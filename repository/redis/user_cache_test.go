package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/planner/domain"
)

type countingUsers struct {
	users map[string]*domain.User
	calls int
}

func (r *countingUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.calls++
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, domain.NotFound("user", id)
}

func (r *countingUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.calls++
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.NotFound("user", email)
}

// unreachableClient points at a closed port so every Redis call fails fast.
func unreachableClient(t *testing.T) *redislib.Client {
	t.Helper()
	client := redislib.NewClient(&redislib.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestUserCacheFallsBackWhenRedisIsDown(t *testing.T) {
	upstream := &countingUsers{users: map[string]*domain.User{
		"u1": {ID: "u1", Name: "Alice", Email: "alice@example.com"},
	}}
	cache := NewUserCache(unreachableClient(t), upstream, time.Minute, nil)

	user, err := cache.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)

	user, err = cache.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, 2, upstream.calls)
}

func TestUserCachePassesNotFoundThrough(t *testing.T) {
	cache := NewUserCache(unreachableClient(t), &countingUsers{users: map[string]*domain.User{}}, time.Minute, nil)

	_, err := cache.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestUserCacheKeys(t *testing.T) {
	cache := NewUserCache(unreachableClient(t), &countingUsers{}, 0, nil)
	assert.Equal(t, "planner:user:email:bob@example.com", cache.key("email", "bob@example.com"))
	assert.Equal(t, 5*time.Minute, cache.ttl)
}

type txMarker struct{}

// gatedUsers blocks lookups until release is closed and records the context
// values it was called with.
type gatedUsers struct {
	user    *domain.User
	started chan struct{}
	release chan struct{}

	once   sync.Once
	mu     sync.Mutex
	marker interface{}
}

func (r *gatedUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	r.marker = ctx.Value(txMarker{})
	r.mu.Unlock()
	r.once.Do(func() { close(r.started) })

	select {
	case <-r.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if id != r.user.ID {
		return nil, domain.NotFound("user", id)
	}
	return r.user, nil
}

func (r *gatedUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.GetByID(ctx, r.user.ID)
}

func TestUserCacheCancelledCallerDoesNotFailOthers(t *testing.T) {
	upstream := &gatedUsers{
		user:    &domain.User{ID: "u1", Name: "Alice", Email: "alice@example.com"},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	cache := NewUserCache(unreachableClient(t), upstream, time.Minute, nil)

	first, cancel := context.WithCancel(context.WithValue(context.Background(), txMarker{}, "caller-tx"))
	firstErr := make(chan error, 1)
	go func() {
		_, err := cache.GetByID(first, "u1")
		firstErr <- err
	}()

	<-upstream.started
	cancel()
	require.ErrorIs(t, <-firstErr, context.Canceled)

	close(upstream.release)
	user, err := cache.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)

	upstream.mu.Lock()
	defer upstream.mu.Unlock()
	assert.Nil(t, upstream.marker, "upstream must not see the caller's transaction")
}
