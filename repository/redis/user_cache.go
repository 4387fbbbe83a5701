package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/fastygo/planner/domain"
	"github.com/fastygo/planner/repository"
)

const fetchTimeout = 5 * time.Second

// UserCache is a read-through cache in front of a UserRepository. Users are
// managed outside this service, so entries only expire by TTL. Redis failures
// fall back to the upstream repository.
//
// Misses are fetched once per key for all concurrent callers, on a context
// detached from any caller: users are read outside the caller's transaction.
type UserCache struct {
	client   redislib.UniversalClient
	upstream repository.UserRepository
	prefix   string
	ttl      time.Duration
	logger   *zap.Logger
	group    singleflight.Group
}

// NewUserCache wraps upstream with a Redis cache.
func NewUserCache(client redislib.UniversalClient, upstream repository.UserRepository, ttl time.Duration, logger *zap.Logger) *UserCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserCache{
		client:   client,
		upstream: upstream,
		prefix:   "planner:user:",
		ttl:      ttl,
		logger:   logger,
	}
}

var _ repository.UserRepository = (*UserCache)(nil)

func (c *UserCache) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return c.load(ctx, c.key("id", id), func(ctx context.Context) (*domain.User, error) {
		return c.upstream.GetByID(ctx, id)
	})
}

func (c *UserCache) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	return c.load(ctx, c.key("email", normalized), func(ctx context.Context) (*domain.User, error) {
		return c.upstream.GetByEmail(ctx, email)
	})
}

func (c *UserCache) load(ctx context.Context, key string, fetch func(context.Context) (*domain.User, error)) (*domain.User, error) {
	if user, ok := c.get(ctx, key); ok {
		return user, nil
	}

	ch := c.group.DoChan(key, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		user, err := fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		c.set(fetchCtx, user)
		return user, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		user := *res.Val.(*domain.User)
		return &user, nil
	}
}

func (c *UserCache) get(ctx context.Context, key string) (*domain.User, bool) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redislib.Nil) {
			c.logger.Warn("user cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var user domain.User
	if err := json.Unmarshal(payload, &user); err != nil {
		c.logger.Warn("user cache entry corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &user, true
}

func (c *UserCache) set(ctx context.Context, user *domain.User) {
	payload, err := json.Marshal(user)
	if err != nil {
		return
	}
	pipe := c.client.Pipeline()
	pipe.Set(ctx, c.key("id", user.ID), payload, c.ttl)
	pipe.Set(ctx, c.key("email", strings.ToLower(strings.TrimSpace(user.Email))), payload, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Warn("user cache write failed", zap.String("user_id", user.ID), zap.Error(err))
	}
}

func (c *UserCache) key(kind, value string) string {
	return fmt.Sprintf("%s%s:%s", c.prefix, kind, value)
}
