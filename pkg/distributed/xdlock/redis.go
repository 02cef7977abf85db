package xdlock

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/go-redsync/redsync/v4"
	rsredis "github.com/go-redsync/redsync/v4/redis"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

// redisFactory 基于 redsync 的锁工厂。
type redisFactory struct {
	clients []redis.UniversalClient
	rs      *redsync.Redsync
	closed  atomic.Bool
}

// NewRedisFactory 创建 Redis 锁工厂。
// 单个客户端为普通 Redis 锁；多个独立节点使用 Redlock（过半成功）。
// 客户端由调用方管理。
func NewRedisFactory(clients ...redis.UniversalClient) (Factory, error) {
	if len(clients) == 0 {
		return nil, ErrNilClient
	}

	pools := make([]rsredis.Pool, len(clients))
	for i, client := range clients {
		if client == nil {
			return nil, fmt.Errorf("%w: client at index %s", ErrNilClient, strconv.Itoa(i))
		}
		pools[i] = goredis.NewPool(client)
	}

	return &redisFactory{
		clients: clients,
		rs:      redsync.New(pools...),
	}, nil
}

// Lock 实现 Factory。
func (f *redisFactory) Lock(ctx context.Context, key string, opts ...MutexOption) (Handle, error) {
	m, err := f.prepare(key, opts)
	if err != nil {
		return nil, err
	}
	if err := m.LockContext(ctx); err != nil {
		// redsync 不传递 context 错误
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, wrapRedisError(err)
	}
	return &redisHandle{mutex: m}, nil
}

func (f *redisFactory) prepare(key string, opts []MutexOption) (*redsync.Mutex, error) {
	if f.closed.Load() {
		return nil, ErrFactoryClosed
	}
	if err := validateKey(key); err != nil {
		return nil, err
	}
	o := applyMutexOptions(opts)
	return f.rs.NewMutex(o.KeyPrefix+key,
		redsync.WithExpiry(o.Expiry),
		redsync.WithTries(o.Tries),
		redsync.WithRetryDelay(o.RetryDelay),
	), nil
}

// Close 标记工厂关闭。redsync 无需释放资源。
func (f *redisFactory) Close(_ context.Context) error {
	f.closed.Store(true)
	return nil
}

// Health 对所有节点执行 PING。
func (f *redisFactory) Health(ctx context.Context) error {
	if f.closed.Load() {
		return ErrFactoryClosed
	}
	for _, client := range f.clients {
		if err := client.Ping(ctx).Err(); err != nil {
			return err
		}
	}
	return nil
}

// redisHandle Redis 锁句柄。工厂关闭后仍可解锁，避免锁残留到过期。
type redisHandle struct {
	mutex *redsync.Mutex
}

// Unlock 实现 Handle。
func (h *redisHandle) Unlock(ctx context.Context) error {
	ok, err := h.mutex.UnlockContext(ctx)
	if err != nil {
		err = wrapRedisError(err)
		if errors.Is(err, ErrLockExpired) {
			return ErrNotLocked
		}
		return err
	}
	if !ok {
		return ErrNotLocked
	}
	return nil
}

// Key 实现 Handle。
func (h *redisHandle) Key() string {
	return h.mutex.Name()
}

// wrapRedisError 将 redsync 错误转换为 xdlock 错误，保留原始错误链。
func wrapRedisError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var taken *redsync.ErrTaken
	switch {
	case errors.As(err, &taken):
		return fmt.Errorf("%w: %w", ErrLockHeld, err)
	case errors.Is(err, redsync.ErrFailed):
		return fmt.Errorf("%w: %w", ErrLockFailed, err)
	case errors.Is(err, redsync.ErrLockAlreadyExpired):
		return fmt.Errorf("%w: %w", ErrLockExpired, err)
	}
	return err
}
