package xdlock

import (
	"context"
	"strings"
	"time"
)

// validateKey 验证锁 key 是否有效。
func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}
	return nil
}

// =============================================================================
// etcd 工厂选项
// =============================================================================

// EtcdFactoryOption etcd 工厂选项。
type EtcdFactoryOption func(*etcdFactoryOptions)

type etcdFactoryOptions struct {
	TTL     int             // Session TTL（秒），默认 60
	Context context.Context // Session 上下文，默认 context.Background()
}

func defaultEtcdFactoryOptions() *etcdFactoryOptions {
	return &etcdFactoryOptions{
		TTL:     60,
		Context: context.Background(),
	}
}

// WithEtcdTTL 设置 Session TTL（秒），即持锁进程崩溃后锁的最长残留时间。
// 默认 60 秒。
func WithEtcdTTL(ttl int) EtcdFactoryOption {
	return func(o *etcdFactoryOptions) {
		if ttl > 0 {
			o.TTL = ttl
		}
	}
}

// WithEtcdContext 设置 Session 上下文。ctx 取消时 Session 关闭，所有锁失效。
func WithEtcdContext(ctx context.Context) EtcdFactoryOption {
	return func(o *etcdFactoryOptions) {
		if ctx != nil {
			o.Context = ctx
		}
	}
}

// =============================================================================
// Mutex 选项
// =============================================================================

// MutexOption 单次锁获取的选项。
type MutexOption func(*mutexOptions)

type mutexOptions struct {
	KeyPrefix string // Key 前缀，默认为空

	// Redis 专用
	Expiry     time.Duration // 过期时间，默认 8s
	Tries      int           // 重试次数，默认 32
	RetryDelay time.Duration // 重试延迟，默认 200ms
}

func defaultMutexOptions() *mutexOptions {
	return &mutexOptions{
		Expiry:     8 * time.Second,
		Tries:      32,
		RetryDelay: 200 * time.Millisecond,
	}
}

func applyMutexOptions(opts []MutexOption) *mutexOptions {
	o := defaultMutexOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// WithKeyPrefix 设置 key 前缀，最终 key = prefix + key。
// 多个应用共用一个 Redis 时用于隔离，如 "xuid:"。
func WithKeyPrefix(prefix string) MutexOption {
	return func(o *mutexOptions) {
		o.KeyPrefix = prefix
	}
}

// WithExpiry 设置 Redis 锁过期时间，默认 8 秒。
// 应大于持锁期间的最长执行时间。
func WithExpiry(d time.Duration) MutexOption {
	return func(o *mutexOptions) {
		if d > 0 {
			o.Expiry = d
		}
	}
}

// WithTries 设置 Redis 获取锁的最大尝试次数，默认 32。1 表示不重试。
func WithTries(n int) MutexOption {
	return func(o *mutexOptions) {
		if n > 0 {
			o.Tries = n
		}
	}
}

// WithRetryDelay 设置 Redis 重试间隔，默认 200ms。
func WithRetryDelay(d time.Duration) MutexOption {
	return func(o *mutexOptions) {
		if d > 0 {
			o.RetryDelay = d
		}
	}
}
