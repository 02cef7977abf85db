package xredis

import (
	"time"

	"github.com/omeyang/xuid/pkg/observability/xlog"
)

// DefaultKeyPrefix 默认 key 前缀，hash tag 使所有 key 位于同一槽位。
const DefaultKeyPrefix = "{xuid}"

const (
	defaultTxAttempts = 16
	defaultTxDelay    = 5 * time.Millisecond
)

type options struct {
	keyPrefix  string
	txAttempts uint
	txDelay    time.Duration
	logger     xlog.Logger
}

func defaultOptions() *options {
	return &options{
		keyPrefix:  DefaultKeyPrefix,
		txAttempts: defaultTxAttempts,
		txDelay:    defaultTxDelay,
		logger:     xlog.Discard(),
	}
}

// Option 客户端选项。
type Option func(*options)

// WithKeyPrefix 设置 key 前缀。Cluster 模式下前缀需包含 hash tag。
func WithKeyPrefix(prefix string) Option {
	return func(o *options) {
		o.keyPrefix = prefix
	}
}

// WithTxRetry 设置乐观事务冲突的最大尝试次数与重试间隔，默认 16 次、5ms。
func WithTxRetry(attempts uint, delay time.Duration) Option {
	return func(o *options) {
		if attempts > 0 {
			o.txAttempts = attempts
		}
		if delay > 0 {
			o.txDelay = delay
		}
	}
}

// WithLogger 设置日志记录器，默认不输出。
func WithLogger(logger xlog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
