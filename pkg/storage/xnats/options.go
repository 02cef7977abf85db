package xnats

import (
	"context"
	"time"

	"github.com/omeyang/xuid/pkg/observability/xlog"
)

// DefaultCounterPrefix 顺序节点计数器 key 的前缀。节点路径以 "/" 开头，不会与之冲突。
const DefaultCounterPrefix = "_seq"

const (
	defaultCASAttempts = 16
	defaultCASDelay    = 5 * time.Millisecond
)

type options struct {
	ctx         context.Context
	casAttempts uint
	casDelay    time.Duration
	logger      xlog.Logger
}

func defaultOptions() *options {
	return &options{
		ctx:         context.Background(),
		casAttempts: defaultCASAttempts,
		casDelay:    defaultCASDelay,
		logger:      xlog.Discard(),
	}
}

// Option 客户端选项。
type Option func(*options)

// WithContext 设置 NewClient 创建 bucket 时使用的 context。
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// WithCASRetry 设置 revision 冲突的最大尝试次数与重试间隔，默认 16 次、5ms。
func WithCASRetry(attempts uint, delay time.Duration) Option {
	return func(o *options) {
		if attempts > 0 {
			o.casAttempts = attempts
		}
		if delay > 0 {
			o.casDelay = delay
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
