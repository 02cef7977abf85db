package xetcd

import (
	"context"
	"strings"
	"time"

	"github.com/omeyang/xuid/pkg/observability/xlog"
)

// 默认值
const (
	// defaultHealthCheckKey 健康检查读取的 key。
	// 启用 RBAC 前缀授权时通过 WithHealthCheckKey 改为授权范围内的 key。
	defaultHealthCheckKey = "/__xuid/health"

	// DefaultSequencePrefix 顺序节点计数器 key 的前缀，计数器 key = 前缀 + 父路径。
	DefaultSequencePrefix = "/__xuid/seq"

	defaultCASAttempts = 16
	defaultCASDelay    = 5 * time.Millisecond
)

// options 内部选项结构。
type options struct {
	ctx            context.Context
	healthCheck    bool
	healthTimeout  time.Duration
	healthCheckKey string
	seqPrefix      string
	casAttempts    uint
	casDelay       time.Duration
	logger         xlog.Logger
}

// defaultOptions 返回默认选项。
func defaultOptions() *options {
	return &options{
		ctx:            context.Background(),
		healthTimeout:  10 * time.Second,
		healthCheckKey: defaultHealthCheckKey,
		seqPrefix:      DefaultSequencePrefix,
		casAttempts:    defaultCASAttempts,
		casDelay:       defaultCASDelay,
		logger:         xlog.Discard(),
	}
}

// Option 定义客户端配置选项。
type Option func(*options)

// WithContext 设置创建阶段（健康检查）使用的 context，不影响客户端生命周期。
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// WithHealthCheck 创建后执行一次读以验证连接与凭证，timeout 默认 10 秒。
func WithHealthCheck(enabled bool, timeout time.Duration) Option {
	return func(o *options) {
		o.healthCheck = enabled
		if timeout > 0 {
			o.healthTimeout = timeout
		}
	}
}

// WithHealthCheckKey 设置健康检查读取的 key。
func WithHealthCheckKey(key string) Option {
	return func(o *options) {
		if key != "" {
			o.healthCheckKey = key
		}
	}
}

// WithSequencePrefix 设置顺序节点计数器 key 的前缀，默认 /__xuid/seq。
// 不同部署共用一个 etcd 时保持一致即可，计数器已按父路径区分。
func WithSequencePrefix(prefix string) Option {
	return func(o *options) {
		if p := strings.TrimRight(prefix, "/"); p != "" {
			o.seqPrefix = p
		}
	}
}

// WithCASRetry 设置计数器 CAS 冲突的最大尝试次数与重试间隔。
// 默认 16 次、5ms（另加随机抖动）。
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
