package xworkerid

import (
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/omeyang/xuid/pkg/observability/xlog"
)

// options 内部选项结构
type options struct {
	logger         xlog.Logger
	resolveHost    HostResolver
	locker         Locker
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

func defaultOptions() *options {
	return &options{
		logger:      xlog.Discard(),
		resolveHost: DefaultHostResolver,
	}
}

// Option 分配器选项
type Option func(*options)

// WithLogger 设置日志记录器，默认不输出。nil 被忽略。
func WithLogger(logger xlog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithHostResolver 设置主机标识解析函数，默认 [DefaultHostResolver]。nil 被忽略。
func WithHostResolver(fn HostResolver) Option {
	return func(o *options) {
		if fn != nil {
			o.resolveHost = fn
		}
	}
}

// WithLocker 设置分布式锁。设置后同一主机的分配过程被串行化，
// 并发首次分配不再产生孤儿顺序节点。
func WithLocker(l Locker) Option {
	return func(o *options) {
		o.locker = l
	}
}

// WithTracerProvider 设置 TracerProvider，默认使用 otel 全局 provider。
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

// WithMeterProvider 设置 MeterProvider，默认使用 otel 全局 provider。
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) {
		o.meterProvider = mp
	}
}
