package xretry

import (
	"context"
	"log/slog"
	"slices"
	"time"

	retry "github.com/avast/retry-go/v5"

	"github.com/omeyang/xuid/pkg/observability/xlog"
)

const (
	defaultAttempts = 3
	defaultDelay    = 100 * time.Millisecond
)

// Retryer 重试执行器。创建后只读，并发安全。
type Retryer struct {
	attempts uint
	delay    time.Duration
	retryIf  func(error) bool
	logger   xlog.Logger
}

// Option 执行器选项。
type Option func(*Retryer)

// WithAttempts 设置总尝试次数（包含首次），默认 3。0 被忽略。
func WithAttempts(n uint) Option {
	return func(r *Retryer) {
		if n > 0 {
			r.attempts = n
		}
	}
}

// WithDelay 设置基础重试间隔，同时作为最大抖动。默认 100ms。
func WithDelay(d time.Duration) Option {
	return func(r *Retryer) {
		if d > 0 {
			r.delay = d
		}
	}
}

// WithRetryIf 设置重试条件。返回 false 的错误立即返回。
func WithRetryIf(fn func(error) bool) Option {
	return func(r *Retryer) {
		if fn != nil {
			r.retryIf = fn
		}
	}
}

// WithLogger 设置重试日志记录器，默认不输出。
func WithLogger(logger xlog.Logger) Option {
	return func(r *Retryer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRetryer 创建重试执行器。
func NewRetryer(opts ...Option) *Retryer {
	r := &Retryer{
		attempts: defaultAttempts,
		delay:    defaultDelay,
		retryIf:  func(error) bool { return true },
		logger:   xlog.Discard(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Attempts 返回总尝试次数。
func (r *Retryer) Attempts() uint { return r.attempts }

// DoWithData 按 r 的配置执行 fn，返回最后一次成功的结果或最后一次错误。
// attrs 附加到每条重试日志上。
func DoWithData[T any](ctx context.Context, r *Retryer, fn func() (T, error), attrs ...slog.Attr) (T, error) {
	return retry.NewWithData[T](
		retry.Context(ctx),
		retry.Attempts(r.attempts),
		retry.Delay(r.delay),
		retry.MaxJitter(r.delay),
		retry.LastErrorOnly(true),
		retry.RetryIf(r.retryIf),
		retry.OnRetry(func(n uint, err error) {
			r.logger.Debug(ctx, "retrying", slices.Concat(attrs,
				[]slog.Attr{slog.Uint64("attempt", uint64(n)+1), xlog.Err(err)})...)
		}),
	).Do(fn)
}
