// Package xretry 提供存储后端共用的重试执行器。
//
// 底层使用 [avast/retry-go/v5]。Retryer 固定了 xuid 存储层的用法：
// 只返回最后一次错误、按 RetryIf 判断是否重试、每次重试记录 Debug 日志。
// 未设置 RetryIf 时所有错误都会重试。
//
//	r := xretry.NewRetryer(
//	    xretry.WithAttempts(16),
//	    xretry.WithDelay(5*time.Millisecond),
//	    xretry.WithRetryIf(func(err error) bool { return errors.Is(err, ErrConflict) }),
//	    xretry.WithLogger(logger),
//	)
//	node, err := xretry.DoWithData(ctx, r, func() (string, error) {
//	    return tryCreate(ctx)
//	}, xlog.Path(p))
//
// ctx 结束时立即返回，不再重试。
//
// [avast/retry-go/v5]: https://github.com/avast/retry-go
package xretry
