package xdlock

import "context"

// Handle 表示一次成功的锁获取。
//
// 每次 Lock 成功都返回新的 Handle，只能释放本次获取的锁。
//
//	handle, err := factory.Lock(ctx, "/uid/locks/10.0.0.5")
//	if err != nil {
//		return err
//	}
//	defer handle.Unlock(ctx)
type Handle interface {
	// Unlock 释放锁。
	// 锁已过期或已被释放时返回 [ErrNotLocked]。
	Unlock(ctx context.Context) error

	// Key 返回锁在后端中的完整 key（含前缀）。
	Key() string
}

// Factory 锁工厂，管理底层连接并提供锁操作。
type Factory interface {
	// Lock 阻塞获取锁，直到成功、重试耗尽（Redis）或 ctx 结束。
	//
	// 错误：
	//   - context.Canceled / context.DeadlineExceeded
	//   - ErrLockHeld / ErrLockFailed: Redis 重试耗尽
	//   - ErrSessionExpired: etcd 会话已失效
	Lock(ctx context.Context, key string, opts ...MutexOption) (Handle, error)

	// Close 关闭工厂。不关闭调用方传入的客户端。可重复调用。
	Close(ctx context.Context) error

	// Health 检查后端连接，创建工厂后调用以尽早发现不可用的锁后端。
	Health(ctx context.Context) error
}
