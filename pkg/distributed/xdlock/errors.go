package xdlock

import "errors"

// 预定义错误，使用 errors.Is 匹配。
var (
	// ErrLockHeld 锁被其他持有者占用，Redis 重试耗尽时返回。
	ErrLockHeld = errors.New("xdlock: lock is held by another owner")

	// ErrLockFailed 重试耗尽仍未获取到锁。
	ErrLockFailed = errors.New("xdlock: failed to acquire lock")

	// ErrLockExpired 锁已过期或被其他持有者抢走。
	ErrLockExpired = errors.New("xdlock: lock expired or stolen")

	// ErrNilClient 客户端为空。
	ErrNilClient = errors.New("xdlock: client is nil")

	// ErrSessionExpired etcd Session 已过期，需要重建工厂。
	ErrSessionExpired = errors.New("xdlock: session expired")

	// ErrFactoryClosed 工厂已关闭。
	ErrFactoryClosed = errors.New("xdlock: factory is closed")

	// ErrNotLocked 锁未被持有。
	ErrNotLocked = errors.New("xdlock: not locked")

	// ErrEmptyKey 锁 key 为空或仅含空白。
	ErrEmptyKey = errors.New("xdlock: key must not be empty")
)
