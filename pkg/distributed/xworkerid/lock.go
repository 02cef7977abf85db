package xworkerid

import (
	"context"
	"time"

	"github.com/omeyang/xuid/pkg/distributed/xdlock"
)

// unlockTimeout 释放锁的独立超时。分配 ctx 已取消时仍尽力释放。
const unlockTimeout = 5 * time.Second

// UnlockFunc 释放一次成功获取的锁。
type UnlockFunc func(ctx context.Context) error

// Locker 分布式互斥锁，按 key 阻塞获取。
type Locker interface {
	Lock(ctx context.Context, key string) (UnlockFunc, error)
}

// LockerFunc 函数适配器。
type LockerFunc func(ctx context.Context, key string) (UnlockFunc, error)

// Lock 实现 Locker。
func (f LockerFunc) Lock(ctx context.Context, key string) (UnlockFunc, error) {
	return f(ctx, key)
}

// FactoryLocker 将 xdlock 锁工厂（etcd / Redis）适配为 Locker。
func FactoryLocker(f xdlock.Factory, opts ...xdlock.MutexOption) Locker {
	return LockerFunc(func(ctx context.Context, key string) (UnlockFunc, error) {
		handle, err := f.Lock(ctx, key, opts...)
		if err != nil {
			return nil, err
		}
		return handle.Unlock, nil
	})
}

// release 使用独立于调用方取消信号的 context 释放锁。
func release(ctx context.Context, unlock UnlockFunc) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), unlockTimeout)
	defer cancel()
	return unlock(ctx)
}
