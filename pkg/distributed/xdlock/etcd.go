package xdlock

import (
	"context"
	"errors"
	"sync/atomic"

	clientv3 "go.etcd.io/etcd/client/v3"
	"go.etcd.io/etcd/client/v3/concurrency"
)

// sessionProvider concurrency.Session 中工厂用到的部分。
type sessionProvider interface {
	Done() <-chan struct{}
	Close() error
}

// etcdMutex concurrency.Mutex 中工厂用到的部分。
type etcdMutex interface {
	Lock(ctx context.Context) error
	Unlock(ctx context.Context) error
}

// etcdFactory 基于 etcd concurrency.Mutex 的锁工厂。
type etcdFactory struct {
	kv       clientv3.KV
	session  sessionProvider
	newMutex func(key string) etcdMutex
	closed   atomic.Bool
}

// NewEtcdFactory 创建 etcd 锁工厂。client 由调用方管理。
//
// 工厂持有一个 Session，锁绑定在 Session 的租约上：
// 持锁进程崩溃后，锁在 TTL 内自动释放。
func NewEtcdFactory(client *clientv3.Client, opts ...EtcdFactoryOption) (Factory, error) {
	if client == nil {
		return nil, ErrNilClient
	}

	o := defaultEtcdFactoryOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	session, err := concurrency.NewSession(client,
		concurrency.WithTTL(o.TTL),
		concurrency.WithContext(o.Context),
	)
	if err != nil {
		return nil, err
	}

	return &etcdFactory{
		kv:      client,
		session: session,
		newMutex: func(key string) etcdMutex {
			return concurrency.NewMutex(session, key)
		},
	}, nil
}

// Lock 实现 Factory。
func (f *etcdFactory) Lock(ctx context.Context, key string, opts ...MutexOption) (Handle, error) {
	m, fullKey, err := f.prepare(key, opts)
	if err != nil {
		return nil, err
	}
	if err := m.Lock(ctx); err != nil {
		return nil, wrapEtcdError(err)
	}
	return &etcdHandle{factory: f, mutex: m, key: fullKey}, nil
}

func (f *etcdFactory) prepare(key string, opts []MutexOption) (etcdMutex, string, error) {
	if err := f.checkSession(); err != nil {
		return nil, "", err
	}
	if err := validateKey(key); err != nil {
		return nil, "", err
	}
	fullKey := applyMutexOptions(opts).KeyPrefix + key
	return f.newMutex(fullKey), fullKey, nil
}

// checkSession 检查工厂与 Session 是否可用。
func (f *etcdFactory) checkSession() error {
	if f.closed.Load() {
		return ErrFactoryClosed
	}
	select {
	case <-f.session.Done():
		return ErrSessionExpired
	default:
		return nil
	}
}

// Close 关闭 Session（撤销租约，释放仍持有的锁）。
func (f *etcdFactory) Close(_ context.Context) error {
	if f.closed.Swap(true) {
		return nil
	}
	return f.session.Close()
}

// Health 检查 Session 并对 etcd 执行一次读。
func (f *etcdFactory) Health(ctx context.Context) error {
	if err := f.checkSession(); err != nil {
		return err
	}
	_, err := f.kv.Get(ctx, "health-check-key", clientv3.WithLimit(1))
	return err
}

// etcdHandle etcd 锁句柄。
type etcdHandle struct {
	factory *etcdFactory
	mutex   etcdMutex
	key     string
}

// Unlock 实现 Handle。Session 失效时锁已随租约释放，返回 ErrSessionExpired。
func (h *etcdHandle) Unlock(ctx context.Context) error {
	select {
	case <-h.factory.session.Done():
		return ErrSessionExpired
	default:
	}
	return wrapEtcdError(h.mutex.Unlock(ctx))
}

// Key 实现 Handle。
func (h *etcdHandle) Key() string {
	return h.key
}

// wrapEtcdError 将 concurrency 包错误转换为 xdlock 错误。
func wrapEtcdError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, concurrency.ErrSessionExpired):
		return ErrSessionExpired
	case errors.Is(err, concurrency.ErrLockReleased):
		return ErrNotLocked
	default:
		return err
	}
}
