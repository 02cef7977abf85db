package xworkerid

import (
	"context"
	"sync"
)

// KeyLocker 进程内按 key 互斥的 Locker，配合 MemoryStore 使用。
// 零值不可用，使用 NewKeyLocker 创建。
type KeyLocker struct {
	mu      sync.Mutex
	entries map[string]*keyEntry
}

// keyEntry 的 ch 容量为 1：发送成功即持锁，接收即释放。
// refs 为持有者与等待者总数，归零时删除条目。
type keyEntry struct {
	ch   chan struct{}
	refs int
}

var _ Locker = (*KeyLocker)(nil)

// NewKeyLocker 创建进程内锁。
func NewKeyLocker() *KeyLocker {
	return &KeyLocker{entries: make(map[string]*keyEntry)}
}

// Lock 实现 Locker。ctx 结束前未获取到锁时返回 ctx.Err()。
func (k *KeyLocker) Lock(ctx context.Context, key string) (UnlockFunc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e := k.acquireRef(key)
	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		k.releaseRef(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() {
			<-e.ch
			k.releaseRef(key, e)
		})
		return nil
	}, nil
}

// Len 返回当前被持有或等待的 key 数量。
func (k *KeyLocker) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}

func (k *KeyLocker) acquireRef(key string) *keyEntry {
	k.mu.Lock()
	defer k.mu.Unlock()
	e, ok := k.entries[key]
	if !ok {
		e = &keyEntry{ch: make(chan struct{}, 1)}
		k.entries[key] = e
	}
	e.refs++
	return e
}

func (k *KeyLocker) releaseRef(key string, e *keyEntry) {
	k.mu.Lock()
	defer k.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(k.entries, key)
	}
}
