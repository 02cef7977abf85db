package xzk

import (
	"context"
	"fmt"
	"path"
	"sync"
	"testing"

	"github.com/go-zookeeper/zk"
	"github.com/stretchr/testify/require"
)

// fakeConn 进程内 ZooKeeper 节点树。
// 顺序后缀取父节点的子节点创建计数（cversion），与服务端一致从 0 开始。
type fakeConn struct {
	mu       sync.Mutex
	nodes    map[string][]byte
	cversion map[string]int32
	events   chan zk.Event
	closed   bool
	errs     map[string]error
	block    chan struct{}
	auths    []string
	authErr  error
	lastACL  []zk.ACL
}

var _ zkConn = (*fakeConn)(nil)

func newFakeConn(states ...zk.State) *fakeConn {
	if len(states) == 0 {
		states = []zk.State{zk.StateConnecting, zk.StateConnected, zk.StateHasSession}
	}
	f := &fakeConn{
		nodes:    map[string][]byte{"/": nil},
		cversion: make(map[string]int32),
		events:   make(chan zk.Event, len(states)+8),
		errs:     make(map[string]error),
	}
	for _, s := range states {
		f.events <- zk.Event{Type: zk.EventSession, State: s, Server: "fake:2181"}
	}
	return f
}

func (f *fakeConn) enter(op string) error {
	f.mu.Lock()
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return zk.ErrClosing
	}
	return f.errs[op]
}

func (f *fakeConn) Exists(p string) (bool, *zk.Stat, error) {
	if err := f.enter("exists"); err != nil {
		return false, nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.nodes[p]
	return ok, &zk.Stat{}, nil
}

func (f *fakeConn) Get(p string) ([]byte, *zk.Stat, error) {
	if err := f.enter("get"); err != nil {
		return nil, nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.nodes[p]
	if !ok {
		return nil, nil, zk.ErrNoNode
	}
	return append([]byte{}, data...), &zk.Stat{}, nil
}

func (f *fakeConn) Set(p string, data []byte, _ int32) (*zk.Stat, error) {
	if err := f.enter("set"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.nodes[p]; !ok {
		return nil, zk.ErrNoNode
	}
	f.nodes[p] = append([]byte{}, data...)
	return &zk.Stat{}, nil
}

func (f *fakeConn) Create(p string, data []byte, flags int32, acl []zk.ACL) (string, error) {
	if err := f.enter("create"); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastACL = acl
	parent := path.Dir(p)
	if _, ok := f.nodes[parent]; !ok {
		return "", zk.ErrNoNode
	}
	if flags&zk.FlagSequence != 0 {
		p = fmt.Sprintf("%s%010d", p, f.cversion[parent])
	}
	if _, ok := f.nodes[p]; ok {
		return "", zk.ErrNodeExists
	}
	f.cversion[parent]++
	f.nodes[p] = append([]byte{}, data...)
	return p, nil
}

func (f *fakeConn) AddAuth(scheme string, auth []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.authErr != nil {
		return f.authErr
	}
	f.auths = append(f.auths, scheme+":"+string(auth))
	return nil
}

func (f *fakeConn) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.events)
	}
}

func (f *fakeConn) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeConn) value(p string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.nodes[p]
	return string(v), ok
}

// withConn 注入假连接。
func withConn(f *fakeConn) Option {
	return func(o *options) {
		o.dial = func(*Config, zk.Logger) (zkConn, *zk.Conn, <-chan zk.Event, error) {
			return f, nil, f.events, nil
		}
	}
}

// fakeLock 可控的锁。
type fakeLock struct {
	mu       sync.Mutex
	gate     chan struct{}
	lockErr  error
	locked   int
	unlocked int
}

func (l *fakeLock) Lock() error {
	if l.gate != nil {
		<-l.gate
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.lockErr != nil {
		return l.lockErr
	}
	l.locked++
	return nil
}

func (l *fakeLock) Unlock() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.unlocked++
	return nil
}

func (l *fakeLock) counts() (int, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.locked, l.unlocked
}

func withLock(l *fakeLock, keys *[]string) Option {
	return func(o *options) {
		o.newLock = func(_ *zk.Conn, p string, _ []zk.ACL) zkLock {
			if keys != nil {
				*keys = append(*keys, p)
			}
			return l
		}
	}
}

func newTestClient(t *testing.T, f *fakeConn, opts ...Option) *Client {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Servers = []string{"fake:2181"}
	c, err := NewClient(cfg, append([]Option{withConn(f)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close(context.Background()) })
	return c
}
