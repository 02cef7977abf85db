package xzk

import (
	"context"
	"fmt"

	"github.com/go-zookeeper/zk"

	"github.com/omeyang/xuid/pkg/observability/xlog"
)

//go:generate mockgen -source=conn.go -destination=mock_conn_test.go -package=xzk

// zkConn 定义 Store 用到的 ZooKeeper 操作，用于依赖注入和测试。
// 方法签名与 *zk.Conn 一致。
type zkConn interface {
	Exists(path string) (bool, *zk.Stat, error)
	Get(path string) ([]byte, *zk.Stat, error)
	Set(path string, data []byte, version int32) (*zk.Stat, error)
	Create(path string, data []byte, flags int32, acl []zk.ACL) (string, error)
	AddAuth(scheme string, auth []byte) error
	Close()
}

var _ zkConn = (*zk.Conn)(nil)

// zkLock 互斥锁操作，方法签名与 *zk.Lock 一致。
type zkLock interface {
	Lock() error
	Unlock() error
}

// dialFunc 建立连接，返回操作接口、原生连接（可为 nil）与会话事件通道。
type dialFunc func(cfg *Config, logger zk.Logger) (zkConn, *zk.Conn, <-chan zk.Event, error)

func dialZK(cfg *Config, logger zk.Logger) (zkConn, *zk.Conn, <-chan zk.Event, error) {
	conn, events, err := zk.Connect(cfg.Servers, cfg.SessionTimeout,
		zk.WithLogger(logger),
		zk.WithMaxBufferSize(cfg.MaxBufferSize),
	)
	if err != nil {
		return nil, nil, nil, err
	}
	return conn, conn, events, nil
}

// zkLogger 将 go-zookeeper 的 Printf 日志转为 Debug 级别的结构化日志。
type zkLogger struct {
	logger xlog.Logger
}

func (l zkLogger) Printf(format string, args ...any) {
	l.logger.Debug(context.Background(), fmt.Sprintf(format, args...))
}

type result[T any] struct {
	v   T
	err error
}

// call 在独立 goroutine 中执行 fn，ctx 结束时立即返回。
// fn 仍会在后台运行到结束，结果被丢弃。
func call[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	ch := make(chan result[T], 1)
	go func() {
		v, err := fn()
		ch <- result[T]{v: v, err: err}
	}()
	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
