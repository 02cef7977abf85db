package xzk

import (
	"github.com/go-zookeeper/zk"

	"github.com/omeyang/xuid/pkg/observability/xlog"
)

type options struct {
	logger  xlog.Logger
	dial    dialFunc
	newLock func(conn *zk.Conn, path string, acl []zk.ACL) zkLock
}

func defaultOptions() *options {
	return &options{
		logger: xlog.Discard(),
		dial:   dialZK,
		newLock: func(conn *zk.Conn, path string, acl []zk.ACL) zkLock {
			if conn == nil {
				return unsupportedLock{}
			}
			return zk.NewLock(conn, path, acl)
		},
	}
}

// Option 客户端选项。
type Option func(*options)

// WithLogger 设置日志记录器，默认不输出。
// go-zookeeper 的内部日志以 Debug 级别转发到该记录器。
func WithLogger(logger xlog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// unsupportedLock 没有原生连接（如注入的测试连接）时使用。
type unsupportedLock struct{}

func (unsupportedLock) Lock() error   { return ErrLockUnsupported }
func (unsupportedLock) Unlock() error { return ErrLockUnsupported }
