package xzk

import (
	"errors"
	"fmt"

	"github.com/go-zookeeper/zk"

	"github.com/omeyang/xuid/pkg/distributed/xworkerid"
)

var (
	// ErrNilConfig 配置为空。
	ErrNilConfig = errors.New("xzk: config is nil")

	// ErrNoServers 未配置服务端地址。
	ErrNoServers = errors.New("xzk: no servers configured")

	// ErrInvalidConfig 配置无效。
	ErrInvalidConfig = errors.New("xzk: invalid config")

	// ErrConnectTimeout 在 ConnectionTimeout 内未建立会话。
	ErrConnectTimeout = errors.New("xzk: timed out waiting for session")

	// ErrClientClosed 客户端已关闭。
	ErrClientClosed = errors.New("xzk: client is closed")

	// ErrNilContext context 为 nil。
	ErrNilContext = errors.New("xzk: context is nil")

	// ErrEmptyPath 路径为空。
	ErrEmptyPath = errors.New("xzk: path is empty")

	// ErrLockUnsupported 客户端没有原生连接，无法创建锁。
	ErrLockUnsupported = errors.New("xzk: lock requires a native connection")
)

// wrapError 将 zk 错误映射为 xworkerid 的节点语义错误，保留原始错误。
func wrapError(op, path string, err error) error {
	switch {
	case errors.Is(err, zk.ErrNoNode):
		return fmt.Errorf("xzk: %s %q: %w: %w", op, path, xworkerid.ErrNoNode, err)
	case errors.Is(err, zk.ErrNodeExists):
		return fmt.Errorf("xzk: %s %q: %w: %w", op, path, xworkerid.ErrNodeExists, err)
	default:
		return fmt.Errorf("xzk: %s %q: %w", op, path, err)
	}
}
