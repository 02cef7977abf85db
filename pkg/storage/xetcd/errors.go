package xetcd

import "errors"

// 错误定义。
// 节点语义相关的错误（已存在、不存在）使用 xworkerid.ErrNodeExists / xworkerid.ErrNoNode。
var (
	// ErrNilConfig 配置为空。
	ErrNilConfig = errors.New("xetcd: config is nil")

	// ErrNoEndpoints 未配置 etcd 端点。
	ErrNoEndpoints = errors.New("xetcd: no endpoints configured")

	// ErrInvalidEndpoint endpoint 格式无效，应为 "host:port"。
	ErrInvalidEndpoint = errors.New("xetcd: invalid endpoint format, expected host:port")

	// ErrInvalidConfig 配置无效。
	ErrInvalidConfig = errors.New("xetcd: invalid config")

	// ErrClientClosed 客户端已关闭。
	ErrClientClosed = errors.New("xetcd: client is closed")

	// ErrNilContext context 为 nil。
	ErrNilContext = errors.New("xetcd: context is nil")

	// ErrEmptyKey 键名为空。
	ErrEmptyKey = errors.New("xetcd: key is empty")

	// ErrSequenceConflict 顺序节点计数器的 CAS 重试耗尽。
	ErrSequenceConflict = errors.New("xetcd: sequence counter conflict")

	// ErrCorruptCounter 计数器的值不是十进制整数。
	ErrCorruptCounter = errors.New("xetcd: corrupt sequence counter")
)

// IsClientClosed 检查错误是否为客户端已关闭。
func IsClientClosed(err error) bool {
	return errors.Is(err, ErrClientClosed)
}
