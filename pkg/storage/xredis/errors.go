package xredis

import "errors"

var (
	// ErrNilClient Redis 客户端为 nil。
	ErrNilClient = errors.New("xredis: client is nil")

	// ErrNilConfig 配置为 nil。
	ErrNilConfig = errors.New("xredis: config is nil")

	// ErrNoAddrs 未配置地址。
	ErrNoAddrs = errors.New("xredis: no addrs configured")

	// ErrInvalidConfig 配置无效。
	ErrInvalidConfig = errors.New("xredis: invalid config")

	// ErrClientClosed 客户端已关闭。
	ErrClientClosed = errors.New("xredis: client is closed")

	// ErrNilContext context 为 nil。
	ErrNilContext = errors.New("xredis: context is nil")

	// ErrEmptyPath 路径为空。
	ErrEmptyPath = errors.New("xredis: path is empty")

	// ErrSequenceConflict 顺序节点计数器的乐观事务重试耗尽。
	ErrSequenceConflict = errors.New("xredis: sequence counter conflict")

	// ErrCorruptCounter 计数器的值不是非负整数。
	ErrCorruptCounter = errors.New("xredis: corrupt sequence counter")
)
