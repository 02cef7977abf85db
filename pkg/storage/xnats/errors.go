package xnats

import "errors"

var (
	// ErrNilKV KeyValue 为 nil。
	ErrNilKV = errors.New("xnats: key value bucket is nil")

	// ErrNilConfig 配置为 nil。
	ErrNilConfig = errors.New("xnats: config is nil")

	// ErrNoURLs 未配置服务器地址。
	ErrNoURLs = errors.New("xnats: no urls configured")

	// ErrInvalidConfig 配置无效。
	ErrInvalidConfig = errors.New("xnats: invalid config")

	// ErrClientClosed 客户端已关闭。
	ErrClientClosed = errors.New("xnats: client is closed")

	// ErrNilContext context 为 nil。
	ErrNilContext = errors.New("xnats: context is nil")

	// ErrEmptyPath 路径为空。
	ErrEmptyPath = errors.New("xnats: path is empty")

	// ErrInvalidKey 路径无法编码为合法的 KV key。
	ErrInvalidKey = errors.New("xnats: invalid key")

	// ErrRevisionConflict 按 revision 条件写入的重试耗尽。
	ErrRevisionConflict = errors.New("xnats: revision conflict")

	// ErrCorruptCounter 计数器的值不是非负整数。
	ErrCorruptCounter = errors.New("xnats: corrupt sequence counter")
)
