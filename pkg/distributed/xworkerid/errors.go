package xworkerid

import (
	"errors"
	"fmt"
)

// 预定义错误，使用 errors.Is 匹配。
var (
	// ErrHostUnresolvable 无法确定本机网络标识，无法推导出有意义的 worker id。
	ErrHostUnresolvable = errors.New("xworkerid: host identity unresolvable")

	// ErrStoreUnavailable 协调存储操作失败、超时或连接不可用。
	// 错误链中保留原始原因（含 context.DeadlineExceeded）。
	ErrStoreUnavailable = errors.New("xworkerid: coordination store unavailable")

	// ErrCorruptState 存储中的节点路径无法解析为非负整数后缀。
	// 通常意味着数据被篡改或由不兼容的版本写入。
	ErrCorruptState = errors.New("xworkerid: corrupt coordination state")

	// ErrNodeExists 节点已存在。
	// Store 实现在 Persistent 模式创建已存在的路径时返回（或包裹）此错误。
	ErrNodeExists = errors.New("xworkerid: node already exists")

	// ErrNoNode 节点不存在。
	// Store 实现在 Read/Write 不存在的路径、或父路径不存在时返回（或包裹）此错误。
	ErrNoNode = errors.New("xworkerid: node does not exist")

	// ErrNilStore Store 为 nil。
	ErrNilStore = errors.New("xworkerid: store is nil")

	// ErrInvalidConfig 配置无效。
	ErrInvalidConfig = errors.New("xworkerid: invalid config")

	// ErrWorkerIDOutOfRange 分配到的 id 超出配置的 MaxWorkerID。
	ErrWorkerIDOutOfRange = errors.New("xworkerid: worker id out of range")
)

// IsNodeExists 检查错误是否为节点已存在。
func IsNodeExists(err error) bool {
	return errors.Is(err, ErrNodeExists)
}

// IsNoNode 检查错误是否为节点不存在。
func IsNoNode(err error) bool {
	return errors.Is(err, ErrNoNode)
}

// unavailable 将存储错误包裹为 ErrStoreUnavailable，保留原始错误链。
// 存储错误自带操作与路径，这里不再重复。
func unavailable(err error) error {
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}
