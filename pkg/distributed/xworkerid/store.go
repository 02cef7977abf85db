package xworkerid

import (
	"context"
	"fmt"
)

// CreateMode 节点创建模式。
type CreateMode int

const (
	// Persistent 普通持久节点。路径已存在时返回 ErrNodeExists。
	Persistent CreateMode = iota
	// PersistentSequential 持久顺序节点。
	// 存储在 path 后追加一个原子分配、单调递增的数字后缀，并返回完整路径。
	PersistentSequential
)

// String 返回创建模式名称。
func (m CreateMode) String() string {
	switch m {
	case Persistent:
		return "persistent"
	case PersistentSequential:
		return "persistent_sequential"
	default:
		return fmt.Sprintf("CreateMode(%d)", int(m))
	}
}

// SequenceWidth 顺序节点后缀的位数，与 ZooKeeper 的格式一致（%010d）。
const SequenceWidth = 10

// SequentialPath 按 ZooKeeper 格式拼接顺序节点路径：prefix + 10 位补零的序号。
// 非 ZooKeeper 后端用它生成与 ZooKeeper 一致的节点名。
func SequentialPath(prefix string, seq int64) string {
	return fmt.Sprintf("%s%0*d", prefix, SequenceWidth, seq)
}

// Store 协调存储接口。
//
// 实现需满足：
//   - PersistentSequential 创建是原子的、全局有序的，并发创建永远不会得到相同后缀
//   - Persistent 创建已存在的路径返回匹配 ErrNodeExists 的错误
//   - Read/Write 不存在的路径返回匹配 ErrNoNode 的错误
//   - 所有操作受 ctx 约束，超时或取消时返回错误
//
// 已有实现：xzk（ZooKeeper）、xetcd（etcd）、xredis（Redis）、MemoryStore（进程内）。
type Store interface {
	// Exists 检查路径是否存在。
	Exists(ctx context.Context, path string) (bool, error)

	// Read 读取路径的值。空值返回 ("", nil)。
	Read(ctx context.Context, path string) (string, error)

	// Write 覆盖写入已存在路径的值。
	Write(ctx context.Context, path, value string) error

	// Create 以指定模式创建节点，返回实际创建的路径。
	Create(ctx context.Context, path, value string, mode CreateMode) (string, error)
}
