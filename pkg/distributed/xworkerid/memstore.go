package xworkerid

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore 进程内 Store 实现，语义与 ZooKeeper 一致：
// 创建节点时父路径必须存在；顺序节点按父路径计数。
//
// 用于测试与单机部署。每个父路径的序号从 1 开始。
type MemoryStore struct {
	mu    sync.Mutex
	nodes map[string]string
	seq   map[string]int64
}

// NewMemoryStore 创建空的内存存储。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nodes: make(map[string]string),
		seq:   make(map[string]int64),
	}
}

// Exists 实现 Store。
func (m *MemoryStore) Exists(ctx context.Context, p string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.nodes[p]
	return ok, nil
}

// Read 实现 Store。
func (m *MemoryStore) Read(ctx context.Context, p string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.nodes[p]
	if !ok {
		return "", fmt.Errorf("read %q: %w", p, ErrNoNode)
	}
	return v, nil
}

// Write 实现 Store。
func (m *MemoryStore) Write(ctx context.Context, p, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.nodes[p]; !ok {
		return fmt.Errorf("write %q: %w", p, ErrNoNode)
	}
	m.nodes[p] = value
	return nil
}

// Create 实现 Store。
func (m *MemoryStore) Create(ctx context.Context, p, value string, mode CreateMode) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !strings.HasPrefix(p, "/") || p == "/" {
		return "", fmt.Errorf("create %q: invalid path", p)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	parent := path.Dir(p)
	if parent != "/" {
		if _, ok := m.nodes[parent]; !ok {
			return "", fmt.Errorf("create %q: parent %q: %w", p, parent, ErrNoNode)
		}
	}

	switch mode {
	case Persistent:
		if _, ok := m.nodes[p]; ok {
			return "", fmt.Errorf("create %q: %w", p, ErrNodeExists)
		}
	case PersistentSequential:
		m.seq[parent]++
		p = SequentialPath(p, m.seq[parent])
	default:
		return "", fmt.Errorf("create %q: unsupported mode %s", p, mode)
	}

	m.nodes[p] = value
	return p, nil
}

// Children 返回 parent 的直接子节点名（已排序）。
func (m *MemoryStore) Children(parent string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	prefix := strings.TrimSuffix(parent, "/") + "/"
	var out []string
	for p := range m.nodes {
		rest, ok := strings.CutPrefix(p, prefix)
		if ok && rest != "" && !strings.Contains(rest, "/") {
			out = append(out, rest)
		}
	}
	sort.Strings(out)
	return out
}

// Len 返回节点总数。
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.nodes)
}
