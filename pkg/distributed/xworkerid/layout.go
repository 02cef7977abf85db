package xworkerid

import (
	"fmt"
	"path"
	"strings"
)

// 固定的子路径名称。
const (
	DefaultRoot     = "/uid"
	workNodeName    = "workNode"
	storageName     = "storage"
	lockName        = "locks"
	workIDPrefixTag = "workid-"
)

// Layout 描述 worker id 命名空间在存储中的路径布局。
type Layout struct {
	root string
}

// NewLayout 以 root 为根创建布局。root 必须是以 "/" 开头的绝对路径，会被 path.Clean 规整。
func NewLayout(root string) (Layout, error) {
	root = strings.TrimSpace(root)
	if !strings.HasPrefix(root, "/") {
		return Layout{}, fmt.Errorf("%w: root %q must be an absolute path", ErrInvalidConfig, root)
	}
	root = path.Clean(root)
	if root == "/" {
		return Layout{}, fmt.Errorf("%w: root must not be \"/\"", ErrInvalidConfig)
	}
	return Layout{root: root}, nil
}

// Root 根路径，如 /uid。
func (l Layout) Root() string { return l.root }

// WorkNodeParent 顺序节点父路径，如 /uid/workNode。
func (l Layout) WorkNodeParent() string { return l.root + "/" + workNodeName }

// WorkIDPrefix 顺序节点前缀，如 /uid/workNode/workid-。
func (l Layout) WorkIDPrefix() string { return l.WorkNodeParent() + "/" + workIDPrefixTag }

// StorageParent 主机映射父路径，如 /uid/storage。
func (l Layout) StorageParent() string { return l.root + "/" + storageName }

// MappingPath 主机映射路径，如 /uid/storage/10.0.0.5。
func (l Layout) MappingPath(host string) string { return l.StorageParent() + "/" + host }

// LockPath 主机分配锁路径，如 /uid/locks/10.0.0.5。
func (l Layout) LockPath(host string) string { return l.root + "/" + lockName + "/" + host }

// Namespace 返回需要预先创建的路径，按创建顺序（父在前）。
// 多级根路径（如 /svc/uid）的各级祖先也包含在内。
func (l Layout) Namespace() []string {
	var paths []string
	for i := 1; i < len(l.root); i++ {
		if l.root[i] == '/' {
			paths = append(paths, l.root[:i])
		}
	}
	return append(paths, l.Root(), l.WorkNodeParent(), l.StorageParent())
}

// validHost 检查主机标识能否安全地作为单级路径名。
func validHost(host string) error {
	switch {
	case host == "":
		return fmt.Errorf("%w: empty host identity", ErrHostUnresolvable)
	case host == "." || host == "..":
		return fmt.Errorf("%w: invalid host identity %q", ErrHostUnresolvable, host)
	case strings.ContainsAny(host, "/\x00"):
		return fmt.Errorf("%w: host identity %q contains path separator", ErrHostUnresolvable, host)
	}
	return nil
}
