package xnats

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/omeyang/xuid/pkg/distributed/xworkerid"
	"github.com/omeyang/xuid/pkg/observability/xlog"
	"github.com/omeyang/xuid/pkg/resilience/xretry"
)

var _ xworkerid.Store = (*Client)(nil)

// Exists 实现 xworkerid.Store。
func (c *Client) Exists(ctx context.Context, p string) (bool, error) {
	if err := c.checkPreconditions(ctx, p); err != nil {
		return false, err
	}
	_, err := c.get(ctx, p)
	if errors.Is(err, xworkerid.ErrNoNode) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("xnats: exists %q: %w", p, err)
	}
	return true, nil
}

// Read 实现 xworkerid.Store。
func (c *Client) Read(ctx context.Context, p string) (string, error) {
	if err := c.checkPreconditions(ctx, p); err != nil {
		return "", err
	}
	entry, err := c.get(ctx, p)
	if err != nil {
		return "", fmt.Errorf("xnats: read %q: %w", p, err)
	}
	return string(entry.Value()), nil
}

// Write 实现 xworkerid.Store。按读到的 revision 条件更新，节点不存在时返回 ErrNoNode。
func (c *Client) Write(ctx context.Context, p, value string) error {
	if err := c.checkPreconditions(ctx, p); err != nil {
		return err
	}
	key, err := encodeKey(p)
	if err != nil {
		return err
	}
	_, err = c.withCAS(ctx, p, func() (string, error) {
		entry, err := c.get(ctx, p)
		if err != nil {
			return "", err
		}
		if _, err := c.kv.Update(ctx, key, []byte(value), entry.Revision()); err != nil {
			return "", casError(p, err)
		}
		return p, nil
	})
	if err != nil {
		return fmt.Errorf("xnats: write %q: %w", p, err)
	}
	return nil
}

// Create 实现 xworkerid.Store。
//
// 父节点存在性在写入前检查；命名空间中的节点只增不删，检查与写入之间父节点不会消失。
func (c *Client) Create(ctx context.Context, p, value string, mode xworkerid.CreateMode) (string, error) {
	if err := c.checkPreconditions(ctx, p); err != nil {
		return "", err
	}
	if !strings.HasPrefix(p, "/") || p == "/" {
		return "", fmt.Errorf("xnats: create %q: path must be absolute", p)
	}
	if mode != xworkerid.Persistent && mode != xworkerid.PersistentSequential {
		return "", fmt.Errorf("xnats: create %q: unsupported mode %s", p, mode)
	}

	parent := path.Dir(p)
	if parent != "/" {
		if _, err := c.get(ctx, parent); err != nil {
			return "", fmt.Errorf("xnats: create %q: parent: %w", p, err)
		}
	}

	if mode == xworkerid.Persistent {
		if err := c.create(ctx, p, value); err != nil {
			return "", fmt.Errorf("xnats: create %q: %w", p, err)
		}
		return p, nil
	}

	node, err := c.withCAS(ctx, p, func() (string, error) {
		return c.trySequential(ctx, parent, p, value)
	})
	if err != nil {
		return "", fmt.Errorf("xnats: create %q: %w", p, err)
	}
	c.logger.Debug(ctx, "sequential node created", xlog.Path(node))
	return node, nil
}

// trySequential 以 revision 条件递增父路径计数器，再创建对应节点。
// 计数器推进后节点创建失败只会留下一个空号，序号不会重复。
func (c *Client) trySequential(ctx context.Context, parent, prefix, value string) (string, error) {
	counter, err := c.counterKey(parent)
	if err != nil {
		return "", err
	}

	var (
		cur int64
		rev uint64
	)
	entry, err := c.kv.Get(ctx, counter)
	switch {
	case errors.Is(err, jetstream.ErrKeyNotFound):
	case err != nil:
		return "", fmt.Errorf("read counter %q: %w", counter, err)
	default:
		raw := string(entry.Value())
		cur, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || cur < 0 {
			return "", fmt.Errorf("%w: %q=%q", ErrCorruptCounter, counter, raw)
		}
		rev = entry.Revision()
	}

	next := cur + 1
	val := []byte(strconv.FormatInt(next, 10))
	if rev == 0 {
		_, err = c.kv.Create(ctx, counter, val)
	} else {
		_, err = c.kv.Update(ctx, counter, val, rev)
	}
	if err != nil {
		return "", casError(counter, err)
	}

	node := xworkerid.SequentialPath(prefix, next)
	if err := c.create(ctx, node, value); err != nil {
		return "", err
	}
	return node, nil
}

func (c *Client) create(ctx context.Context, p, value string) error {
	key, err := encodeKey(p)
	if err != nil {
		return err
	}
	_, err = c.kv.Create(ctx, key, []byte(value))
	if errors.Is(err, jetstream.ErrKeyExists) {
		return fmt.Errorf("%w: %w", xworkerid.ErrNodeExists, err)
	}
	return err
}

// get 读取节点，不存在时返回包裹 ErrNoNode 的错误。
func (c *Client) get(ctx context.Context, p string) (jetstream.KeyValueEntry, error) {
	key, err := encodeKey(p)
	if err != nil {
		return nil, err
	}
	entry, err := c.kv.Get(ctx, key)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %w", xworkerid.ErrNoNode, err)
	}
	return entry, err
}

// casError 将 revision 不匹配映射为可重试的冲突。
func casError(key string, err error) error {
	if errors.Is(err, jetstream.ErrKeyExists) {
		return fmt.Errorf("%w: %s", ErrRevisionConflict, key)
	}
	return err
}

func (c *Client) withCAS(ctx context.Context, p string, fn func() (string, error)) (string, error) {
	return xretry.DoWithData(ctx, c.retryer, fn, xlog.Path(p))
}
