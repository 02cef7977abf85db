package xredis

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

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
	n, err := c.client.Exists(ctx, c.key(p)).Result()
	if err != nil {
		return false, fmt.Errorf("xredis: exists %q: %w", p, err)
	}
	return n > 0, nil
}

// Read 实现 xworkerid.Store。
func (c *Client) Read(ctx context.Context, p string) (string, error) {
	if err := c.checkPreconditions(ctx, p); err != nil {
		return "", err
	}
	v, err := c.client.Get(ctx, c.key(p)).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("xredis: read %q: %w", p, xworkerid.ErrNoNode)
	}
	if err != nil {
		return "", fmt.Errorf("xredis: read %q: %w", p, err)
	}
	return v, nil
}

// Write 实现 xworkerid.Store。SET XX 只覆盖已存在的 key。
func (c *Client) Write(ctx context.Context, p, value string) error {
	if err := c.checkPreconditions(ctx, p); err != nil {
		return err
	}
	ok, err := c.client.SetXX(ctx, c.key(p), value, 0).Result()
	if err != nil {
		return fmt.Errorf("xredis: write %q: %w", p, err)
	}
	if !ok {
		return fmt.Errorf("xredis: write %q: %w", p, xworkerid.ErrNoNode)
	}
	return nil
}

// Create 实现 xworkerid.Store。
func (c *Client) Create(ctx context.Context, p, value string, mode xworkerid.CreateMode) (string, error) {
	if err := c.checkPreconditions(ctx, p); err != nil {
		return "", err
	}
	if !strings.HasPrefix(p, "/") || p == "/" {
		return "", fmt.Errorf("xredis: create %q: path must be absolute", p)
	}

	var create func() (string, error)
	switch mode {
	case xworkerid.Persistent:
		create = func() (string, error) { return c.tryPersistent(ctx, p, value) }
	case xworkerid.PersistentSequential:
		create = func() (string, error) { return c.trySequential(ctx, p, value) }
	default:
		return "", fmt.Errorf("xredis: create %q: unsupported mode %s", p, mode)
	}

	return xretry.DoWithData(ctx, c.retryer, create, xlog.Path(p))
}

// parentKey 返回父节点 key，根下的一级节点没有父 key。
func (c *Client) parentKey(parent string) string {
	if parent == "/" {
		return ""
	}
	return c.key(parent)
}

// checkParent 在事务内确认父节点存在。
func checkParent(ctx context.Context, tx *redis.Tx, parentKey, node string) error {
	if parentKey == "" {
		return nil
	}
	n, err := tx.Exists(ctx, parentKey).Result()
	if err != nil {
		return fmt.Errorf("xredis: create %q: %w", node, err)
	}
	if n == 0 {
		return fmt.Errorf("xredis: create %q: parent: %w", node, xworkerid.ErrNoNode)
	}
	return nil
}

// txError 将 WATCH 失败映射为可重试的冲突。
func txError(node string, err error) error {
	if errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("%w: %s", ErrSequenceConflict, node)
	}
	return err
}

func (c *Client) tryPersistent(ctx context.Context, p, value string) (string, error) {
	parentKey := c.parentKey(path.Dir(p))
	if parentKey == "" {
		ok, err := c.client.SetNX(ctx, c.key(p), value, 0).Result()
		if err != nil {
			return "", fmt.Errorf("xredis: create %q: %w", p, err)
		}
		if !ok {
			return "", fmt.Errorf("xredis: create %q: %w", p, xworkerid.ErrNodeExists)
		}
		return p, nil
	}

	var set *redis.BoolCmd
	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		if err := checkParent(ctx, tx, parentKey, p); err != nil {
			return err
		}
		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			set = pipe.SetNX(ctx, c.key(p), value, 0)
			return nil
		})
		return err
	}, parentKey)
	if err != nil {
		return "", txError(p, err)
	}
	if !set.Val() {
		return "", fmt.Errorf("xredis: create %q: %w", p, xworkerid.ErrNodeExists)
	}
	return p, nil
}

func (c *Client) trySequential(ctx context.Context, prefix, value string) (string, error) {
	parent := path.Dir(prefix)
	parentKey := c.parentKey(parent)
	counter := c.counterKey(parent)
	keys := []string{counter}
	if parentKey != "" {
		keys = append(keys, parentKey)
	}

	var (
		node string
		set  *redis.BoolCmd
	)
	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := readCounter(ctx, tx, counter)
		if err != nil {
			return err
		}
		if err := checkParent(ctx, tx, parentKey, prefix); err != nil {
			return err
		}

		next := cur + 1
		node = xworkerid.SequentialPath(prefix, next)
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, counter, next, 0)
			set = pipe.SetNX(ctx, c.key(node), value, 0)
			return nil
		})
		return err
	}, keys...)
	if err != nil {
		return "", txError(counter, err)
	}
	if !set.Val() {
		return "", fmt.Errorf("xredis: create %q: %w", node, xworkerid.ErrNodeExists)
	}
	c.logger.Debug(ctx, "sequential node created", xlog.Path(node))
	return node, nil
}

// readCounter 读取计数器，不存在时为 0。
func readCounter(ctx context.Context, tx *redis.Tx, counter string) (int64, error) {
	raw, err := tx.Get(ctx, counter).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("xredis: read counter %q: %w", counter, err)
	}
	cur, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || cur < 0 {
		return 0, fmt.Errorf("%w: %q=%q", ErrCorruptCounter, counter, raw)
	}
	return cur, nil
}
