package xzk

import (
	"context"
	"fmt"

	"github.com/go-zookeeper/zk"

	"github.com/omeyang/xuid/pkg/distributed/xworkerid"
	"github.com/omeyang/xuid/pkg/observability/xlog"
)

var _ xworkerid.Store = (*Client)(nil)

// anyVersion Set 时不校验版本。
const anyVersion = -1

// Exists 实现 xworkerid.Store。
func (c *Client) Exists(ctx context.Context, p string) (bool, error) {
	if err := c.checkPreconditions(ctx, p); err != nil {
		return false, err
	}
	ok, err := call(ctx, func() (bool, error) {
		ok, _, err := c.conn.Exists(p)
		return ok, err
	})
	if err != nil {
		return false, wrapError("exists", p, err)
	}
	return ok, nil
}

// Read 实现 xworkerid.Store。
func (c *Client) Read(ctx context.Context, p string) (string, error) {
	if err := c.checkPreconditions(ctx, p); err != nil {
		return "", err
	}
	data, err := call(ctx, func() ([]byte, error) {
		data, _, err := c.conn.Get(p)
		return data, err
	})
	if err != nil {
		return "", wrapError("read", p, err)
	}
	return string(data), nil
}

// Write 实现 xworkerid.Store。
func (c *Client) Write(ctx context.Context, p, value string) error {
	if err := c.checkPreconditions(ctx, p); err != nil {
		return err
	}
	_, err := call(ctx, func() (*zk.Stat, error) {
		return c.conn.Set(p, []byte(value), anyVersion)
	})
	if err != nil {
		return wrapError("write", p, err)
	}
	return nil
}

// Create 实现 xworkerid.Store。顺序节点由服务端分配后缀。
func (c *Client) Create(ctx context.Context, p, value string, mode xworkerid.CreateMode) (string, error) {
	if err := c.checkPreconditions(ctx, p); err != nil {
		return "", err
	}

	var flags int32
	switch mode {
	case xworkerid.Persistent:
	case xworkerid.PersistentSequential:
		flags = zk.FlagSequence
	default:
		return "", fmt.Errorf("xzk: create %q: unsupported mode %s", p, mode)
	}

	created, err := call(ctx, func() (string, error) {
		return c.conn.Create(p, []byte(value), flags, c.acl)
	})
	if err != nil {
		return "", wrapError("create", p, err)
	}
	if mode == xworkerid.PersistentSequential {
		c.logger.Debug(ctx, "sequential node created", xlog.Path(created))
	}
	return created, nil
}
