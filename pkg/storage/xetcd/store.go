package xetcd

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"strings"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/omeyang/xuid/pkg/distributed/xworkerid"
	"github.com/omeyang/xuid/pkg/observability/xlog"
	"github.com/omeyang/xuid/pkg/resilience/xretry"
)

var _ xworkerid.Store = (*Client)(nil)

// Exists 实现 xworkerid.Store。
func (c *Client) Exists(ctx context.Context, p string) (bool, error) {
	if err := c.checkPreconditions(ctx); err != nil {
		return false, err
	}
	if p == "" {
		return false, ErrEmptyKey
	}
	resp, err := c.client.Get(ctx, p, clientv3.WithCountOnly())
	if err != nil {
		return false, fmt.Errorf("xetcd: exists %q: %w", p, err)
	}
	return resp.Count > 0, nil
}

// Read 实现 xworkerid.Store。
func (c *Client) Read(ctx context.Context, p string) (string, error) {
	if err := c.checkPreconditions(ctx); err != nil {
		return "", err
	}
	if p == "" {
		return "", ErrEmptyKey
	}
	resp, err := c.client.Get(ctx, p)
	if err != nil {
		return "", fmt.Errorf("xetcd: read %q: %w", p, err)
	}
	if len(resp.Kvs) == 0 {
		return "", fmt.Errorf("xetcd: read %q: %w", p, xworkerid.ErrNoNode)
	}
	return string(resp.Kvs[0].Value), nil
}

// Write 实现 xworkerid.Store。只覆盖已存在的 key。
func (c *Client) Write(ctx context.Context, p, value string) error {
	if err := c.checkPreconditions(ctx); err != nil {
		return err
	}
	if p == "" {
		return ErrEmptyKey
	}
	resp, err := c.client.Txn(ctx).
		If(clientv3.Compare(clientv3.CreateRevision(p), ">", 0)).
		Then(clientv3.OpPut(p, value)).
		Commit()
	if err != nil {
		return fmt.Errorf("xetcd: write %q: %w", p, err)
	}
	if !resp.Succeeded {
		return fmt.Errorf("xetcd: write %q: %w", p, xworkerid.ErrNoNode)
	}
	return nil
}

// Create 实现 xworkerid.Store。
func (c *Client) Create(ctx context.Context, p, value string, mode xworkerid.CreateMode) (string, error) {
	if err := c.checkPreconditions(ctx); err != nil {
		return "", err
	}
	if p == "" {
		return "", ErrEmptyKey
	}
	if !strings.HasPrefix(p, "/") || p == "/" {
		return "", fmt.Errorf("xetcd: create %q: path must be absolute", p)
	}

	switch mode {
	case xworkerid.Persistent:
		return c.createPersistent(ctx, p, value)
	case xworkerid.PersistentSequential:
		return c.createSequential(ctx, p, value)
	default:
		return "", fmt.Errorf("xetcd: create %q: unsupported mode %s", p, mode)
	}
}

// parentCmps 返回“父路径存在”的比较条件。根下的一级节点没有父 key。
func parentCmps(parent string) []clientv3.Cmp {
	if parent == "/" {
		return nil
	}
	return []clientv3.Cmp{clientv3.Compare(clientv3.CreateRevision(parent), ">", 0)}
}

func (c *Client) createPersistent(ctx context.Context, p, value string) (string, error) {
	parent := path.Dir(p)
	cmps := append([]clientv3.Cmp{
		clientv3.Compare(clientv3.CreateRevision(p), "=", 0),
	}, parentCmps(parent)...)

	resp, err := c.client.Txn(ctx).
		If(cmps...).
		Then(clientv3.OpPut(p, value)).
		Else(clientv3.OpGet(p, clientv3.WithCountOnly())).
		Commit()
	if err != nil {
		return "", fmt.Errorf("xetcd: create %q: %w", p, err)
	}
	if resp.Succeeded {
		return p, nil
	}
	if rangeCount(resp, 0) > 0 {
		return "", fmt.Errorf("xetcd: create %q: %w", p, xworkerid.ErrNodeExists)
	}
	return "", fmt.Errorf("xetcd: create %q: parent %q: %w", p, parent, xworkerid.ErrNoNode)
}

// createSequential 以每个父路径一个计数器 key 模拟顺序节点。
// 计数器与节点在同一事务中写入，计数器 ModRevision 作为乐观锁。
func (c *Client) createSequential(ctx context.Context, prefix, value string) (string, error) {
	parent := path.Dir(prefix)
	counter := c.opts.seqPrefix + parent

	return xretry.DoWithData(ctx, c.retryer, func() (string, error) {
		return c.trySequential(ctx, parent, prefix, counter, value)
	}, xlog.Path(counter))
}

func (c *Client) trySequential(ctx context.Context, parent, prefix, counter, value string) (string, error) {
	got, err := c.client.Get(ctx, counter)
	if err != nil {
		return "", fmt.Errorf("xetcd: read counter %q: %w", counter, err)
	}

	var cur, rev int64
	if len(got.Kvs) > 0 {
		kv := got.Kvs[0]
		cur, err = strconv.ParseInt(string(kv.Value), 10, 64)
		if err != nil || cur < 0 {
			return "", fmt.Errorf("%w: %q=%q", ErrCorruptCounter, counter, kv.Value)
		}
		rev = kv.ModRevision
	}

	next := cur + 1
	node := xworkerid.SequentialPath(prefix, next)

	cmps := append([]clientv3.Cmp{
		clientv3.Compare(clientv3.ModRevision(counter), "=", rev),
		clientv3.Compare(clientv3.CreateRevision(node), "=", 0),
	}, parentCmps(parent)...)

	resp, err := c.client.Txn(ctx).
		If(cmps...).
		Then(
			clientv3.OpPut(counter, strconv.FormatInt(next, 10)),
			clientv3.OpPut(node, value),
		).
		Else(
			clientv3.OpGet(counter),
			clientv3.OpGet(parent, clientv3.WithCountOnly()),
			clientv3.OpGet(node, clientv3.WithCountOnly()),
		).
		Commit()
	if err != nil {
		return "", fmt.Errorf("xetcd: create %q: %w", node, err)
	}
	if resp.Succeeded {
		c.logger.Debug(ctx, "sequential node created", xlog.Path(node))
		return node, nil
	}

	switch {
	case modRevision(resp, 0) != rev:
		return "", fmt.Errorf("%w: %s", ErrSequenceConflict, counter)
	case parent != "/" && rangeCount(resp, 1) == 0:
		return "", fmt.Errorf("xetcd: create %q: parent %q: %w", node, parent, xworkerid.ErrNoNode)
	default:
		return "", fmt.Errorf("xetcd: create %q: %w", node, xworkerid.ErrNodeExists)
	}
}

// modRevision 返回事务第 i 个 Range 响应首个 key 的 ModRevision，不存在时返回 0。
func modRevision(resp *clientv3.TxnResponse, i int) int64 {
	if resp == nil || i >= len(resp.Responses) {
		return 0
	}
	r := resp.Responses[i].GetResponseRange()
	if r == nil || len(r.Kvs) == 0 {
		return 0
	}
	return r.Kvs[0].ModRevision
}

// rangeCount 返回事务第 i 个 Range 响应的计数，不存在时返回 0。
func rangeCount(resp *clientv3.TxnResponse, i int) int64 {
	if resp == nil || i >= len(resp.Responses) {
		return 0
	}
	r := resp.Responses[i].GetResponseRange()
	if r == nil {
		return 0
	}
	return r.Count
}
