package xzk

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-zookeeper/zk"

	"github.com/omeyang/xuid/pkg/observability/xlog"
)

// Client ZooKeeper 客户端封装，实现 xworkerid.Store。
//
// Client 是并发安全的。
type Client struct {
	conn   zkConn
	raw    *zk.Conn
	cfg    *Config
	acl    []zk.ACL
	opts   *options
	logger xlog.Logger
	closed atomic.Bool
	done   chan struct{} // 事件监听 goroutine 退出
}

// NewClient 连接 ZooKeeper 并等待会话建立。
//
// 错误：
//   - ErrNilConfig / ErrNoServers / ErrInvalidConfig: 配置无效
//   - ErrConnectTimeout: ConnectionTimeout 内未建立会话
//   - 认证失败
func NewClient(config *Config, opts ...Option) (*Client, error) {
	if config == nil {
		return nil, ErrNilConfig
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	cfg := config.applyDefaults()
	logger := o.logger.With(xlog.Component("xzk"))

	conn, raw, events, err := o.dial(cfg, zkLogger{logger: logger})
	if err != nil {
		return nil, fmt.Errorf("xzk: connect: %w", err)
	}

	if err := waitSession(events, cfg.ConnectionTimeout); err != nil {
		conn.Close()
		return nil, err
	}

	if cfg.Username != "" {
		if err := conn.AddAuth("digest", []byte(cfg.Username+":"+cfg.Password)); err != nil {
			conn.Close()
			return nil, fmt.Errorf("xzk: add auth digest: %w", err)
		}
	}

	c := &Client{
		conn:   conn,
		raw:    raw,
		cfg:    cfg,
		acl:    cfg.acl(),
		opts:   o,
		logger: logger,
		done:   make(chan struct{}),
	}
	go c.watch(events)

	logger.Info(context.Background(), "zookeeper session established",
		slog.Any("servers", cfg.Servers))
	return c, nil
}

// waitSession 等待 StateHasSession 事件。
func waitSession(events <-chan zk.Event, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return ErrClientClosed
			}
			switch ev.State {
			case zk.StateHasSession:
				return nil
			case zk.StateAuthFailed:
				return fmt.Errorf("xzk: %w", zk.ErrAuthFailed)
			}
		case <-timer.C:
			return fmt.Errorf("%w after %s", ErrConnectTimeout, timeout)
		}
	}
}

// watch 记录会话状态变化，事件通道关闭后退出。
func (c *Client) watch(events <-chan zk.Event) {
	defer close(c.done)
	ctx := context.Background()
	for ev := range events {
		if ev.Type != zk.EventSession {
			continue
		}
		switch ev.State {
		case zk.StateExpired:
			c.logger.Warn(ctx, "zookeeper session expired")
		case zk.StateDisconnected:
			c.logger.Warn(ctx, "zookeeper disconnected", slog.String("server", ev.Server))
		default:
			c.logger.Debug(ctx, "zookeeper session event", slog.String("state", ev.State.String()))
		}
	}
}

// Close 关闭会话。可重复调用，等待事件监听退出或 ctx 结束。
func (c *Client) Close(ctx context.Context) error {
	if c.closed.Swap(true) {
		return nil
	}
	c.conn.Close()
	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// checkPreconditions 检查 ctx 与客户端状态。
func (c *Client) checkPreconditions(ctx context.Context, p string) error {
	if ctx == nil {
		return ErrNilContext
	}
	if c.closed.Load() {
		return ErrClientClosed
	}
	if p == "" {
		return ErrEmptyPath
	}
	return ctx.Err()
}
