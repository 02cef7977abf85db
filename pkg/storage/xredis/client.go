package xredis

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/redis/go-redis/v9"

	"github.com/omeyang/xuid/pkg/observability/xlog"
	"github.com/omeyang/xuid/pkg/resilience/xretry"
)

// Client Redis 存储，实现 xworkerid.Store。并发安全。
type Client struct {
	client redis.UniversalClient
	opts   *options
	logger  xlog.Logger
	retryer *xretry.Retryer
	owned   bool
	closed atomic.Bool
}

// New 基于已有客户端创建存储。Close 不会关闭 client。
func New(client redis.UniversalClient, opts ...Option) (*Client, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	return newClient(client, false, opts), nil
}

// NewClient 按配置创建客户端并 PING 验证连接。
func NewClient(config *Config, opts ...Option) (*Client, error) {
	if config == nil {
		return nil, ErrNilConfig
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	cfg := config.applyDefaults()

	rc := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:       cfg.Addrs,
		Username:    cfg.Username,
		Password:    cfg.Password,
		DB:          cfg.DB,
		MasterName:  cfg.MasterName,
		DialTimeout: cfg.DialTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		return nil, errors.Join(fmt.Errorf("xredis: ping: %w", err), rc.Close())
	}
	return newClient(rc, true, opts), nil
}

func newClient(rc redis.UniversalClient, owned bool, opts []Option) *Client {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	logger := o.logger.With(xlog.Component("xredis"))
	return &Client{
		client: rc,
		opts:   o,
		logger: logger,
		retryer: xretry.NewRetryer(
			xretry.WithAttempts(o.txAttempts),
			xretry.WithDelay(o.txDelay),
			xretry.WithRetryIf(func(err error) bool { return errors.Is(err, ErrSequenceConflict) }),
			xretry.WithLogger(logger),
		),
		owned: owned,
	}
}

// Redis 返回底层客户端，可用于创建 xdlock Redis 锁工厂。
func (c *Client) Redis() redis.UniversalClient {
	return c.client
}

// Close 关闭由 NewClient 创建的连接。可重复调用。
func (c *Client) Close(_ context.Context) error {
	if c.closed.Swap(true) || !c.owned {
		return nil
	}
	return c.client.Close()
}

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

func (c *Client) key(p string) string {
	return c.opts.keyPrefix + p
}

func (c *Client) counterKey(parent string) string {
	return c.opts.keyPrefix + "seq:" + parent
}
