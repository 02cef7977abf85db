package xetcd

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	clientv3 "go.etcd.io/etcd/client/v3"
	"google.golang.org/grpc"
	"google.golang.org/grpc/keepalive"

	"github.com/omeyang/xuid/pkg/observability/xlog"
	"github.com/omeyang/xuid/pkg/resilience/xretry"
)

// Client etcd 客户端封装，实现 xworkerid.Store。
//
// Client 是并发安全的。
type Client struct {
	client    etcdClient // 接口，测试时注入
	rawClient *clientv3.Client
	config    *Config
	opts      *options
	logger    xlog.Logger
	retryer   *xretry.Retryer
	closed    atomic.Bool
}

// NewClient 创建 etcd 客户端。
//
// 错误：
//   - ErrNilConfig: config 为 nil
//   - ErrNoEndpoints / ErrInvalidEndpoint: 端点配置无效
//   - 连接错误、健康检查错误
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
	tlsConfig, err := cfg.TLS.build()
	if err != nil {
		return nil, err
	}

	// keepalive 只通过 DialOptions 设置，PermitWithoutStream 只能由此控制。
	clientConfig := clientv3.Config{
		Endpoints:        cfg.Endpoints,
		DialTimeout:      cfg.DialTimeout,
		Username:         cfg.Username,
		Password:         cfg.Password,
		RejectOldCluster: cfg.RejectOldCluster,
		TLS:              tlsConfig,
		DialOptions: []grpc.DialOption{
			grpc.WithKeepaliveParams(keepalive.ClientParameters{
				Time:                cfg.DialKeepAliveTime,
				Timeout:             cfg.DialKeepAliveTimeout,
				PermitWithoutStream: cfg.PermitWithoutStream,
			}),
		},
	}

	rawClient, err := clientv3.New(clientConfig)
	if err != nil {
		return nil, fmt.Errorf("xetcd: create client: %w", err)
	}

	if o.healthCheck {
		ctx, cancel := context.WithTimeout(o.ctx, o.healthTimeout)
		defer cancel()
		if _, err := rawClient.Get(ctx, o.healthCheckKey, clientv3.WithCountOnly()); err != nil {
			closeErr := rawClient.Close()
			return nil, errors.Join(
				fmt.Errorf("xetcd: health check failed: %w", err),
				closeErr,
			)
		}
	}

	return newClient(rawClient, rawClient, cfg, o), nil
}

func newClient(client etcdClient, raw *clientv3.Client, cfg *Config, o *options) *Client {
	logger := o.logger.With(xlog.Component("xetcd"))
	return &Client{
		client:    client,
		rawClient: raw,
		config:    cfg,
		opts:      o,
		logger:    logger,
		retryer: xretry.NewRetryer(
			xretry.WithAttempts(o.casAttempts),
			xretry.WithDelay(o.casDelay),
			xretry.WithRetryIf(func(err error) bool { return errors.Is(err, ErrSequenceConflict) }),
			xretry.WithLogger(logger),
		),
	}
}

// RawClient 返回原生 etcd 客户端，用于创建 xdlock 锁工厂等高级场景。
func (c *Client) RawClient() *clientv3.Client {
	return c.rawClient
}

// Close 关闭客户端连接。可重复调用。
func (c *Client) Close(_ context.Context) error {
	if c.closed.Swap(true) {
		return nil
	}
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// checkPreconditions 检查 ctx 与客户端状态。
func (c *Client) checkPreconditions(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	if c.closed.Load() {
		return ErrClientClosed
	}
	return ctx.Err()
}
