package xnats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/omeyang/xuid/pkg/observability/xlog"
	"github.com/omeyang/xuid/pkg/resilience/xretry"
)

// bucketAttempts 并发创建同一 bucket 时的尝试次数。
const bucketAttempts = 3

// Client NATS JetStream KV 存储，实现 xworkerid.Store。并发安全。
type Client struct {
	kv     jetstream.KeyValue
	nc     *nats.Conn // 仅 NewClient 创建时非 nil
	opts   *options
	logger  xlog.Logger
	retryer *xretry.Retryer
	closed  atomic.Bool
}

// New 基于已有 bucket 创建存储。Close 不会关闭底层连接。
func New(kv jetstream.KeyValue, opts ...Option) (*Client, error) {
	if kv == nil {
		return nil, ErrNilKV
	}
	return newClient(kv, nil, opts), nil
}

// NewClient 连接服务器并打开（必要时创建）bucket。
func NewClient(config *Config, opts ...Option) (*Client, error) {
	if config == nil {
		return nil, ErrNilConfig
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	cfg := config.applyDefaults()

	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	natsOpts := []nats.Option{
		nats.Name("xuid"),
		nats.Timeout(cfg.ConnectTimeout),
	}
	if cfg.Username != "" {
		natsOpts = append(natsOpts, nats.UserInfo(cfg.Username, cfg.Password))
	}
	if cfg.Token != "" {
		natsOpts = append(natsOpts, nats.Token(cfg.Token))
	}
	nc, err := nats.Connect(strings.Join(cfg.URLs, ","), natsOpts...)
	if err != nil {
		return nil, fmt.Errorf("xnats: connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("xnats: jetstream: %w", err)
	}

	ctx, cancel := context.WithTimeout(o.ctx, cfg.ConnectTimeout)
	defer cancel()
	kv, err := ensureBucket(ctx, js, cfg.kvConfig(), o.logger.With(xlog.Component("xnats")))
	if err != nil {
		nc.Close()
		return nil, err
	}

	c := newClient(kv, nc, opts)
	c.logger.Info(ctx, "nats kv bucket ready", xlog.Path(cfg.Bucket))
	return c, nil
}

func newClient(kv jetstream.KeyValue, nc *nats.Conn, opts []Option) *Client {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	logger := o.logger.With(xlog.Component("xnats"))
	return &Client{
		kv:     kv,
		nc:     nc,
		opts:   o,
		logger: logger,
		retryer: xretry.NewRetryer(
			xretry.WithAttempts(o.casAttempts),
			xretry.WithDelay(o.casDelay),
			xretry.WithRetryIf(func(err error) bool { return errors.Is(err, ErrRevisionConflict) }),
			xretry.WithLogger(logger),
		),
	}
}

// ensureBucket 创建 bucket，已存在时打开。多个进程同时创建时会重试。
func ensureBucket(ctx context.Context, js jetstream.JetStream, cfg jetstream.KeyValueConfig, logger xlog.Logger) (jetstream.KeyValue, error) {
	r := xretry.NewRetryer(
		xretry.WithAttempts(bucketAttempts),
		xretry.WithDelay(defaultCASDelay),
		xretry.WithLogger(logger),
	)
	kv, err := xretry.DoWithData(ctx, r, func() (jetstream.KeyValue, error) {
		kv, err := js.CreateKeyValue(ctx, cfg)
		if errors.Is(err, jetstream.ErrBucketExists) {
			return js.KeyValue(ctx, cfg.Bucket)
		}
		return kv, err
	}, slog.String("bucket", cfg.Bucket))
	if err != nil {
		return nil, fmt.Errorf("xnats: bucket %q: %w", cfg.Bucket, err)
	}
	return kv, nil
}

// KeyValue 返回底层 bucket。
func (c *Client) KeyValue() jetstream.KeyValue {
	return c.kv
}

// Close 关闭由 NewClient 创建的连接。可重复调用。
func (c *Client) Close(_ context.Context) error {
	if c.closed.Swap(true) || c.nc == nil {
		return nil
	}
	c.nc.Close()
	return nil
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

func (c *Client) counterKey(parent string) (string, error) {
	k, err := encodeKey(parent)
	if err != nil {
		return "", err
	}
	return DefaultCounterPrefix + k, nil
}
