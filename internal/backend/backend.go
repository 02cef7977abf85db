// Package backend 按应用配置打开协调存储，并在需要时附带分布式锁。
package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/omeyang/xuid/internal/config"
	"github.com/omeyang/xuid/pkg/distributed/xdlock"
	"github.com/omeyang/xuid/pkg/distributed/xworkerid"
	"github.com/omeyang/xuid/pkg/observability/xlog"
	"github.com/omeyang/xuid/pkg/storage/xetcd"
	"github.com/omeyang/xuid/pkg/storage/xnats"
	"github.com/omeyang/xuid/pkg/storage/xredis"
	"github.com/omeyang/xuid/pkg/storage/xzk"
)

// ErrUnknownBackend 配置了不支持的后端。
var ErrUnknownBackend = errors.New("backend: unknown backend")

// etcdLockTTL etcd 锁会话 TTL（秒）。持锁进程崩溃后锁最多残留这么久。
const etcdLockTTL = 10

// Backend 一个已打开的存储及其可选的锁。
type Backend struct {
	Name  config.Backend
	Store xworkerid.Store
	// Locker 仅在 cfg.Lock 为 true 时非 nil。memory 后端为进程内锁。
	Locker xworkerid.Locker

	closers []func(ctx context.Context) error
}

// Open 按 cfg.Backend 打开存储。cfg 应已通过 Validate。
// 返回的 Backend 必须 Close。
func Open(ctx context.Context, cfg *config.Config, logger xlog.Logger) (*Backend, error) {
	if logger == nil {
		logger = xlog.Discard()
	}
	logger = logger.With(xlog.Backend(string(cfg.Backend)))

	b := &Backend{Name: cfg.Backend}
	var err error
	switch cfg.Backend {
	case config.BackendZooKeeper:
		err = b.openZooKeeper(cfg, logger)
	case config.BackendEtcd:
		err = b.openEtcd(ctx, cfg, logger)
	case config.BackendRedis:
		err = b.openRedis(ctx, cfg, logger)
	case config.BackendNATS:
		err = b.openNATS(ctx, cfg, logger)
	case config.BackendMemory:
		b.Store = xworkerid.NewMemoryStore()
		if cfg.Lock {
			b.Locker = xworkerid.NewKeyLocker()
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
	if err != nil {
		return nil, errors.Join(err, b.Close(context.WithoutCancel(ctx)))
	}
	logger.Debug(ctx, "backend opened", slog.Bool("lock", b.Locker != nil))
	return b, nil
}

func (b *Backend) openZooKeeper(cfg *config.Config, logger xlog.Logger) error {
	zc := cfg.ZooKeeper
	client, err := xzk.NewClient(&zc, xzk.WithLogger(logger))
	if err != nil {
		return err
	}
	b.Store = client
	b.closers = append(b.closers, client.Close)
	if cfg.Lock {
		b.Locker = client.Locker()
	}
	return nil
}

func (b *Backend) openEtcd(ctx context.Context, cfg *config.Config, logger xlog.Logger) error {
	ec := cfg.Etcd
	client, err := xetcd.NewClient(&ec,
		xetcd.WithContext(ctx),
		xetcd.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	b.Store = client
	b.closers = append(b.closers, client.Close)
	if !cfg.Lock {
		return nil
	}

	// ctx 结束（如收到中断信号）时会话停止续租，锁随租约释放。
	factory, err := xdlock.NewEtcdFactory(client.RawClient(),
		xdlock.WithEtcdTTL(etcdLockTTL),
		xdlock.WithEtcdContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("backend: etcd lock session: %w", err)
	}
	// 锁工厂先于客户端关闭。
	b.closers = append(b.closers, factory.Close)
	if err := factory.Health(ctx); err != nil {
		return fmt.Errorf("backend: etcd lock: %w", err)
	}
	b.Locker = xworkerid.FactoryLocker(factory)
	return nil
}

func (b *Backend) openRedis(ctx context.Context, cfg *config.Config, logger xlog.Logger) error {
	rc := cfg.Redis
	client, err := xredis.NewClient(&rc, xredis.WithLogger(logger))
	if err != nil {
		return err
	}
	b.Store = client
	b.closers = append(b.closers, client.Close)
	if !cfg.Lock {
		return nil
	}

	factory, err := xdlock.NewRedisFactory(client.Redis())
	if err != nil {
		return fmt.Errorf("backend: redis lock: %w", err)
	}
	b.closers = append(b.closers, factory.Close)
	if err := factory.Health(ctx); err != nil {
		return fmt.Errorf("backend: redis lock: %w", err)
	}
	b.Locker = xworkerid.FactoryLocker(factory, xdlock.WithKeyPrefix(xredis.DefaultKeyPrefix))
	return nil
}

func (b *Backend) openNATS(ctx context.Context, cfg *config.Config, logger xlog.Logger) error {
	nc := cfg.NATS
	client, err := xnats.NewClient(&nc,
		xnats.WithContext(ctx),
		xnats.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	b.Store = client
	b.closers = append(b.closers, client.Close)
	return nil
}

// Close 按打开的逆序释放资源。可重复调用。
func (b *Backend) Close(ctx context.Context) error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil
	return errors.Join(errs...)
}

// AllocatorOptions 返回与该后端匹配的分配器选项。
func (b *Backend) AllocatorOptions() []xworkerid.Option {
	if b.Locker == nil {
		return nil
	}
	return []xworkerid.Option{xworkerid.WithLocker(b.Locker)}
}
