package xworkerid

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/omeyang/xuid/pkg/observability/xlog"
)

// Allocator 为本机分配稳定的 worker id。
//
// Allocator 不持有可变状态，可被多个 goroutine 使用；
// 通常每个进程只在启动时调用一次 AssignWorkerID。
type Allocator struct {
	store   Store
	layout  Layout
	cfg     Config
	logger  xlog.Logger
	resolve HostResolver
	locker  Locker
	tel     *telemetry
	boot    *Bootstrapper
}

// NewAllocator 创建分配器，不访问存储。
//
// 错误：
//   - ErrNilStore: store 为 nil
//   - ErrInvalidConfig: 配置无效
func NewAllocator(store Store, cfg Config, opts ...Option) (*Allocator, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.applyDefaults()
	layout, err := NewLayout(cfg.Root)
	if err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	tel, err := newTelemetry(o.tracerProvider, o.meterProvider)
	if err != nil {
		return nil, err
	}

	logger := o.logger.With(xlog.Component("xworkerid"))
	return &Allocator{
		store:   store,
		layout:  layout,
		cfg:     cfg,
		logger:  logger,
		resolve: o.resolveHost,
		locker:  o.locker,
		tel:     tel,
		boot: &Bootstrapper{
			store:   store,
			layout:  layout,
			logger:  logger,
			tel:     tel,
			timeout: cfg.Timeout,
		},
	}, nil
}

// Initialize 创建分配器并确保命名空间存在，进程启动时调用一次。
func Initialize(ctx context.Context, store Store, cfg Config, opts ...Option) (*Allocator, error) {
	a, err := NewAllocator(store, cfg, opts...)
	if err != nil {
		return nil, err
	}
	if err := a.boot.EnsureNamespace(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

// Bootstrapper 返回共享同一存储和布局的命名空间初始化器。
func (a *Allocator) Bootstrapper() *Bootstrapper { return a.boot }

// Layout 返回路径布局。
func (a *Allocator) Layout() Layout { return a.layout }

// AssignWorkerID 返回本机的 worker id。
//
// 流程：
//  1. 解析本机标识，失败返回 ErrHostUnresolvable
//  2. 映射 <root>/storage/<host> 存在且非空：解析其值并返回（重启复用，不创建新节点）
//  3. 否则创建顺序节点 <root>/workNode/workid-<N>，按 MappingMode 写入映射
//  4. 解析 N 并返回
//
// 任一存储操作失败或超时返回 ErrStoreUnavailable；节点路径无法解析返回 ErrCorruptState。
// 失败时不会返回任何可用的 id，调用方可从头重试。
func (a *Allocator) AssignWorkerID(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	ctx, span := a.tel.start(ctx, "xworkerid.AssignWorkerID",
		attribute.String("xworkerid.root", a.layout.Root()))

	id, res, err := a.assign(ctx)
	if err != nil {
		res = outcomeError
		a.logger.Error(ctx, "assign worker id failed", xlog.Err(err))
	} else {
		span.SetAttributes(attribute.Int64("xworkerid.worker_id", id))
	}
	a.tel.finish(ctx, span, res, err)
	return id, err
}

func (a *Allocator) assign(ctx context.Context) (int64, outcome, error) {
	host, err := a.resolve(ctx)
	if err != nil {
		return 0, outcomeError, fmt.Errorf("%w: %w", ErrHostUnresolvable, err)
	}
	if err := validHost(host); err != nil {
		return 0, outcomeError, err
	}
	ctx = xlog.ContextWith(ctx, xlog.Host(host))

	if a.locker != nil {
		lockKey := a.layout.LockPath(host)
		unlock, err := a.locker.Lock(ctx, lockKey)
		if err != nil {
			return 0, outcomeError, unavailable(fmt.Errorf("lock %q: %w", lockKey, err))
		}
		defer func() {
			if err := release(ctx, unlock); err != nil {
				a.logger.Warn(ctx, "release allocation lock failed", xlog.Path(lockKey), xlog.Err(err))
			}
		}()
	}

	mapping := a.layout.MappingPath(host)
	node, err := a.readMapping(ctx, mapping)
	if err != nil {
		return 0, outcomeError, err
	}
	res := outcomeWarm
	if node == "" {
		node, res, err = a.claim(ctx, mapping)
		if err != nil {
			return 0, outcomeError, err
		}
	}

	id, err := ParseWorkerID(a.layout.WorkIDPrefix(), node)
	if err != nil {
		return 0, outcomeError, err
	}
	if a.cfg.MaxWorkerID > 0 && id > a.cfg.MaxWorkerID {
		return 0, outcomeError, fmt.Errorf("%w: %d > %d (node %q)", ErrWorkerIDOutOfRange, id, a.cfg.MaxWorkerID, node)
	}

	a.logger.Info(ctx, "worker id assigned",
		xlog.Path(node), xlog.WorkerID(id), slog.String("outcome", string(res)))
	return id, res, nil
}

// claim 首次分配：创建顺序节点并写入映射，返回映射最终指向的节点。
func (a *Allocator) claim(ctx context.Context, mapping string) (string, outcome, error) {
	prefix := a.layout.WorkIDPrefix()
	node, err := a.store.Create(ctx, prefix, "", PersistentSequential)
	if err != nil {
		return "", outcomeError, unavailable(err)
	}
	a.logger.Info(ctx, "sequential node created", xlog.Path(node))

	if a.cfg.MappingMode == MappingOverwrite {
		if err := ensurePath(ctx, a.store, a.logger, mapping); err != nil {
			return "", outcomeError, err
		}
		if err := a.store.Write(ctx, mapping, node); err != nil {
			return "", outcomeError, unavailable(err)
		}
		return node, outcomeCreated, nil
	}

	_, err = a.store.Create(ctx, mapping, node, Persistent)
	if err == nil {
		return node, outcomeCreated, nil
	}
	if !IsNodeExists(err) {
		return "", outcomeError, unavailable(err)
	}

	stored, err := a.readMapping(ctx, mapping)
	if err != nil {
		return "", outcomeError, err
	}
	if stored != "" {
		a.logger.Warn(ctx, "mapping claimed concurrently, adopting stored node",
			xlog.Path(stored), slog.String("orphan", node))
		return stored, outcomeAdopted, nil
	}

	// 映射存在但为空：修复
	if err := a.store.Write(ctx, mapping, node); err != nil {
		return "", outcomeError, unavailable(err)
	}
	return node, outcomeCreated, nil
}

// readMapping 读取映射值。不存在或为空时返回 ""。
func (a *Allocator) readMapping(ctx context.Context, mapping string) (string, error) {
	exists, err := a.store.Exists(ctx, mapping)
	if err != nil {
		return "", unavailable(err)
	}
	if !exists {
		return "", nil
	}
	v, err := a.store.Read(ctx, mapping)
	if err != nil {
		if IsNoNode(err) {
			return "", nil
		}
		return "", unavailable(err)
	}
	return v, nil
}

// Lookup 只读地查询 host 的 worker id，不创建任何节点。
// 映射不存在或为空时返回 (0, false, nil)。
func (a *Allocator) Lookup(ctx context.Context, host string) (int64, bool, error) {
	if err := validHost(host); err != nil {
		return 0, false, err
	}
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	node, err := a.readMapping(ctx, a.layout.MappingPath(host))
	if err != nil || node == "" {
		return 0, false, err
	}
	id, err := ParseWorkerID(a.layout.WorkIDPrefix(), node)
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}
