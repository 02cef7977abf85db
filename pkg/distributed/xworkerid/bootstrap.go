package xworkerid

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/omeyang/xuid/pkg/observability/xlog"
)

// Bootstrapper 幂等地创建命名空间：根路径、顺序节点父路径、映射父路径。
type Bootstrapper struct {
	store   Store
	layout  Layout
	logger  xlog.Logger
	tel     *telemetry
	timeout time.Duration
}

// EnsureNamespace 按父在前的顺序确保命名空间路径存在。
//
// 每个路径：存在则跳过；不存在则创建，并发创建导致的 ErrNodeExists 视为成功。
// 其他失败（存储不可达、无权限、超时）返回 ErrStoreUnavailable。
// 不产生任何分配副作用，可重复调用。
func (b *Bootstrapper) EnsureNamespace(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	ctx, span := b.tel.start(ctx, "xworkerid.EnsureNamespace",
		attribute.String("xworkerid.root", b.layout.Root()))
	defer span.End()

	for _, p := range b.layout.Namespace() {
		if err := ensurePath(ctx, b.store, b.logger, p); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
	}
	b.logger.Debug(ctx, "namespace ready", xlog.Path(b.layout.Root()))
	return nil
}

// ensurePath 幂等地创建单个持久节点。
func ensurePath(ctx context.Context, store Store, logger xlog.Logger, p string) error {
	exists, err := store.Exists(ctx, p)
	if err != nil {
		return unavailable(err)
	}
	if exists {
		return nil
	}

	if _, err := store.Create(ctx, p, "", Persistent); err != nil {
		if IsNodeExists(err) {
			logger.Info(ctx, "path already exists", xlog.Path(p))
			return nil
		}
		return unavailable(err)
	}
	logger.Info(ctx, "path created", xlog.Path(p))
	return nil
}
