package xzk

import (
	"context"
	"fmt"

	"github.com/omeyang/xuid/pkg/distributed/xworkerid"
	"github.com/omeyang/xuid/pkg/observability/xlog"
)

// Locker 返回基于 zk.Lock 的 xworkerid.Locker。
//
// 锁节点是 key 下的临时顺序节点，会话失效时自动释放。
// ctx 在获取前结束时返回 ctx.Err()，后台获取成功后立即释放。
func (c *Client) Locker() xworkerid.Locker {
	return xworkerid.LockerFunc(c.lock)
}

func (c *Client) lock(ctx context.Context, key string) (xworkerid.UnlockFunc, error) {
	if err := c.checkPreconditions(ctx, key); err != nil {
		return nil, err
	}
	l := c.opts.newLock(c.raw, key, c.acl)
	acquired := make(chan error, 1)
	go func() { acquired <- l.Lock() }()

	select {
	case err := <-acquired:
		if err != nil {
			return nil, fmt.Errorf("xzk: lock %q: %w", key, err)
		}
	case <-ctx.Done():
		go func() {
			if <-acquired == nil {
				if err := l.Unlock(); err != nil {
					c.logger.Warn(context.Background(), "release abandoned lock failed",
						xlog.Path(key), xlog.Err(err))
				}
			}
		}()
		return nil, ctx.Err()
	}

	return func(ctx context.Context) error {
		_, err := call(ctx, func() (struct{}, error) {
			return struct{}{}, l.Unlock()
		})
		if err != nil {
			return fmt.Errorf("xzk: unlock %q: %w", key, err)
		}
		return nil
	}, nil
}
