// Package xzk 以 ZooKeeper 实现 xworkerid.Store。
//
// ZooKeeper 原生支持持久顺序节点（PERSISTENT_SEQUENTIAL），序号由服务端按父节点分配，
// 从父节点的 cversion 开始（新建父节点为 0）。
//
// # 连接
//
// NewClient 调用 zk.Connect 后等待会话建立（StateHasSession），
// 超过 ConnectionTimeout 仍未建立时关闭连接并返回 ErrConnectTimeout。
//
//	cfg := xzk.DefaultConfig()
//	cfg.Servers = xzk.ParseServers("zk1:2181,zk2:2181")
//	client, err := xzk.NewClient(cfg, xzk.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	defer client.Close(ctx)
//
// # 认证
//
// Config.Username 非空时会话以 digest 方案认证，新建节点的 ACL 为该身份全部权限加 world 只读。
//
// # Context
//
// go-zookeeper 的操作不接受 context。本包在独立 goroutine 中执行操作并等待 ctx，
// ctx 结束时立即返回 ctx.Err()；底层请求最长在会话超时后结束。
//
// # 锁
//
// Locker 基于 zk.Lock（临时顺序节点排队），可直接用于 xworkerid.WithLocker。
package xzk
