// Package xdlock 提供分布式互斥锁，支持 etcd 和 Redis (Redlock) 后端。
//
// 在 xuid 中用于按主机串行化 worker id 的首次分配（见 xworkerid.WithLocker），
// 避免同一主机上并发启动的进程各自创建顺序节点。
//
// # 核心概念
//
//   - Factory: 锁工厂，持有底层会话或连接池，按 key 创建锁
//   - Handle: 一次成功的锁获取，只能释放自己持有的锁
//   - MutexOption: 单次获取的配置（key 前缀、Redis 过期时间与重试）
//
// # 后端差异
//
//	| 特性       | etcd                    | Redis (redsync)         |
//	|------------|-------------------------|-------------------------|
//	| 续期方式   | Session 租约自动续期    | 过期时间内完成          |
//	| 多节点     | etcd 集群原生           | Redlock 多数派          |
//	| 进程崩溃   | 租约到期后释放          | 过期时间到后释放        |
//
// 分配过程只持锁几次存储往返，Redis 默认 8 秒过期足够。
//
// etcd 锁以 Session 租约区分持有者：同一工厂（同一 Session）上获取的同名锁互不排斥，
// 因此每个进程使用一个工厂，进程内不要依赖它做 goroutine 间互斥。
//
// # 使用
//
//	factory, err := xdlock.NewEtcdFactory(etcdClient, xdlock.WithEtcdTTL(15))
//	if err != nil {
//		return err
//	}
//	defer factory.Close(ctx)
//
//	alloc, err := xworkerid.Initialize(ctx, store, cfg,
//		xworkerid.WithLocker(xworkerid.FactoryLocker(factory)))
package xdlock
