// Package xworkerid 基于强一致协调存储（ZooKeeper / etcd / Redis）为进程分配全局唯一的 worker id。
//
// # 存储布局
//
// 根路径可配置，默认 /uid：
//
//	/uid                         根
//	/uid/workNode                顺序节点父路径
//	/uid/workNode/workid-<N>     每次首次分配创建一个，N 由存储原子分配
//	/uid/storage                 主机映射父路径
//	/uid/storage/<hostAddress>   值为 /uid/workNode/workid-<N>
//
// worker id 即 N 的整数值。N 只增不减、永不复用；映射一旦写入不会被覆盖（空值修复除外）。
//
// # 快速开始
//
//	store, err := xzk.NewClient(xzk.Config{
//		Servers:           []string{"zk1:2181"},
//		SessionTimeout:    30 * time.Second,
//		ConnectionTimeout: 10 * time.Second,
//	})
//	if err != nil {
//		return err
//	}
//	defer store.Close()
//
//	alloc, err := xworkerid.Initialize(ctx, store, xworkerid.DefaultConfig(),
//		xworkerid.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	workerID, err := alloc.AssignWorkerID(ctx)
//
// Initialize 等价于 NewAllocator + [Bootstrapper.EnsureNamespace]，进程启动时调用一次。
//
// # 错误分类
//
// 所有致命错误都以显式错误返回，分配器从不返回默认 id：
//
//   - [ErrHostUnresolvable]: 无法确定本机网络标识
//   - [ErrStoreUnavailable]: 存储操作失败、超时或连接不可用
//   - [ErrCorruptState]: 存储中的节点路径无法解析出非负整数
//
// 幂等创建时遇到 [ErrNodeExists] 视为成功，仅记录 Info 日志。
//
// # 并发首次分配
//
// 同一主机上两个进程同时首次分配时，第 3 步（查映射）与第 4 步（建节点、写映射）之间存在竞态。
// [MappingCreateIfAbsent]（默认）以“带值条件创建”写映射，失败方读取并采用胜出方的节点，
// 两个进程得到同一个 id，仅浪费一个顺序号。[MappingOverwrite] 保留原始的“先建空映射再写值”语义，
// 后写者胜出。配置 [WithLocker] 后整个分配过程按主机串行化，不再产生孤儿节点。
package xworkerid
