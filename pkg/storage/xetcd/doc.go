// Package xetcd 以 etcd 实现 xworkerid.Store。
//
// etcd 是扁平的 KV，没有 ZooKeeper 的节点树与顺序节点，本包用事务模拟：
//
//   - 节点即 key，节点值即 value；创建要求父路径已存在（与 ZooKeeper 一致）
//   - Persistent 创建：Txn If(CreateRevision(key) == 0) Then(Put)
//   - PersistentSequential 创建：每个父路径一个计数器 key（默认 /__xuid/seq + 父路径），
//     Txn If(ModRevision(counter) == 读到的版本) Then(Put counter, Put 节点)，
//     版本冲突时用 xretry 重试，序号从 1 开始
//   - Write 只覆盖已存在的 key：Txn If(CreateRevision(key) > 0) Then(Put)
//
// # 使用
//
//	cfg := xetcd.DefaultConfig()
//	cfg.Endpoints = []string{"etcd1:2379"}
//	client, err := xetcd.NewClient(cfg, xetcd.WithHealthCheck(true, 5*time.Second))
//	if err != nil {
//		return err
//	}
//	defer client.Close(ctx)
//
//	alloc, err := xworkerid.Initialize(ctx, client, xworkerid.DefaultConfig())
//
// Config.TLS 非 nil 时从 PEM 文件构建 TLS 配置。
//
// RawClient 返回原生客户端，可用于创建 xdlock etcd 锁工厂。
package xetcd
