// Package storage 提供 worker id 分配所用的协调存储实现。
//
// 子包列表：
//   - xzk: ZooKeeper，原生顺序节点
//   - xetcd: etcd，事务模拟顺序节点
//   - xredis: Redis，WATCH/MULTI 模拟顺序节点
//   - xnats: NATS JetStream KV，按 revision 条件更新计数器
//
// 各子包的 Client 均实现 xworkerid.Store，并以 Close(ctx) 释放连接。
package storage
