// Package distributed 提供分布式协调相关的子包。
//
// 子包列表：
//   - xworkerid: 基于协调存储的 worker id 分配
//   - xdlock: 分布式锁，支持 Redis 和 etcd 后端
package distributed
