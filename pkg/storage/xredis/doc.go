// Package xredis 以 Redis 实现 xworkerid.Store。
//
// 节点路径映射为字符串 key（KeyPrefix + 路径），节点值即 value：
//
//   - Persistent 创建：WATCH 父节点，MULTI 中 SETNX 节点
//   - PersistentSequential 创建：每个父路径一个计数器 key（KeyPrefix + "seq:" + 父路径），
//     WATCH 计数器与父节点，MULTI 中写入 计数器+1 与 SETNX 节点；
//     WATCH 失败（redis.TxFailedErr）时用 xretry 重试，序号从 1 开始
//   - Write：SET XX，只覆盖已存在的 key
//
// 默认 KeyPrefix 为 "{xuid}"，花括号使所有 key 落在同一个 Cluster 槽位，
// 因此 WATCH 多 key 在 Cluster 模式下同样可用。
//
//	client, err := xredis.NewClient(&xredis.Config{Addrs: []string{"redis:6379"}})
//	if err != nil {
//		return err
//	}
//	defer client.Close(ctx)
//
// 已有 redis.UniversalClient 时使用 New，Close 不会关闭传入的客户端。
package xredis
