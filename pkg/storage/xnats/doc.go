// Package xnats 以 NATS JetStream KeyValue 实现 xworkerid.Store。
//
// 每个节点路径对应 bucket 中的一个 key，节点值即 value。KV key 只允许
// [-/_=.A-Za-z0-9]，其余字节编码为 "=XX"（如 IPv6 地址中的 ":" 编码为 "=3A"）。
//
//   - Persistent 创建：检查父节点后 kv.Create，key 已存在时返回 ErrNodeExists
//   - PersistentSequential 创建：每个父路径一个计数器 key（"_seq" + 父路径），
//     按 revision 条件更新计数器后 kv.Create 节点；revision 冲突时用 xretry 重试，序号从 1 开始
//   - Write：读取 revision 后 kv.Update，节点不存在时返回 ErrNoNode
//
// NATS KV 没有多 key 事务，父节点检查与写入不是原子的。命名空间中的节点只增不删，
// 因此不影响分配语义。
//
//	cfg := xnats.DefaultConfig()
//	cfg.URLs = []string{"nats://127.0.0.1:4222"}
//	client, err := xnats.NewClient(cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close(ctx)
package xnats
