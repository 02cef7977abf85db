package xetcd

import (
	"context"

	clientv3 "go.etcd.io/etcd/client/v3"
)

//go:generate mockgen -source=etcd_interface.go -destination=mock_etcd_test.go -package=xetcd

// etcdKV 定义 Store 用到的 etcd 操作，用于依赖注入和测试。
// 接口方法与 clientv3.KV 保持一致。
type etcdKV interface {
	Get(ctx context.Context, key string, opts ...clientv3.OpOption) (*clientv3.GetResponse, error)
	Put(ctx context.Context, key, val string, opts ...clientv3.OpOption) (*clientv3.PutResponse, error)
	Txn(ctx context.Context) clientv3.Txn
}

// etcdClient 组合接口。*clientv3.Client 实现了此接口。
type etcdClient interface {
	etcdKV
	Close() error
}

// 编译时检查
var _ etcdClient = (*clientv3.Client)(nil)
