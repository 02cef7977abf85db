package xetcd

import (
	"bytes"
	"context"
	"errors"
	"sync"

	pb "go.etcd.io/etcd/api/v3/etcdserverpb"
	"go.etcd.io/etcd/api/v3/mvccpb"
	clientv3 "go.etcd.io/etcd/client/v3"
)

// fakeEtcd 进程内 etcd KV，按 revision 语义求值事务的 Compare 与 Op。
type fakeEtcd struct {
	mu  sync.Mutex
	kvs map[string]*mvccpb.KeyValue
	rev int64

	getErr    error
	txnErr    error
	closeErr  error
	closed    int
	commits   int
	beforeTxn func(f *fakeEtcd, n int) // 每次 Commit 求值前调用，n 从 1 开始；调用时未持锁
}

var _ etcdClient = (*fakeEtcd)(nil)

func newFakeEtcd() *fakeEtcd {
	return &fakeEtcd{kvs: make(map[string]*mvccpb.KeyValue)}
}

// set 直接写入，模拟其他客户端。
func (f *fakeEtcd) set(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.putLocked(key, value)
}

func (f *fakeEtcd) value(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kv, ok := f.kvs[key]
	if !ok {
		return "", false
	}
	return string(kv.Value), true
}

func (f *fakeEtcd) putLocked(key, value string) {
	f.rev++
	kv, ok := f.kvs[key]
	if !ok {
		kv = &mvccpb.KeyValue{Key: []byte(key), CreateRevision: f.rev}
		f.kvs[key] = kv
	}
	kv.ModRevision = f.rev
	kv.Version++
	kv.Value = []byte(value)
}

func (f *fakeEtcd) rangeLocked(key string, countOnly bool) *pb.RangeResponse {
	kv, ok := f.kvs[key]
	if !ok {
		return &pb.RangeResponse{}
	}
	resp := &pb.RangeResponse{Count: 1}
	if !countOnly {
		cp := *kv
		resp.Kvs = []*mvccpb.KeyValue{&cp}
	}
	return resp
}

func (f *fakeEtcd) Get(ctx context.Context, key string, opts ...clientv3.OpOption) (*clientv3.GetResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	op := clientv3.OpGet(key, opts...)
	return (*clientv3.GetResponse)(f.rangeLocked(key, op.IsCountOnly())), nil
}

func (f *fakeEtcd) Put(ctx context.Context, key, val string, _ ...clientv3.OpOption) (*clientv3.PutResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.putLocked(key, val)
	return &clientv3.PutResponse{}, nil
}

func (f *fakeEtcd) Txn(ctx context.Context) clientv3.Txn {
	return &fakeTxn{etcd: f, ctx: ctx}
}

func (f *fakeEtcd) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return f.closeErr
}

func (f *fakeEtcd) compareLocked(c clientv3.Cmp) bool {
	kv := f.kvs[string(c.KeyBytes())]
	var actual, want int64
	switch u := c.TargetUnion.(type) {
	case *pb.Compare_CreateRevision:
		want = u.CreateRevision
		if kv != nil {
			actual = kv.CreateRevision
		}
	case *pb.Compare_ModRevision:
		want = u.ModRevision
		if kv != nil {
			actual = kv.ModRevision
		}
	case *pb.Compare_Version:
		want = u.Version
		if kv != nil {
			actual = kv.Version
		}
	case *pb.Compare_Value:
		var got []byte
		if kv != nil {
			got = kv.Value
		}
		return resultMatches(c.Result, bytes.Compare(got, u.Value))
	default:
		return false
	}
	switch {
	case actual < want:
		return resultMatches(c.Result, -1)
	case actual > want:
		return resultMatches(c.Result, 1)
	default:
		return resultMatches(c.Result, 0)
	}
}

func resultMatches(r pb.Compare_CompareResult, cmp int) bool {
	switch r {
	case pb.Compare_EQUAL:
		return cmp == 0
	case pb.Compare_NOT_EQUAL:
		return cmp != 0
	case pb.Compare_GREATER:
		return cmp > 0
	case pb.Compare_LESS:
		return cmp < 0
	default:
		return false
	}
}

type fakeTxn struct {
	etcd    *fakeEtcd
	ctx     context.Context
	cmps    []clientv3.Cmp
	thenOps []clientv3.Op
	elseOps []clientv3.Op
}

func (t *fakeTxn) If(cs ...clientv3.Cmp) clientv3.Txn {
	t.cmps = append(t.cmps, cs...)
	return t
}

func (t *fakeTxn) Then(ops ...clientv3.Op) clientv3.Txn {
	t.thenOps = append(t.thenOps, ops...)
	return t
}

func (t *fakeTxn) Else(ops ...clientv3.Op) clientv3.Txn {
	t.elseOps = append(t.elseOps, ops...)
	return t
}

func (t *fakeTxn) Commit() (*clientv3.TxnResponse, error) {
	if err := t.ctx.Err(); err != nil {
		return nil, err
	}
	f := t.etcd

	f.mu.Lock()
	f.commits++
	n := f.commits
	hook := f.beforeTxn
	f.mu.Unlock()
	if hook != nil {
		hook(f, n)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.txnErr != nil {
		return nil, f.txnErr
	}

	ok := true
	for _, c := range t.cmps {
		if !f.compareLocked(c) {
			ok = false
			break
		}
	}
	ops := t.elseOps
	if ok {
		ops = t.thenOps
	}

	resp := &clientv3.TxnResponse{Succeeded: ok}
	for _, op := range ops {
		switch {
		case op.IsPut():
			f.putLocked(string(op.KeyBytes()), string(op.ValueBytes()))
			resp.Responses = append(resp.Responses, &pb.ResponseOp{
				Response: &pb.ResponseOp_ResponsePut{ResponsePut: &pb.PutResponse{}},
			})
		case op.IsGet():
			resp.Responses = append(resp.Responses, &pb.ResponseOp{
				Response: &pb.ResponseOp_ResponseRange{
					ResponseRange: f.rangeLocked(string(op.KeyBytes()), op.IsCountOnly()),
				},
			})
		default:
			return nil, errors.New("fakeEtcd: unsupported op")
		}
	}
	return resp, nil
}

// newTestClient 以 fakeEtcd 构造 Client。
func newTestClient(f *fakeEtcd, opts ...Option) *Client {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return newClient(f, nil, DefaultConfig(), o)
}
