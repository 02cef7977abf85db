//go:build integration

package xetcd_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/omeyang/xuid/pkg/distributed/xdlock"
	"github.com/omeyang/xuid/pkg/distributed/xworkerid"
	"github.com/omeyang/xuid/pkg/storage/xetcd"
)

// setupClient 启动 etcd 容器或连接到 XUID_ETCD_ENDPOINTS 指定的 etcd。
// 每个测试使用独立的根路径与计数器前缀，互不干扰。
func setupClient(t *testing.T) *xetcd.Client {
	t.Helper()
	ctx := context.Background()

	endpoint := os.Getenv("XUID_ETCD_ENDPOINTS")
	if endpoint == "" {
		container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "quay.io/coreos/etcd:v3.5.17",
				ExposedPorts: []string{"2379/tcp"},
				Cmd: []string{
					"etcd",
					"--advertise-client-urls=http://0.0.0.0:2379",
					"--listen-client-urls=http://0.0.0.0:2379",
				},
				WaitingFor: wait.ForLog("ready to serve client requests"),
			},
			Started: true,
		})
		if err != nil {
			t.Skipf("无法启动 etcd 容器: %v", err)
		}
		t.Cleanup(func() { _ = container.Terminate(ctx) })

		endpoint, err = container.Endpoint(ctx, "")
		require.NoError(t, err)
	}

	cfg := xetcd.DefaultConfig()
	cfg.Endpoints = []string{endpoint}
	client, err := xetcd.NewClient(cfg,
		xetcd.WithHealthCheck(true, 5*time.Second),
		xetcd.WithSequencePrefix("/__xuid_test/"+t.Name()),
	)
	if err != nil {
		t.Skipf("无法连接到 etcd %s: %v", endpoint, err)
	}
	t.Cleanup(func() { _ = client.Close(context.Background()) })
	return client
}

func testConfig(t *testing.T) xworkerid.Config {
	cfg := xworkerid.DefaultConfig()
	cfg.Root = fmt.Sprintf("/uid_test_%d", time.Now().UnixNano())
	return cfg
}

func TestIntegration_DistinctHostsGetDistinctIDs(t *testing.T) {
	client := setupClient(t)
	cfg := testConfig(t)
	ctx := context.Background()

	const n = 16
	ids := make([]int64, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Go(func() {
			alloc, err := xworkerid.Initialize(ctx, client, cfg,
				xworkerid.WithHostResolver(xworkerid.StaticHost(fmt.Sprintf("10.0.0.%d", i+1))))
			if !assert.NoError(t, err) {
				return
			}
			id, err := alloc.AssignWorkerID(ctx)
			assert.NoError(t, err)
			ids[i] = id
		})
	}
	wg.Wait()

	seen := make(map[int64]bool, n)
	for _, id := range ids {
		assert.False(t, seen[id], "id %d 重复", id)
		seen[id] = true
		assert.GreaterOrEqual(t, id, int64(1))
		assert.LessOrEqual(t, id, int64(n))
	}
}

func TestIntegration_SameHostConvergesWithLock(t *testing.T) {
	client := setupClient(t)
	cfg := testConfig(t)
	ctx := context.Background()

	const n = 6
	ids := make([]int64, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Go(func() {
			// 同一 etcd Session 上的锁互不排斥，每个竞争者使用独立的工厂。
			factory, err := xdlock.NewEtcdFactory(client.RawClient(), xdlock.WithEtcdTTL(10))
			if !assert.NoError(t, err) {
				return
			}
			defer func() { _ = factory.Close(ctx) }()

			alloc, err := xworkerid.Initialize(ctx, client, cfg,
				xworkerid.WithHostResolver(xworkerid.StaticHost("10.0.0.5")),
				xworkerid.WithLocker(xworkerid.FactoryLocker(factory)))
			if !assert.NoError(t, err) {
				return
			}
			id, err := alloc.AssignWorkerID(ctx)
			assert.NoError(t, err)
			ids[i] = id
		})
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}

	alloc, err := xworkerid.NewAllocator(client, cfg)
	require.NoError(t, err)
	id, ok, err := alloc.Lookup(ctx, "10.0.0.5")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, ids[0], id)
}
