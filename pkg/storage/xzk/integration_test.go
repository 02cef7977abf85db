//go:build integration

package xzk_test

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

	"github.com/omeyang/xuid/pkg/distributed/xworkerid"
	"github.com/omeyang/xuid/pkg/storage/xzk"
)

// setupServers 启动 ZooKeeper 容器或使用 XUID_ZK_SERVERS 指定的集群。
func setupServers(t *testing.T) []string {
	t.Helper()
	if servers := os.Getenv("XUID_ZK_SERVERS"); servers != "" {
		return xzk.ParseServers(servers)
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "zookeeper:3.9",
			ExposedPorts: []string{"2181/tcp"},
			WaitingFor:   wait.ForListeningPort("2181/tcp"),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("无法启动 ZooKeeper 容器: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	return []string{endpoint}
}

func newClient(t *testing.T, servers []string) *xzk.Client {
	t.Helper()
	cfg := xzk.DefaultConfig()
	cfg.Servers = servers
	cfg.ConnectionTimeout = 15 * time.Second
	client, err := xzk.NewClient(cfg)
	if err != nil {
		t.Skipf("无法连接到 ZooKeeper %v: %v", servers, err)
	}
	t.Cleanup(func() { _ = client.Close(context.Background()) })
	return client
}

// newClients 为每个竞争者建立独立会话，模拟多个进程。
func newClients(t *testing.T, servers []string, n int) []*xzk.Client {
	t.Helper()
	clients := make([]*xzk.Client, n)
	for i := range clients {
		clients[i] = newClient(t, servers)
	}
	return clients
}

func TestIntegration_WorkerIDs(t *testing.T) {
	servers := setupServers(t)
	ctx := context.Background()
	cfg := xworkerid.DefaultConfig()
	cfg.Root = fmt.Sprintf("/uid_test_%d", time.Now().UnixNano())

	const n = 12
	clients := newClients(t, servers, n)
	ids := make([]int64, n)
	var wg sync.WaitGroup
	for i, client := range clients {
		wg.Go(func() {
			alloc, err := xworkerid.Initialize(ctx, client, cfg,
				xworkerid.WithHostResolver(xworkerid.StaticHost(fmt.Sprintf("10.1.0.%d", i))))
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
	}
}

func TestIntegration_SameHostWithLock(t *testing.T) {
	servers := setupServers(t)
	ctx := context.Background()
	cfg := xworkerid.DefaultConfig()
	cfg.Root = fmt.Sprintf("/uid_lock_%d", time.Now().UnixNano())

	const n = 6
	clients := newClients(t, servers, n)
	ids := make([]int64, n)
	var wg sync.WaitGroup
	for i, client := range clients {
		wg.Go(func() {
			alloc, err := xworkerid.Initialize(ctx, client, cfg,
				xworkerid.WithHostResolver(xworkerid.StaticHost("10.0.0.5")),
				xworkerid.WithLocker(client.Locker()))
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

	// 加锁后不会产生孤儿顺序节点。
	client := newClient(t, servers)
	ok, err := client.Exists(ctx, fmt.Sprintf("%s/workNode/workid-%010d", cfg.Root, ids[0]+1))
	require.NoError(t, err)
	assert.False(t, ok)
}
