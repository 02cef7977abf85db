// Package config 加载 xuidctl 的应用配置（YAML/JSON）。
//
// 配置文件示例：
//
//	backend: zookeeper
//	lock: true
//	allocator:
//	  root: /uid
//	  timeout: 10s
//	  maxWorkerID: 65535
//	zookeeper:
//	  servers: [zk1:2181, zk2:2181]
//	  sessionTimeout: 30s
//	  connectionTimeout: 10s
//	log:
//	  level: info
//	  format: json
package config

import (
	"fmt"
	"slices"

	"github.com/omeyang/xuid/pkg/distributed/xworkerid"
	"github.com/omeyang/xuid/pkg/observability/xlog"
	"github.com/omeyang/xuid/pkg/storage/xetcd"
	"github.com/omeyang/xuid/pkg/storage/xnats"
	"github.com/omeyang/xuid/pkg/storage/xredis"
	"github.com/omeyang/xuid/pkg/storage/xzk"
)

// Backend 协调存储后端。
type Backend string

// 支持的后端。
const (
	BackendZooKeeper Backend = "zookeeper"
	BackendEtcd      Backend = "etcd"
	BackendRedis     Backend = "redis"
	BackendNATS      Backend = "nats"
	BackendMemory    Backend = "memory"
)

// Backends 返回所有支持的后端名称。
func Backends() []Backend {
	return []Backend{BackendZooKeeper, BackendEtcd, BackendRedis, BackendNATS, BackendMemory}
}

// Config 应用配置。
type Config struct {
	// Backend 协调存储后端，默认 zookeeper。
	Backend Backend `json:"backend" yaml:"backend" koanf:"backend"`

	// Host 覆盖主机标识；为空时自动探测。
	Host string `json:"host" yaml:"host" koanf:"host"`

	// Lock 分配时按主机加分布式锁，消除并发首次分配产生的孤儿节点。
	// memory 后端使用进程内锁；nats 后端不支持。
	Lock bool `json:"lock" yaml:"lock" koanf:"lock"`

	Allocator xworkerid.Config `json:"allocator" yaml:"allocator" koanf:"allocator"`
	ZooKeeper xzk.Config       `json:"zookeeper" yaml:"zookeeper" koanf:"zookeeper"`
	Etcd      xetcd.Config     `json:"etcd" yaml:"etcd" koanf:"etcd"`
	Redis     xredis.Config    `json:"redis" yaml:"redis" koanf:"redis"`
	NATS      xnats.Config     `json:"nats" yaml:"nats" koanf:"nats"`
	Log       Log              `json:"log" yaml:"log" koanf:"log"`
}

// Log 日志配置。
type Log struct {
	// Level debug/info/warn/error，默认 info。
	Level string `json:"level" yaml:"level" koanf:"level"`
	// Format text/json，默认 text。
	Format string `json:"format" yaml:"format" koanf:"format"`
	// AddSource 记录调用位置（source 字段）。
	AddSource bool `json:"addSource" yaml:"addSource" koanf:"addSource"`
	// File 非空时写入文件并按大小轮转。
	File       string `json:"file" yaml:"file" koanf:"file"`
	MaxSizeMB  int    `json:"maxSizeMB" yaml:"maxSizeMB" koanf:"maxSizeMB"`
	MaxBackups int    `json:"maxBackups" yaml:"maxBackups" koanf:"maxBackups"`
	MaxAgeDays int    `json:"maxAgeDays" yaml:"maxAgeDays" koanf:"maxAgeDays"`
	Compress   bool   `json:"compress" yaml:"compress" koanf:"compress"`
}

// Default 返回默认配置。
func Default() *Config {
	etcd := xetcd.DefaultConfig()
	return &Config{
		Backend:   BackendZooKeeper,
		Allocator: xworkerid.DefaultConfig(),
		ZooKeeper: *xzk.DefaultConfig(),
		Etcd:      *etcd,
		NATS:      *xnats.DefaultConfig(),
		Log:       Log{Level: "info", Format: "text"},
	}
}

// Validate 校验所选后端及公共配置。未选中的后端配置不校验。
func (c *Config) Validate() error {
	if err := c.Allocator.Validate(); err != nil {
		return fmt.Errorf("%w: allocator: %w", ErrInvalid, err)
	}
	if _, err := xlog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %w", ErrInvalid, err)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalid, c.Log.Format)
	}

	var err error
	switch c.Backend {
	case BackendZooKeeper:
		err = c.ZooKeeper.Validate()
	case BackendEtcd:
		err = c.Etcd.Validate()
	case BackendRedis:
		err = c.Redis.Validate()
	case BackendNATS:
		if c.Lock {
			return fmt.Errorf("%w: lock is not supported by the nats backend", ErrInvalid)
		}
		err = c.NATS.Validate()
	case BackendMemory:
	default:
		return fmt.Errorf("%w: backend %q, want one of %v", ErrInvalid, c.Backend, Backends())
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalid, c.Backend, err)
	}
	return nil
}

// SetEndpoints 以命令行给出的地址覆盖所选后端的端点。
func (c *Config) SetEndpoints(endpoints []string) {
	endpoints = slices.Clone(endpoints)
	switch c.Backend {
	case BackendZooKeeper:
		c.ZooKeeper.Servers = endpoints
	case BackendEtcd:
		c.Etcd.Endpoints = endpoints
	case BackendRedis:
		c.Redis.Addrs = endpoints
	case BackendNATS:
		c.NATS.URLs = endpoints
	}
}
