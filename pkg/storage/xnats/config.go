package xnats

import (
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// Config NATS JetStream KV 配置。支持 JSON/YAML/koanf 反序列化。
type Config struct {
	// URLs 服务器地址，如 "nats://127.0.0.1:4222"，必填。
	URLs []string `json:"urls" yaml:"urls" koanf:"urls"`

	// Bucket KV bucket 名称，不存在时自动创建。默认 "xuid"。
	Bucket string `json:"bucket" yaml:"bucket" koanf:"bucket"`

	// Replicas 新建 bucket 的副本数，默认 1。已存在的 bucket 不受影响。
	Replicas int `json:"replicas" yaml:"replicas" koanf:"replicas"`

	// Storage 新建 bucket 的存储类型：file（默认）或 memory。
	Storage string `json:"storage" yaml:"storage" koanf:"storage"`

	Username string `json:"username" yaml:"username" koanf:"username"`
	Password string `json:"password" yaml:"password" koanf:"password"`
	Token    string `json:"token" yaml:"token" koanf:"token"`

	// ConnectTimeout 建连与创建 bucket 的超时，默认 5 秒。
	ConnectTimeout time.Duration `json:"connectTimeout" yaml:"connectTimeout" koanf:"connectTimeout"`
}

const (
	// DefaultBucket 默认 bucket 名称。
	DefaultBucket = "xuid"

	defaultReplicas       = 1
	defaultConnectTimeout = 5 * time.Second
	maxReplicas           = 5
)

// 存储类型。
const (
	StorageFile   = "file"
	StorageMemory = "memory"
)

// DefaultConfig 返回默认配置（未设置 URLs）。
func DefaultConfig() *Config {
	return &Config{
		Bucket:         DefaultBucket,
		Replicas:       defaultReplicas,
		Storage:        StorageFile,
		ConnectTimeout: defaultConnectTimeout,
	}
}

// Validate 验证配置有效性。
func (c *Config) Validate() error {
	if len(c.URLs) == 0 {
		return ErrNoURLs
	}
	for i, u := range c.URLs {
		if strings.TrimSpace(u) == "" {
			return fmt.Errorf("%w: urls[%d] is empty", ErrInvalidConfig, i)
		}
	}
	if c.Bucket != "" && !validBucket(c.Bucket) {
		return fmt.Errorf("%w: bucket %q must match [A-Za-z0-9_-]+", ErrInvalidConfig, c.Bucket)
	}
	if c.Replicas < 0 || c.Replicas > maxReplicas {
		return fmt.Errorf("%w: replicas must be in [0, %d]", ErrInvalidConfig, maxReplicas)
	}
	switch c.Storage {
	case "", StorageFile, StorageMemory:
	default:
		return fmt.Errorf("%w: storage %q, want file or memory", ErrInvalidConfig, c.Storage)
	}
	if c.ConnectTimeout < 0 {
		return fmt.Errorf("%w: connectTimeout must be non-negative", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) applyDefaults() *Config {
	cfg := *c
	if cfg.Bucket == "" {
		cfg.Bucket = DefaultBucket
	}
	if cfg.Replicas == 0 {
		cfg.Replicas = defaultReplicas
	}
	if cfg.Storage == "" {
		cfg.Storage = StorageFile
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}
	return &cfg
}

func (c *Config) kvConfig() jetstream.KeyValueConfig {
	storage := jetstream.FileStorage
	if c.Storage == StorageMemory {
		storage = jetstream.MemoryStorage
	}
	return jetstream.KeyValueConfig{
		Bucket:      c.Bucket,
		Description: "xuid worker id namespace",
		History:     1,
		Replicas:    c.Replicas,
		Storage:     storage,
	}
}

func validBucket(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}
