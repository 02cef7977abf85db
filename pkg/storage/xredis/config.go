package xredis

import (
	"fmt"
	"strings"
	"time"
)

// Config Redis 连接配置。支持 JSON/YAML/koanf 反序列化。
//
// Addrs 只有一个地址时为单机模式，多个地址时为 Cluster 模式；
// 设置 MasterName 时为 Sentinel 模式（与 redis.UniversalOptions 一致）。
type Config struct {
	Addrs      []string      `json:"addrs" yaml:"addrs" koanf:"addrs"`
	Username   string        `json:"username" yaml:"username" koanf:"username"`
	Password   string        `json:"password" yaml:"password" koanf:"password"`
	DB         int           `json:"db" yaml:"db" koanf:"db"`
	MasterName string        `json:"masterName" yaml:"masterName" koanf:"masterName"`
	// DialTimeout 连接超时，零值使用 5 秒。
	DialTimeout time.Duration `json:"dialTimeout" yaml:"dialTimeout" koanf:"dialTimeout"`
}

const defaultDialTimeout = 5 * time.Second

// Validate 验证配置有效性。
func (c *Config) Validate() error {
	if len(c.Addrs) == 0 {
		return ErrNoAddrs
	}
	for i, addr := range c.Addrs {
		if !strings.Contains(addr, ":") {
			return fmt.Errorf("%w: addrs[%d]=%q missing port", ErrInvalidConfig, i, addr)
		}
	}
	if c.DB < 0 {
		return fmt.Errorf("%w: db must be non-negative", ErrInvalidConfig)
	}
	if c.DialTimeout < 0 {
		return fmt.Errorf("%w: dialTimeout must be non-negative", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) applyDefaults() *Config {
	cfg := *c
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = defaultDialTimeout
	}
	return &cfg
}
