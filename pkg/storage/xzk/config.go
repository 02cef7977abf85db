package xzk

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-zookeeper/zk"
)

// Config ZooKeeper 客户端配置。
// 支持 JSON/YAML/koanf 反序列化。
type Config struct {
	// Servers 服务端地址列表，必填。格式：["host1:2181", "host2:2181"]
	Servers []string `json:"servers" yaml:"servers" koanf:"servers"`

	// SessionTimeout 会话超时，零值使用 30 秒。
	SessionTimeout time.Duration `json:"sessionTimeout" yaml:"sessionTimeout" koanf:"sessionTimeout"`

	// ConnectionTimeout 等待会话建立的最长时间，零值使用 10 秒。
	ConnectionTimeout time.Duration `json:"connectionTimeout" yaml:"connectionTimeout" koanf:"connectionTimeout"`

	// MaxBufferSize 单个响应的最大字节数，零值使用 1MB。
	MaxBufferSize int `json:"maxBufferSize" yaml:"maxBufferSize" koanf:"maxBufferSize"`

	// Username 非空时会话以 digest 方案认证，新建节点只对该身份可写，其他客户端只读。
	Username string `json:"username" yaml:"username" koanf:"username"`

	// Password digest 密码，需配合 Username。
	Password string `json:"password" yaml:"password" koanf:"password"`
}

const (
	defaultSessionTimeout    = 30 * time.Second
	defaultConnectionTimeout = 10 * time.Second
	defaultMaxBufferSize     = 1024 * 1024
)

// DefaultConfig 返回带有推荐默认值的配置。
func DefaultConfig() *Config {
	return &Config{
		SessionTimeout:    defaultSessionTimeout,
		ConnectionTimeout: defaultConnectionTimeout,
		MaxBufferSize:     defaultMaxBufferSize,
	}
}

// ParseServers 解析逗号分隔的服务端列表，忽略空白项。
//
//	ParseServers("zk1:2181, zk2:2181") // ["zk1:2181", "zk2:2181"]
func ParseServers(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate 验证配置有效性。
func (c *Config) Validate() error {
	if len(c.Servers) == 0 {
		return ErrNoServers
	}
	for i, s := range c.Servers {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%w: servers[%d] is empty", ErrInvalidConfig, i)
		}
	}
	if c.SessionTimeout < 0 || c.ConnectionTimeout < 0 {
		return fmt.Errorf("%w: timeouts must be non-negative", ErrInvalidConfig)
	}
	if c.MaxBufferSize < 0 {
		return fmt.Errorf("%w: maxBufferSize must be non-negative", ErrInvalidConfig)
	}
	if c.Username == "" && c.Password != "" {
		return fmt.Errorf("%w: password requires username", ErrInvalidConfig)
	}
	return nil
}

// acl 返回新建节点使用的 ACL。
func (c *Config) acl() []zk.ACL {
	if c.Username == "" {
		return zk.WorldACL(zk.PermAll)
	}
	return append(zk.DigestACL(zk.PermAll, c.Username, c.Password), zk.WorldACL(zk.PermRead)...)
}

// applyDefaults 返回填充默认值的副本。
func (c *Config) applyDefaults() *Config {
	cfg := *c
	if cfg.SessionTimeout == 0 {
		cfg.SessionTimeout = defaultSessionTimeout
	}
	if cfg.ConnectionTimeout == 0 {
		cfg.ConnectionTimeout = defaultConnectionTimeout
	}
	if cfg.MaxBufferSize == 0 {
		cfg.MaxBufferSize = defaultMaxBufferSize
	}
	return &cfg
}
