package xetcd

import (
	"fmt"
	"strings"
	"time"
)

// Config etcd 客户端配置。
// 支持 JSON/YAML/koanf 反序列化。
//
// 推荐使用 DefaultConfig() 获取带有推荐默认值的配置，然后按需覆盖：
//
//	cfg := xetcd.DefaultConfig()
//	cfg.Endpoints = []string{"localhost:2379"}
//	client, err := xetcd.NewClient(cfg)
type Config struct {
	// Endpoints etcd 服务端点列表，必填。
	// 格式：["host1:port1", "host2:port2"]
	Endpoints []string `json:"endpoints" yaml:"endpoints" koanf:"endpoints"`

	// Username 用户名（可选）。
	Username string `json:"username" yaml:"username" koanf:"username"`

	// Password 密码（可选）。
	Password string `json:"password" yaml:"password" koanf:"password"`

	// DialTimeout 连接超时，零值使用 5 秒。
	DialTimeout time.Duration `json:"dialTimeout" yaml:"dialTimeout" koanf:"dialTimeout"`

	// DialKeepAliveTime gRPC keepalive 探测间隔，零值使用 10 秒。
	DialKeepAliveTime time.Duration `json:"dialKeepAliveTime" yaml:"dialKeepAliveTime" koanf:"dialKeepAliveTime"`

	// DialKeepAliveTimeout gRPC keepalive 超时，零值使用 3 秒。
	DialKeepAliveTimeout time.Duration `json:"dialKeepAliveTimeout" yaml:"dialKeepAliveTimeout" koanf:"dialKeepAliveTimeout"`

	// RejectOldCluster 拒绝过期集群。
	//
	// 注意：Go 布尔零值为 false，直接使用 Config{} 时此字段为 false。
	// 推荐使用 DefaultConfig()（true）。
	RejectOldCluster bool `json:"rejectOldCluster" yaml:"rejectOldCluster" koanf:"rejectOldCluster"`

	// PermitWithoutStream 没有活跃 RPC 流时也发送 keepalive。
	PermitWithoutStream bool `json:"permitWithoutStream" yaml:"permitWithoutStream" koanf:"permitWithoutStream"`

	// TLS 非 nil 时以 TLS 连接。
	TLS *TLSConfig `json:"tls" yaml:"tls" koanf:"tls"`
}

// 默认配置值。
const (
	defaultDialTimeout          = 5 * time.Second
	defaultDialKeepAliveTime    = 10 * time.Second
	defaultDialKeepAliveTimeout = 3 * time.Second
)

// DefaultConfig 返回带有推荐默认值的配置。
//
// 默认值：
//   - DialTimeout: 5 秒
//   - DialKeepAliveTime: 10 秒
//   - DialKeepAliveTimeout: 3 秒
//   - RejectOldCluster: true
//   - PermitWithoutStream: true
func DefaultConfig() *Config {
	return &Config{
		DialTimeout:          defaultDialTimeout,
		DialKeepAliveTime:    defaultDialKeepAliveTime,
		DialKeepAliveTimeout: defaultDialKeepAliveTimeout,
		RejectOldCluster:     true,
		PermitWithoutStream:  true,
	}
}

// Validate 验证配置有效性。endpoint 格式为 "host:port"，也接受带 scheme 的 URL。
func (c *Config) Validate() error {
	if len(c.Endpoints) == 0 {
		return ErrNoEndpoints
	}
	for i, ep := range c.Endpoints {
		if strings.TrimSpace(ep) == "" {
			return fmt.Errorf("%w: endpoint[%d] is empty", ErrInvalidEndpoint, i)
		}
		if !strings.Contains(ep, ":") {
			return fmt.Errorf("%w: endpoint[%d]=%q missing port", ErrInvalidEndpoint, i, ep)
		}
	}
	if c.DialTimeout < 0 {
		return fmt.Errorf("%w: dialTimeout must be non-negative", ErrInvalidConfig)
	}
	if t := c.TLS; t != nil && (t.CertFile == "") != (t.KeyFile == "") {
		return fmt.Errorf("%w: tls.certFile and tls.keyFile must be set together", ErrInvalidConfig)
	}
	return nil
}

// applyDefaults 应用默认值，返回新的配置（不修改原配置）。
func (c *Config) applyDefaults() *Config {
	cfg := *c
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = defaultDialTimeout
	}
	if cfg.DialKeepAliveTime == 0 {
		cfg.DialKeepAliveTime = defaultDialKeepAliveTime
	}
	if cfg.DialKeepAliveTimeout == 0 {
		cfg.DialKeepAliveTimeout = defaultDialKeepAliveTimeout
	}
	return &cfg
}
