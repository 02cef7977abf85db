package xworkerid

import (
	"fmt"
	"time"
)

// MappingMode 首次分配时写入主机映射的方式。
type MappingMode string

const (
	// MappingCreateIfAbsent 以带值的条件创建写入映射；已被其他进程抢先创建时读取并采用其值。
	// 并发首次分配的双方最终得到同一个 id。
	MappingCreateIfAbsent MappingMode = "create_if_absent"

	// MappingOverwrite 先幂等创建空映射，再写入节点路径。
	// 并发首次分配时后写者胜出，先写者的顺序节点成为孤儿。
	MappingOverwrite MappingMode = "overwrite"
)

// DefaultTimeout 单次 AssignWorkerID / EnsureNamespace 的默认超时。
const DefaultTimeout = 10 * time.Second

// Config 分配器配置，构造时传入一次，之后不可变。
// 支持 JSON/YAML/koanf 反序列化。
type Config struct {
	// Root 命名空间根路径，默认 /uid。
	Root string `json:"root" yaml:"root" koanf:"root"`

	// Timeout 单次分配（含所有存储操作）的超时，零值使用 10 秒。
	// 超时视为致命失败，返回 ErrStoreUnavailable。
	Timeout time.Duration `json:"timeout" yaml:"timeout" koanf:"timeout"`

	// MappingMode 首次分配时写入映射的方式，空值使用 MappingCreateIfAbsent。
	MappingMode MappingMode `json:"mappingMode" yaml:"mappingMode" koanf:"mappingMode"`

	// MaxWorkerID 允许的最大 worker id，零值表示不限制。
	// 例如 16 位机器号的生成器应设置为 65535。
	MaxWorkerID int64 `json:"maxWorkerID" yaml:"maxWorkerID" koanf:"maxWorkerID"`
}

// DefaultConfig 返回默认配置。
func DefaultConfig() Config {
	return Config{
		Root:        DefaultRoot,
		Timeout:     DefaultTimeout,
		MappingMode: MappingCreateIfAbsent,
	}
}

// Validate 验证配置有效性（先应用默认值）。
func (c Config) Validate() error {
	cfg := c.applyDefaults()
	if _, err := NewLayout(cfg.Root); err != nil {
		return err
	}
	if cfg.Timeout < 0 {
		return fmt.Errorf("%w: timeout must be non-negative, got %s", ErrInvalidConfig, cfg.Timeout)
	}
	switch cfg.MappingMode {
	case MappingCreateIfAbsent, MappingOverwrite:
	default:
		return fmt.Errorf("%w: unknown mapping mode %q", ErrInvalidConfig, cfg.MappingMode)
	}
	if cfg.MaxWorkerID < 0 {
		return fmt.Errorf("%w: maxWorkerID must be non-negative, got %d", ErrInvalidConfig, cfg.MaxWorkerID)
	}
	return nil
}

// applyDefaults 返回填充默认值后的副本。
func (c Config) applyDefaults() Config {
	if c.Root == "" {
		c.Root = DefaultRoot
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MappingMode == "" {
		c.MappingMode = MappingCreateIfAbsent
	}
	return c
}
