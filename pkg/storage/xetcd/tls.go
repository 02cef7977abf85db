package xetcd

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// TLSConfig etcd 连接的 TLS 配置。
//
//	tls:
//	  caFile: /etc/etcd/ca.pem
//	  certFile: /etc/etcd/client.pem
//	  keyFile: /etc/etcd/client-key.pem
type TLSConfig struct {
	// CAFile 服务端 CA 证书（PEM），为空时使用系统根证书。
	CAFile string `json:"caFile" yaml:"caFile" koanf:"caFile"`

	// CertFile/KeyFile 客户端证书与私钥（PEM），需同时设置。
	CertFile string `json:"certFile" yaml:"certFile" koanf:"certFile"`
	KeyFile  string `json:"keyFile" yaml:"keyFile" koanf:"keyFile"`

	// InsecureSkipVerify 跳过服务端证书校验，仅用于测试环境。
	InsecureSkipVerify bool `json:"insecureSkipVerify" yaml:"insecureSkipVerify" koanf:"insecureSkipVerify"`
}

// build 读取证书文件构建 tls.Config。c 为 nil 时返回 nil。
func (c *TLSConfig) build() (*tls.Config, error) {
	if c == nil {
		return nil, nil
	}

	//nolint:gosec // G402: InsecureSkipVerify 由配置控制
	tlsConfig := &tls.Config{
		InsecureSkipVerify: c.InsecureSkipVerify,
		MinVersion:         tls.VersionTLS12,
	}

	if c.CAFile != "" {
		caCert, err := os.ReadFile(c.CAFile)
		if err != nil {
			return nil, fmt.Errorf("%w: read tls.caFile: %w", ErrInvalidConfig, err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("%w: tls.caFile %q contains no PEM certificate", ErrInvalidConfig, c.CAFile)
		}
		tlsConfig.RootCAs = pool
	}

	if c.CertFile != "" {
		cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("%w: load client certificate: %w", ErrInvalidConfig, err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}
