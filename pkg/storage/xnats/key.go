package xnats

import (
	"fmt"
	"strings"
)

// encodeKey 将节点路径编码为 KV key。
// KV key 只允许 [-/_=.A-Za-z0-9]，其余字节（含 "="）编码为 "=XX"，
// 因此编码是单射的，IPv6 主机名中的 ":" 也能存储。
func encodeKey(p string) (string, error) {
	var b strings.Builder
	b.Grow(len(p))
	for i := range len(p) {
		c := p[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9',
			c == '-', c == '_', c == '/', c == '.':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "=%02X", c)
		}
	}
	k := b.String()
	// "." 是 subject 分隔符，不能出现空 token。
	if strings.HasPrefix(k, ".") || strings.HasSuffix(k, ".") || strings.Contains(k, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, p)
	}
	return k, nil
}
