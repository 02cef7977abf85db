package xworkerid

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"os"
	"strings"
)

// EnvHost 显式指定主机标识的环境变量。
// HostNetwork、多网卡或 NAT 环境下自动探测不可靠时使用。
const EnvHost = "XUID_HOST"

// HostResolver 解析本机标识。返回值作为映射路径的最后一级，不能包含 "/"。
type HostResolver func(ctx context.Context) (string, error)

// StaticHost 返回固定主机标识的 HostResolver。
func StaticHost(host string) HostResolver {
	return func(context.Context) (string, error) {
		return host, nil
	}
}

// 测试注入点
var (
	osHostname        = os.Hostname
	lookupNetIP       = net.DefaultResolver.LookupNetIP
	netInterfaceAddrs = net.InterfaceAddrs
)

var errNoUsableAddress = errors.New("no usable address")

// DefaultHostResolver 按以下顺序解析本机地址：
//
//  1. XUID_HOST 环境变量
//  2. 本机主机名解析出的地址（优先非回环 IPv4，其次非回环 IPv6）
//  3. 网卡上的第一个私有 IPv4 地址
//
// 全部失败时返回包裹了各策略原因的错误。
func DefaultHostResolver(ctx context.Context) (string, error) {
	if s := strings.TrimSpace(os.Getenv(EnvHost)); s != "" {
		return s, nil
	}

	addr, hostErr := hostnameAddress(ctx)
	if hostErr == nil {
		return addr.String(), nil
	}

	ip, err := privateIPv4()
	if err != nil {
		return "", fmt.Errorf("all host strategies exhausted (hostname: %v): %w", hostErr, err)
	}
	return ip.String(), nil
}

// hostnameAddress 解析本机主机名对应的地址。
// 回环地址（部分发行版把主机名映射到 127.0.1.1）在多台机器上不唯一，被跳过。
func hostnameAddress(ctx context.Context) (netip.Addr, error) {
	name, err := osHostname()
	if err != nil {
		return netip.Addr{}, err
	}
	if name == "" {
		return netip.Addr{}, errors.New("os.Hostname returned empty string")
	}

	addrs, err := lookupNetIP(ctx, "ip", name)
	if err != nil {
		return netip.Addr{}, err
	}

	var v6 netip.Addr
	for _, a := range addrs {
		a = a.Unmap()
		if !a.IsValid() || a.IsLoopback() || a.IsUnspecified() {
			continue
		}
		if a.Is4() {
			return a, nil
		}
		if !v6.IsValid() && !a.IsLinkLocalUnicast() {
			v6 = a
		}
	}
	if v6.IsValid() {
		return v6, nil
	}
	return netip.Addr{}, fmt.Errorf("hostname %q: %w", name, errNoUsableAddress)
}

// privateIPv4 返回网卡上第一个私有 IPv4 地址（RFC1918 或链路本地）。
func privateIPv4() (netip.Addr, error) {
	addrs, err := netInterfaceAddrs()
	if err != nil {
		return netip.Addr{}, err
	}

	for _, addr := range addrs {
		ipnet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		ip, ok := netip.AddrFromSlice(ipnet.IP)
		if !ok {
			continue
		}
		ip = ip.Unmap()
		if ip.IsLoopback() || !ip.Is4() {
			continue
		}
		if ip.IsPrivate() || ip.IsLinkLocalUnicast() {
			return ip, nil
		}
	}
	return netip.Addr{}, fmt.Errorf("private ipv4: %w", errNoUsableAddress)
}
