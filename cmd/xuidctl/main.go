// xuidctl 为当前主机分配或查询 worker id。
//
// 用法:
//
//	xuidctl [全局选项] <命令> [命令参数]
//
// 全局选项:
//
//	-c, --config              配置文件（.yaml/.yml/.json）
//	-b, --backend             zookeeper | etcd | redis | nats | memory（默认 zookeeper）
//	-e, --endpoints           后端地址，可重复或逗号分隔
//	    --root                命名空间根路径（默认 /uid）
//	    --timeout             单次分配或初始化的总超时（默认 10s）
//	    --lock                分配时按主机加分布式锁
//	    --session-timeout     ZooKeeper 会话超时
//	    --connection-timeout  ZooKeeper 建连超时
//	    --log-level           debug | info | warn | error
//	    --log-format          text | json
//
// 命令:
//
//	bootstrap      创建命名空间（幂等）
//	assign         为本机分配 worker id 并输出到 stdout
//	show           查询主机已分配的 worker id，不分配
//
// 命令行选项覆盖配置文件，配置文件覆盖默认值。
//
// 退出码:
//
//	0: 成功
//	1: 运行失败（存储不可用、状态损坏、show 时主机未分配）
//	2: 参数或配置错误
//
// 示例:
//
//	xuidctl -e zk1:2181,zk2:2181 assign
//	xuidctl -c /etc/xuid/xuid.yaml assign --host 10.0.0.5
//	xuidctl -b etcd -e etcd1:2379 --lock assign
//	xuidctl -b redis -e 127.0.0.1:6379 show --host 10.0.0.5
//	xuidctl -b nats -e nats://127.0.0.1:4222 assign
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

// 版本信息（可通过 -ldflags 注入，例如:
//
//	go build -ldflags "-X main.Version=1.0.0 -X main.GitCommit=$(git rev-parse --short HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// ）。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	setupSignalHandler(cancel)
	code := run(ctx, os.Args, os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// createApp 创建 CLI 应用。
func createApp(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "xuidctl",
		Usage:     "worker id 分配命令行工具",
		Version:   fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     globalFlags(),
		Commands:  createCommands(),
		// 参数错误统一转为 usageError，由 run 映射为退出码 2。
		OnUsageError: onUsageError,
		// 禁止 urfave/cli 直接调用 os.Exit，由 run 统一处理退出码。
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(stderr, err)
			}
		},
		Authors: []any{
			"XUID Team",
		},
	}
}

// run 执行命令并返回进程退出码。
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	err := createApp(stdout, stderr).Run(ctx, args)
	if err == nil {
		return 0
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	var usageErr *usageError
	if errors.As(err, &usageErr) {
		fmt.Fprintf(stderr, "参数错误: %v\n", usageErr)
		return 2
	}
	// 未知命令等由 cli 框架产生的错误，ExitErrHandler 已输出。
	var coder cli.ExitCoder
	if errors.As(err, &coder) {
		return 2
	}
	fmt.Fprintf(stderr, "错误: %v\n", err)
	return 1
}

// setupSignalHandler 第一次信号取消 ctx，第二次强制退出（130 = 128 + SIGINT）。
func setupSignalHandler(cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()

		<-sigCh
		signal.Stop(sigCh)
		os.Exit(130)
	}()
}
