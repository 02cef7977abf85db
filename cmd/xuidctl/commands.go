package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/omeyang/xuid/internal/backend"
	"github.com/omeyang/xuid/internal/config"
	"github.com/omeyang/xuid/pkg/distributed/xworkerid"
	"github.com/omeyang/xuid/pkg/observability/xlog"
)

// exitError 表示需要非零退出码但已完成输出的场景。
type exitError struct {
	code int
}

func (e *exitError) Error() string { return "" }

// usageError 参数或配置错误，退出码 2。
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func onUsageError(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return &usageError{msg: err.Error()}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "配置文件路径（.yaml/.yml/.json）",
			Sources: cli.EnvVars("XUID_CONFIG"),
		},
		&cli.StringFlag{
			Name:    "backend",
			Aliases: []string{"b"},
			Usage:   "协调存储后端: zookeeper | etcd | redis | nats | memory",
			Sources: cli.EnvVars("XUID_BACKEND"),
		},
		&cli.StringSliceFlag{
			Name:    "endpoints",
			Aliases: []string{"e"},
			Usage:   "后端地址 host:port",
			Sources: cli.EnvVars("XUID_ENDPOINTS"),
		},
		&cli.StringFlag{
			Name:  "root",
			Usage: "命名空间根路径，可多级，如 /svc/uid",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "单次分配或命名空间初始化（含所有存储操作）的总超时",
		},
		&cli.BoolFlag{
			Name:  "lock",
			Usage: "分配时按主机加分布式锁",
		},
		&cli.DurationFlag{
			Name:  "session-timeout",
			Usage: "ZooKeeper 会话超时",
		},
		&cli.DurationFlag{
			Name:  "connection-timeout",
			Usage: "ZooKeeper 建连超时",
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "日志级别: debug | info | warn | error",
			Sources: cli.EnvVars("XUID_LOG_LEVEL"),
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "日志格式: text | json",
		},
	}
}

func hostFlag(usage string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "host",
		Usage:   usage,
		Sources: cli.EnvVars("XUID_HOST"),
	}
}

// 创建所有子命令。
func createCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:         "bootstrap",
			Usage:        "创建命名空间（幂等）",
			OnUsageError: onUsageError,
			Action:       cmdBootstrap,
		},
		{
			Name:         "assign",
			Aliases:      []string{"a"},
			Usage:        "为本机分配 worker id",
			Flags:        []cli.Flag{hostFlag("覆盖自动探测的主机地址")},
			OnUsageError: onUsageError,
			Action:       cmdAssign,
		},
		{
			Name:         "show",
			Usage:        "查询主机已分配的 worker id",
			Flags:        []cli.Flag{hostFlag("要查询的主机地址，默认本机")},
			OnUsageError: onUsageError,
			Action:       cmdShow,
		},
	}
}

// loadConfig 合并默认值、配置文件与命令行选项，并校验。
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg := config.Default()
	if p := cmd.String("config"); p != "" {
		loaded, err := config.Load(p)
		if err != nil {
			return nil, &usageError{msg: err.Error()}
		}
		cfg = loaded
	}

	if cmd.IsSet("backend") {
		cfg.Backend = config.Backend(cmd.String("backend"))
	}
	// 端点写入所选后端，须在 backend 确定之后。
	if cmd.IsSet("endpoints") {
		cfg.SetEndpoints(cmd.StringSlice("endpoints"))
	}
	if cmd.IsSet("root") {
		cfg.Allocator.Root = cmd.String("root")
	}
	if cmd.IsSet("timeout") {
		cfg.Allocator.Timeout = cmd.Duration("timeout")
	}
	if cmd.IsSet("lock") {
		cfg.Lock = cmd.Bool("lock")
	}
	if cmd.IsSet("session-timeout") {
		cfg.ZooKeeper.SessionTimeout = cmd.Duration("session-timeout")
	}
	if cmd.IsSet("connection-timeout") {
		cfg.ZooKeeper.ConnectionTimeout = cmd.Duration("connection-timeout")
	}
	if cmd.IsSet("log-level") {
		cfg.Log.Level = cmd.String("log-level")
	}
	if cmd.IsSet("log-format") {
		cfg.Log.Format = cmd.String("log-format")
	}
	if h := cmd.String("host"); h != "" {
		cfg.Host = h
	}

	if err := cfg.Validate(); err != nil {
		return nil, &usageError{msg: err.Error()}
	}
	return cfg, nil
}

// session 一次命令执行所需的配置、日志与存储。
type session struct {
	cfg     *config.Config
	logger  xlog.Logger
	backend *backend.Backend
	cleanup func() error
}

func openSession(ctx context.Context, cmd *cli.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, cleanup, err := cfg.Log.BuildLogger(cmd.Root().ErrWriter)
	if err != nil {
		return nil, &usageError{msg: err.Error()}
	}
	l := logger.With(
		xlog.Component("xuidctl"),
		slog.String("run_id", uuid.NewString()),
		slog.String("command", cmd.Name),
	)

	b, err := backend.Open(ctx, cfg, l)
	if err != nil {
		return nil, errors.Join(err, cleanup())
	}
	return &session{cfg: cfg, logger: l, backend: b, cleanup: cleanup}, nil
}

func (s *session) allocator() (*xworkerid.Allocator, error) {
	opts := append(s.backend.AllocatorOptions(), xworkerid.WithLogger(s.logger))
	if s.cfg.Host != "" {
		opts = append(opts, xworkerid.WithHostResolver(xworkerid.StaticHost(s.cfg.Host)))
	}
	return xworkerid.NewAllocator(s.backend.Store, s.cfg.Allocator, opts...)
}

func (s *session) close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	return errors.Join(s.backend.Close(ctx), s.cleanup())
}

// withSession 打开会话执行 fn，结束后关闭。
func withSession(ctx context.Context, cmd *cli.Command, fn func(*session, *xworkerid.Allocator) error) (err error) {
	s, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()

	alloc, err := s.allocator()
	if err != nil {
		return &usageError{msg: err.Error()}
	}
	return fn(s, alloc)
}

// cmdBootstrap 创建命名空间。
func cmdBootstrap(ctx context.Context, cmd *cli.Command) error {
	return withSession(ctx, cmd, func(s *session, alloc *xworkerid.Allocator) error {
		if err := alloc.Bootstrapper().EnsureNamespace(ctx); err != nil {
			return err
		}
		_, err := fmt.Fprintf(cmd.Root().Writer, "namespace ready: %s\n", alloc.Layout().Root())
		return err
	})
}

// cmdAssign 分配并输出 worker id，stdout 只有 id 本身，便于脚本使用。
func cmdAssign(ctx context.Context, cmd *cli.Command) error {
	return withSession(ctx, cmd, func(s *session, alloc *xworkerid.Allocator) error {
		if err := alloc.Bootstrapper().EnsureNamespace(ctx); err != nil {
			return err
		}
		id, err := alloc.AssignWorkerID(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.Root().Writer, id)
		return err
	})
}

// cmdShow 只读查询映射。主机未分配时退出码 1。
func cmdShow(ctx context.Context, cmd *cli.Command) error {
	return withSession(ctx, cmd, func(s *session, alloc *xworkerid.Allocator) error {
		host := s.cfg.Host
		if host == "" {
			h, err := xworkerid.DefaultHostResolver(ctx)
			if err != nil {
				return err
			}
			host = h
		}

		id, ok, err := alloc.Lookup(ctx, host)
		if err != nil {
			return err
		}
		w := cmd.Root().Writer
		if !ok {
			fmt.Fprintf(w, "%s: not assigned\n", host)
			return &exitError{code: 1}
		}
		_, err = fmt.Fprintf(w, "%s: %d\n", host, id)
		return err
	})
}
