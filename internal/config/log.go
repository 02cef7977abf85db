package config

import (
	"io"

	"github.com/omeyang/xuid/pkg/observability/xlog"
)

// BuildLogger 按日志配置构建 Logger。File 为空时写入 w。
// 返回的 cleanup 关闭轮转文件，可多次调用。
func (l Log) BuildLogger(w io.Writer) (xlog.LoggerWithLevel, func() error, error) {
	b := xlog.New().
		SetOutput(w).
		SetLevelString(l.Level).
		SetFormat(l.Format).
		SetAddSource(l.AddSource)
	if l.File != "" {
		var opts []xlog.RotationOption
		if l.MaxSizeMB > 0 {
			opts = append(opts, xlog.WithMaxSize(l.MaxSizeMB))
		}
		if l.MaxBackups > 0 {
			opts = append(opts, xlog.WithMaxBackups(l.MaxBackups))
		}
		if l.MaxAgeDays > 0 {
			opts = append(opts, xlog.WithMaxAge(l.MaxAgeDays))
		}
		opts = append(opts, xlog.WithCompress(l.Compress))
		b = b.SetRotation(l.File, opts...)
	}
	return b.Build()
}
