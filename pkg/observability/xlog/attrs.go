package xlog

import (
	"log/slog"
	"time"
)

// 常用属性 Key。
const (
	KeyError     = "error"
	KeyHost      = "host"
	KeyPath      = "path"
	KeyWorkerID  = "worker_id"
	KeyBackend   = "backend"
	KeyDuration  = "duration"
	KeyComponent = "component"
)

// Err 创建错误属性。err 为 nil 时返回空属性（slog 会忽略空 Key）。
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Host 主机标识属性
func Host(host string) slog.Attr {
	return slog.String(KeyHost, host)
}

// Path 协调存储路径属性
func Path(path string) slog.Attr {
	return slog.String(KeyPath, path)
}

// WorkerID 分配到的 worker id 属性
func WorkerID(id int64) slog.Attr {
	return slog.Int64(KeyWorkerID, id)
}

// Backend 协调存储后端名称属性
func Backend(name string) slog.Attr {
	return slog.String(KeyBackend, name)
}

// Duration 耗时属性，输出人类可读格式（如 "1.5s"）
func Duration(d time.Duration) slog.Attr {
	return slog.String(KeyDuration, d.String())
}

// Component 组件名称属性
func Component(name string) slog.Attr {
	return slog.String(KeyComponent, name)
}
