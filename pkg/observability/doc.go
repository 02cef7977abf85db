// Package observability 提供可观测性相关的子包。
//
// 子包列表：
//   - xlog: 结构化日志，基于 log/slog 扩展，支持文件轮转
//
// 链路追踪与指标通过 OpenTelemetry 接口注入各组件（如 xworkerid.WithTracerProvider），
// 不在此提供独立实现。
package observability
