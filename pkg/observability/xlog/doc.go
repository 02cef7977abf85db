// Package xlog 基于 log/slog 的结构化日志封装。
//
// # 核心功能
//
//   - Builder 模式配置（输出目标、级别、格式、文件轮转）
//   - 强制 context 传递：所有日志方法第一个参数为 ctx
//   - 自动从 context 注入 OpenTelemetry trace_id/span_id 与调用链上附加的字段
//   - 动态级别调整（运行时生效）
//   - 全局 Logger 与 [Discard]（库代码默认使用，不产生输出）
//
// # 创建 Logger
//
// Builder 采用 first-error-wins：遇到第一个配置错误后，Build 返回该错误。
//
//	logger, cleanup, err := xlog.New().
//		SetLevelString("debug").
//		SetFormat("json").
//		SetRotation("/var/log/xuid/xuid.log").
//		Build()
//	if err != nil {
//		return err
//	}
//	defer cleanup()
//
// # 调用链字段
//
// [ContextWith] 把属性挂到 context 上，之后经由该 ctx 记录的所有日志都会带上这些属性。
// 分配流程用它附加 host、backend 等字段：
//
//	ctx = xlog.ContextWith(ctx, xlog.Host("10.0.0.5"))
//	logger.Info(ctx, "worker id assigned", xlog.WorkerID(1))
//
// # 便捷属性
//
// [Err]、[Host]、[Path]、[WorkerID]、[Backend]、[Duration]、[Component]。
package xlog
