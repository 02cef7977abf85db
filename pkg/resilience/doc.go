// Package resilience 提供存储操作的容错工具。
//
// 子包列表：
//   - xretry: 基于 retry-go 的重试执行器，用于乐观并发冲突
package resilience
