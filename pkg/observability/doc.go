// Package observability 提供日志分发与运行状态观测相关的子包。
//
// 子包列表：
//   - xstream: 分级日志，把每条消息写入全部目的地
//   - xrotate: 日志文件的打开、追加与轮转
//   - xlog: 进程自身的诊断日志，基于 log/slog
//   - xmetrics: 把 xstream 事件计为 OpenTelemetry 指标
package observability
