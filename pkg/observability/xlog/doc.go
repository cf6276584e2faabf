// Package xlog 构建进程自身的诊断日志（基于 log/slog）。
//
// 诊断日志与 xstream 写出的业务日志相互独立：前者记录流的打开失败、
// 配置重载、信号处理等运行状态，通常写到 stderr 或单独的轮转文件。
//
// # 创建 Logger
//
// 使用 Builder 模式（first-error-wins：遇到第一个配置错误后，后续 Set 操作被跳过）：
//
//	logger, levelVar, cleanup, err := xlog.New().
//		SetFormat("json").
//		SetLevelString("debug").
//		SetRotation("/var/log/streamlog/diag.log", xrotate.WithMaxSize(10)).
//		Build()
//	if err != nil {
//		return err
//	}
//	defer cleanup()
//
// 返回的 *slog.LevelVar 可在运行时调整级别。
//
// # 日志级别
//
// LevelDebug(-4)、LevelInfo(0)、LevelWarn(4)、LevelError(8)，与 slog 一致。
package xlog
