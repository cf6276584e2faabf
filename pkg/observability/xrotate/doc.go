// Package xrotate 提供日志 sink：以追加模式打开的可写文件，支持轮转。
//
// Rotator 接口定义了 sink 的核心行为（Write/Close/Rotate），所有实现并发安全。
//
// # 当前实现
//
//   - [NewFile]: 普通追加文件。Rotate 关闭后在同一路径重新打开，
//     配合外部 logrotate（先 rename 再发 SIGHUP）使用
//   - [NewLumberjack]: 基于 lumberjack v2 的按大小轮转，构造时立即打开文件
//
// # 与 xstream 配合
//
// [FileOpener] 和 [LumberjackOpener] 返回的函数可以直接传给 xstream.WithOpener。
//
// # 文件权限
//
// NewFile 默认 0644 创建文件（可用 WithFileMode 修改）；
// lumberjack 使用其内部默认 0600。父目录不存在时以 0750 创建。
package xrotate
