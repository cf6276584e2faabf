package xrotate

import "io"

var _ io.WriteCloser = (Rotator)(nil)

// Rotator 日志 sink 接口
//
// 隐式实现 [io.WriteCloser]，可作为 xstream 的 sink 使用。
// 实现必须满足：
//   - Write/Rotate/Close 并发安全
//   - Close 后调用 Write 或 Rotate 返回 [ErrClosed]，重复 Close 也返回 [ErrClosed]
//   - Rotate 失败时保留原文件继续可写
type Rotator interface {
	Write(p []byte) (n int, err error)
	Close() error

	// Rotate 切换到同一路径上的新文件
	Rotate() error
}
