package xstream

import "errors"

var (
	// ErrUnknownLevel 级别名称或排名不在固定集合内（调用方错误）
	ErrUnknownLevel = errors.New("xstream: unknown level")

	// ErrNotWritable 目标流当前不是 Open 状态（打开中、打开失败、关闭中或已关闭）
	ErrNotWritable = errors.New("xstream: stream not writable")

	// ErrSinkOpen 目的地无法打开
	ErrSinkOpen = errors.New("xstream: open sink failed")

	// ErrSinkWrite 底层 sink 写入失败
	ErrSinkWrite = errors.New("xstream: write sink failed")

	// ErrSinkClose 底层 sink 关闭失败
	ErrSinkClose = errors.New("xstream: close sink failed")

	// errNilSink Opener 返回了 nil sink 且没有错误
	errNilSink = errors.New("opener returned nil sink")
)
