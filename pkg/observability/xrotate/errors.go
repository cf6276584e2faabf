package xrotate

import "errors"

// 配置与路径校验错误
var (
	// ErrEmptyFilename 文件名为空
	ErrEmptyFilename = errors.New("xrotate: filename is required")

	// ErrNullByte 路径包含空字节，内核会在空字节处截断路径
	ErrNullByte = errors.New("xrotate: filename contains null byte")

	// ErrDirectoryPath 路径以分隔符结尾，指向目录而非文件
	ErrDirectoryPath = errors.New("xrotate: filename is a directory path")

	// ErrInvalidMaxSize MaxSizeMB 值无效（必须在 1~10240 范围内）
	ErrInvalidMaxSize = errors.New("xrotate: invalid MaxSizeMB")

	// ErrInvalidMaxBackups MaxBackups 值无效（必须在 0~1024 范围内）
	ErrInvalidMaxBackups = errors.New("xrotate: invalid MaxBackups")

	// ErrInvalidMaxAge MaxAgeDays 值无效（必须在 0~3650 范围内）
	ErrInvalidMaxAge = errors.New("xrotate: invalid MaxAgeDays")

	// ErrInvalidFileMode FileMode 包含非权限位（仅允许 0000~0777）
	ErrInvalidFileMode = errors.New("xrotate: invalid FileMode")

	// ErrClosed sink 已关闭
	ErrClosed = errors.New("xrotate: rotator is closed")
)
