package xrotate

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
)

// DefaultFileMode NewFile 创建文件时的默认权限
const DefaultFileMode os.FileMode = 0o644

type fileConfig struct {
	mode os.FileMode
}

// FileOption NewFile 配置选项
type FileOption func(*fileConfig)

// WithFileMode 设置新建文件的权限（仅权限位 0000~0777）。
// 已存在的文件不修改权限。
func WithFileMode(mode os.FileMode) FileOption {
	return func(c *fileConfig) {
		c.mode = mode
	}
}

// fileRotator 追加模式的普通文件
type fileRotator struct {
	path string
	mode os.FileMode

	mu     sync.Mutex
	file   *os.File
	closed atomic.Bool
}

// NewFile 以追加模式打开 filename（不存在则创建），立即打开以便尽早暴露错误。
//
// Rotate 不做重命名，只关闭当前句柄并在同一路径重新打开，
// 外部轮转工具重命名文件后调用 Rotate 即可写入新文件。
func NewFile(filename string, opts ...FileOption) (Rotator, error) {
	cfg := fileConfig{mode: DefaultFileMode}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.mode&^os.FileMode(0o777) != 0 {
		return nil, fmt.Errorf("%w: got %04o, only permission bits (0000~0777) allowed",
			ErrInvalidFileMode, cfg.mode)
	}

	path, err := cleanPath(filename)
	if err != nil {
		return nil, err
	}
	if err := ensureDir(path); err != nil {
		return nil, err
	}

	f, err := openAppend(path, cfg.mode)
	if err != nil {
		return nil, err
	}
	return &fileRotator{path: path, mode: cfg.mode, file: f}, nil
}

func openAppend(path string, mode os.FileMode) (*os.File, error) {
	//#nosec G302 G304 -- 路径与权限由调用方配置决定
	return os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, mode)
}

// Write 实现 io.Writer 接口
func (r *fileRotator) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed.Load() {
		return 0, ErrClosed
	}
	return r.file.Write(p)
}

// Close 实现 io.Closer 接口，重复调用返回 ErrClosed
func (r *fileRotator) Close() error {
	if r.closed.Swap(true) {
		return ErrClosed
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.file.Close()
}

// Rotate 在同一路径重新打开文件。新文件打开失败时保留旧句柄。
func (r *fileRotator) Rotate() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed.Load() {
		return ErrClosed
	}
	if err := ensureDir(r.path); err != nil {
		return err
	}
	f, err := openAppend(r.path, r.mode)
	if err != nil {
		return err
	}
	old := r.file
	r.file = f
	return old.Close()
}
