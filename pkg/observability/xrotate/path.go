package xrotate

import (
	"os"
	"path/filepath"
	"strings"
)

// dirPerm 自动创建父目录时使用的权限
const dirPerm = 0o750

// cleanPath 校验并规范化文件路径
func cleanPath(filename string) (string, error) {
	if filename == "" {
		return "", ErrEmptyFilename
	}
	if strings.IndexByte(filename, 0) >= 0 {
		return "", ErrNullByte
	}
	if strings.HasSuffix(filename, "/") || strings.HasSuffix(filename, string(filepath.Separator)) {
		return "", ErrDirectoryPath
	}
	return filepath.Clean(filename), nil
}

// ensureDir 确保文件的父目录存在
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, dirPerm)
}
