//go:build windows

// streamlog 依赖 SIGHUP 触发重新打开，Windows 上没有等价信号，不支持该平台。
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "streamlog: 不支持 Windows 平台（依赖 POSIX 信号）")
	os.Exit(1)
}
