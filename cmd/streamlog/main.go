//go:build !windows

// streamlog 把标准输入或单条消息按级别写入多个日志文件。
//
// 用法:
//
//	streamlog [全局选项] <命令> [命令参数]
//
// 全局选项:
//
//	-c, --config       配置文件（.yaml/.yml/.json），tee 运行期间热加载
//	-d, --dest         目的地，可重复；指定后忽略配置中的 destinations
//	-t, --threshold    阈值 (debug/info/warn/fatal)，覆盖配置中的 level
//	    --rotate-size  按大小轮转的阈值（MB），0 表示由外部轮转
//	    --log-format   诊断日志格式 (text/json)
//	    --log-file     诊断日志写入的文件（按大小轮转），默认 stderr
//	-v, --verbose      在 stderr 输出全部事件
//
// 命令:
//
//	tee       逐行读取标准输入并写入全部目的地；SIGHUP 重新打开文件，SIGINT/SIGTERM 退出
//	write     写入一条消息后关闭
//	levels    列出级别
//
// 退出码:
//
//	0: 成功
//	1: 运行失败，或 write 时有目的地出错
//	2: 参数错误
//
// 示例:
//
//	app | streamlog -d /var/log/app.log -d /var/log/all.log tee --level info
//	streamlog -c /etc/streamlog.yaml write --level fatal "disk full"
//	kill -HUP $(pidof streamlog)   # logrotate postrotate
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
)

// 版本信息（可通过 -ldflags "-X main.Version=..." 注入）。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run(context.Background(), os.Args, os.Stdin, os.Stdout, os.Stderr))
}

// createApp 创建 CLI 应用。
func createApp(stdin io.Reader, stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "streamlog",
		Usage:     "多目标分级日志写入工具",
		Version:   fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     globalFlags(),
		Commands:  createCommands(),
		// 由 run() 统一映射退出码，禁止 urfave/cli 直接 os.Exit
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(stderr, err)
			}
		},
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	app := createApp(stdin, stdout, stderr)

	if err := app.Run(ctx, args); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(stderr, "参数错误: %v\n", usageErr)
			return 2
		}
		// 框架产生的参数错误（未知 flag、非法取值）同样返回 2
		if isCLIUsageError(err) {
			return 2
		}
		fmt.Fprintf(stderr, "错误: %v\n", err)
		return 1
	}
	return 0
}

// isCLIUsageError 识别 urfave/cli 解析参数时产生的错误。
func isCLIUsageError(err error) bool {
	if _, ok := err.(cli.ExitCoder); ok {
		return true
	}
	msg := err.Error()
	for _, marker := range []string{
		"flag provided but not defined",
		"invalid value",
		"flag needs an argument",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
