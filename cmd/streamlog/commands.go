//go:build !windows

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"
	"golang.org/x/sys/unix"

	"github.com/omeyang/streamlog/pkg/config/xconf"
	"github.com/omeyang/streamlog/pkg/lifecycle/xrun"
	"github.com/omeyang/streamlog/pkg/observability/xlog"
	"github.com/omeyang/streamlog/pkg/observability/xmetrics"
	"github.com/omeyang/streamlog/pkg/observability/xstream"
)

// maxLineSize tee 单行上限
const maxLineSize = 1 << 20

// exitError 表示需要非零退出码但已完成输出的场景。
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// usageError 参数错误，退出码 2。
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "配置文件路径（.yaml/.yml/.json）",
		},
		&cli.StringSliceFlag{
			Name:    "dest",
			Aliases: []string{"d"},
			Usage:   "目的地（可重复）",
		},
		&cli.StringFlag{
			Name:    "threshold",
			Aliases: []string{"t"},
			Usage:   "阈值 (debug/info/warn/fatal)",
		},
		&cli.IntFlag{
			Name:  "rotate-size",
			Usage: "按大小轮转的阈值（MB），0 表示由外部轮转",
			Value: -1,
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "诊断日志格式 (text/json)",
			Value: "text",
		},
		&cli.StringFlag{
			Name:  "log-file",
			Usage: "诊断日志写入的文件（按大小轮转），默认 stderr",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "在 stderr 输出全部事件",
		},
	}
}

// 创建所有子命令。
func createCommands() []*cli.Command {
	return []*cli.Command{
		createTeeCommand(),
		createWriteCommand(),
		createLevelsCommand(),
	}
}

func levelFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "level",
		Aliases: []string{"l"},
		Usage:   "消息级别 (debug/info/warn/fatal)",
		Value:   "info",
	}
}

// createTeeCommand 创建 tee 子命令。
func createTeeCommand() *cli.Command {
	return &cli.Command{
		Name:  "tee",
		Usage: "逐行读取标准输入并写入全部目的地",
		Flags: []cli.Flag{levelFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, err := resolveSettings(cmd)
			if err != nil {
				return err
			}
			level, err := xstream.ParseLevel(cmd.String("level"))
			if err != nil {
				return usagef("--level: %v", err)
			}
			root := cmd.Root()
			return withDiag(s, root.ErrWriter, func(diag *slog.Logger) error {
				return cmdTee(ctx, s, level, root.Reader, diag)
			})
		},
	}
}

// createWriteCommand 创建 write 子命令。
func createWriteCommand() *cli.Command {
	return &cli.Command{
		Name:      "write",
		Usage:     "写入一条消息后关闭",
		ArgsUsage: "<message...>",
		Flags:     []cli.Flag{levelFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, err := resolveSettings(cmd)
			if err != nil {
				return err
			}
			if cmd.Args().Len() == 0 {
				return usagef("write: missing message")
			}
			level, err := xstream.ParseLevel(cmd.String("level"))
			if err != nil {
				return usagef("--level: %v", err)
			}
			root := cmd.Root()
			msg := strings.Join(cmd.Args().Slice(), " ")
			return withDiag(s, root.ErrWriter, func(diag *slog.Logger) error {
				return cmdWrite(ctx, s, level, msg, root.Writer, diag)
			})
		},
	}
}

// createLevelsCommand 创建 levels 子命令。
func createLevelsCommand() *cli.Command {
	return &cli.Command{
		Name:  "levels",
		Usage: "列出级别",
		Action: func(_ context.Context, cmd *cli.Command) error {
			return cmdLevels(cmd.Root().Writer)
		},
	}
}

// settings 合并配置文件与命令行后的运行参数
type settings struct {
	configPath   string
	destinations []string
	destFromFlag bool
	threshold    xstream.Level
	opener       xstream.Opener
	logFormat    string
	logFile      string
	verbose      bool
}

// resolveSettings 合并配置：命令行 > 配置文件 > 默认值
func resolveSettings(cmd *cli.Command) (*settings, error) {
	cfg := xconf.Default()
	path := cmd.String("config")
	if path != "" {
		loaded, err := xconf.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	s := &settings{
		configPath:   path,
		destinations: cfg.Destinations,
		threshold:    cfg.Threshold(),
		logFormat:    cmd.String("log-format"),
		logFile:      cmd.String("log-file"),
		verbose:      cmd.Bool("verbose"),
	}

	if dests := cmd.StringSlice("dest"); len(dests) > 0 {
		s.destinations = dests
		s.destFromFlag = true
	}
	if len(s.destinations) == 0 {
		return nil, usagef("no destinations: use --dest or destinations in --config")
	}

	if t := cmd.String("threshold"); t != "" {
		level, err := xstream.ParseLevel(t)
		if err != nil {
			return nil, usagef("--threshold: %v", err)
		}
		s.threshold = level
	}

	rotation := cfg.Rotation
	if size := cmd.Int("rotate-size"); size >= 0 {
		rotation.MaxSizeMB = size
	}
	s.opener = rotation.Opener()
	return s, nil
}

// withDiag 按 settings 构建诊断日志后执行 fn，返回前关闭诊断日志文件
func withDiag(s *settings, stderr io.Writer, fn func(diag *slog.Logger) error) (err error) {
	b := xlog.New().
		SetOutput(stderr).
		SetFormat(s.logFormat).
		SetAttrs(slog.String("app", "streamlog"), slog.String("run_id", uuid.NewString()))
	if s.verbose {
		b.SetLevel(xlog.LevelDebug)
	}
	if s.logFile != "" {
		b.SetRotation(s.logFile)
	}

	diag, _, cleanup, err := b.Build()
	switch {
	case errors.Is(err, xlog.ErrUnknownFormat):
		return usagef("--log-format: want text or json, got %q", s.logFormat)
	case err != nil:
		return fmt.Errorf("--log-file: %w", err)
	}
	defer func() {
		err = errors.Join(err, cleanup())
	}()
	return fn(diag)
}

// newLogger 按 settings 创建未打开的 Logger，并挂上诊断输出和指标
func newLogger(s *settings, diag *slog.Logger) (*xstream.Logger, error) {
	counter, err := xmetrics.NewEventCounter()
	if err != nil {
		return nil, err
	}
	return xstream.New(s.destinations,
		xstream.WithLevel(s.threshold),
		xstream.WithOpener(s.opener),
		xstream.WithLogger(diag),
		xstream.WithObserver(xstream.NewSlogObserver(diag)),
		xstream.WithObserver(counter.Handle),
		xstream.WithoutOpen(),
	), nil
}

// cmdTee 持续把 in 的每一行写入日志，直到输入结束或收到终止信号。
func cmdTee(ctx context.Context, s *settings, level xstream.Level, in io.Reader, diag *slog.Logger) error {
	l, err := newLogger(s, diag)
	if err != nil {
		return err
	}

	var watcher *xconf.Watcher
	if s.configPath != "" {
		watcher, err = xconf.Watch(s.configPath, func(cfg *xconf.Config, err error) {
			applyConfig(l, s, cfg, err, diag)
		})
		if err != nil {
			return err
		}
	}

	<-l.Open(nil)
	defer func() { <-l.Close(nil) }()

	g, _ := xrun.NewGroup(ctx, xrun.WithName("streamlog"), xrun.WithLogger(diag))

	g.GoWithName("reopen", xrun.OnSignal([]os.Signal{unix.SIGHUP}, func(context.Context, os.Signal) error {
		diag.Info("reopening streams")
		<-l.Reopen(nil)
		return nil
	}))
	g.GoWithName("signals", xrun.StopOnSignal([]os.Signal{unix.SIGINT, unix.SIGTERM}))

	if watcher != nil {
		g.GoWithName("config", func(ctx context.Context) error {
			watcher.StartAsync()
			<-ctx.Done()
			return watcher.Stop()
		})
	}

	g.GoWithName("pump", func(ctx context.Context) error {
		if err := pump(ctx, in, l, level); err != nil {
			return err
		}
		// 输入结束：正常关闭其余服务
		g.Cancel(nil)
		return nil
	})

	err = g.Wait()
	if errors.Is(err, xrun.ErrSignal) {
		return nil
	}
	return err
}

// pump 逐行读取 in 并以 level 写入，返回读取错误；ctx 取消时提前返回。
func pump(ctx context.Context, in io.Reader, l *xstream.Logger, level xstream.Level) error {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- sc.Err()
	}()

	for {
		select {
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-errc:
					return err
				default:
					return ctx.Err()
				}
			}
			if err := l.Log(level, line, nil); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// applyConfig 应用热加载的配置：阈值立即生效；目的地变化时重新打开。
// 命令行指定的目的地优先，不受配置影响。
func applyConfig(l *xstream.Logger, s *settings, cfg *xconf.Config, err error, diag *slog.Logger) {
	if err != nil {
		diag.Warn("config reload failed, keeping previous settings",
			slog.String("path", s.configPath),
			slog.Any("error", err),
		)
		return
	}

	if err := l.SetLevel(cfg.Threshold()); err != nil {
		diag.Warn("config reload: invalid threshold", slog.Any("error", err))
	}

	if s.destFromFlag || len(cfg.Destinations) == 0 || slices.Equal(cfg.Destinations, l.Destinations()) {
		diag.Info("config reloaded", slog.String("threshold", l.Level().String()))
		return
	}
	l.SetDestinations(cfg.Destinations)
	<-l.Reopen(nil)
	diag.Info("config reloaded",
		slog.String("threshold", l.Level().String()),
		slog.Any("destinations", cfg.Destinations),
	)
}

// cmdWrite 打开全部目的地，写入一条消息后关闭。
// 有目的地出错时返回退出码 1（错误详情已由诊断日志输出）。
func cmdWrite(_ context.Context, s *settings, level xstream.Level, msg string, out io.Writer, diag *slog.Logger) error {
	l, err := newLogger(s, diag)
	if err != nil {
		return err
	}

	var failures, written atomic.Int32
	l.Bus().OnError(func(error, string) { failures.Add(1) })

	<-l.Open(nil)
	if err := l.Log(level, msg, func() { written.Add(1) }); err != nil {
		<-l.Close(nil)
		return err
	}
	<-l.Close(nil)

	fmt.Fprintf(out, "written to %d/%d destinations\n", written.Load(), len(s.destinations))
	if failures.Load() > 0 {
		return &exitError{code: 1}
	}
	return nil
}

// cmdLevels 输出级别及其排名
func cmdLevels(out io.Writer) error {
	for _, l := range xstream.Levels() {
		if _, err := fmt.Fprintf(out, "%d\t%s\n", l.Rank(), l); err != nil {
			return err
		}
	}
	return nil
}
