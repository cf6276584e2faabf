package xstream

import (
	"log/slog"
	"time"

	"github.com/omeyang/streamlog/pkg/observability/xrotate"
)

type options struct {
	level    Level
	opener   Opener
	now      func() time.Time
	logger   *slog.Logger
	handlers []subscription
	noOpen   bool
}

func defaultOptions() *options {
	return &options{
		level:  LevelInfo,
		opener: xrotate.FileOpener(),
		now:    time.Now,
		logger: slog.Default(),
	}
}

// Option Logger 配置选项
type Option func(*options)

// WithLevel 设置初始阈值（默认 LevelInfo）。无效级别被忽略。
func WithLevel(level Level) Option {
	return func(o *options) {
		if level.Valid() {
			o.level = level
		}
	}
}

// WithOpener 设置 sink 打开方式。
// 默认 xrotate.FileOpener()：追加模式普通文件，由外部负责轮转。
func WithOpener(opener Opener) Option {
	return func(o *options) {
		if opener != nil {
			o.opener = opener
		}
	}
}

// WithClock 设置时间来源（测试用）
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLogger 设置内部诊断日志（默认 slog.Default()）。
// 只记录生命周期调试信息和 Handler/回调 panic，不记录日志消息本身。
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithHandler 在首轮打开之前订阅 kind 类型事件，确保不会错过首个 KindOpened
func WithHandler(kind Kind, fn Handler) Option {
	return func(o *options) {
		if fn != nil {
			o.handlers = append(o.handlers, subscription{kind: kind, fn: fn})
		}
	}
}

// WithObserver 在首轮打开之前订阅全部事件
func WithObserver(fn Handler) Option {
	return WithHandler(kindAll, fn)
}

// WithoutOpen 构造时不发起首轮打开，由调用方显式调用 Open
func WithoutOpen() Option {
	return func(o *options) {
		o.noOpen = true
	}
}
