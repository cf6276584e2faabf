package xstream

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// TimeFormat 输出行时间戳格式（UTC，RFC 1123 风格，与 HTTP-date 一致）
const TimeFormat = "Mon, 02 Jan 2006 15:04:05 GMT"

// Logger 多目标分级日志。
//
// 所有方法并发安全。阈值可随时修改，只影响之后的 Log 调用。
type Logger struct {
	threshold atomic.Uint32
	bus       *Bus
	set       *streamSet
	now       func() time.Time
	logger    *slog.Logger
}

// New 创建 Logger 并立即发起首轮打开（除非使用 WithoutOpen）。
//
// destinations 为空是合法的：此时首轮打开立即完成，所有消息只产生事件、不写入。
// 需要观察首个 KindOpened 时，用 WithHandler/WithObserver 在构造前订阅。
func New(destinations []string, opts ...Option) *Logger {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	bus := NewBus(o.logger)
	for _, s := range o.handlers {
		bus.add(s.kind, s.fn)
	}

	l := &Logger{
		bus:    bus,
		set:    newStreamSet(destinations, o.opener, bus, o.logger),
		now:    o.now,
		logger: o.logger,
	}
	l.threshold.Store(uint32(o.level))

	if !o.noOpen {
		l.Open(nil)
	}
	return l
}

// Log 以 level 记录消息。
//
// 无效级别返回 ErrUnknownLevel，不触发任何事件。否则：
//  1. 触发 KindMessageReceived（无论是否被过滤）
//  2. level 低于阈值时到此为止，fn 不会被调用
//  3. 触发 KindMessageLogged，向每个 Handle 写入一行；
//     非 Open 的 Handle 或写入失败各触发一次 KindError
//  4. 每个写入成功的目的地调用一次 fn（多目的地会多次调用）
//
// 目的地级别的失败只通过事件报告，不会返回给调用方。
func (l *Logger) Log(level Level, msg string, fn func()) error {
	if !level.Valid() {
		return fmt.Errorf("%w: rank %d", ErrUnknownLevel, uint8(level))
	}

	l.bus.Emit(Event{Kind: KindMessageReceived, Message: msg, Level: level})

	if level < l.Level() {
		return nil
	}

	l.bus.Emit(Event{Kind: KindMessageLogged, Message: msg, Level: level})

	line := l.format(level, msg)
	for _, h := range l.set.snapshot() {
		if _, err := h.Write(line); err != nil {
			l.bus.Emit(Event{Kind: KindError, Err: err, Destination: h.Destination()})
			continue
		}
		if fn != nil {
			l.safeCall("write callback", fn)
		}
	}
	return nil
}

// LogString 按级别名称记录消息，名称解析失败返回 ErrUnknownLevel
func (l *Logger) LogString(levelName, msg string, fn func()) error {
	level, err := ParseLevel(levelName)
	if err != nil {
		return err
	}
	return l.Log(level, msg, fn)
}

// Debug 以 LevelDebug 记录消息
func (l *Logger) Debug(msg string) {
	_ = l.Log(LevelDebug, msg, nil) //nolint:errcheck // 固定级别不会失败
}

// Info 以 LevelInfo 记录消息
func (l *Logger) Info(msg string) {
	_ = l.Log(LevelInfo, msg, nil) //nolint:errcheck // 固定级别不会失败
}

// Warn 以 LevelWarn 记录消息
func (l *Logger) Warn(msg string) {
	_ = l.Log(LevelWarn, msg, nil) //nolint:errcheck // 固定级别不会失败
}

// Fatal 以 LevelFatal 记录消息。只写日志，不退出进程。
func (l *Logger) Fatal(msg string) {
	_ = l.Log(LevelFatal, msg, nil) //nolint:errcheck // 固定级别不会失败
}

// format 生成输出行：<UTC 时间> - <LEVEL>: <msg>\n
func (l *Logger) format(level Level, msg string) []byte {
	ts := l.now().UTC()
	buf := make([]byte, 0, len(TimeFormat)+len(msg)+16)
	buf = ts.AppendFormat(buf, TimeFormat)
	buf = append(buf, " - "...)
	buf = append(buf, level.String()...)
	buf = append(buf, ": "...)
	buf = append(buf, msg...)
	buf = append(buf, '\n')
	return buf
}

// SetLevel 设置阈值，低于阈值的消息不再写入。无效级别返回 ErrUnknownLevel。
func (l *Logger) SetLevel(level Level) error {
	if !level.Valid() {
		return fmt.Errorf("%w: rank %d", ErrUnknownLevel, uint8(level))
	}
	l.threshold.Store(uint32(level))
	return nil
}

// Level 返回当前阈值
func (l *Logger) Level() Level {
	return Level(l.threshold.Load())
}

// Open 发起一轮打开。返回的 channel 在 KindOpened 触发且 fn 执行后关闭。
//
// 调用方不应在已打开的集合上重复 Open（旧 Handle 会被丢弃而不关闭）；
// 需要重新打开时使用 Reopen。
func (l *Logger) Open(fn func()) <-chan struct{} {
	done := make(chan struct{})
	l.set.submit(func(finish func()) {
		l.set.openAll(l.complete("open", fn, done, finish))
	})
	return done
}

// Close 发起一轮关闭。返回的 channel 在 KindClosed 触发且 fn 执行后关闭。
// 关闭后仍可 Open/Reopen。
func (l *Logger) Close(fn func()) <-chan struct{} {
	done := make(chan struct{})
	l.set.submit(func(finish func()) {
		l.set.closeAll(l.complete("close", fn, done, finish))
	})
	return done
}

// Reopen 先完整关闭再打开全部流，用于外部轮转。
// 开始后不会再有写入到达上一周期的 Handle；期间的消息按当时 Open 的 Handle 处理，不排队。
// 集合尚未打开或已关闭时跳过关闭阶段（不触发 KindClosed），只做一轮打开。
// 返回的 channel 在 KindOpened 触发且 fn 执行后关闭。
func (l *Logger) Reopen(fn func()) <-chan struct{} {
	done := make(chan struct{})
	l.set.submit(func(finish func()) {
		open := func() {
			l.set.openAll(l.complete("reopen", fn, done, finish))
		}
		switch l.set.currentState() {
		case StateUninitialized, StateClosed:
			open()
		default:
			l.set.closeAll(open)
		}
	})
	return done
}

// complete 生成周期结束时的收尾函数：回调 → 关闭 done → 启动下一个周期
func (l *Logger) complete(op string, fn func(), done chan struct{}, finish func()) func() {
	return func() {
		if fn != nil {
			l.safeCall(op+" callback", fn)
		}
		close(done)
		finish()
	}
}

// safeCall 执行调用方回调，panic 被隔离并记录，不影响周期推进
func (l *Logger) safeCall(what string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("xstream: "+what+" panicked", slog.Any("panic", r))
		}
	}()
	fn()
}

// State 返回生命周期状态
func (l *Logger) State() State {
	return l.set.currentState()
}

// Destinations 返回目的地列表副本
func (l *Logger) Destinations() []string {
	return l.set.destinations()
}

// SetDestinations 替换目的地列表。只影响之后的打开周期，
// 通常紧接着调用 Reopen 使其生效。
func (l *Logger) SetDestinations(destinations []string) {
	l.set.setDestinations(destinations)
}

// Handles 返回当前周期的 Handle 快照
func (l *Logger) Handles() []*Handle {
	return append([]*Handle(nil), l.set.snapshot()...)
}

// Bus 返回事件总线
func (l *Logger) Bus() *Bus {
	return l.bus
}

// Subscribe 订阅指定类型事件，等价于 l.Bus().Subscribe
func (l *Logger) Subscribe(kind Kind, fn Handler) (unsubscribe func()) {
	return l.bus.Subscribe(kind, fn)
}

// SubscribeAll 订阅全部事件，等价于 l.Bus().SubscribeAll
func (l *Logger) SubscribeAll(fn Handler) (unsubscribe func()) {
	return l.bus.SubscribeAll(fn)
}
