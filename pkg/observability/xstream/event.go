package xstream

import (
	"log/slog"
	"strconv"
	"sync"
)

// Kind 事件类型
type Kind uint8

// 事件类型常量
const (
	// KindOpened 本轮所有流都已完成打开尝试（每轮恰好一次）
	KindOpened Kind = iota + 1

	// KindError 单个目的地的打开/写入/关闭失败，携带 Err 与 Destination
	KindError

	// KindMessageReceived 每次 Log 调用都会触发，与阈值无关
	KindMessageReceived

	// KindMessageLogged 消息通过阈值、即将写入
	KindMessageLogged

	// KindClosed 本轮所有流都已关闭（每轮恰好一次）
	KindClosed
)

// kindAll 内部使用：订阅全部事件类型
const kindAll Kind = 0

// String 返回事件类型名
func (k Kind) String() string {
	switch k {
	case KindOpened:
		return "opened"
	case KindError:
		return "error"
	case KindMessageReceived:
		return "message"
	case KindMessageLogged:
		return "logged"
	case KindClosed:
		return "closed"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Event 生命周期或消息事件。
//
// 字段按 Kind 取用：
//   - KindError: Err, Destination
//   - KindMessageReceived / KindMessageLogged: Message, Level
//   - KindOpened / KindClosed: 无负载
type Event struct {
	Kind        Kind
	Err         error
	Destination string
	Message     string
	Level       Level
}

// Handler 事件处理函数
type Handler func(Event)

type subscription struct {
	id   uint64
	kind Kind
	fn   Handler
}

// Bus 事件总线。
//
// 事件在 Emit 时同步投递给当时的订阅者快照，按订阅顺序调用。
// 订阅列表采用写时复制，Subscribe/取消订阅可以与 Emit 并发进行。
// Handler panic 会被隔离，不影响其他订阅者和发起方。
type Bus struct {
	mu     sync.Mutex
	subs   []subscription // 只整体替换，不原地修改
	nextID uint64
	logger *slog.Logger
}

// NewBus 创建事件总线。logger 用于记录 Handler panic，nil 时使用 slog.Default()。
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{logger: logger}
}

// Subscribe 订阅指定类型事件，返回取消订阅函数（可重复调用）
func (b *Bus) Subscribe(kind Kind, fn Handler) (unsubscribe func()) {
	return b.add(kind, fn)
}

// SubscribeAll 订阅全部事件类型
func (b *Bus) SubscribeAll(fn Handler) (unsubscribe func()) {
	return b.add(kindAll, fn)
}

func (b *Bus) add(kind Kind, fn Handler) func() {
	if fn == nil {
		return func() {}
	}

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	subs := make([]subscription, len(b.subs), len(b.subs)+1)
	copy(subs, b.subs)
	b.subs = append(subs, subscription{id: id, kind: kind, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := make([]subscription, 0, len(b.subs))
	for _, s := range b.subs {
		if s.id != id {
			subs = append(subs, s)
		}
	}
	b.subs = subs
}

// Len 返回当前订阅者数量
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Emit 同步投递事件
func (b *Bus) Emit(e Event) {
	b.mu.Lock()
	subs := b.subs
	b.mu.Unlock()

	for _, s := range subs {
		if s.kind == kindAll || s.kind == e.Kind {
			b.deliver(s.fn, e)
		}
	}
}

func (b *Bus) deliver(fn Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("xstream: event handler panicked",
				slog.String("event", e.Kind.String()),
				slog.Any("panic", r),
			)
		}
	}()
	fn(e)
}

// OnOpened 订阅 KindOpened
func (b *Bus) OnOpened(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	return b.Subscribe(KindOpened, func(Event) { fn() })
}

// OnClosed 订阅 KindClosed
func (b *Bus) OnClosed(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	return b.Subscribe(KindClosed, func(Event) { fn() })
}

// OnError 订阅 KindError，参数依次为错误与目的地
func (b *Bus) OnError(fn func(err error, destination string)) func() {
	if fn == nil {
		return func() {}
	}
	return b.Subscribe(KindError, func(e Event) { fn(e.Err, e.Destination) })
}

// OnMessage 订阅 KindMessageReceived
func (b *Bus) OnMessage(fn func(msg string, level Level)) func() {
	if fn == nil {
		return func() {}
	}
	return b.Subscribe(KindMessageReceived, func(e Event) { fn(e.Message, e.Level) })
}

// OnLogged 订阅 KindMessageLogged
func (b *Bus) OnLogged(fn func(msg string, level Level)) func() {
	if fn == nil {
		return func() {}
	}
	return b.Subscribe(KindMessageLogged, func(e Event) { fn(e.Message, e.Level) })
}
