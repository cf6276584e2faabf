package xstream

import (
	"log/slog"
	"strconv"
	"sync"
)

// State Logger（流集合）的生命周期状态
type State uint8

// 生命周期状态常量。Reopen 表现为 Closing 紧接 Opening，最终停在 Ready。
const (
	StateUninitialized State = iota
	StateOpening
	StateReady
	StateClosing
	StateClosed
)

// String 返回状态名
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateOpening:
		return "opening"
	case StateReady:
		return "ready"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
}

// cycleOp 一个聚合周期操作，结束时必须调用 finish 以启动下一个排队操作
type cycleOp func(finish func())

// streamSet 流集合协调器。
//
// 打开/关闭以"周期"为单位：每个周期把全部 Handle 的独立完成归并为一次
// 聚合事件。周期之间串行，busy 时新请求进入 FIFO 队列，
// 由上一周期的完成方启动。
type streamSet struct {
	opener Opener
	bus    *Bus
	logger *slog.Logger

	mu      sync.Mutex
	dests   []string
	handles []*Handle // 只整体替换，写入方遍历的是快照
	state   State
	busy    bool
	queue   []cycleOp
}

func newStreamSet(dests []string, opener Opener, bus *Bus, logger *slog.Logger) *streamSet {
	return &streamSet{
		opener: opener,
		bus:    bus,
		logger: logger,
		dests:  append([]string(nil), dests...),
	}
}

// snapshot 返回当前 Handle 列表
func (s *streamSet) snapshot() []*Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handles
}

func (s *streamSet) currentState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *streamSet) destinations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.dests...)
}

// setDestinations 替换目的地列表，下一个打开周期生效
func (s *streamSet) setDestinations(dests []string) {
	s.mu.Lock()
	s.dests = append([]string(nil), dests...)
	s.mu.Unlock()
}

func (s *streamSet) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// submit 提交周期操作：空闲时在当前 goroutine 立即开始，否则排队
func (s *streamSet) submit(op cycleOp) {
	s.mu.Lock()
	if s.busy {
		s.queue = append(s.queue, op)
		s.mu.Unlock()
		return
	}
	s.busy = true
	s.mu.Unlock()

	op(s.next)
}

// next 结束当前周期并启动队首操作
func (s *streamSet) next() {
	s.mu.Lock()
	if len(s.queue) == 0 {
		s.busy = false
		s.mu.Unlock()
		return
	}
	op := s.queue[0]
	s.queue[0] = nil
	s.queue = s.queue[1:]
	s.mu.Unlock()

	op(s.next)
}

// openAll 为每个目的地创建 Handle 并并发打开。
// 每个失败立即触发一次 KindError；全部完成后触发一次 KindOpened，再调用 then。
func (s *streamSet) openAll(then func()) {
	s.mu.Lock()
	handles := make([]*Handle, len(s.dests))
	for i, dest := range s.dests {
		handles[i] = newHandle(dest, s.opener)
	}
	s.handles = handles
	s.state = StateOpening
	s.mu.Unlock()

	s.logger.Debug("opening streams", slog.Int("count", len(handles)))

	b := newBarrier(len(handles), func() {
		s.setState(StateReady)
		s.bus.Emit(Event{Kind: KindOpened})
		then()
	})
	for _, h := range handles {
		h.open(func(err error) {
			if err != nil {
				s.bus.Emit(Event{Kind: KindError, Err: err, Destination: h.Destination()})
			}
			b.done()
		})
	}
	b.arm()
}

// closeAll 关闭当前全部 Handle。
// 每个 Handle 在请求时同步转入 Closing；每个关闭失败触发一次 KindError；
// 全部完成后清空集合、触发一次 KindClosed，再调用 then。
func (s *streamSet) closeAll(then func()) {
	s.mu.Lock()
	handles := s.handles
	s.state = StateClosing
	s.mu.Unlock()

	s.logger.Debug("closing streams", slog.Int("count", len(handles)))

	b := newBarrier(len(handles), func() {
		s.mu.Lock()
		s.handles = nil
		s.state = StateClosed
		s.mu.Unlock()

		s.bus.Emit(Event{Kind: KindClosed})
		then()
	})
	for _, h := range handles {
		h.close(func(err error) {
			if err != nil {
				s.bus.Emit(Event{Kind: KindError, Err: err, Destination: h.Destination()})
			}
			b.done()
		})
	}
	b.arm()
}
