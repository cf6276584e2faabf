package xstream

import (
	"fmt"
	"io"
	"strconv"
	"sync"
)

// Opener 在目的地上以追加模式打开可写 sink。
//
// 返回的 sink 由 Handle 独占，Handle 关闭时调用其 Close。
// Opener 会在独立 goroutine 中被调用，可以阻塞。
type Opener func(destination string) (io.WriteCloser, error)

// Status Handle 状态
type Status uint8

// Handle 状态常量
const (
	StatusOpening Status = iota
	StatusOpen
	StatusError
	StatusClosing
	StatusClosed
)

// String 返回状态名
func (s Status) String() string {
	switch s {
	case StatusOpening:
		return "opening"
	case StatusOpen:
		return "open"
	case StatusError:
		return "error"
	case StatusClosing:
		return "closing"
	case StatusClosed:
		return "closed"
	default:
		return "Status(" + strconv.Itoa(int(s)) + ")"
	}
}

// Handle 单个目的地及其 sink。
//
// 状态迁移：Opening→Open（打开成功）、Opening→Error（打开失败），
// 任意未关闭状态→Closing→Closed。只有 Open 状态可写。
// 每个 Handle 在一个周期内只打开一次、关闭一次，由流集合保证。
type Handle struct {
	dest   string
	opener Opener

	mu     sync.Mutex // 保护 status 和 sink，写入期间持有
	status Status
	sink   io.WriteCloser

	settled chan struct{} // 打开尝试结束后关闭
}

func newHandle(dest string, opener Opener) *Handle {
	return &Handle{
		dest:    dest,
		opener:  opener,
		status:  StatusOpening,
		settled: make(chan struct{}),
	}
}

// Destination 返回目的地标识
func (h *Handle) Destination() string {
	return h.dest
}

// Status 返回当前状态
func (h *Handle) Status() Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}

// open 异步打开 sink，完成后调用 done（失败时 err 包装 ErrSinkOpen）
func (h *Handle) open(done func(err error)) {
	go func() {
		sink, err := h.opener(h.dest)
		if err == nil && sink == nil {
			err = errNilSink
		}

		h.mu.Lock()
		if err != nil {
			err = fmt.Errorf("%w: %s: %w", ErrSinkOpen, h.dest, err)
			if h.status == StatusOpening {
				h.status = StatusError
			}
		} else {
			// 打开期间已请求关闭时保持 Closing，sink 交给关闭流程释放
			h.sink = sink
			if h.status == StatusOpening {
				h.status = StatusOpen
			}
		}
		h.mu.Unlock()

		close(h.settled)
		done(err)
	}()
}

// Write 写入一行。非 Open 状态返回 ErrNotWritable 且不写入。
func (h *Handle) Write(p []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.status != StatusOpen {
		return 0, ErrNotWritable
	}
	n, err := h.sink.Write(p)
	if err != nil {
		return n, fmt.Errorf("%w: %s: %w", ErrSinkWrite, h.dest, err)
	}
	return n, nil
}

// close 立即转入 Closing（此后写入均被拒绝），异步释放 sink，完成后调用 done。
// 打开仍在进行时先等待其结束。已在关闭的 Handle 直接以 nil 完成。
func (h *Handle) close(done func(err error)) {
	h.mu.Lock()
	if h.status == StatusClosing || h.status == StatusClosed {
		h.mu.Unlock()
		done(nil)
		return
	}
	h.status = StatusClosing
	h.mu.Unlock()

	go func() {
		<-h.settled

		h.mu.Lock()
		sink := h.sink
		h.sink = nil
		h.mu.Unlock()

		var err error
		if sink != nil {
			if cerr := sink.Close(); cerr != nil {
				err = fmt.Errorf("%w: %s: %w", ErrSinkClose, h.dest, cerr)
			}
		}

		h.mu.Lock()
		h.status = StatusClosed
		h.mu.Unlock()

		done(err)
	}()
}
