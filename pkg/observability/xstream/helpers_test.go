package xstream

import (
	"bytes"
	"io"
	"sync"
	"testing"
	"time"
)

// memSink 内存 sink
type memSink struct {
	mu        sync.Mutex
	buf       bytes.Buffer
	closed    bool
	closeGate chan struct{} // 非 nil 时 Close 阻塞到其关闭
}

func (s *memSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *memSink) Close() error {
	if s.closeGate != nil {
		<-s.closeGate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *memSink) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func (s *memSink) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// fakeFS 按目的地记录每次打开产生的 sink，可注入失败和阻塞
type fakeFS struct {
	mu         sync.Mutex
	sinks      map[string][]*memSink
	fail       map[string]error
	gates      map[string]chan struct{}
	closeGates map[string]chan struct{}
}

func newFakeFS() *fakeFS {
	return &fakeFS{
		sinks:      make(map[string][]*memSink),
		fail:       make(map[string]error),
		gates:      make(map[string]chan struct{}),
		closeGates: make(map[string]chan struct{}),
	}
}

func (f *fakeFS) open(dest string) (io.WriteCloser, error) {
	f.mu.Lock()
	gate := f.gates[dest]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail[dest]; err != nil {
		return nil, err
	}
	s := &memSink{closeGate: f.closeGates[dest]}
	f.sinks[dest] = append(f.sinks[dest], s)
	return s, nil
}

// gate 让 dest 的打开阻塞，返回释放函数
func (f *fakeFS) gate(dest string) (release func()) {
	ch := make(chan struct{})
	f.mu.Lock()
	f.gates[dest] = ch
	f.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

// gateClose 让 dest 之后打开的 sink 在 Close 时阻塞，返回释放函数
func (f *fakeFS) gateClose(dest string) (release func()) {
	ch := make(chan struct{})
	f.mu.Lock()
	f.closeGates[dest] = ch
	f.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

func (f *fakeFS) setFail(dest string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.fail, dest)
		return
	}
	f.fail[dest] = err
}

func (f *fakeFS) opened(dest string) []*memSink {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*memSink(nil), f.sinks[dest]...)
}

func (f *fakeFS) latest(dest string) *memSink {
	s := f.opened(dest)
	if len(s) == 0 {
		return nil
	}
	return s[len(s)-1]
}

// recorder 记录全部事件
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) handle(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) all() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *recorder) count(kind Kind) int {
	n := 0
	for _, e := range r.all() {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func (r *recorder) ofKind(kind Kind) []Event {
	var out []Event
	for _, e := range r.all() {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// lifecycle 只保留 Opened/Closed 序列
func (r *recorder) lifecycle() []Kind {
	var out []Kind
	for _, e := range r.all() {
		if e.Kind == KindOpened || e.Kind == KindClosed {
			out = append(out, e.Kind)
		}
	}
	return out
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

func waitDone(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for cycle to complete")
	}
}

var fixedTime = time.Date(2026, time.October, 15, 8, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedTime }

// newTestLogger 创建未自动打开的 Logger 并完成首轮打开
func newTestLogger(t *testing.T, fs *fakeFS, dests []string, opts ...Option) (*Logger, *recorder) {
	t.Helper()
	rec := &recorder{}
	base := []Option{
		WithOpener(fs.open),
		WithClock(fixedClock),
		WithObserver(rec.handle),
		WithoutOpen(),
	}
	l := New(dests, append(base, opts...)...)
	waitDone(t, l.Open(nil))
	return l, rec
}
