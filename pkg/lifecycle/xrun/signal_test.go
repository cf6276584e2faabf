package xrun

import (
	"context"
	"errors"
	"os"
	"slices"
	"sync"
	"testing"
	"time"
)

// fakeSignal 测试用信号
type fakeSignal string

func (s fakeSignal) String() string { return string(s) }
func (s fakeSignal) Signal()        {}

// fakeNotifier 按订阅的信号集合向通道投递信号
type fakeNotifier struct {
	mu   sync.Mutex
	subs map[chan<- os.Signal][]os.Signal
	reg  chan struct{} // 每次 Notify 发送一次
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{
		subs: make(map[chan<- os.Signal][]os.Signal),
		reg:  make(chan struct{}, 16),
	}
}

func (n *fakeNotifier) Notify(c chan<- os.Signal, sig ...os.Signal) {
	n.mu.Lock()
	n.subs[c] = append(n.subs[c], sig...)
	n.mu.Unlock()
	n.reg <- struct{}{}
}

func (n *fakeNotifier) Stop(c chan<- os.Signal) {
	n.mu.Lock()
	delete(n.subs, c)
	n.mu.Unlock()
}

// send 与 signal 包一样非阻塞投递
func (n *fakeNotifier) send(sig os.Signal) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for c, sigs := range n.subs {
		if slices.Contains(sigs, sig) {
			select {
			case c <- sig:
			default:
			}
		}
	}
}

func (n *fakeNotifier) subscribers() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs)
}

// waitRegistered 等待 count 个服务完成 Notify
func (n *fakeNotifier) waitRegistered(t *testing.T, count int) {
	t.Helper()
	for range count {
		select {
		case <-n.reg:
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for signal registration")
		}
	}
}

const (
	sigHUP  = fakeSignal("HUP")
	sigTERM = fakeSignal("TERM")
)

func TestOnSignal_InvokesForEachSignal(t *testing.T) {
	n := newFakeNotifier()
	g, _ := NewGroup(withNotifier(context.Background(), n))

	got := make(chan os.Signal, 4)
	g.Go(OnSignal([]os.Signal{sigHUP}, func(ctx context.Context, sig os.Signal) error {
		got <- sig
		return nil
	}))
	n.waitRegistered(t, 1)

	for range 3 {
		n.send(sigHUP)
		select {
		case sig := <-got:
			if sig != sigHUP {
				t.Errorf("expected HUP, got %v", sig)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("handler not invoked")
		}
	}

	n.send(sigTERM) // 未订阅，忽略
	g.Cancel(nil)
	if err := g.Wait(); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	if n.subscribers() != 0 {
		t.Error("signal channel should be stopped on exit")
	}
	if len(got) != 0 {
		t.Errorf("unexpected extra invocations: %d", len(got))
	}
}

func TestOnSignal_HandlerError(t *testing.T) {
	n := newFakeNotifier()
	g, _ := NewGroup(withNotifier(context.Background(), n))

	reopenErr := errors.New("reopen failed")
	g.Go(OnSignal([]os.Signal{sigHUP}, func(context.Context, os.Signal) error {
		return reopenErr
	}))
	n.waitRegistered(t, 1)
	n.send(sigHUP)

	if err := g.Wait(); !errors.Is(err, reopenErr) {
		t.Errorf("expected %v, got %v", reopenErr, err)
	}
}

func TestOnSignal_InvalidArgs(t *testing.T) {
	if err := OnSignal([]os.Signal{sigHUP}, nil)(context.Background()); !errors.Is(err, ErrNilFunc) {
		t.Errorf("expected ErrNilFunc, got %v", err)
	}
	noop := func(context.Context, os.Signal) error { return nil }
	if err := OnSignal(nil, noop)(context.Background()); !errors.Is(err, ErrNoSignals) {
		t.Errorf("expected ErrNoSignals, got %v", err)
	}
	if err := StopOnSignal(nil)(context.Background()); !errors.Is(err, ErrNoSignals) {
		t.Errorf("expected ErrNoSignals, got %v", err)
	}
}

func TestStopOnSignal_EndsGroup(t *testing.T) {
	n := newFakeNotifier()
	g, _ := NewGroup(withNotifier(context.Background(), n))

	var reopened int
	var mu sync.Mutex
	g.Go(OnSignal([]os.Signal{sigHUP}, func(context.Context, os.Signal) error {
		mu.Lock()
		reopened++
		mu.Unlock()
		return nil
	}))
	g.Go(StopOnSignal([]os.Signal{sigTERM}))
	stopped := make(chan struct{})
	g.Go(func(ctx context.Context) error {
		<-ctx.Done()
		close(stopped)
		return ctx.Err()
	})
	n.waitRegistered(t, 2)

	n.send(sigTERM)

	err := g.Wait()
	var sigErr *SignalError
	if !errors.As(err, &sigErr) || sigErr.Signal != sigTERM {
		t.Fatalf("expected SignalError(TERM), got %v", err)
	}
	<-stopped

	mu.Lock()
	defer mu.Unlock()
	if reopened != 0 {
		t.Errorf("TERM must not trigger the HUP handler, got %d calls", reopened)
	}
}

func TestRun_StopsOnSignal(t *testing.T) {
	n := newFakeNotifier()
	ctx := withNotifier(context.Background(), n)

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, nil, func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})
	}()
	n.waitRegistered(t, 1)
	n.send(os.Interrupt)

	select {
	case err := <-done:
		if !errors.Is(err, ErrSignal) {
			t.Errorf("expected ErrSignal, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestDefaultStopSignals(t *testing.T) {
	a := DefaultStopSignals()
	if len(a) != 2 || a[0] != os.Interrupt {
		t.Fatalf("unexpected default signals %v", a)
	}
	a[0] = sigHUP
	if DefaultStopSignals()[0] != os.Interrupt {
		t.Error("DefaultStopSignals should return a fresh slice")
	}
}
