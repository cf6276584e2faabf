package xrun

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// DefaultStopSignals 返回默认的终止信号：SIGINT、SIGTERM。
// 每次调用返回新的切片。
func DefaultStopSignals() []os.Signal {
	return []os.Signal{os.Interrupt, syscall.SIGTERM}
}

// OnSignal 返回在每次收到 signals 中的信号时调用 fn 的服务函数。
//
// fn 同步执行，执行期间到达的同类信号最多缓冲一个。
// fn 返回错误时服务以该错误退出；ctx 取消时返回 ctx.Err()。
// 典型用途是 SIGHUP 触发日志文件重新打开。
func OnSignal(signals []os.Signal, fn func(ctx context.Context, sig os.Signal) error) func(ctx context.Context) error {
	signals = append([]os.Signal(nil), signals...)
	return func(ctx context.Context) error {
		if fn == nil {
			return ErrNilFunc
		}
		if len(signals) == 0 {
			return ErrNoSignals
		}

		ch := make(chan os.Signal, 1)
		n := notifierFrom(ctx)
		n.Notify(ch, signals...)
		defer n.Stop(ch)

		for {
			select {
			case sig := <-ch:
				if err := fn(ctx, sig); err != nil {
					return err
				}
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// StopOnSignal 返回在收到 signals 中任一信号时以 *SignalError 退出的服务函数，
// 从而结束整个 Group。
func StopOnSignal(signals []os.Signal) func(ctx context.Context) error {
	signals = append([]os.Signal(nil), signals...)
	return func(ctx context.Context) error {
		if len(signals) == 0 {
			return ErrNoSignals
		}

		ch := make(chan os.Signal, 1)
		n := notifierFrom(ctx)
		n.Notify(ch, signals...)
		defer n.Stop(ch)

		select {
		case sig := <-ch:
			return &SignalError{Signal: sig}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// notifier 抽象 signal.Notify/signal.Stop，测试通过 context 注入替身，
// 避免向测试进程发送真实信号。
type notifier interface {
	Notify(c chan<- os.Signal, sig ...os.Signal)
	Stop(c chan<- os.Signal)
}

type osNotifier struct{}

func (osNotifier) Notify(c chan<- os.Signal, sig ...os.Signal) { signal.Notify(c, sig...) }
func (osNotifier) Stop(c chan<- os.Signal)                     { signal.Stop(c) }

type notifierKey struct{}

func notifierFrom(ctx context.Context) notifier {
	if n, ok := ctx.Value(notifierKey{}).(notifier); ok {
		return n
	}
	return osNotifier{}
}

// withNotifier 在 context 中注入信号来源。
func withNotifier(ctx context.Context, n notifier) context.Context {
	return context.WithValue(ctx, notifierKey{}, n)
}
