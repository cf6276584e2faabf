package xstream

import "sync/atomic"

// barrier 把 n 个独立完成信号归并为一次回调。
//
// 计数器在创建时一次性设为 n，随后各完成方调用 done；
// 只有让计数归零的那一次调用会尝试触发，fired 保证即使重复归零也只触发一次。
// n 为 0 时由 arm 触发。
type barrier struct {
	pending atomic.Int64
	fired   atomic.Bool
	fn      func()
}

func newBarrier(n int, fn func()) *barrier {
	b := &barrier{fn: fn}
	b.pending.Store(int64(n))
	return b
}

// done 记录一个完成
func (b *barrier) done() {
	if b.pending.Add(-1) == 0 {
		b.fire()
	}
}

// arm 在全部参与方派发完成后调用，处理 n 为 0 的情况
func (b *barrier) arm() {
	if b.pending.Load() <= 0 {
		b.fire()
	}
}

func (b *barrier) fire() {
	if b.fired.CompareAndSwap(false, true) {
		b.fn()
	}
}
