package xstream

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBarrier_FiresAfterAll(t *testing.T) {
	var fired int
	b := newBarrier(3, func() { fired++ })

	b.done()
	b.done()
	b.arm()
	assert.Zero(t, fired)

	b.done()
	assert.Equal(t, 1, fired)
}

func TestBarrier_Zero(t *testing.T) {
	var fired int
	b := newBarrier(0, func() { fired++ })
	b.arm()
	b.arm()
	assert.Equal(t, 1, fired)
}

func TestBarrier_ArmAfterCompletion(t *testing.T) {
	var fired int
	b := newBarrier(2, func() { fired++ })
	b.done()
	b.done()
	b.arm()
	assert.Equal(t, 1, fired)
}

func TestBarrier_ConcurrentDone(t *testing.T) {
	for range 50 {
		var fired atomic.Int32
		const n = 64
		b := newBarrier(n, func() { fired.Add(1) })

		var wg sync.WaitGroup
		start := make(chan struct{})
		for range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				b.done()
			}()
		}
		close(start)
		b.arm()
		wg.Wait()

		assert.Equal(t, int32(1), fired.Load())
	}
}

func TestBarrier_ExtraDoneDoesNotRefire(t *testing.T) {
	var fired int
	b := newBarrier(1, func() { fired++ })
	b.done()
	b.done()
	b.fire()
	assert.Equal(t, 1, fired)
}
