package editor

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncerRunsLastTrigger(t *testing.T) {
	d := NewDebouncer(15 * time.Millisecond)
	var last atomic.Int32
	var runs atomic.Int32
	for i := int32(1); i <= 5; i++ {
		i := i
		d.Trigger(func() { last.Store(i); runs.Add(1) })
	}
	assert.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())
	assert.Equal(t, int32(5), last.Load())
}

func TestDebouncerStop(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	var runs atomic.Int32
	d.Trigger(func() { runs.Add(1) })
	d.Stop()
	d.Trigger(func() { runs.Add(1) })
	time.Sleep(40 * time.Millisecond)
	assert.Zero(t, runs.Load())
}

func TestDebouncerFlushWithoutPending(t *testing.T) {
	d := NewDebouncer(time.Hour)
	var runs atomic.Int32
	d.Flush(func() { runs.Add(1) })
	assert.Zero(t, runs.Load())
}
