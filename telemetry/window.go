package telemetry

import (
	"sync"

	"go-fieldwatch/types"
)

// DefaultCapacity is the number of samples each channel keeps.
const DefaultCapacity = 10

// Window keeps the last N samples of every channel.
type Window struct {
	mu       sync.RWMutex
	capacity int
	order    []types.Channel
	buffers  map[types.Channel][]float64
}

func NewWindow(capacity int, channels ...types.Channel) *Window {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	w := &Window{
		capacity: capacity,
		buffers:  make(map[types.Channel][]float64, len(channels)),
	}
	for _, ch := range channels {
		w.register(ch)
	}
	return w
}

func (w *Window) register(ch types.Channel) {
	if _, ok := w.buffers[ch]; ok {
		return
	}
	w.order = append(w.order, ch)
	w.buffers[ch] = make([]float64, 0, w.capacity)
}

// Admit appends value to the channel, dropping the oldest sample when full.
func (w *Window) Admit(ch types.Channel, value float64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.register(ch)
	buf := w.buffers[ch]
	if len(buf) >= w.capacity {
		// shift in place so the backing array never grows
		copy(buf, buf[1:])
		buf = buf[:len(buf)-1]
	}
	w.buffers[ch] = append(buf, value)
}

// Snapshot returns a copy of the channel, oldest first.
func (w *Window) Snapshot(ch types.Channel) []float64 {
	w.mu.RLock()
	defer w.mu.RUnlock()

	buf := w.buffers[ch]
	out := make([]float64, len(buf))
	copy(out, buf)
	return out
}

func (w *Window) Len(ch types.Channel) int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.buffers[ch])
}

// Capacity is the per-channel sample limit.
func (w *Window) Capacity() int {
	return w.capacity
}

// Channels returns the channels in the order they were first seen.
func (w *Window) Channels() []types.Channel {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]types.Channel, len(w.order))
	copy(out, w.order)
	return out
}
