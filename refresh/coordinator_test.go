package refresh

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-fieldwatch/dashboard"
	"go-fieldwatch/types"
)

type countingAdvancer struct {
	mu    sync.Mutex
	calls uint64
}

func (a *countingAdvancer) Advance() types.TelemetryView {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	return types.TelemetryView{Tick: a.calls}
}

func TestTick_NotifiesListenersInOrder(t *testing.T) {
	c := NewCoordinator(0, &countingAdvancer{})
	assert.Equal(t, DefaultInterval, c.Interval())

	var seen []uint64
	c.Subscribe(func(v types.TelemetryView) { seen = append(seen, v.Tick) })

	for i := 0; i < 3; i++ {
		c.Tick()
	}
	assert.Equal(t, []uint64{1, 2, 3}, seen)
	assert.Equal(t, uint64(3), c.Ticks())
}

func TestTick_WithDashboardState(t *testing.T) {
	opts := dashboard.DefaultOptions()
	opts.Seed = 11
	state := dashboard.New(opts)
	c := NewCoordinator(time.Second, state)

	var last types.TelemetryView
	c.Subscribe(func(v types.TelemetryView) { last = v })
	for i := 0; i < 5; i++ {
		c.Tick()
	}

	assert.Equal(t, uint64(5), last.Tick)
	require.Len(t, last.Channels, 4)
	for _, ch := range last.Channels {
		assert.Len(t, ch.Values, 10)
	}
}

func TestStartStop(t *testing.T) {
	adv := &countingAdvancer{}
	c := NewCoordinator(time.Second, adv)
	require.NoError(t, c.Start())

	require.Eventually(t, func() bool { return c.Ticks() >= 1 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	c.Stop(ctx)

	stopped := c.Ticks()
	time.Sleep(1200 * time.Millisecond)
	assert.Equal(t, stopped, c.Ticks())
}

func TestStart_HonoursSubSecondInterval(t *testing.T) {
	adv := &countingAdvancer{}
	c := NewCoordinator(100*time.Millisecond, adv)
	require.NoError(t, c.Start())

	time.Sleep(time.Second)
	<-c.cron.Stop().Done()

	// whole-second rounding would give a single tick here
	assert.GreaterOrEqual(t, c.Ticks(), uint64(6))
	assert.LessOrEqual(t, c.Ticks(), uint64(11))
}

func TestFixedDelay_Next(t *testing.T) {
	base := time.Date(2026, 10, 18, 9, 30, 0, 123_000_000, time.UTC)
	assert.Equal(t, base.Add(250*time.Millisecond), fixedDelay(250*time.Millisecond).Next(base))
	assert.Equal(t, base.Add(1500*time.Millisecond), fixedDelay(1500*time.Millisecond).Next(base))
}

type blockingAdvancer struct {
	started  chan struct{}
	release  chan struct{}
	calls    atomic.Int32
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (a *blockingAdvancer) Advance() types.TelemetryView {
	n := a.inFlight.Add(1)
	defer a.inFlight.Add(-1)
	for {
		seen := a.maxSeen.Load()
		if n <= seen || a.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	if a.calls.Add(1) == 1 {
		close(a.started)
	}
	<-a.release
	return types.TelemetryView{}
}

func TestStart_SkipsTicksWhileOneIsRunning(t *testing.T) {
	adv := &blockingAdvancer{started: make(chan struct{}), release: make(chan struct{})}
	c := NewCoordinator(20*time.Millisecond, adv)
	require.NoError(t, c.Start())

	select {
	case <-adv.started:
	case <-time.After(2 * time.Second):
		t.Fatal("first tick never ran")
	}
	// roughly ten more firings land while the first tick is blocked
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), adv.calls.Load())

	// stop scheduling before letting the blocked tick finish; a queued
	// firing would still run once released and show up in calls
	done := c.cron.Stop()
	close(adv.release)
	select {
	case <-done.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("running tick did not finish")
	}

	assert.Equal(t, int32(1), adv.calls.Load(), "overlapping firings are dropped, not queued")
	assert.Equal(t, int32(1), adv.maxSeen.Load())
	assert.Equal(t, uint64(1), c.Ticks())
}
