package refresh

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"go-fieldwatch/types"
)

const DefaultInterval = time.Second

// Advancer admits one round of samples and returns the recomputed view.
type Advancer interface {
	Advance() types.TelemetryView
}

// Listener receives every recomputed view, in tick order.
type Listener func(types.TelemetryView)

// Coordinator drives the periodic refresh. Ticks never overlap: a tick that
// fires while the previous one is still running is skipped.
type Coordinator struct {
	interval  time.Duration
	target    Advancer
	cron      *cron.Cron
	ticks     atomic.Uint64
	mu        sync.Mutex
	listeners []Listener
}

func NewCoordinator(interval time.Duration, target Advancer) *Coordinator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	logger := cron.PrintfLogger(&log.Logger)
	return &Coordinator{
		interval: interval,
		target:   target,
		cron:     cron.New(cron.WithLogger(logger), cron.WithChain(cron.SkipIfStillRunning(logger))),
	}
}

// Subscribe registers l for every future tick.
func (c *Coordinator) Subscribe(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// Tick runs one full refresh cycle synchronously.
func (c *Coordinator) Tick() types.TelemetryView {
	view := c.target.Advance()
	n := c.ticks.Add(1)
	log.Trace().Uint64("tick", n).Msg("telemetry refreshed")

	c.mu.Lock()
	listeners := append([]Listener(nil), c.listeners...)
	c.mu.Unlock()
	for _, l := range listeners {
		l(view)
	}
	return view
}

// Ticks is the number of completed ticks.
func (c *Coordinator) Ticks() uint64 {
	return c.ticks.Load()
}

func (c *Coordinator) Interval() time.Duration {
	return c.interval
}

// fixedDelay fires every d after the previous activation. cron's own
// "@every" rounds to whole seconds, which would lose sub-second periods.
type fixedDelay time.Duration

func (d fixedDelay) Next(t time.Time) time.Time {
	return t.Add(time.Duration(d))
}

// Start schedules the tick every interval.
func (c *Coordinator) Start() error {
	c.cron.Schedule(fixedDelay(c.interval), cron.FuncJob(func() { c.Tick() }))
	c.cron.Start()
	log.Info().Dur("interval", c.interval).Msg("refresh coordinator started")
	return nil
}

// Stop stops scheduling and waits for a running tick, or for ctx.
func (c *Coordinator) Stop(ctx context.Context) {
	done := c.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
	log.Info().Uint64("ticks", c.Ticks()).Msg("refresh coordinator stopped")
}
