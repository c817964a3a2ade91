package telemetry

import (
	"math/rand"
	"sync"
	"time"

	"go-fieldwatch/types"
)

// Generator draws synthetic samples. It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator returns a generator seeded with seed, or with the clock when seed is 0.
func NewGenerator(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Next returns a value uniformly distributed in [spec.Min, spec.Max].
func (g *Generator) Next(spec types.ChannelSpec) float64 {
	g.mu.Lock()
	f := g.rng.Float64()
	g.mu.Unlock()

	lo, hi := spec.Min, spec.Max
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + f*(hi-lo)
}

// WarmUp fills every channel of w with capacity samples.
func WarmUp(w *Window, g *Generator, specs []types.ChannelSpec) {
	for i := 0; i < w.Capacity(); i++ {
		Advance(w, g, specs)
	}
}

// Advance draws one sample per channel and admits it, in table order.
func Advance(w *Window, g *Generator, specs []types.ChannelSpec) {
	for _, spec := range specs {
		w.Admit(spec.Channel, g.Next(spec))
	}
}
