package markers

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go-fieldwatch/types"
)

// Labels is the pool marker labels are drawn from.
var Labels = []string{"John Doe", "Jane Smith", "Alex Johnson", "Chris Lee", "Taylor Brown"}

// SeedConfig controls how the startup marker set is generated.
type SeedConfig struct {
	Count  int
	Base   types.Coordinates
	Jitter float64
	Seed   int64
}

// DefaultSeedConfig centres the markers on downtown Los Angeles.
func DefaultSeedConfig() SeedConfig {
	return SeedConfig{
		Count:  10,
		Base:   types.Coordinates{Lat: 34.0522, Lon: -118.2437},
		Jitter: 0.03,
	}
}

// Generate builds the randomized startup markers.
func Generate(cfg SeedConfig) []types.Marker {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	jitter := func() float64 { return (rng.Float64()*2 - 1) * cfg.Jitter }

	markers := make([]types.Marker, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		markers = append(markers, types.Marker{
			ID:       fmt.Sprintf("marker_%d", i),
			Category: types.Categories[rng.Intn(len(types.Categories))],
			Label:    Labels[rng.Intn(len(Labels))],
			Coordinates: types.Coordinates{
				Lat: cfg.Base.Lat + jitter(),
				Lon: cfg.Base.Lon + jitter(),
			},
		})
	}
	return markers
}

// Registry holds the fixed marker set and the current selection.
type Registry struct {
	mu       sync.RWMutex
	markers  []types.Marker
	index    map[string]int
	selected string
}

// NewRegistry copies markers into a registry with nothing selected.
func NewRegistry(markers []types.Marker) *Registry {
	r := &Registry{
		markers: append([]types.Marker(nil), markers...),
		index:   make(map[string]int, len(markers)),
	}
	for i, m := range r.markers {
		r.index[m.ID] = i
	}
	return r
}

// Markers returns the markers in registration order.
func (r *Registry) Markers() []types.Marker {
	return append([]types.Marker(nil), r.markers...)
}

// Get looks a marker up by id.
func (r *Registry) Get(id string) (types.Marker, bool) {
	i, ok := r.index[id]
	if !ok {
		return types.Marker{}, false
	}
	return r.markers[i], true
}

// Selected returns the selected marker, if any.
func (r *Registry) Selected() (types.Marker, bool) {
	r.mu.RLock()
	id := r.selected
	r.mu.RUnlock()
	if id == "" {
		return types.Marker{}, false
	}
	return r.Get(id)
}

// Select points the selection at id. Ids that are not registered are rejected.
func (r *Registry) Select(id string) bool {
	if _, ok := r.index[id]; !ok {
		return false
	}
	r.mu.Lock()
	r.selected = id
	r.mu.Unlock()
	return true
}
