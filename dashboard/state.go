package dashboard

import (
	"errors"
	"fmt"
	"sync"

	"go-fieldwatch/chat"
	"go-fieldwatch/markers"
	"go-fieldwatch/telemetry"
	"go-fieldwatch/types"
)

var ErrUnknownChannel = errors.New("unknown telemetry channel")

// Options configures a State.
type Options struct {
	Channels   []types.ChannelSpec
	WindowSize int
	Seed       int64
	Markers    markers.SeedConfig
}

// DefaultOptions is the four-channel, ten-marker dashboard with a clock seed.
func DefaultOptions() Options {
	return Options{
		Channels:   types.DefaultChannels,
		WindowSize: telemetry.DefaultCapacity,
		Markers:    markers.DefaultSeedConfig(),
	}
}

// State is the single owner of everything the dashboard shows. Writers are
// serialized by mu; each component also guards its own reads.
type State struct {
	mu        sync.Mutex
	specs     []types.ChannelSpec
	window    *telemetry.Window
	generator *telemetry.Generator
	registry  *markers.Registry
	chat      *chat.Log
	tick      uint64
}

// New builds the state and warms every channel up to a full window.
func New(opts Options) *State {
	if len(opts.Channels) == 0 {
		opts.Channels = types.DefaultChannels
	}
	channels := make([]types.Channel, 0, len(opts.Channels))
	for _, spec := range opts.Channels {
		channels = append(channels, spec.Channel)
	}
	if opts.Markers.Seed == 0 {
		opts.Markers.Seed = opts.Seed
	}

	s := &State{
		specs:     append([]types.ChannelSpec(nil), opts.Channels...),
		window:    telemetry.NewWindow(opts.WindowSize, channels...),
		generator: telemetry.NewGenerator(opts.Seed),
		registry:  markers.NewRegistry(markers.Generate(opts.Markers)),
		chat:      chat.NewLog(),
	}
	telemetry.WarmUp(s.window, s.generator, s.specs)
	return s
}

// Advance admits one fresh sample per channel and returns the recomputed
// telemetry view. Admission completes before the view is built.
func (s *State) Advance() types.TelemetryView {
	s.mu.Lock()
	defer s.mu.Unlock()

	telemetry.Advance(s.window, s.generator, s.specs)
	s.tick++
	return s.telemetryView()
}

func (s *State) Telemetry() types.TelemetryView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.telemetryView()
}

func (s *State) telemetryView() types.TelemetryView {
	view := types.TelemetryView{Tick: s.tick, Channels: make([]types.ChannelSeries, 0, len(s.specs))}
	for _, spec := range s.specs {
		view.Channels = append(view.Channels, s.series(spec))
	}
	return view
}

func (s *State) series(spec types.ChannelSpec) types.ChannelSeries {
	return types.ChannelSeries{
		Channel:    spec.Channel,
		Label:      spec.Label,
		Unit:       spec.Unit,
		Values:     s.window.Snapshot(spec.Channel),
		DisplayMin: spec.DisplayMin,
		DisplayMax: spec.DisplayMax,
	}
}

// Series returns the current window of one channel.
func (s *State) Series(ch types.Channel) (types.ChannelSeries, error) {
	for _, spec := range s.specs {
		if spec.Channel == ch {
			return s.series(spec), nil
		}
	}
	return types.ChannelSeries{}, fmt.Errorf("%w: %q", ErrUnknownChannel, ch)
}

// Click applies a click batch and returns the recomputed marker view.
func (s *State) Click(clicks []types.ClickCount) types.MarkerView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry.ApplyClicks(clicks)
	return s.registry.View()
}

func (s *State) Markers() types.MarkerView {
	return s.registry.View()
}

// Send appends a chat message. The bool is false when nothing changed.
func (s *State) Send(text string, sendCount int) (types.ChatView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines, ok := s.chat.Append(text, sendCount)
	return types.ChatView{Messages: lines}, ok
}

func (s *State) Chat() types.ChatView {
	return types.ChatView{Messages: s.chat.Render()}
}
