package dashboard

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-fieldwatch/markers"
	"go-fieldwatch/telemetry"
	"go-fieldwatch/types"
)

func testOptions() Options {
	opts := DefaultOptions()
	opts.Seed = 2024
	return opts
}

func TestNew_WarmsUpEveryChannel(t *testing.T) {
	s := New(testOptions())

	view := s.Telemetry()
	assert.Zero(t, view.Tick)
	require.Len(t, view.Channels, 4)
	for _, ch := range view.Channels {
		assert.Len(t, ch.Values, 10, ch.Channel)
	}
}

func TestAdvance_FiveTicks(t *testing.T) {
	opts := testOptions()
	s := New(opts)

	// mirror the draw order: warm-up first, then one draw per channel per tick
	ref := telemetry.NewGenerator(opts.Seed)
	for i := 0; i < opts.WindowSize; i++ {
		for _, spec := range opts.Channels {
			ref.Next(spec)
		}
	}

	want := map[types.Channel][]float64{}
	var view types.TelemetryView
	for i := 0; i < 5; i++ {
		view = s.Advance()
		for _, spec := range opts.Channels {
			want[spec.Channel] = append(want[spec.Channel], ref.Next(spec))
		}
	}

	assert.Equal(t, uint64(5), view.Tick)
	for _, ch := range view.Channels {
		require.Len(t, ch.Values, 10)
		assert.Equal(t, want[ch.Channel], ch.Values[5:])
	}
}

func TestSeries(t *testing.T) {
	s := New(testOptions())

	series, err := s.Series(types.Oxygen)
	require.NoError(t, err)
	assert.Equal(t, "%", series.Unit)
	for _, v := range series.Values {
		assert.GreaterOrEqual(t, v, 90.0)
		assert.LessOrEqual(t, v, 100.0)
	}

	_, err = s.Series(types.Vital)
	assert.ErrorIs(t, err, ErrUnknownChannel)
}

func TestSeries_VitalChannel(t *testing.T) {
	opts := testOptions()
	opts.Channels = append(append([]types.ChannelSpec(nil), types.DefaultChannels...), types.VitalChannel)
	s := New(opts)

	series, err := s.Series(types.Vital)
	require.NoError(t, err)
	assert.Len(t, series.Values, 10)
	assert.Equal(t, 50.0, series.DisplayMin)
	assert.Equal(t, 120.0, series.DisplayMax)
	assert.Len(t, s.Advance().Channels, 5)

	var buf bytes.Buffer
	require.NoError(t, RenderChart(&buf, series))
	assert.NotZero(t, buf.Len())
}

func TestClickAndChat(t *testing.T) {
	s := New(testOptions())

	view := s.Markers()
	assert.Equal(t, markers.Placeholder, view.Detail.Placeholder)

	second := view.Markers[1].ID
	view = s.Click([]types.ClickCount{{ID: view.Markers[0].ID, Count: 0}, {ID: second, Count: 1}})
	assert.True(t, view.Detail.Selected)
	assert.True(t, view.Markers[1].Highlighted)

	_, changed := s.Send("", 1)
	assert.False(t, changed)
	chat, changed := s.Send("hello", 1)
	assert.True(t, changed)
	assert.Equal(t, []string{"User: hello", "Bot: You said 'hello'"}, chat.Messages)
	assert.Equal(t, chat, s.Chat())
}

func TestRenderChart(t *testing.T) {
	s := New(testOptions())
	series, err := s.Series(types.HeartRate)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderChart(&buf, series))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, ChartWidth, img.Bounds().Dx())
	assert.Equal(t, ChartHeight, img.Bounds().Dy())
}

func TestRenderChart_TooFewSamples(t *testing.T) {
	err := RenderChart(&bytes.Buffer{}, types.ChannelSeries{Channel: types.Vital, Values: []float64{70}})
	assert.ErrorIs(t, err, ErrNotEnoughSamples)
}
