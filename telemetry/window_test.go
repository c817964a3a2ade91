package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-fieldwatch/types"
)

func TestWindow_LengthCapsAtCapacity(t *testing.T) {
	w := NewWindow(10, types.HeartRate, types.Oxygen, types.Temperature, types.BloodPressure)

	for i := 0; i < 25; i++ {
		for _, ch := range w.Channels() {
			w.Admit(ch, float64(i))
			if i < 10 {
				assert.Equal(t, i+1, w.Len(ch))
			} else {
				assert.Equal(t, 10, w.Len(ch))
			}
		}
	}
}

func TestWindow_FIFOEviction(t *testing.T) {
	w := NewWindow(10, types.HeartRate)
	for i := 0; i < 10; i++ {
		w.Admit(types.HeartRate, float64(i))
	}

	old := w.Snapshot(types.HeartRate)
	w.Admit(types.HeartRate, 42)

	want := append(append([]float64{}, old[1:]...), 42)
	assert.Equal(t, want, w.Snapshot(types.HeartRate))
}

func TestWindow_SnapshotIsIdempotentAndCopied(t *testing.T) {
	w := NewWindow(3, types.Oxygen)
	w.Admit(types.Oxygen, 91)
	w.Admit(types.Oxygen, 95)

	first := w.Snapshot(types.Oxygen)
	second := w.Snapshot(types.Oxygen)
	require.Equal(t, first, second)

	first[0] = -1
	assert.Equal(t, []float64{91, 95}, w.Snapshot(types.Oxygen))
}

func TestWindow_UnknownChannel(t *testing.T) {
	w := NewWindow(0)
	assert.Equal(t, DefaultCapacity, w.Capacity())
	assert.Empty(t, w.Snapshot(types.Vital))

	w.Admit(types.Vital, 70)
	assert.Equal(t, []types.Channel{types.Vital}, w.Channels())
	assert.Equal(t, []float64{70}, w.Snapshot(types.Vital))
}
