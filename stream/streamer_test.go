package stream

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSensor = errors.New("sensor unplugged")

// flakyCamera fails on read number failOn (1-based). failOn 0 never fails.
type flakyCamera struct {
	failOn  int
	openErr error
	opened  atomic.Int32
	closed  atomic.Int32
}

func (c *flakyCamera) Open(int) (Handle, error) {
	if c.openErr != nil {
		return nil, c.openErr
	}
	c.opened.Add(1)
	return &flakyHandle{cam: c}, nil
}

type flakyHandle struct {
	cam   *flakyCamera
	reads int
}

func (h *flakyHandle) ReadFrame() (image.Image, error) {
	h.reads++
	if h.cam.failOn > 0 && h.reads >= h.cam.failOn {
		return nil, errSensor
	}
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	img.Set(1, 1, color.White)
	return img, nil
}

func (h *flakyHandle) Close() error {
	h.cam.closed.Add(1)
	return nil
}

func partPayloads(body []byte) [][]byte {
	marker := []byte("--frame\r\nContent-Type: image/jpeg\r\n\r\n")
	chunks := bytes.Split(body, marker)
	var out [][]byte
	for _, c := range chunks[1:] {
		out = append(out, bytes.TrimSuffix(c, []byte("\r\n")))
	}
	return out
}

func TestServe_EndsAfterNthReadFails(t *testing.T) {
	for _, n := range []int{1, 2, 5} {
		cam := &flakyCamera{failOn: n}
		s := NewStreamer(cam, 0, 75)

		var body bytes.Buffer
		sent, err := s.Serve(context.Background(), &body)

		require.ErrorIs(t, err, ErrAcquisition)
		require.ErrorIs(t, err, errSensor)
		assert.Equal(t, n-1, sent)

		parts := partPayloads(body.Bytes())
		require.Len(t, parts, n-1)
		for _, p := range parts {
			img, err := jpeg.Decode(bytes.NewReader(p))
			require.NoError(t, err)
			assert.Equal(t, 8, img.Bounds().Dx())
		}
		assert.Equal(t, int32(1), cam.closed.Load(), "handle released on failure")
	}
}

func TestServe_StopsWhenContextCancelled(t *testing.T) {
	cam := &flakyCamera{}
	s := NewStreamer(cam, 0, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var body bytes.Buffer
	sent, err := s.Serve(ctx, &body)
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, body.Bytes())
	assert.Equal(t, int32(1), cam.closed.Load())
}

func TestOpen_CameraIsExclusive(t *testing.T) {
	s := NewStreamer(&flakyCamera{}, 0, 80)

	first, err := s.Open()
	require.NoError(t, err)

	_, err = s.Open()
	require.ErrorIs(t, err, ErrCameraBusy)

	_, err = s.Snapshot()
	require.ErrorIs(t, err, ErrCameraBusy)

	require.NoError(t, first.Close())
	require.NoError(t, first.Close())

	second, err := s.Open()
	require.NoError(t, err)
	second.Close()
}

func TestOpen_DeviceFailureReleasesOwnership(t *testing.T) {
	cam := &flakyCamera{openErr: errors.New("no device")}
	s := NewStreamer(cam, 3, 80)

	_, err := s.Open()
	require.ErrorIs(t, err, ErrAcquisition)

	cam.openErr = nil
	st, err := s.Open()
	require.NoError(t, err)
	st.Close()
}

func TestStream_NextAfterFailureAndClose(t *testing.T) {
	s := NewStreamer(&flakyCamera{failOn: 2}, 0, 80)
	st, err := s.Open()
	require.NoError(t, err)

	f, err := st.Next()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), f.Seq)
	assert.NotEmpty(t, f.Data)

	_, err = st.Next()
	require.ErrorIs(t, err, ErrAcquisition)
	_, again := st.Next()
	assert.Equal(t, err, again, "failure is permanent")

	st2, err := s.Open()
	require.NoError(t, err, "failed stream gave the camera back")
	st2.Close()
	_, err = st2.Next()
	assert.ErrorIs(t, err, ErrStreamClosed)
}

func TestSnapshot(t *testing.T) {
	cam := &flakyCamera{}
	s := NewStreamer(cam, 0, 90)

	f, err := s.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 8, f.Width)
	assert.Equal(t, 6, f.Height)
	_, err = jpeg.Decode(bytes.NewReader(f.Data))
	require.NoError(t, err)
	assert.Equal(t, int32(1), cam.closed.Load())
}

func TestSyntheticCamera(t *testing.T) {
	cam := NewSyntheticCamera(64, 48, 0)
	h, err := cam.Open(0)
	require.NoError(t, err)

	img, err := h.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 48), img.Bounds())

	require.NoError(t, h.Close())
	_, err = h.ReadFrame()
	assert.ErrorIs(t, err, ErrDeviceClosed)

	_, err = cam.Open(-1)
	assert.Error(t, err)
}
