package stream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/jpeg"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

const (
	Boundary    = "frame"
	ContentType = "multipart/x-mixed-replace; boundary=" + Boundary
)

var (
	ErrCameraBusy   = errors.New("camera is owned by another stream")
	ErrAcquisition  = errors.New("frame acquisition failed")
	ErrStreamClosed = errors.New("stream closed")
)

// Frame is one JPEG-encoded image. It is handed off and never kept.
type Frame struct {
	Seq       uint64
	Timestamp time.Time
	Width     int
	Height    int
	Data      []byte
}

// Streamer owns the camera device and hands it to one stream at a time.
type Streamer struct {
	camera  Camera
	device  int
	quality int
	owner   *semaphore.Weighted
}

func NewStreamer(camera Camera, deviceIndex, jpegQuality int) *Streamer {
	if jpegQuality <= 0 || jpegQuality > 100 {
		jpegQuality = jpeg.DefaultQuality
	}
	return &Streamer{
		camera:  camera,
		device:  deviceIndex,
		quality: jpegQuality,
		owner:   semaphore.NewWeighted(1),
	}
}

// Open takes ownership of the camera. The caller must Close the stream.
func (s *Streamer) Open() (*Stream, error) {
	if !s.owner.TryAcquire(1) {
		return nil, ErrCameraBusy
	}
	h, err := s.camera.Open(s.device)
	if err != nil {
		s.owner.Release(1)
		return nil, fmt.Errorf("open device %d: %w: %w", s.device, ErrAcquisition, err)
	}
	st := &Stream{
		ID:      uuid.NewString(),
		handle:  h,
		quality: s.quality,
		release: func() { s.owner.Release(1) },
	}
	log.Debug().Str("stream", st.ID).Int("device", s.device).Msg("camera stream opened")
	return st, nil
}

// Snapshot grabs a single frame and releases the camera again.
func (s *Streamer) Snapshot() (Frame, error) {
	st, err := s.Open()
	if err != nil {
		return Frame{}, err
	}
	defer st.Close()
	return st.Next()
}

// Serve opens a stream and pipes it to w. See Pipe.
func (s *Streamer) Serve(ctx context.Context, w io.Writer) (int, error) {
	st, err := s.Open()
	if err != nil {
		return 0, err
	}
	return Pipe(ctx, st, w)
}

// Pipe writes frames from st to w as multipart parts until ctx is done or the
// camera fails, then closes st. It returns the number of parts written. A
// camera failure ends the stream for good and is returned wrapped in
// ErrAcquisition.
func Pipe(ctx context.Context, st *Stream, w io.Writer) (int, error) {
	defer st.Close()

	mw := multipart.NewWriter(w)
	if err := mw.SetBoundary(Boundary); err != nil {
		return 0, err
	}
	flusher, _ := w.(http.Flusher)

	sent := 0
	for {
		if ctx.Err() != nil {
			log.Debug().Str("stream", st.ID).Int("frames", sent).Msg("client stopped pulling")
			return sent, nil
		}
		frame, err := st.Next()
		if err != nil {
			log.Error().Err(err).Str("stream", st.ID).Int("frames", sent).Msg("camera stream terminated")
			return sent, err
		}
		if err := WritePart(mw, frame); err != nil {
			return sent, fmt.Errorf("write frame %d: %w", frame.Seq, err)
		}
		sent++
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// WritePart writes frame as one image/jpeg part.
func WritePart(mw *multipart.Writer, frame Frame) error {
	part, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {"image/jpeg"}})
	if err != nil {
		return err
	}
	_, err = part.Write(frame.Data)
	return err
}

// Stream is a pull-based frame sequence over an owned camera handle.
// It is not safe for concurrent use.
type Stream struct {
	ID      string
	handle  Handle
	quality int
	release func()
	seq     uint64
	err     error
	once    sync.Once
}

// Next acquires and encodes one frame. After the first error every call
// returns that same error.
func (st *Stream) Next() (Frame, error) {
	if st.err != nil {
		return Frame{}, st.err
	}

	img, err := st.handle.ReadFrame()
	if err != nil {
		st.err = fmt.Errorf("stream %s: %w: %w", st.ID, ErrAcquisition, err)
		st.Close()
		return Frame{}, st.err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: st.quality}); err != nil {
		st.err = fmt.Errorf("stream %s: encode frame: %w", st.ID, err)
		st.Close()
		return Frame{}, st.err
	}

	st.seq++
	b := img.Bounds()
	return Frame{
		Seq:       st.seq,
		Timestamp: time.Now().UTC(),
		Width:     b.Dx(),
		Height:    b.Dy(),
		Data:      buf.Bytes(),
	}, nil
}

// Close releases the device. It is idempotent.
func (st *Stream) Close() error {
	var err error
	st.once.Do(func() {
		err = st.handle.Close()
		st.release()
		if st.err == nil {
			st.err = ErrStreamClosed
		}
		log.Debug().Str("stream", st.ID).Uint64("frames", st.seq).Msg("camera stream closed")
	})
	return err
}
