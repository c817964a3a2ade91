package stream

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Camera opens capture devices.
type Camera interface {
	Open(deviceIndex int) (Handle, error)
}

// Handle is an opened device. ReadFrame may block for as long as the device does.
type Handle interface {
	ReadFrame() (image.Image, error)
	Close() error
}

var ErrDeviceClosed = errors.New("camera device closed")

// SyntheticCamera renders a moving test pattern with a timestamp overlay.
type SyntheticCamera struct {
	Width  int
	Height int
	FPS    int
	Label  string
}

func NewSyntheticCamera(width, height, fps int) *SyntheticCamera {
	return &SyntheticCamera{Width: width, Height: height, FPS: fps, Label: "FIELD CAM"}
}

func (c *SyntheticCamera) Open(deviceIndex int) (Handle, error) {
	if deviceIndex < 0 {
		return nil, fmt.Errorf("open camera %d: no such device", deviceIndex)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return nil, fmt.Errorf("open camera %d: invalid size %dx%d", deviceIndex, c.Width, c.Height)
	}
	h := &syntheticHandle{cam: c, device: deviceIndex}
	if c.FPS > 0 {
		h.ticker = time.NewTicker(time.Second / time.Duration(c.FPS))
	}
	return h, nil
}

type syntheticHandle struct {
	mu     sync.Mutex
	cam    *SyntheticCamera
	device int
	ticker *time.Ticker
	frame  int
	closed bool
}

func (h *syntheticHandle) ReadFrame() (image.Image, error) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, ErrDeviceClosed
	}
	ticker := h.ticker
	n := h.frame
	h.frame++
	h.mu.Unlock()

	// pace like a real sensor would
	if ticker != nil {
		<-ticker.C
	}
	return h.render(n, time.Now()), nil
}

func (h *syntheticHandle) render(n int, now time.Time) image.Image {
	w, ht := h.cam.Width, h.cam.Height
	img := image.NewRGBA(image.Rect(0, 0, w, ht))

	// diagonal gradient that scrolls one step per frame
	for y := 0; y < ht; y++ {
		for x := 0; x < w; x++ {
			v := uint8((x + y + n*4) % 256)
			img.SetRGBA(x, y, color.RGBA{R: 16 + v/4, G: 32 + v/3, B: 38 + v/5, A: 255})
		}
	}

	bar := image.Rect(0, ht-20, w, ht)
	draw.Draw(img, bar, image.NewUniform(color.RGBA{R: 16, G: 32, B: 38, A: 255}), image.Point{}, draw.Src)

	text := fmt.Sprintf("%s %d  %s  #%d", h.cam.Label, h.device, now.Format("2006-01-02 15:04:05"), n)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{R: 0xEC, G: 0xF2, B: 0x2E, A: 255}),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(6), Y: fixed.I(ht - 6)},
	}
	d.DrawString(text)
	return img
}

func (h *syntheticHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	if h.ticker != nil {
		h.ticker.Stop()
	}
	return nil
}
