// Package ledsink streams rendered frames to an LED matrix over Open Pixel
// Control, the protocol spoken by fadecandy and similar controllers.
//
// Each frame becomes one "set pixel colours" message:
//
//	channel | command 0 | length (uint16, big endian) | R G B R G B ...
//
// Frames identical to the previous one are not sent again.
package ledsink

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/cnf/structhash"

	"github.com/phanxgames/boteyes/palette"
)

const (
	headerLen   = 4
	cmdSetColor = 0
	maxPayload  = 0xFFFF
)

// ErrFrameTooLarge is returned when a frame does not fit one OPC message.
var ErrFrameTooLarge = errors.New("ledsink: frame exceeds one OPC message")

// Wiring is the order in which the strip snakes through the matrix.
type Wiring int

const (
	// RowMajor starts every row at the left edge.
	RowMajor Wiring = iota
	// Serpentine runs even rows left to right and odd rows right to left.
	Serpentine
)

func (w Wiring) String() string {
	if w == Serpentine {
		return "serpentine"
	}
	return "rows"
}

// ParseWiring accepts "rows" (or "row-major") and "serpentine" (or "snake").
func ParseWiring(s string) (Wiring, error) {
	switch strings.ToLower(s) {
	case "", "rows", "row-major":
		return RowMajor, nil
	case "serpentine", "snake":
		return Serpentine, nil
	}
	return RowMajor, fmt.Errorf("ledsink: unknown wiring %q", s)
}

// frame is what gets hashed to detect repeats.
type frame struct {
	Channel uint8
	Pix     []byte
}

// Sink writes frames to an OPC connection. It is not safe for concurrent use.
type Sink struct {
	w       io.Writer
	channel uint8
	wiring  Wiring
	palette *palette.Palette

	buf  []byte
	last []byte

	sent, skipped int
}

// New returns a sink writing to w on the given OPC channel (0 broadcasts).
// A nil palette means white on black.
func New(w io.Writer, channel uint8, wiring Wiring, p *palette.Palette) *Sink {
	if p == nil {
		p = palette.Default()
	}
	return &Sink{w: w, channel: channel, wiring: wiring, palette: p}
}

// Stats reports how many frames were written and how many were skipped as
// repeats.
func (s *Sink) Stats() (sent, skipped int) {
	return s.sent, s.skipped
}

// index maps a canvas pixel to its position along the strip.
func (s *Sink) index(x, y, w int) int {
	if s.wiring == Serpentine && y%2 == 1 {
		return y*w + (w - 1 - x)
	}
	return y*w + x
}

// Encode builds the OPC message for img. The returned slice is reused by
// the next call.
func (s *Sink) Encode(img *image.Gray) ([]byte, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	n := w * h * 3
	if n > maxPayload {
		return nil, fmt.Errorf("%w: %dx%d needs %d bytes", ErrFrameTooLarge, w, h, n)
	}
	if cap(s.buf) < headerLen+n {
		s.buf = make([]byte, headerLen+n)
	}
	msg := s.buf[:headerLen+n]
	msg[0] = s.channel
	msg[1] = cmdSetColor
	msg[2] = byte(n >> 8)
	msg[3] = byte(n)

	pix := msg[headerLen:]
	for y := 0; y < h; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):][:w]
		for x, v := range row {
			c := s.palette.At(v)
			i := s.index(x, y, w) * 3
			pix[i], pix[i+1], pix[i+2] = c.R, c.G, c.B
		}
	}
	return msg, nil
}

// Send writes img unless it matches the last frame sent. It reports whether
// a message went out.
func (s *Sink) Send(img *image.Gray) (bool, error) {
	msg, err := s.Encode(img)
	if err != nil {
		return false, err
	}
	hash := structhash.Md5(frame{Channel: s.channel, Pix: msg[headerLen:]}, 1)
	if s.last != nil && bytes.Equal(s.last, hash) {
		s.skipped++
		return false, nil
	}
	if _, err := s.w.Write(msg); err != nil {
		return false, fmt.Errorf("send frame: %w", err)
	}
	s.last = hash
	s.sent++
	return true, nil
}

// Reset forgets the last frame so the next Send always writes, e.g. after a
// reconnect.
func (s *Sink) Reset() {
	s.last = nil
}
