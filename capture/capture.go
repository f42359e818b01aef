// Package capture writes rendered frames to disk: PNG images for people and
// SSD1306 page dumps for firmware.
package capture

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Dir saves labelled frames into a directory, creating it on first use.
type Dir struct {
	Path string
	// Timestamp prefixes file names with the capture time so repeated runs
	// don't overwrite each other.
	Timestamp bool

	now func() time.Time
}

// NewDir returns a Dir writing into path.
func NewDir(path string, timestamp bool) *Dir {
	return &Dir{Path: path, Timestamp: timestamp, now: time.Now}
}

func (d *Dir) name(label, ext string) string {
	safe := SanitizeLabel(label)
	if d.Timestamp {
		now := time.Now
		if d.now != nil {
			now = d.now
		}
		safe = now().Format("20060102_150405") + "_" + safe
	}
	return filepath.Join(d.Path, safe+ext)
}

// SavePNG encodes img as <label>.png and returns the written path.
func (d *Dir) SavePNG(label string, img image.Image) (string, error) {
	if err := os.MkdirAll(d.Path, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", d.Path, err)
	}
	path := d.name(label, ".png")
	return path, WritePNG(path, img)
}

// SavePages writes the SSD1306 page layout of img as <label>.bin and
// returns the written path.
func (d *Dir) SavePages(label string, img *image.Gray) (string, error) {
	if err := os.MkdirAll(d.Path, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", d.Path, err)
	}
	path := d.name(label, ".bin")
	if err := os.WriteFile(path, PackPages(img), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// WritePNG encodes img to path. The image goes to a temporary file in the
// same directory first, so anything watching the directory never reads a
// half-written frame.
func WritePNG(path string, img image.Image) error {
	f, err := os.CreateTemp(filepath.Dir(path), ".frame-*.png")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	tmp := f.Name()
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// SanitizeLabel turns a snapshot label into a file name stem: lower-case
// ASCII letters, digits, dashes and dots, with every other run of
// characters folded into a single underscore. Leading and trailing
// separators are dropped so a label can never name a hidden file or climb
// out of the capture directory. An empty result becomes "frame".
func SanitizeLabel(label string) string {
	var b strings.Builder
	b.Grow(len(label))
	pending := false
	for _, r := range strings.ToLower(label) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '.':
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
		default:
			pending = true
		}
	}
	stem := strings.Trim(b.String(), "._-")
	if stem == "" {
		return "frame"
	}
	return stem
}

// Threshold is the intensity at or above which a pixel is lit on a 1-bit
// display.
const Threshold = 128

// PackPages converts img to the SSD1306 GDDRAM layout: the screen is cut
// into pages of 8 rows and each page is sent as one byte per column, least
// significant bit at the top. A height that is not a multiple of 8 pads the
// last page with unlit bits.
func PackPages(img *image.Gray) []byte {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	pages := (h + 7) / 8
	out := make([]byte, w*pages)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride:]
		page, bit := y/8, byte(1)<<(y%8)
		for x := 0; x < w; x++ {
			if row[x] >= Threshold {
				out[page*w+x] |= bit
			}
		}
	}
	return out
}

// UnpackPages is the inverse of PackPages for a width x height screen.
func UnpackPages(data []byte, width, height int) (*image.Gray, error) {
	pages := (height + 7) / 8
	if len(data) != width*pages {
		return nil, fmt.Errorf("page data is %d bytes, want %d for %dx%d", len(data), width*pages, width, height)
	}
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		page, bit := y/8, byte(1)<<(y%8)
		for x := 0; x < width; x++ {
			if data[page*width+x]&bit != 0 {
				img.Pix[y*img.Stride+x] = 255
			}
		}
	}
	return img, nil
}
