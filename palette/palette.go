// Package palette maps the engine's grayscale intensities onto display
// colours. Monochrome OLEDs come in white, blue, yellow and amber; a Palette
// is a 256-entry lookup table blended in Lab space between a background and
// a foreground colour.
package palette

import (
	"fmt"
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette is a lookup table from intensity to colour.
type Palette struct {
	lut [256]color.RGBA
}

// Presets by name.
var presets = map[string][2]string{
	"white": {"#000000", "#FFFFFF"},
	"blue":  {"#00040A", "#3FA9F5"},
	"amber": {"#0A0500", "#FFB000"},
	"green": {"#0A3306", "#36FF1F"},
	"paper": {"#F4F1E8", "#1B1B1B"},
}

// New blends bg (intensity 0) into fg (intensity 255).
func New(bg, fg colorful.Color) *Palette {
	p := &Palette{}
	for i := range p.lut {
		r, g, b := bg.BlendLab(fg, float64(i)/255).Clamped().RGB255()
		p.lut[i] = color.RGBA{R: r, G: g, B: b, A: 0xff}
	}
	// Endpoints skip the Lab round trip.
	p.lut[0] = rgba(bg)
	p.lut[255] = rgba(fg)
	return p
}

func rgba(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// FromHex builds a palette from two "#rrggbb" colours.
func FromHex(bg, fg string) (*Palette, error) {
	c1, err := colorful.Hex(bg)
	if err != nil {
		return nil, fmt.Errorf("background %q: %w", bg, err)
	}
	c2, err := colorful.Hex(fg)
	if err != nil {
		return nil, fmt.Errorf("foreground %q: %w", fg, err)
	}
	return New(c1, c2), nil
}

// Preset returns a named palette: white, blue, amber, green or paper.
func Preset(name string) (*Palette, error) {
	c, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown palette %q", name)
	}
	return FromHex(c[0], c[1])
}

// Names lists the preset names.
func Names() []string {
	return []string{"white", "blue", "amber", "green", "paper"}
}

// Default is the white-on-black palette of a plain SSD1306.
func Default() *Palette {
	p, _ := Preset("white")
	return p
}

// At returns the colour for intensity v.
func (p *Palette) At(v uint8) color.RGBA {
	return p.lut[v]
}

// Colorize returns an RGBA copy of src with every pixel mapped through p.
func (p *Palette) Colorize(src *image.Gray) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	p.ColorizeInto(dst, src)
	return dst
}

// ColorizeInto writes src mapped through p into dst. Both images are read
// from their bounds' origin; the overlapping area is converted.
func (p *Palette) ColorizeInto(dst *image.RGBA, src *image.Gray) {
	sb, db := src.Bounds(), dst.Bounds()
	w, h := min(sb.Dx(), db.Dx()), min(sb.Dy(), db.Dy())
	for y := 0; y < h; y++ {
		srow := src.Pix[y*src.Stride:]
		drow := dst.Pix[y*dst.Stride:]
		for x := 0; x < w; x++ {
			c := p.lut[srow[x]]
			i := x * 4
			drow[i], drow[i+1], drow[i+2], drow[i+3] = c.R, c.G, c.B, c.A
		}
	}
}
