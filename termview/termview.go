// Package termview shows an eye engine in a terminal. Two canvas rows share
// one character cell using the upper half block: the foreground colour
// paints the upper pixel and the background colour the lower one.
package termview

import (
	"image"
	"time"

	"github.com/gdamore/tcell/v2"
	logxi "github.com/mgutz/logxi/v1"

	"github.com/phanxgames/boteyes"
	"github.com/phanxgames/boteyes/palette"
)

var logger = logxi.New("termview")

const upperHalf = '▀'

// Viewer renders an engine onto a tcell screen and feeds it keys.
type Viewer struct {
	screen  tcell.Screen
	engine  *boteyes.Engine
	canvas  *image.Gray
	palette *palette.Palette
	colors  [256]tcell.Color

	// FrameInterval is the render period used by Run.
	FrameInterval time.Duration
	// OnSnapshot is called with the current frame when 'p' is pressed.
	OnSnapshot func(img *image.Gray)
}

// New creates a viewer. The screen must already be initialised.
func New(screen tcell.Screen, e *boteyes.Engine, p *palette.Palette) *Viewer {
	if p == nil {
		p = palette.Default()
	}
	w, h := e.Size()
	v := &Viewer{
		screen:        screen,
		engine:        e,
		canvas:        boteyes.NewCanvas(w, h),
		palette:       p,
		FrameInterval: boteyes.DefaultFrameMs * time.Millisecond,
	}
	for i := range v.colors {
		c := p.At(uint8(i))
		v.colors[i] = tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	}
	return v
}

// Canvas returns the buffer the engine renders into.
func (v *Viewer) Canvas() *image.Gray {
	return v.canvas
}

// origin centres the canvas on the screen. Canvases larger than the screen
// are pinned to the top-left corner and clipped.
func (v *Viewer) origin() (x, y int) {
	sw, sh := v.screen.Size()
	b := v.canvas.Bounds()
	cols, rows := b.Dx(), (b.Dy()+1)/2
	return max(0, (sw-cols)/2), max(0, (sh-rows)/2)
}

// Draw copies the canvas to the screen without showing it.
func (v *Viewer) Draw() {
	ox, oy := v.origin()
	b := v.canvas.Bounds()
	w, h := b.Dx(), b.Dy()
	for y := 0; y < h; y += 2 {
		upper := v.canvas.Pix[y*v.canvas.Stride:]
		var lower []uint8
		if y+1 < h {
			lower = v.canvas.Pix[(y+1)*v.canvas.Stride:]
		}
		for x := 0; x < w; x++ {
			bg := v.colors[0]
			if lower != nil {
				bg = v.colors[lower[x]]
			}
			style := tcell.StyleDefault.Foreground(v.colors[upper[x]]).Background(bg)
			v.screen.SetContent(ox+x, oy+y/2, upperHalf, nil, style)
		}
	}
}

// Step renders the frame at nowMs and shows it.
func (v *Viewer) Step(nowMs uint64) error {
	if err := v.engine.Render(v.canvas, nowMs); err != nil {
		return err
	}
	v.Draw()
	v.screen.Show()
	return nil
}

var arrowGaze = map[tcell.Key]boteyes.Position{
	tcell.KeyUp:    boteyes.PositionNorth,
	tcell.KeyDown:  boteyes.PositionSouth,
	tcell.KeyLeft:  boteyes.PositionWest,
	tcell.KeyRight: boteyes.PositionEast,
	tcell.KeyHome:  boteyes.PositionNorthWest,
	tcell.KeyPgUp:  boteyes.PositionNorthEast,
	tcell.KeyEnd:   boteyes.PositionSouthWest,
	tcell.KeyPgDn:  boteyes.PositionSouthEast,
}

// HandleEvent applies a terminal event. It returns true when the viewer
// should quit (Esc, Ctrl-C or q).
func (v *Viewer) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return true
		}
		if p, ok := arrowGaze[ev.Key()]; ok {
			v.apply(boteyes.GazeStep(p))
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return false
		}
		switch ev.Rune() {
		case 'q', 'Q':
			return true
		case 'p', 'P':
			if v.OnSnapshot != nil {
				v.OnSnapshot(v.canvas)
			}
			return false
		}
		if st, ok := boteyes.KeyStep(v.engine, ev.Rune()); ok {
			v.apply(st)
		}
	case *tcell.EventResize:
		v.screen.Clear()
		v.screen.Sync()
	}
	return false
}

func (v *Viewer) apply(st boteyes.Step) {
	if err := boteyes.ApplyStep(v.engine, st); err != nil {
		logger.Warn("key", "action", st.Action, "err", err)
		return
	}
	logger.Debug("key", "action", st.Action)
}

// pollEvents forwards screen events until the screen is finalized or done
// is closed.
func (v *Viewer) pollEvents(events chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := v.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

// Run renders every FrameInterval until a quit key is pressed or stop is
// closed. The engine clock starts at zero when Run is called.
func (v *Viewer) Run(stop <-chan struct{}) error {
	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)
	go v.pollEvents(events, done)

	ticker := time.NewTicker(v.FrameInterval)
	defer ticker.Stop()
	start := time.Now()

	for {
		select {
		case ev := <-events:
			if v.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			if err := v.Step(uint64(time.Since(start).Milliseconds())); err != nil {
				return err
			}
		case <-stop:
			return nil
		}
	}
}
