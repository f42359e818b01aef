// Package eyesgame runs an eye engine in an Ebitengine window. The canvas is
// the logical screen, so Ebitengine scales it up to the window with nearest
// neighbour filtering and the pixels stay crisp.
package eyesgame

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	logxi "github.com/mgutz/logxi/v1"

	"github.com/phanxgames/boteyes"
	"github.com/phanxgames/boteyes/palette"
)

var logger = logxi.New("eyesgame")

// runeKeys maps keyboard keys to the runes boteyes.KeyStep understands.
var runeKeys = map[ebiten.Key]rune{
	ebiten.KeyDigit1: '1',
	ebiten.KeyDigit2: '2',
	ebiten.KeyDigit3: '3',
	ebiten.KeyDigit4: '4',
	ebiten.KeyO:      'o',
	ebiten.KeySpace:  ' ',
	ebiten.KeyC:      'c',
	ebiten.KeyU:      'u',
	ebiten.KeyS:      's',
	ebiten.KeyF:      'f',
	ebiten.KeyL:      'l',
	ebiten.KeyA:      'a',
	ebiten.KeyI:      'i',
}

// numpadGaze lays the compass out on the numeric keypad.
var numpadGaze = map[ebiten.Key]boteyes.Position{
	ebiten.KeyNumpad7: boteyes.PositionNorthWest,
	ebiten.KeyNumpad8: boteyes.PositionNorth,
	ebiten.KeyNumpad9: boteyes.PositionNorthEast,
	ebiten.KeyNumpad4: boteyes.PositionWest,
	ebiten.KeyNumpad5: boteyes.PositionCenter,
	ebiten.KeyNumpad6: boteyes.PositionEast,
	ebiten.KeyNumpad1: boteyes.PositionSouthWest,
	ebiten.KeyNumpad2: boteyes.PositionSouth,
	ebiten.KeyNumpad3: boteyes.PositionSouthEast,
}

var arrowKeys = []ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyArrowDown, ebiten.KeyArrowLeft, ebiten.KeyArrowRight}

// Game implements ebiten.Game for one engine.
type Game struct {
	engine  *boteyes.Engine
	canvas  *image.Gray
	rgba    *image.RGBA
	palette *palette.Palette

	tps   int
	frame uint64
	keys  []ebiten.Key

	// ShowFPS prints the frame rate in the top-left corner.
	ShowFPS bool
	// OnSnapshot is called with the current frame when P is pressed.
	OnSnapshot func(img *image.Gray)
}

// New creates a game for e drawn with p (white on black when nil).
func New(e *boteyes.Engine, p *palette.Palette) *Game {
	if p == nil {
		p = palette.Default()
	}
	w, h := e.Size()
	return &Game{
		engine:  e,
		canvas:  boteyes.NewCanvas(w, h),
		rgba:    image.NewRGBA(image.Rect(0, 0, w, h)),
		palette: p,
		tps:     ebiten.TPS(),
	}
}

// Canvas returns the grayscale frame of the last update.
func (g *Game) Canvas() *image.Gray {
	return g.canvas
}

// nowMs is the engine clock: one tick per Update at the configured TPS.
func (g *Game) nowMs() uint64 {
	tps := g.tps
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}
	return g.frame * 1000 / uint64(tps)
}

// step renders the next frame into the canvas and the colour buffer.
func (g *Game) step() error {
	if err := g.engine.Render(g.canvas, g.nowMs()); err != nil {
		return err
	}
	g.palette.ColorizeInto(g.rgba, g.canvas)
	g.frame++
	return nil
}

// handleKey applies a freshly pressed key. It returns true for quit.
func (g *Game) handleKey(k ebiten.Key) bool {
	switch k {
	case ebiten.KeyEscape, ebiten.KeyQ:
		return true
	case ebiten.KeyP:
		if g.OnSnapshot != nil {
			g.OnSnapshot(g.canvas)
		}
		return false
	}
	if p, ok := numpadGaze[k]; ok {
		g.apply(boteyes.GazeStep(p))
		return false
	}
	r, ok := runeKeys[k]
	if !ok {
		return false
	}
	if st, ok := boteyes.KeyStep(g.engine, r); ok {
		g.apply(st)
	}
	return false
}

// handleArrows points the gaze at the direction of the held arrow keys.
func (g *Game) handleArrows(up, down, left, right bool) {
	g.apply(boteyes.GazeStep(boteyes.GazeFromArrows(up, down, left, right)))
}

func (g *Game) apply(st boteyes.Step) {
	if err := boteyes.ApplyStep(g.engine, st); err != nil {
		logger.Warn("key", "action", st.Action, "err", err)
		return
	}
	logger.Debug("key", "action", st.Action)
}

// Update handles input and advances the engine one frame.
func (g *Game) Update() error {
	g.keys = inpututil.AppendJustPressedKeys(g.keys[:0])
	for _, k := range g.keys {
		if g.handleKey(k) {
			return ebiten.Termination
		}
	}

	arrowsChanged := false
	for _, k := range arrowKeys {
		if inpututil.IsKeyJustPressed(k) {
			arrowsChanged = true
		}
	}
	if arrowsChanged {
		g.handleArrows(
			ebiten.IsKeyPressed(ebiten.KeyArrowUp),
			ebiten.IsKeyPressed(ebiten.KeyArrowDown),
			ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
			ebiten.IsKeyPressed(ebiten.KeyArrowRight),
		)
	}

	return g.step()
}

// Draw copies the last frame to the screen.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.WritePixels(g.rgba.Pix)
	if g.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS %.0f", ebiten.ActualFPS()))
	}
}

// Layout fixes the logical screen to the canvas size.
func (g *Game) Layout(_, _ int) (int, int) {
	b := g.canvas.Bounds()
	return b.Dx(), b.Dy()
}

// Run opens a window scaled by scale and blocks until it closes.
func Run(g *Game, title string, scale int) error {
	w, h := g.Layout(0, 0)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(w*max(scale, 1), h*max(scale, 1))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(g)
}
