package boteyes

import (
	"errors"
	"fmt"
	"image"
	"math/rand/v2"
	"time"

	"github.com/tanema/gween/ease"
)

// ErrCanvasSize is returned by Render when the destination buffer does not
// match the engine's screen size. Nothing is drawn in that case.
var ErrCanvasSize = errors.New("boteyes: canvas size mismatch")

// Defaults for a freshly created engine.
const (
	DefaultEyeWidth     = 36
	DefaultEyeHeight    = 36
	DefaultBorderRadius = 8
	DefaultSpaceBetween = 10
)

const (
	closedHeight      = 1  // eye height target while closing
	curiousOffset     = 8  // height boost when gazing at an edge
	curiousEdgeMargin = 10 // px from the edge that counts as "at the edge"
	confusedAmplitude = 20
	laughAmplitude    = 5
)

// Rand is the source of randomness used for timer jitter, idle targets and
// sweat placement. *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// randN returns a value in [0, n), or 0 when n <= 0.
func randN(rng Rand, n int) int {
	if n <= 0 {
		return 0
	}
	return rng.IntN(n)
}

// eye is the animated state of one eye.
type eye struct {
	geo          EyeGeometry // Height is the open (default) height
	x, y         Tweened
	height       Tweened
	heightOffset int // curious-mode boost
	open         bool
}

// IdleConfig controls idle drift.
type IdleConfig struct {
	XRangePct int // share of the horizontal movement range used, 0-100
	YRangePct int // share of the vertical movement range used, 0-100
	// LegacyVertical draws the vertical target from the horizontal range.
	// Only useful for pixel parity with older firmware recordings.
	LegacyVertical bool
}

// Engine animates and renders one pair of eyes. It is not safe for
// concurrent use; give each goroutine its own engine.
type Engine struct {
	width, height int

	mood    Mood
	left    eye
	right   eye
	space   Tweened
	lids    eyelids
	cyclops bool
	curious bool
	sweat   bool

	blink    Timer
	idle     Timer
	idleCfg  IdleConfig
	hFlicker Flicker
	vFlicker Flicker
	confused Pulse
	laugh    Pulse
	drops    sweatDrops
	fade     Fade

	rng  Rand
	sink EventSink

	debug    bool
	rendered bool
	lastMs   uint64
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithRand sets the random source.
func WithRand(r Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithSeed uses a PCG generator seeded with seed.
func WithSeed(seed uint64) Option {
	return func(e *Engine) { e.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

// WithEventSink sets the receiver of scheduler events.
func WithEventSink(s EventSink) Option {
	return func(e *Engine) { e.sink = s }
}

// New creates an engine for a screenWidth x screenHeight canvas with eyes
// centred, closed (height 1) and heading toward fully open.
func New(screenWidth, screenHeight int, opts ...Option) *Engine {
	e := &Engine{
		width:  screenWidth,
		height: screenHeight,
		blink:  Timer{Interval: 1, Variation: 4},
		idle:   Timer{Interval: 1, Variation: 3},
		idleCfg: IdleConfig{
			XRangePct: 100,
			YRangePct: 100,
		},
		hFlicker: Flicker{Amplitude: 2},
		vFlicker: Flicker{Amplitude: 10},
		confused: Pulse{Duration: pulseDuration},
		laugh:    Pulse{Duration: pulseDuration},
		fade:     newFade(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		seed := uint64(time.Now().UnixNano())
		e.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}

	geo := EyeGeometry{Width: DefaultEyeWidth, Height: DefaultEyeHeight, Radius: DefaultBorderRadius}
	e.left.geo, e.right.geo = geo, geo
	e.space.Set(DefaultSpaceBetween)

	lx := (screenWidth - 2*DefaultEyeWidth - DefaultSpaceBetween) / 2
	ly := (screenHeight - DefaultEyeHeight) / 2
	e.left.x.Set(lx)
	e.left.y.Set(ly)
	e.right.x.Set(0)
	e.right.y.Set(ly)
	for _, ey := range []*eye{&e.left, &e.right} {
		ey.height = Tweened{Cur: closedHeight, Next: DefaultEyeHeight}
	}

	e.drops = newSweatDrops(screenWidth, e.rng)
	return e
}

// Size returns the screen size the engine renders at.
func (e *Engine) Size() (width, height int) {
	return e.width, e.height
}

// SetMood selects the eyelid overlay. The overlay tweens in over the next
// frames.
func (e *Engine) SetMood(m Mood) {
	e.mood = m
}

// Mood returns the active mood.
func (e *Engine) Mood() Mood {
	return e.mood
}

// SetSize sets the width and open height of both eyes.
func (e *Engine) SetSize(width, height int) {
	for _, ey := range []*eye{&e.left, &e.right} {
		ey.geo.Width = width
		ey.geo.Height = height
		ey.height.Next = height
	}
}

// SetBorderRadius sets the corner radius of the left and right eye. The new
// radii apply immediately.
func (e *Engine) SetBorderRadius(left, right int) {
	e.left.geo.Radius = left
	e.right.geo.Radius = right
}

// SetSpaceBetween sets the horizontal gap between the eyes.
func (e *Engine) SetSpaceBetween(space int) {
	e.space.Set(space)
}

// maxX is the largest left-eye x that keeps the whole face on screen. A
// single eye only needs room for itself.
func (e *Engine) maxX() int {
	if e.cyclops {
		return e.width - e.left.geo.Width
	}
	return e.width - e.left.geo.Width - e.space.Cur - e.right.geo.Width
}

// maxY is the largest left-eye y that keeps the eye on screen.
func (e *Engine) maxY() int {
	return e.height - e.left.geo.Height
}

// SetPosition points the gaze in a direction.
func (e *Engine) SetPosition(p Position) {
	e.left.x.Next, e.left.y.Next = p.target(e.maxX(), e.maxY())
}

// SetCyclops switches single-eye mode.
func (e *Engine) SetCyclops(enabled bool) {
	e.cyclops = enabled
}

// Cyclops reports whether single-eye mode is on.
func (e *Engine) Cyclops() bool {
	return e.cyclops
}

// SetCuriosity switches curious mode: eyes grow while looking at an edge.
func (e *Engine) SetCuriosity(enabled bool) {
	e.curious = enabled
}

// Curious reports whether curious mode is on.
func (e *Engine) Curious() bool {
	return e.curious
}

// SetSweat switches the sweat drop animation.
func (e *Engine) SetSweat(enabled bool) {
	e.sweat = enabled
}

// Sweat reports whether sweat drops are drawn.
func (e *Engine) Sweat() bool {
	return e.sweat
}

// Open opens both eyes.
func (e *Engine) Open() {
	e.OpenEyes(true, true)
}

// Close closes both eyes and keeps them closed.
func (e *Engine) Close() {
	for _, ey := range []*eye{&e.left, &e.right} {
		ey.height.Next = closedHeight
		ey.open = false
	}
}

// Blink closes both eyes and reopens them once they are shut.
func (e *Engine) Blink() {
	e.BlinkEyes(true, true)
}

// BlinkEyes blinks the selected eyes.
func (e *Engine) BlinkEyes(left, right bool) {
	if left {
		e.left.height.Next = closedHeight
		e.left.open = false
	}
	if right {
		e.right.height.Next = closedHeight
		e.right.open = false
	}
	e.OpenEyes(left, right)
}

// OpenEyes marks the selected eyes as open. An open eye that has reached
// its closed height heads back to its default height.
func (e *Engine) OpenEyes(left, right bool) {
	if left {
		e.left.open = true
	}
	if right {
		e.right.open = true
	}
}

// TriggerConfused starts a 500 ms horizontal shake.
func (e *Engine) TriggerConfused() {
	e.confused.Trigger()
}

// TriggerLaugh starts a 500 ms vertical bounce.
func (e *Engine) TriggerLaugh() {
	e.laugh.Trigger()
}

// SetAutoblink configures the auto-blinker. Blinks happen every interval
// plus a random share of variation, both in seconds.
func (e *Engine) SetAutoblink(enabled bool, intervalS, variationS int) {
	e.blink.Enabled = enabled
	e.blink.Interval = intervalS
	e.blink.Variation = variationS
}

// SetIdle configures idle drift. Gaze targets are drawn from an envelope
// centred on the movement range covering xRangePct / yRangePct percent of
// it.
func (e *Engine) SetIdle(enabled bool, intervalS, variationS, xRangePct, yRangePct int) {
	e.idle.Enabled = enabled
	e.idle.Interval = intervalS
	e.idle.Variation = variationS
	e.idleCfg.XRangePct = min(max(xRangePct, 0), 100)
	e.idleCfg.YRangePct = min(max(yRangePct, 0), 100)
}

// SetIdleLegacyVertical makes idle drift draw vertical targets from the
// horizontal range. See IdleConfig.LegacyVertical.
func (e *Engine) SetIdleLegacyVertical(enabled bool) {
	e.idleCfg.LegacyVertical = enabled
}

// SetHFlicker sets a continuous horizontal jitter.
func (e *Engine) SetHFlicker(enabled bool, amplitude int) {
	e.hFlicker.Enabled = enabled
	e.hFlicker.Amplitude = amplitude
}

// SetVFlicker sets a continuous vertical jitter.
func (e *Engine) SetVFlicker(enabled bool, amplitude int) {
	e.vFlicker.Enabled = enabled
	e.vFlicker.Amplitude = amplitude
}

// FadeTo tweens the foreground intensity to level over d using fn (linear
// when nil). The fade advances with the frame clock passed to Render.
func (e *Engine) FadeTo(level uint8, d time.Duration, fn ease.TweenFunc) {
	e.fade.start(level, d, fn)
}

// Brightness returns the intensity eyes are currently drawn with.
func (e *Engine) Brightness() uint8 {
	return e.fade.Level()
}

// EyeHeights returns the current height of the left and right eye.
func (e *Engine) EyeHeights() (left, right int) {
	return e.left.height.Cur, e.right.height.Cur
}

// LeftEye returns the rectangle the left eye was last drawn at.
func (e *Engine) LeftEye() Rect {
	return Rect{X: e.left.x.Cur, Y: e.left.y.Cur, Width: e.left.geo.Width, Height: e.left.height.Cur}
}

// RightEye returns the rectangle the right eye was last drawn at. It is
// empty in cyclops mode.
func (e *Engine) RightEye() Rect {
	if e.cyclops {
		return Rect{X: e.right.x.Cur, Y: e.right.y.Cur}
	}
	return Rect{X: e.right.x.Cur, Y: e.right.y.Cur, Width: e.right.geo.Width, Height: e.right.height.Cur}
}

// Drops returns a copy of the three sweat drops.
func (e *Engine) Drops() [3]SweatDrop {
	return e.drops
}

// BlinkTimer returns the auto-blink timer.
func (e *Engine) BlinkTimer() Timer {
	return e.blink
}

// IdleTimer returns the idle drift timer.
func (e *Engine) IdleTimer() Timer {
	return e.idle
}

// RenderNew allocates a canvas and renders the frame at timeMs into it.
func (e *Engine) RenderNew(timeMs uint64) *image.Gray {
	dst := NewCanvas(e.width, e.height)
	e.render(dst, timeMs)
	return dst
}

// Render draws the frame at timeMs into dst, advancing every animation by
// one step. Frame times must not decrease between calls. dst must have the
// engine's screen size; otherwise ErrCanvasSize is returned and dst is left
// untouched.
func (e *Engine) Render(dst *image.Gray, timeMs uint64) error {
	if b := dst.Bounds(); b.Dx() != e.width || b.Dy() != e.height {
		return fmt.Errorf("%w: got %dx%d, want %dx%d", ErrCanvasSize, b.Dx(), b.Dy(), e.width, e.height)
	}
	e.render(dst, timeMs)
	return nil
}

func (e *Engine) render(dst *image.Gray, now uint64) {
	e.debugCheckClock(now)
	if e.rendered && now > e.lastMs {
		e.fade.Update(float32(now-e.lastMs) / 1000)
	}
	e.rendered = true
	e.lastMs = now

	b := dst.Bounds()
	fillCanvas(dst, ColorBackground)
	origin := func(f eyeFrame) eyeFrame {
		f.x += b.Min.X
		f.y += b.Min.Y
		return f
	}

	e.tween()
	e.schedule(now)

	fg := e.fade.Level()
	left := origin(eyeFrame{e.left.x.Cur, e.left.y.Cur, e.left.geo.Width, e.left.height.Cur, e.left.geo.Radius})
	right := origin(eyeFrame{e.right.x.Cur, e.right.y.Cur, e.right.geo.Width, e.right.height.Cur, e.right.geo.Radius})
	if e.cyclops {
		right.width, right.height = 0, 0
	}

	FillRoundedRect(dst, left.x, left.y, left.width, left.height, left.radius, fg)
	if !e.cyclops {
		FillRoundedRect(dst, right.x, right.y, right.width, right.height, right.radius, fg)
	}

	e.lids.retarget(e.mood, e.left.geo.Height)
	e.lids.step()
	e.lids.drawOverlays(dst, e.mood, left, right, e.cyclops)

	if e.sweat {
		e.drops.step(dst, b.Min, e.width, e.rng, fg, func(anchor int) {
			e.emit(Event{Type: EventSweatReset, TimeMs: now, X: anchor})
		})
	}
}

// tween advances every geometric quantity one frame.
func (e *Engine) tween() {
	e.updateCurious()

	// Shift each eye up by half its curious boost so it grows about its
	// centre.
	e.left.y.Cur -= e.left.heightOffset / 2
	e.right.y.Cur -= e.right.heightOffset / 2

	for _, ey := range []*eye{&e.left, &e.right} {
		ey.height.stepBiased(ey.heightOffset)
		if ey.open && ey.height.Cur <= closedHeight+ey.heightOffset {
			ey.height.Next = ey.geo.Height
		}
	}

	e.space.Step()

	e.left.x.Step()
	e.left.y.Step()
	e.right.x.Next = e.left.x.Next + e.left.geo.Width + e.space.Cur
	e.right.y.Next = e.left.y.Next
	e.right.x.Step()
	e.right.y.Step()

	// Border radii blend with themselves: a radius change shows up in full
	// on the next frame.
	e.left.geo.Radius = blend(e.left.geo.Radius, e.left.geo.Radius)
	e.right.geo.Radius = blend(e.right.geo.Radius, e.right.geo.Radius)
}

// updateCurious recomputes the per-eye height boost from the gaze targets.
func (e *Engine) updateCurious() {
	if !e.curious {
		e.left.heightOffset, e.right.heightOffset = 0, 0
		return
	}
	e.left.heightOffset = 0
	if e.left.x.Next <= curiousEdgeMargin || (e.cyclops && e.left.x.Next >= e.maxX()-curiousEdgeMargin) {
		e.left.heightOffset = curiousOffset
	}
	e.right.heightOffset = 0
	if e.right.x.Next >= e.width-e.right.geo.Width-curiousEdgeMargin {
		e.right.heightOffset = curiousOffset
	}
}

// schedule runs the timer and pulse driven behaviours in a fixed order:
// auto-blink, laugh, confused, idle, then the flicker offsets.
func (e *Engine) schedule(now uint64) {
	if e.blink.fire(now, e.rng) {
		e.Blink()
		e.emit(Event{Type: EventBlink, TimeMs: now})
	}

	switch started, ended := e.laugh.advance(now); {
	case started:
		e.vFlicker.Enabled, e.vFlicker.Amplitude = true, laughAmplitude
		e.emit(Event{Type: EventLaughStart, TimeMs: now})
	case ended:
		e.vFlicker.Enabled, e.vFlicker.Amplitude = false, 0
		e.emit(Event{Type: EventLaughEnd, TimeMs: now})
	}

	switch started, ended := e.confused.advance(now); {
	case started:
		e.hFlicker.Enabled, e.hFlicker.Amplitude = true, confusedAmplitude
		e.emit(Event{Type: EventConfusedStart, TimeMs: now})
	case ended:
		e.hFlicker.Enabled, e.hFlicker.Amplitude = false, 0
		e.emit(Event{Type: EventConfusedEnd, TimeMs: now})
	}

	if e.idle.fire(now, e.rng) {
		x, y := e.idleTarget()
		e.left.x.Next, e.left.y.Next = x, y
		e.emit(Event{Type: EventIdleMove, TimeMs: now, X: x, Y: y})
	}

	if dx := e.hFlicker.offset(); dx != 0 {
		e.left.x.Cur += dx
		e.right.x.Cur += dx
	}
	if dy := e.vFlicker.offset(); dy != 0 {
		e.left.y.Cur += dy
		e.right.y.Cur += dy
	}
}

// idleTarget draws a random left-eye target inside the idle envelope.
func (e *Engine) idleTarget() (x, y int) {
	maxX, maxY := e.maxX(), e.maxY()
	if e.idleCfg.LegacyVertical {
		maxY = maxX
	}
	return e.envelope(maxX, e.idleCfg.XRangePct), e.envelope(maxY, e.idleCfg.YRangePct)
}

// envelope returns a random value in the pct share of [0, limit] centred
// on limit/2. Both ends are inclusive.
func (e *Engine) envelope(limit, pct int) int {
	if limit <= 0 {
		return 0
	}
	span := limit * pct / 100
	lo := (limit - span) / 2
	return lo + randN(e.rng, span+1)
}

func (e *Engine) emit(ev Event) {
	e.debugEvent(ev)
	if e.sink != nil {
		e.sink.EmitEvent(ev)
	}
}
