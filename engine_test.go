package boteyes

import (
	"errors"
	"image"
	"testing"
	"time"
)

// recorder collects emitted events.
type recorder struct {
	events []Event
}

func (r *recorder) EmitEvent(ev Event) {
	r.events = append(r.events, ev)
}

func (r *recorder) count(typ EventType) int {
	n := 0
	for _, ev := range r.events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	return New(128, 64, append([]Option{WithRand(&fixedRand{v: 7})}, opts...)...)
}

// warmUp renders n frames 16 ms apart starting at start and returns the
// time of the next frame.
func warmUp(t *testing.T, e *Engine, dst *image.Gray, start uint64, n int) uint64 {
	t.Helper()
	now := start
	for range n {
		if err := e.Render(dst, now); err != nil {
			t.Fatalf("Render: %v", err)
		}
		now += 16
	}
	return now
}

func TestNewDefaults(t *testing.T) {
	e := newTestEngine(t)
	if w, h := e.Size(); w != 128 || h != 64 {
		t.Errorf("Size = %dx%d", w, h)
	}
	l := e.LeftEye()
	if l.X != 23 || l.Y != 14 || l.Width != 36 || l.Height != 1 {
		t.Errorf("LeftEye = %+v, want {23 14 36 1}", l)
	}
	if e.Mood() != MoodDefault || e.Cyclops() || e.Curious() || e.Sweat() {
		t.Error("unexpected initial flags")
	}
	if e.Brightness() != 255 {
		t.Errorf("Brightness = %d, want 255", e.Brightness())
	}
	if b := e.BlinkTimer(); b.Enabled || b.Interval != 1 || b.Variation != 4 {
		t.Errorf("blink timer = %+v", b)
	}
	if i := e.IdleTimer(); i.Enabled || i.Interval != 1 || i.Variation != 3 {
		t.Errorf("idle timer = %+v", i)
	}
}

func TestRenderConverges(t *testing.T) {
	e := newTestEngine(t)
	e.Open()
	dst := NewCanvas(128, 64)
	warmUp(t, e, dst, 0, 19)
	if err := e.Render(dst, 1000); err != nil {
		t.Fatal(err)
	}

	lh, rh := e.EyeHeights()
	if lh != 35 || rh != 35 {
		t.Errorf("heights = %d/%d, want 35/35", lh, rh)
	}
	l, r := e.LeftEye(), e.RightEye()
	if l.X != 23 || l.Y != 14 {
		t.Errorf("left eye at (%d,%d), want (23,14)", l.X, l.Y)
	}
	if r.X != 68 || r.Y != 14 {
		t.Errorf("right eye at (%d,%d), want (68,14)", r.X, r.Y)
	}

	// Exactly two rounded blobs and nothing else.
	want := NewCanvas(128, 64)
	FillRoundedRect(want, l.X, l.Y, l.Width, l.Height, DefaultBorderRadius, 255)
	FillRoundedRect(want, r.X, r.Y, r.Width, r.Height, DefaultBorderRadius, 255)
	for i := range want.Pix {
		if dst.Pix[i] != want.Pix[i] {
			t.Fatalf("pixel (%d,%d) = %d, want %d", i%128, i/128, dst.Pix[i], want.Pix[i])
		}
	}
}

// A cold engine needs about 20 frames to settle. The first frame is only the
// first halving step, so the right eye still overlaps the left one.
func TestRenderSingleColdFrame(t *testing.T) {
	e := newTestEngine(t)
	e.Open()
	if err := e.Render(NewCanvas(128, 64), 1000); err != nil {
		t.Fatal(err)
	}
	if lh, rh := e.EyeHeights(); lh != 18 || rh != 18 {
		t.Errorf("heights = %d/%d, want 18/18", lh, rh)
	}
	l, r := e.LeftEye(), e.RightEye()
	if l.X != 23 || r.X != 34 {
		t.Errorf("x = %d/%d, want 23/34", l.X, r.X)
	}
	if r.X >= l.X+l.Width {
		t.Error("right eye should still overlap the left eye on the first frame")
	}
}

func TestRenderCanvasSizeMismatch(t *testing.T) {
	e := newTestEngine(t)
	dst := NewCanvas(64, 64)
	fillCanvas(dst, 7)
	err := e.Render(dst, 0)
	if !errors.Is(err, ErrCanvasSize) {
		t.Fatalf("err = %v, want ErrCanvasSize", err)
	}
	for _, p := range dst.Pix {
		if p != 7 {
			t.Fatal("mismatched canvas was written to")
		}
	}
}

func TestRenderSubImage(t *testing.T) {
	a, b := newTestEngine(t), newTestEngine(t)
	a.Open()
	b.Open()
	a.SetSweat(true)
	b.SetSweat(true)

	base := NewCanvas(200, 100)
	sub := base.SubImage(image.Rect(10, 20, 138, 84)).(*image.Gray)
	for i := range 12 {
		if err := a.Render(sub, uint64(i*16)); err != nil {
			t.Fatal(err)
		}
	}
	var ref *image.Gray
	for i := range 12 {
		ref = b.RenderNew(uint64(i * 16))
	}
	for y := 0; y < 64; y++ {
		for x := 0; x < 128; x++ {
			if base.GrayAt(x+10, y+20).Y != ref.GrayAt(x, y).Y {
				t.Fatalf("pixel (%d,%d) differs from reference", x, y)
			}
		}
	}
}

func TestCyclopsHidesRightEye(t *testing.T) {
	for _, m := range []Mood{MoodDefault, MoodTired, MoodAngry, MoodHappy} {
		e := newTestEngine(t)
		e.Open()
		e.SetCyclops(true)
		e.SetMood(m)
		dst := NewCanvas(128, 64)
		warmUp(t, e, dst, 0, 20)

		if !e.RightEye().Empty() {
			t.Errorf("%v: RightEye = %+v, want empty", m, e.RightEye())
		}
		l := e.LeftEye()
		for y := 0; y < 64; y++ {
			for x := l.X + l.Width + 1; x < 128; x++ {
				if dst.GrayAt(x, y).Y != 0 {
					t.Fatalf("%v: right of the single eye lit at (%d,%d)", m, x, y)
				}
			}
		}
		if countLit(dst) == 0 {
			t.Errorf("%v: nothing drawn", m)
		}
	}
}

func TestCyclopsCentresSingleEye(t *testing.T) {
	e := newTestEngine(t)
	e.SetCyclops(true)
	e.SetPosition(PositionCenter)
	if e.left.x.Next != (128-36)/2 {
		t.Errorf("centre target = %d, want %d", e.left.x.Next, (128-36)/2)
	}
	e.SetCyclops(false)
	e.SetPosition(PositionCenter)
	if e.left.x.Next != 23 {
		t.Errorf("centre target = %d, want 23", e.left.x.Next)
	}
}

func TestBlinkRoundTrip(t *testing.T) {
	e := newTestEngine(t)
	e.Open()
	dst := NewCanvas(128, 64)
	now := warmUp(t, e, dst, 0, 20)

	e.Blink()
	lowest := 100
	for range 30 {
		if err := e.Render(dst, now); err != nil {
			t.Fatal(err)
		}
		now += 16
		h, _ := e.EyeHeights()
		lowest = min(lowest, h)
	}
	if lowest != 1 {
		t.Errorf("lowest height = %d, want 1", lowest)
	}
	if h, _ := e.EyeHeights(); h != 35 {
		t.Errorf("height after blink = %d, want 35", h)
	}
}

func TestCloseStaysClosed(t *testing.T) {
	e := newTestEngine(t)
	dst := NewCanvas(128, 64)
	now := warmUp(t, e, dst, 0, 20)
	e.Close()
	warmUp(t, e, dst, now, 30)
	if l, r := e.EyeHeights(); l != 1 || r != 1 {
		t.Errorf("heights = %d/%d, want 1/1", l, r)
	}
}

func TestBlinkEyesSingleSide(t *testing.T) {
	e := newTestEngine(t)
	dst := NewCanvas(128, 64)
	now := warmUp(t, e, dst, 0, 20)
	e.BlinkEyes(true, false)
	warmUp(t, e, dst, now, 3)
	l, r := e.EyeHeights()
	if l >= r {
		t.Errorf("left %d should be shorter than right %d during a left wink", l, r)
	}
}

func TestAutoblinkSchedule(t *testing.T) {
	rec := &recorder{}
	e := newTestEngine(t, WithEventSink(rec))
	e.SetAutoblink(true, 1, 0)
	dst := NewCanvas(128, 64)
	for now := uint64(0); now < 10_000; now += 100 {
		if err := e.Render(dst, now); err != nil {
			t.Fatal(err)
		}
	}
	if n := rec.count(EventBlink); n != 10 {
		t.Errorf("blinks = %d, want 10", n)
	}
	for i, ev := range rec.events {
		if ev.TimeMs != uint64(i)*1000 {
			t.Errorf("blink %d at %d ms, want %d", i, ev.TimeMs, i*1000)
		}
	}
}

func TestManualBlinkEmitsNothing(t *testing.T) {
	rec := &recorder{}
	e := newTestEngine(t, WithEventSink(rec))
	e.Blink()
	warmUp(t, e, NewCanvas(128, 64), 0, 5)
	if len(rec.events) != 0 {
		t.Errorf("events = %v, want none", rec.events)
	}
}

func TestConfusedShake(t *testing.T) {
	rec := &recorder{}
	e := newTestEngine(t, WithEventSink(rec))
	dst := NewCanvas(128, 64)
	now := warmUp(t, e, dst, 0, 20)

	e.TriggerConfused()
	start := now
	if err := e.Render(dst, now); err != nil {
		t.Fatal(err)
	}
	if x := e.LeftEye().X; x != 3 {
		t.Errorf("first shaken x = %d, want 3", x)
	}
	if e.RightEye().X != 68-20 {
		t.Errorf("right eye x = %d, want 48", e.RightEye().X)
	}
	warmUp(t, e, dst, now+16, 40)

	if rec.count(EventConfusedStart) != 1 || rec.count(EventConfusedEnd) != 1 {
		t.Fatalf("events = %v", rec.events)
	}
	end := rec.events[len(rec.events)-1]
	if end.Type != EventConfusedEnd || end.TimeMs < start+pulseDuration || end.TimeMs > start+pulseDuration+16 {
		t.Errorf("end event = %+v, want near %d", end, start+pulseDuration)
	}
	if e.hFlicker.Enabled {
		t.Error("flicker still enabled after pulse")
	}
}

func TestLaughBounce(t *testing.T) {
	rec := &recorder{}
	e := newTestEngine(t, WithEventSink(rec))
	dst := NewCanvas(128, 64)
	now := warmUp(t, e, dst, 0, 20)

	e.TriggerLaugh()
	if err := e.Render(dst, now); err != nil {
		t.Fatal(err)
	}
	if y := e.LeftEye().Y; y != 14-laughAmplitude {
		t.Errorf("first bounce y = %d, want %d", y, 14-laughAmplitude)
	}
	warmUp(t, e, dst, now+16, 40)
	if rec.count(EventLaughStart) != 1 || rec.count(EventLaughEnd) != 1 {
		t.Errorf("events = %v", rec.events)
	}
}

func TestIdleTargets(t *testing.T) {
	tests := []struct {
		name   string
		v      int
		xPct   int
		yPct   int
		legacy bool
		x, y   int
	}{
		{"full range", 40, 100, 100, false, 40, 11},
		{"legacy vertical", 40, 100, 100, true, 40, 40},
		{"half range", 40, 50, 100, false, 27, 11},
		{"no range", 40, 0, 0, false, 23, 14},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			e := New(128, 64, WithRand(&fixedRand{v: tt.v}), WithEventSink(rec))
			e.SetIdle(true, 1, 0, tt.xPct, tt.yPct)
			e.SetIdleLegacyVertical(tt.legacy)
			if err := e.Render(NewCanvas(128, 64), 0); err != nil {
				t.Fatal(err)
			}
			if len(rec.events) != 1 || rec.events[0].Type != EventIdleMove {
				t.Fatalf("events = %v", rec.events)
			}
			ev := rec.events[0]
			if ev.X != tt.x || ev.Y != tt.y {
				t.Errorf("target = (%d,%d), want (%d,%d)", ev.X, ev.Y, tt.x, tt.y)
			}
			if e.left.x.Next != tt.x || e.left.y.Next != tt.y {
				t.Errorf("left target = (%d,%d)", e.left.x.Next, e.left.y.Next)
			}
		})
	}
}

func TestSetPosition(t *testing.T) {
	e := newTestEngine(t)
	e.SetPosition(PositionNorthEast)
	if e.left.x.Next != 46 || e.left.y.Next != 0 {
		t.Fatalf("target = (%d,%d), want (46,0)", e.left.x.Next, e.left.y.Next)
	}
	dst := NewCanvas(128, 64)
	warmUp(t, e, dst, 0, 20)
	l, r := e.LeftEye(), e.RightEye()
	if l.X != 45 || l.Y != 0 {
		t.Errorf("left eye at (%d,%d), want (45,0)", l.X, l.Y)
	}
	if r.Y != 0 || r.X < 90 {
		t.Errorf("right eye at (%d,%d), want x >= 90, y 0", r.X, r.Y)
	}
}

func TestCuriousGrowsEdgeEye(t *testing.T) {
	e := newTestEngine(t)
	e.SetCuriosity(true)
	e.SetPosition(PositionWest)
	dst := NewCanvas(128, 64)
	warmUp(t, e, dst, 0, 30)
	l, r := e.EyeHeights()
	if l <= r {
		t.Errorf("left %d should be taller than right %d when looking west", l, r)
	}
	if l < 40 {
		t.Errorf("left height = %d, want the curious boost", l)
	}

	e.SetCuriosity(false)
	warmUp(t, e, dst, 1000, 30)
	// Left settles from above, right from below.
	if l, r := e.EyeHeights(); l-r > 1 || r > l {
		t.Errorf("heights %d/%d should match once curiosity is off", l, r)
	}
}

func TestMoodOverlays(t *testing.T) {
	e := newTestEngine(t)
	e.Open()
	e.SetMood(MoodTired)
	dst := NewCanvas(128, 64)
	warmUp(t, e, dst, 0, 20)

	if dst.GrayAt(26, 20).Y != 0 {
		t.Error("tired lid should cover the outer top of the left eye")
	}
	if dst.GrayAt(100, 20).Y != 0 {
		t.Error("tired lid should cover the outer top of the right eye")
	}
	if dst.GrayAt(55, 40).Y != 255 {
		t.Error("lower left eye should stay lit")
	}

	e.SetMood(MoodHappy)
	warmUp(t, e, dst, 1000, 20)
	if dst.GrayAt(41, 40).Y != 0 {
		t.Error("happy lid should cover the bottom of the left eye")
	}
	if dst.GrayAt(41, 20).Y != 255 {
		t.Error("top of the left eye should stay lit when happy")
	}
	if e.lids.tired.Cur != 0 {
		t.Errorf("tired lid = %d, want retracted", e.lids.tired.Cur)
	}
}

func TestSweatEvents(t *testing.T) {
	rec := &recorder{}
	// v=5 gives every drop yMax 15: the fall from y=2 ends on the 29th update.
	e := newTestEngine(t, WithRand(&fixedRand{v: 5}), WithEventSink(rec))
	e.SetSweat(true)
	dst := NewCanvas(128, 64)
	next := warmUp(t, e, dst, 0, 28)
	if n := rec.count(EventSweatReset); n != 0 {
		t.Fatalf("sweat resets after 28 frames = %d, want 0", n)
	}
	warmUp(t, e, dst, next, 1)
	if n := rec.count(EventSweatReset); n != 3 {
		t.Errorf("sweat resets = %d, want 3", n)
	}
}

func TestSweatEventsFollowDropDepth(t *testing.T) {
	rec := &recorder{}
	// v=7 gives yMax 17, so the first reset waits for the 33rd update.
	e := newTestEngine(t, WithEventSink(rec))
	e.SetSweat(true)
	dst := NewCanvas(128, 64)
	next := warmUp(t, e, dst, 0, 32)
	if n := rec.count(EventSweatReset); n != 0 {
		t.Fatalf("sweat resets after 32 frames = %d, want 0", n)
	}
	warmUp(t, e, dst, next, 1)
	if n := rec.count(EventSweatReset); n != 3 {
		t.Errorf("sweat resets = %d, want 3", n)
	}
}

func TestSetSizeAndRadius(t *testing.T) {
	e := newTestEngine(t)
	e.SetSize(20, 24)
	e.SetBorderRadius(2, 3)
	e.SetSpaceBetween(4)
	dst := NewCanvas(128, 64)
	warmUp(t, e, dst, 0, 20)
	l, r := e.LeftEye(), e.RightEye()
	if l.Width != 20 || r.Width != 20 {
		t.Errorf("widths = %d/%d, want 20", l.Width, r.Width)
	}
	if l.Height != 23 {
		t.Errorf("height = %d, want 23", l.Height)
	}
	if e.left.geo.Radius != 2 || e.right.geo.Radius != 3 {
		t.Errorf("radii = %d/%d", e.left.geo.Radius, e.right.geo.Radius)
	}
	if gap := r.X - (l.X + l.Width); gap < 3 || gap > 5 {
		t.Errorf("gap = %d, want about 4", gap)
	}
}

func TestFadeTo(t *testing.T) {
	e := newTestEngine(t)
	e.Open()
	dst := NewCanvas(128, 64)
	now := warmUp(t, e, dst, 0, 20)

	e.FadeTo(0, 500*time.Millisecond, nil)
	if err := e.Render(dst, now); err != nil {
		t.Fatal(err)
	}
	if err := e.Render(dst, now+600); err != nil {
		t.Fatal(err)
	}
	if e.Brightness() != 0 {
		t.Errorf("Brightness = %d, want 0", e.Brightness())
	}
	if countLit(dst) != 0 {
		t.Error("faded-out frame should be dark")
	}
}

func TestFlickerSetters(t *testing.T) {
	e := newTestEngine(t)
	dst := NewCanvas(128, 64)
	now := warmUp(t, e, dst, 0, 20)
	e.SetHFlicker(true, 2)
	e.SetVFlicker(true, 3)
	warmUp(t, e, dst, now, 1)
	l := e.LeftEye()
	if l.X != 21 || l.Y != 11 {
		t.Errorf("flickered eye at (%d,%d), want (21,11)", l.X, l.Y)
	}
}

func TestDebugModeTolerantOfClockSkew(t *testing.T) {
	e := newTestEngine(t)
	e.SetDebugMode(true)
	dst := NewCanvas(128, 64)
	warmUp(t, e, dst, 1000, 3)
	if err := e.Render(dst, 10); err != nil {
		t.Fatal(err)
	}
}

func TestWithSeedDeterministic(t *testing.T) {
	a := New(128, 64, WithSeed(42))
	b := New(128, 64, WithSeed(42))
	a.SetSweat(true)
	b.SetSweat(true)
	for i := range 50 {
		fa, fb := a.RenderNew(uint64(i*16)), b.RenderNew(uint64(i*16))
		for j := range fa.Pix {
			if fa.Pix[j] != fb.Pix[j] {
				t.Fatalf("frame %d differs at %d", i, j)
			}
		}
	}
}
