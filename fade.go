package boteyes

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Fade animates the foreground intensity between two levels with a gween
// easing curve. The zero value is idle at full brightness once reset.
type Fade struct {
	tween *gween.Tween
	level float32
	Done  bool
}

func newFade() Fade {
	return Fade{level: float32(ColorForeground), Done: true}
}

// start begins a transition from the current level to level over d.
// A nil easing function means linear.
func (f *Fade) start(level uint8, d time.Duration, fn ease.TweenFunc) {
	if fn == nil {
		fn = ease.Linear
	}
	if d <= 0 {
		f.tween = nil
		f.level = float32(level)
		f.Done = true
		return
	}
	f.tween = gween.New(f.level, float32(level), float32(d.Seconds()), fn)
	f.Done = false
}

// Update advances the transition by dt seconds.
func (f *Fade) Update(dt float32) {
	if f.Done || f.tween == nil {
		return
	}
	val, finished := f.tween.Update(dt)
	f.level = val
	f.Done = finished
}

// Level returns the intensity the foreground is drawn with.
func (f *Fade) Level() uint8 {
	switch {
	case f.level <= 0:
		return 0
	case f.level >= 255:
		return 255
	}
	return uint8(f.level + 0.5)
}
