package boteyes

// Tweened is an animated integer quantity: the value drawn this frame and
// the value it is heading for. Each Step moves Cur halfway toward Next with
// truncation, so large gaps close fast and a residual gap of 1 may persist.
type Tweened struct {
	Cur, Next int
}

// Set jumps the quantity to v with no transition.
func (t *Tweened) Set(v int) {
	t.Cur, t.Next = v, v
}

// Step advances Cur one frame toward Next.
func (t *Tweened) Step() {
	t.Cur = blend(t.Cur, t.Next)
}

// stepBiased advances Cur toward Next+bias. Used for eye heights, where the
// curious-mode offset widens the eye without touching the stored target.
func (t *Tweened) stepBiased(bias int) {
	t.Cur = blend(t.Cur, t.Next+bias)
}

// blend is the per-frame first-order filter. Integer division truncates
// toward zero, matching a float sum truncated to an integer and halved.
func blend(cur, target int) int {
	return (cur + target) / 2
}

// Flicker is a square-wave positional jitter. While enabled, each call to
// offset yields -Amplitude then +Amplitude alternately.
type Flicker struct {
	Enabled   bool
	Amplitude int
	alternate bool
}

func (f *Flicker) offset() int {
	if !f.Enabled {
		return 0
	}
	d := -f.Amplitude
	if f.alternate {
		d = f.Amplitude
	}
	f.alternate = !f.alternate
	return d
}
