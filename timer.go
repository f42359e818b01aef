package boteyes

// Timer fires when the frame clock reaches its deadline and then
// reschedules itself interval + random(0, variation) seconds later. Both the
// auto-blinker and idle drift use one.
type Timer struct {
	Enabled   bool
	Interval  int // seconds
	Variation int // seconds; 0 disables jitter
	deadline  uint64
}

// Deadline returns the frame time (ms) at or after which the timer fires.
func (t *Timer) Deadline() uint64 {
	return t.deadline
}

// fire reports whether the timer is due at now and, if so, reschedules it.
func (t *Timer) fire(now uint64, rng Rand) bool {
	if !t.Enabled || now < t.deadline {
		return false
	}
	t.deadline = now + uint64(max(t.Interval, 0))*1000 + uint64(randN(rng, max(t.Variation, 0)*1000))
	return true
}
