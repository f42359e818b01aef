package boteyes

// PulseState is the phase of a timed pulse animation.
type PulseState uint8

const (
	PulseIdle    PulseState = iota // not running, ready to trigger
	PulsePending                   // triggered, starts on the next frame
	PulseActive                    // running since Pulse.Start
)

// pulseDuration is how long confused and laugh pulses hold their flicker.
const pulseDuration = 500

// Pulse is a one-shot timed animation (Idle → Pending → Active → Idle).
// Triggering while Pending or Active restarts it from the next frame.
type Pulse struct {
	Duration uint64 // ms
	state    PulseState
	start    uint64
}

// State returns the current phase.
func (p *Pulse) State() PulseState {
	return p.state
}

// Start returns the frame time the active phase began at.
func (p *Pulse) Start() uint64 {
	return p.start
}

// Trigger arms the pulse; the active phase begins on the next frame.
func (p *Pulse) Trigger() {
	p.state = PulsePending
}

// advance moves the pulse through its phases for the frame at now. started
// is true on the frame the active phase begins, ended on the frame it stops.
// The end check is skipped on the starting frame.
func (p *Pulse) advance(now uint64) (started, ended bool) {
	switch p.state {
	case PulsePending:
		p.state = PulseActive
		p.start = now
		return true, false
	case PulseActive:
		if now >= p.start+p.Duration {
			p.state = PulseIdle
			return false, true
		}
	}
	return false, false
}
