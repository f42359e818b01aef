package boteyes

import (
	logxi "github.com/mgutz/logxi/v1"
)

var logger = logxi.New("boteyes")

// SetDebugMode enables or disables debug logging. When enabled, scheduler
// firings, pulse phase changes and sweat resets are logged at Debug level
// and a frame time that goes backwards is logged as a warning. Output still
// depends on the logxi level configured for the "boteyes" logger.
func (e *Engine) SetDebugMode(enabled bool) {
	e.debug = enabled
}

// debugCheckClock warns when frame times are supplied out of order. Timers
// compare with >=, so a clock going backwards can suppress or repeat firings.
func (e *Engine) debugCheckClock(now uint64) {
	if !e.debug || !e.rendered || now >= e.lastMs {
		return
	}
	logger.Warn("frame time went backwards", "prev", e.lastMs, "now", now)
}

// debugEvent logs an emitted event.
func (e *Engine) debugEvent(ev Event) {
	if !e.debug {
		return
	}
	logger.Debug("event", "type", ev.Type.String(), "t", ev.TimeMs, "x", ev.X, "y", ev.Y)
}
