package boteyes

// EventType identifies something the scheduler did during a frame.
type EventType uint8

const (
	EventBlink         EventType = iota // auto-blinker closed the eyes
	EventIdleMove                       // idle drift picked a new gaze target
	EventConfusedStart                  // horizontal shake began
	EventConfusedEnd                    // horizontal shake finished
	EventLaughStart                     // vertical bounce began
	EventLaughEnd                       // vertical bounce finished
	EventSweatReset                     // a sweat drop finished its fall and respawned
)

var eventNames = [...]string{
	"blink", "idle_move", "confused_start", "confused_end",
	"laugh_start", "laugh_end", "sweat_reset",
}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// Event carries one scheduler occurrence. X and Y hold the new gaze target
// for EventIdleMove and the new drop anchor (X) for EventSweatReset.
type Event struct {
	Type   EventType
	TimeMs uint64
	X, Y   int
}

// EventSink receives engine events. Events are delivered synchronously from
// inside Render; a sink must not call back into the engine.
type EventSink interface {
	EmitEvent(event Event)
}

// EventSinkFunc adapts a plain function to EventSink.
type EventSinkFunc func(event Event)

// EmitEvent calls f(event).
func (f EventSinkFunc) EmitEvent(event Event) {
	f(event)
}

type fanout []EventSink

// Fanout returns a sink that forwards every event to each of sinks in order.
// Nil sinks are skipped.
func Fanout(sinks ...EventSink) EventSink {
	out := make(fanout, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (f fanout) EmitEvent(event Event) {
	for _, s := range f {
		s.EmitEvent(event)
	}
}
