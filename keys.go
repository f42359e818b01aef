package boteyes

import "unicode"

// KeyStep maps an interactive key to the step it triggers. Letters are
// case-insensitive. Toggle keys read the engine's current state, so pressing
// one twice restores it.
//
//	1-4    default, tired, angry, happy
//	o      look at the centre
//	space  blink
//	c      cyclops        u  curious      s  sweat
//	f      confused       l  laugh
//	a      auto-blink     i  idle drift
//
// Gaze directions come from the host's arrow keys; see GazeStep.
func KeyStep(e *Engine, key rune) (Step, bool) {
	toggle := func(action string, cur bool) (Step, bool) {
		on := !cur
		return Step{Action: action, Enabled: &on}, true
	}

	switch unicode.ToLower(key) {
	case '1', '2', '3', '4':
		return Step{Action: "mood", Mood: Mood(key - '1').String()}, true
	case 'o':
		return GazeStep(PositionCenter), true
	case ' ':
		return Step{Action: "blink"}, true
	case 'c':
		return toggle("cyclops", e.Cyclops())
	case 'u':
		return toggle("curious", e.Curious())
	case 's':
		return toggle("sweat", e.Sweat())
	case 'f':
		return Step{Action: "confused"}, true
	case 'l':
		return Step{Action: "laugh"}, true
	case 'a':
		on := !e.blink.Enabled
		return Step{Action: "autoblink", Enabled: &on, Interval: e.blink.Interval, Variation: e.blink.Variation}, true
	case 'i':
		on := !e.idle.Enabled
		xr, yr := e.idleCfg.XRangePct, e.idleCfg.YRangePct
		return Step{Action: "idle", Enabled: &on, Interval: e.idle.Interval, Variation: e.idle.Variation, XRange: &xr, YRange: &yr}, true
	}
	return Step{}, false
}

// GazeStep returns the step that points the gaze at p.
func GazeStep(p Position) Step {
	return Step{Action: "position", Position: p.String()}
}

// GazeFromArrows combines held arrow keys into a position. Opposite keys
// cancel out; nothing held means centre.
func GazeFromArrows(up, down, left, right bool) Position {
	dy, dx := 0, 0
	if up {
		dy--
	}
	if down {
		dy++
	}
	if left {
		dx--
	}
	if right {
		dx++
	}
	return gazeGrid[dy+1][dx+1]
}

var gazeGrid = [3][3]Position{
	{PositionNorthWest, PositionNorth, PositionNorthEast},
	{PositionWest, PositionCenter, PositionEast},
	{PositionSouthWest, PositionSouth, PositionSouthEast},
}
