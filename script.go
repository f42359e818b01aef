package boteyes

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/tanema/gween/ease"
	"gopkg.in/yaml.v3"
)

// ErrScript is wrapped by every scenario parse or validation error.
var ErrScript = errors.New("boteyes: invalid script")

// DefaultFrameMs is the frame interval used when a script sets none.
const DefaultFrameMs = 16

// Step is one scenario action. Only the fields the action reads need to be
// set; see ApplyStep for the list of actions.
type Step struct {
	Action string `yaml:"action"`
	Label  string `yaml:"label,omitempty"` // snapshot

	Mood     string `yaml:"mood,omitempty"`
	Position string `yaml:"position,omitempty"`

	// Enabled defaults to true for toggles when omitted.
	Enabled *bool `yaml:"enabled,omitempty"`
	// Left and Right select eyes for blink_eyes and open_eyes, both default
	// to true.
	Left  *bool `yaml:"left,omitempty"`
	Right *bool `yaml:"right,omitempty"`

	Width       int `yaml:"width,omitempty"`
	Height      int `yaml:"height,omitempty"`
	LeftRadius  int `yaml:"left_radius,omitempty"`
	RightRadius int `yaml:"right_radius,omitempty"`
	Space       int `yaml:"space,omitempty"`

	Interval  int  `yaml:"interval,omitempty"`  // seconds
	Variation int  `yaml:"variation,omitempty"` // seconds
	XRange    *int `yaml:"x_range,omitempty"`   // percent, default 100
	YRange    *int `yaml:"y_range,omitempty"`   // percent, default 100
	Amplitude int  `yaml:"amplitude,omitempty"`

	Level      int    `yaml:"level,omitempty"` // fade target 0-255
	DurationMs int    `yaml:"duration_ms,omitempty"`
	Ease       string `yaml:"ease,omitempty"`

	Frames int `yaml:"frames,omitempty"` // wait
	Ms     int `yaml:"ms,omitempty"`     // wait
}

// script is the top-level scenario document.
type script struct {
	FrameMs int    `yaml:"frame_ms"`
	Steps   []Step `yaml:"steps"`
}

var easings = map[string]ease.TweenFunc{
	"":             ease.Linear,
	"linear":       ease.Linear,
	"in_out_quad":  ease.InOutQuad,
	"in_out_sine":  ease.InOutSine,
	"in_out_cubic": ease.InOutCubic,
	"out_cubic":    ease.OutCubic,
	"out_bounce":   ease.OutBounce,
	"out_elastic":  ease.OutElastic,
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

func intOr(i *int, def int) int {
	if i == nil {
		return def
	}
	return *i
}

func stepErr(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrScript}, args...)...)
}

// compile checks st and returns the engine mutation it describes. Runner
// actions (wait, snapshot) have no engine mutation and return nil.
func (st Step) compile() (func(*Engine), error) {
	on := boolOr(st.Enabled, true)
	switch st.Action {
	case "mood":
		m, ok := ParseMood(st.Mood)
		if !ok {
			return nil, stepErr("unknown mood %q", st.Mood)
		}
		return func(e *Engine) { e.SetMood(m) }, nil
	case "position":
		p, ok := ParsePosition(st.Position)
		if !ok {
			return nil, stepErr("unknown position %q", st.Position)
		}
		return func(e *Engine) { e.SetPosition(p) }, nil
	case "open":
		return (*Engine).Open, nil
	case "close":
		return (*Engine).Close, nil
	case "blink":
		return (*Engine).Blink, nil
	case "blink_eyes":
		l, r := boolOr(st.Left, true), boolOr(st.Right, true)
		return func(e *Engine) { e.BlinkEyes(l, r) }, nil
	case "open_eyes":
		l, r := boolOr(st.Left, true), boolOr(st.Right, true)
		return func(e *Engine) { e.OpenEyes(l, r) }, nil
	case "confused":
		return (*Engine).TriggerConfused, nil
	case "laugh":
		return (*Engine).TriggerLaugh, nil
	case "cyclops":
		return func(e *Engine) { e.SetCyclops(on) }, nil
	case "curious":
		return func(e *Engine) { e.SetCuriosity(on) }, nil
	case "sweat":
		return func(e *Engine) { e.SetSweat(on) }, nil
	case "size":
		if st.Width <= 0 || st.Height <= 0 {
			return nil, stepErr("size %dx%d must be positive", st.Width, st.Height)
		}
		w, h := st.Width, st.Height
		return func(e *Engine) { e.SetSize(w, h) }, nil
	case "border_radius":
		if st.LeftRadius < 0 || st.RightRadius < 0 {
			return nil, stepErr("negative border radius")
		}
		l, r := st.LeftRadius, st.RightRadius
		return func(e *Engine) { e.SetBorderRadius(l, r) }, nil
	case "space":
		s := st.Space
		return func(e *Engine) { e.SetSpaceBetween(s) }, nil
	case "autoblink":
		if st.Interval < 0 || st.Variation < 0 {
			return nil, stepErr("negative autoblink timing")
		}
		iv, vr := st.Interval, st.Variation
		return func(e *Engine) { e.SetAutoblink(on, iv, vr) }, nil
	case "idle":
		xr, yr := intOr(st.XRange, 100), intOr(st.YRange, 100)
		if st.Interval < 0 || st.Variation < 0 {
			return nil, stepErr("negative idle timing")
		}
		if xr < 0 || xr > 100 || yr < 0 || yr > 100 {
			return nil, stepErr("idle range %d/%d outside 0-100", xr, yr)
		}
		iv, vr := st.Interval, st.Variation
		return func(e *Engine) { e.SetIdle(on, iv, vr, xr, yr) }, nil
	case "h_flicker":
		a := st.Amplitude
		return func(e *Engine) { e.SetHFlicker(on, a) }, nil
	case "v_flicker":
		a := st.Amplitude
		return func(e *Engine) { e.SetVFlicker(on, a) }, nil
	case "fade":
		if st.Level < 0 || st.Level > 255 {
			return nil, stepErr("fade level %d outside 0-255", st.Level)
		}
		fn, ok := easings[st.Ease]
		if !ok {
			return nil, stepErr("unknown easing %q", st.Ease)
		}
		lvl, d := uint8(st.Level), time.Duration(st.DurationMs)*time.Millisecond
		return func(e *Engine) { e.FadeTo(lvl, d, fn) }, nil
	case "wait":
		if st.Frames < 0 || st.Ms < 0 {
			return nil, stepErr("negative wait")
		}
		return nil, nil
	case "snapshot":
		return nil, nil
	}
	return nil, stepErr("unknown action %q", st.Action)
}

// ApplyStep performs one engine action. Supported actions: mood, position,
// open, close, blink, blink_eyes, open_eyes, confused, laugh, cyclops,
// curious, sweat, size, border_radius, space, autoblink, idle, h_flicker,
// v_flicker and fade. The runner-only actions wait and snapshot are
// rejected.
func ApplyStep(e *Engine, st Step) error {
	fn, err := st.compile()
	if err != nil {
		return err
	}
	if fn == nil {
		return stepErr("%q is not an engine action", st.Action)
	}
	fn(e)
	return nil
}

// ScriptRunner plays a scenario against an engine, one frame per frame
// interval.
type ScriptRunner struct {
	steps   []Step
	actions []func(*Engine)
	frameMs uint64
	clock   uint64
	frames  int
}

// LoadScript parses a YAML or JSON scenario of the form
// {frame_ms: 16, steps: [{action: blink}, {action: wait, frames: 10}, ...]}
// and validates every step.
func LoadScript(data []byte) (*ScriptRunner, error) {
	var sc script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("%w: parse: %w", ErrScript, err)
	}
	if len(sc.Steps) == 0 {
		return nil, stepErr("no steps")
	}
	if sc.FrameMs < 0 {
		return nil, stepErr("negative frame_ms %d", sc.FrameMs)
	}
	if sc.FrameMs == 0 {
		sc.FrameMs = DefaultFrameMs
	}

	r := &ScriptRunner{
		steps:   sc.Steps,
		actions: make([]func(*Engine), len(sc.Steps)),
		frameMs: uint64(sc.FrameMs),
	}
	for i, st := range sc.Steps {
		fn, err := st.compile()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		r.actions[i] = fn
	}
	return r, nil
}

// FrameMs returns the frame interval in milliseconds.
func (r *ScriptRunner) FrameMs() uint64 {
	return r.frameMs
}

// Clock returns the time the next frame will be rendered at.
func (r *ScriptRunner) Clock() uint64 {
	return r.clock
}

// Frames returns how many frames have been rendered.
func (r *ScriptRunner) Frames() int {
	return r.frames
}

// waitFrames converts a wait step into a frame count. A wait of 0 renders
// a single frame.
func (r *ScriptRunner) waitFrames(st Step) int {
	n := st.Frames
	if st.Ms > 0 {
		n += (st.Ms + int(r.frameMs) - 1) / int(r.frameMs)
	}
	return max(n, 1)
}

// Run plays every step against e, rendering into dst. Engine actions take
// effect before the next rendered frame; wait renders frames; snapshot
// calls snap with the last rendered frame (rendering one first if none has
// been rendered). snap must not retain img. Run stops at the first error.
func (r *ScriptRunner) Run(e *Engine, dst *image.Gray, snap func(label string, img *image.Gray) error) error {
	for i, st := range r.steps {
		switch st.Action {
		case "wait":
			for range r.waitFrames(st) {
				if err := r.frame(e, dst); err != nil {
					return fmt.Errorf("step %d: %w", i, err)
				}
			}
		case "snapshot":
			if r.frames == 0 {
				if err := r.frame(e, dst); err != nil {
					return fmt.Errorf("step %d: %w", i, err)
				}
			}
			if snap == nil {
				continue
			}
			if err := snap(st.Label, dst); err != nil {
				return fmt.Errorf("snapshot %q: %w", st.Label, err)
			}
		default:
			r.actions[i](e)
		}
	}
	return nil
}

func (r *ScriptRunner) frame(e *Engine, dst *image.Gray) error {
	if err := e.Render(dst, r.clock); err != nil {
		return err
	}
	r.clock += r.frameMs
	r.frames++
	return nil
}
