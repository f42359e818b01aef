// Package boteyes renders animated robot eyes onto a small grayscale canvas,
// the kind of face a hobby robot shows on a 128x64 monochrome OLED.
//
// Every frame the engine eases eye positions, heights and eyelids toward
// their targets, runs timed behaviours (auto-blink, idle drift, confused
// shake, laugh bounce, sweat) and draws the result into an [image.Gray].
// The engine does no I/O: hosts decide where pixels go. The sub-packages
// cover the usual hosts (an [Ebitengine] window, a terminal, an LED matrix
// over Open Pixel Control, PNG and display-page capture).
//
// # Quick start
//
//	eyes := boteyes.New(128, 64)
//	eyes.Open()
//	eyes.SetAutoblink(true, 1, 4)
//	eyes.SetIdle(true, 1, 3, 100, 100)
//
//	canvas := boteyes.NewCanvas(128, 64)
//	for now := uint64(0); ; now += 16 {
//		if err := eyes.Render(canvas, now); err != nil {
//			return err
//		}
//		// push canvas.Pix to the display
//	}
//
// Render must be given frame times (milliseconds) that never decrease. All
// tweening is per frame, so animation speed follows the frame rate while
// timers follow the clock.
//
// # Moods and gaze
//
// [Engine.SetMood] draws eyelid overlays: tired and angry cut triangular
// wedges off the top of each eye, happy pushes a lower lid up from below.
// [Engine.SetPosition] points the gaze at one of nine [Position] values.
// The right eye always follows the left at a fixed spacing, or is hidden
// in cyclops mode.
//
// # Randomness and events
//
// Blink jitter, idle targets and sweat placement come from a [Rand]. Pass
// [WithSeed] or [WithRand] for reproducible output. [WithEventSink]
// receives an [Event] whenever the scheduler does something a host might
// want to react to, such as playing a sound on each blink.
//
// # Scripts
//
// [LoadScript] reads a YAML or JSON scenario of engine actions, waits and
// snapshots; [ScriptRunner.Run] plays it frame by frame. The same actions
// are available one at a time through [ApplyStep].
//
// [Ebitengine]: https://ebitengine.org
package boteyes
