// Package sfx plays short synthesized tones for engine events: a chirp on
// every blink, a wobble while confused, and so on.
package sfx

import (
	"sync"
	"time"

	"github.com/go-stack/stack"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	logxi "github.com/mgutz/logxi/v1"

	"github.com/phanxgames/boteyes"
)

var logger = logxi.New("sfx")

const sampleRate = beep.SampleRate(44100)

// Tone is a sine beep.
type Tone struct {
	Freq     float64 // Hz
	Duration time.Duration
}

// DefaultTones is the stock event-to-tone table. Events without an entry
// are silent.
var DefaultTones = map[boteyes.EventType]Tone{
	boteyes.EventBlink:         {Freq: 1320, Duration: 30 * time.Millisecond},
	boteyes.EventIdleMove:      {Freq: 440, Duration: 40 * time.Millisecond},
	boteyes.EventConfusedStart: {Freq: 220, Duration: 120 * time.Millisecond},
	boteyes.EventLaughStart:    {Freq: 880, Duration: 90 * time.Millisecond},
	boteyes.EventSweatReset:    {Freq: 2640, Duration: 10 * time.Millisecond},
}

// Player is an EventSink that turns events into tones. It is safe for
// concurrent use.
type Player struct {
	mu     sync.Mutex
	tones  map[boteyes.EventType]Tone
	volume float64 // log2 gain, 0 is unchanged
	muted  bool
	play   func(beep.Streamer)
}

// NewPlayer creates a player that hands finished streamers to play. A nil
// play drops every tone; Init installs the speaker.
func NewPlayer(play func(beep.Streamer)) *Player {
	tones := make(map[boteyes.EventType]Tone, len(DefaultTones))
	for k, v := range DefaultTones {
		tones[k] = v
	}
	return &Player{tones: tones, volume: -2, play: play}
}

// Init opens the default audio device and routes tones through a mixer on
// it.
func (p *Player) Init() error {
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	mixer := &beep.Mixer{}
	speaker.Play(mixer)

	p.mu.Lock()
	p.play = func(s beep.Streamer) {
		speaker.Lock()
		mixer.Add(s)
		speaker.Unlock()
	}
	p.mu.Unlock()
	return nil
}

// SetTone replaces the tone for an event type. A zero Tone silences it.
func (p *Player) SetTone(t boteyes.EventType, tone Tone) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if tone.Freq <= 0 || tone.Duration <= 0 {
		delete(p.tones, t)
		return
	}
	p.tones[t] = tone
}

// SetVolume sets the gain in log2 steps: -1 halves amplitude, 1 doubles it.
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	p.volume = v
	p.mu.Unlock()
}

// SetMuted silences or unsilences the player.
func (p *Player) SetMuted(muted bool) {
	p.mu.Lock()
	p.muted = muted
	p.mu.Unlock()
}

// Muted reports whether the player is silenced.
func (p *Player) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

// EmitEvent plays the tone for event, if any.
func (p *Player) EmitEvent(event boteyes.Event) {
	p.mu.Lock()
	tone, ok := p.tones[event.Type]
	play, muted, volume := p.play, p.muted, p.volume
	p.mu.Unlock()

	if !ok || muted || play == nil {
		return
	}
	s, err := toneStreamer(tone, volume)
	if err != nil {
		logger.Warn("tone", "event", event.Type.String(), "err", err, "stack", stack.Trace().TrimRuntime())
		return
	}
	play(s)
}

func toneStreamer(t Tone, volume float64) (beep.Streamer, error) {
	sine, err := generators.SineTone(sampleRate, t.Freq)
	if err != nil {
		return nil, err
	}
	return &effects.Volume{
		Streamer: beep.Take(sampleRate.N(t.Duration), sine),
		Base:     2,
		Volume:   volume,
	}, nil
}
