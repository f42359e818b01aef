package boteyes

import "testing"

func TestPulseLifecycle(t *testing.T) {
	p := Pulse{Duration: pulseDuration}
	if p.State() != PulseIdle {
		t.Fatalf("initial state = %v, want idle", p.State())
	}
	if s, e := p.advance(50); s || e {
		t.Error("idle pulse should not start on its own")
	}

	p.Trigger()
	if p.State() != PulsePending {
		t.Fatalf("state after Trigger = %v, want pending", p.State())
	}
	if s, _ := p.advance(100); !s {
		t.Fatal("pulse should start on the frame after Trigger")
	}
	if p.State() != PulseActive || p.Start() != 100 {
		t.Fatalf("state = %v start = %d, want active at 100", p.State(), p.Start())
	}
	if s, e := p.advance(599); s || e {
		t.Error("pulse ended early")
	}
	if _, e := p.advance(600); !e {
		t.Fatal("pulse should end at start+duration")
	}
	if p.State() != PulseIdle {
		t.Errorf("state after end = %v, want idle", p.State())
	}
}

func TestPulseStartFrameSkipsEndCheck(t *testing.T) {
	p := Pulse{Duration: 0}
	p.Trigger()
	if s, e := p.advance(10); !s || e {
		t.Fatalf("start frame: started=%v ended=%v, want true false", s, e)
	}
	if _, e := p.advance(10); !e {
		t.Error("zero-length pulse should end on the following frame")
	}
}

func TestPulseRetriggerRestarts(t *testing.T) {
	p := Pulse{Duration: pulseDuration}
	p.Trigger()
	p.advance(0)
	p.Trigger()
	if s, _ := p.advance(300); !s {
		t.Fatal("retriggered pulse should restart")
	}
	if p.Start() != 300 {
		t.Errorf("start = %d, want 300", p.Start())
	}
	if _, e := p.advance(600); e {
		t.Error("restarted pulse ended on the old schedule")
	}
	if _, e := p.advance(800); !e {
		t.Error("restarted pulse should end at 800")
	}
}
