package realtime

import "time"

// Sounder plays the audible cues that let staff tell new orders and waiter
// calls apart without looking at the screen.
type Sounder interface {
	OrderAlert()
	WaiterAlert()
}

// Tone describes one synthesized cue.
type Tone struct {
	FrequencyHz int
	Duration    time.Duration
	Repeats     int
}

var (
	orderTone  = Tone{FrequencyHz: 880, Duration: 220 * time.Millisecond, Repeats: 2}
	waiterTone = Tone{FrequencyHz: 523, Duration: 150 * time.Millisecond, Repeats: 3}
)

// TonePlayer hands tone specs to an injected playback function so the
// actual audio backend can be swapped or silenced in tests.
type TonePlayer struct {
	Play func(Tone)
}

func (p TonePlayer) OrderAlert() {
	if p.Play != nil {
		p.Play(orderTone)
	}
}

func (p TonePlayer) WaiterAlert() {
	if p.Play != nil {
		p.Play(waiterTone)
	}
}

// NopSounder discards all cues.
type NopSounder struct{}

func (NopSounder) OrderAlert()  {}
func (NopSounder) WaiterAlert() {}
