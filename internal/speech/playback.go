package speech

import (
	"context"
	"log"
	"sync"
)

// AudioSink delivers synthesized audio to the platform output.
type AudioSink interface {
	Play(ctx context.Context, audio []byte) error
}

// Player is the playback adapter: at most one utterance audible at a time,
// newest request wins. Absent capability makes Speak a silent no-op.
type Player struct {
	synth Synthesizer
	sink  AudioSink

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewPlayer builds the playback adapter. Either argument may be nil, which
// marks the capability unavailable.
func NewPlayer(synth Synthesizer, sink AudioSink) *Player {
	return &Player{synth: synth, sink: sink}
}

// Available reports whether playback can be attempted.
func (p *Player) Available() bool {
	return p != nil && p.synth != nil && p.sink != nil
}

// Speak cancels any prior utterance and starts speaking text.
func (p *Player) Speak(text string) {
	if !p.Available() || text == "" {
		return
	}

	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.mu.Unlock()

	go func() {
		defer cancel()

		audio, err := p.synth.Synthesize(ctx, text)
		if err != nil {
			if ctx.Err() == nil {
				log.Printf("[playback] synthesis failed: %v", err)
			}
			return
		}
		if ctx.Err() != nil {
			return
		}
		if err := p.sink.Play(ctx, audio); err != nil && ctx.Err() == nil {
			log.Printf("[playback] audio output failed: %v", err)
		}
	}()
}
