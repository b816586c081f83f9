package speech

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
)

// ErrUnavailable signals that the platform lacks the speech capability.
var ErrUnavailable = errors.New("speech capability unavailable")

// AudioSource opens the platform audio input for one capture. The returned
// stream must reach EOF when the utterance ends.
type AudioSource interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Capture wraps a recognizer and an audio source into the one-shot capture
// adapter. At most one capture is in flight; a second Start while capturing
// is ignored. The result callback fires exactly once on success and never
// on error or cancellation.
type Capture struct {
	rec    Recognizer
	source AudioSource

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewCapture builds the capture adapter. Either argument may be nil, which
// marks the capability unavailable.
func NewCapture(rec Recognizer, source AudioSource) *Capture {
	return &Capture{rec: rec, source: source}
}

// Available reports whether voice capture can be attempted.
func (c *Capture) Available() bool {
	return c != nil && c.rec != nil && c.source != nil
}

// Start begins a capture and delivers the best transcript to onResult.
func (c *Capture) Start(ctx context.Context, onResult func(text string)) error {
	if !c.Available() {
		return ErrUnavailable
	}

	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		return nil
	}
	captureCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	go func() {
		defer func() {
			cancel()
			c.mu.Lock()
			c.cancel = nil
			c.mu.Unlock()
		}()

		audio, err := c.source.Open(captureCtx)
		if err != nil {
			log.Printf("[capture] failed to open audio source: %v", err)
			return
		}
		defer audio.Close()

		text, err := c.rec.Recognize(captureCtx, audio)
		if err != nil {
			if captureCtx.Err() == nil {
				log.Printf("[capture] recognition failed: %v", err)
			}
			return
		}
		if captureCtx.Err() != nil {
			return
		}
		onResult(text)
	}()

	return nil
}

// Stop requests early termination of the in-flight capture. No-op when not
// capturing.
func (c *Capture) Stop() {
	if c == nil {
		return
	}
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}
