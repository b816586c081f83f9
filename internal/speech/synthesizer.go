package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"

	"github.com/gorilla/websocket"
)

// Synthesizer renders text into audio bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// WSSynthesizer is the gateway TTS client. One request per utterance; audio
// arrives as base64 data frames terminated by an end frame.
type WSSynthesizer struct {
	opts GatewayOptions
}

// NewWSSynthesizer creates a gateway synthesizer from the given options.
func NewWSSynthesizer(opts GatewayOptions) *WSSynthesizer {
	return &WSSynthesizer{opts: opts}
}

// Synthesize requests audio for the given text and collects it until the
// gateway signals completion.
func (s *WSSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("synthesis text is empty")
	}

	conn, _, err := s.opts.dialer().DialContext(ctx, s.opts.TTSURL, s.opts.header())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to TTS gateway: %w", err)
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	request := gatewayFrame{
		Type:     "synthesize",
		Text:     text,
		Voice:    s.opts.Voice,
		Language: s.opts.Language,
		Format:   "wav",
	}
	if err := conn.WriteJSON(request); err != nil {
		return nil, fmt.Errorf("failed to send TTS request: %w", err)
	}

	var audio bytes.Buffer
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("failed to read TTS response: %w", err)
		}
		if msgType != websocket.TextMessage {
			continue
		}

		var frame gatewayFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			return nil, fmt.Errorf("failed to decode TTS frame: %w", err)
		}

		switch frame.Type {
		case "audio":
			chunk, err := base64.StdEncoding.DecodeString(frame.Data)
			if err != nil {
				return nil, fmt.Errorf("failed to decode audio chunk: %w", err)
			}
			audio.Write(chunk)
		case "end":
			if audio.Len() == 0 {
				return nil, fmt.Errorf("TTS audio is empty")
			}
			return audio.Bytes(), nil
		case "error":
			return nil, fmt.Errorf("TTS gateway error: %s", frame.Message)
		default:
			log.Printf("[playback] unexpected TTS frame type: %s", frame.Type)
		}
	}
}
