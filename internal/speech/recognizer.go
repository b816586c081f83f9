package speech

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/gorilla/websocket"
)

// Recognizer turns a single captured audio stream into text.
type Recognizer interface {
	Recognize(ctx context.Context, audio io.Reader) (string, error)
}

const asrChunkSize = 3200

// WSRecognizer is the gateway ASR client. Each call is a deterministic
// one-shot: interim results disabled, one alternative, fixed language.
type WSRecognizer struct {
	opts GatewayOptions
}

// NewWSRecognizer creates a gateway recognizer from the given options.
func NewWSRecognizer(opts GatewayOptions) *WSRecognizer {
	return &WSRecognizer{opts: opts}
}

// Recognize uploads the audio stream and waits for the single final
// transcript. The stream is read to EOF before the end frame is sent.
func (r *WSRecognizer) Recognize(ctx context.Context, audio io.Reader) (string, error) {
	conn, _, err := r.opts.dialer().DialContext(ctx, r.opts.ASRURL, r.opts.header())
	if err != nil {
		return "", fmt.Errorf("failed to connect to ASR gateway: %w", err)
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

	config := gatewayFrame{
		Type:            "config",
		Format:          "wav",
		Language:        r.opts.Language,
		Interim:         false,
		MaxAlternatives: 1,
	}
	if err := conn.WriteJSON(config); err != nil {
		return "", fmt.Errorf("failed to send ASR config: %w", err)
	}

	buf := make([]byte, asrChunkSize)
	for {
		n, readErr := audio.Read(buf)
		if n > 0 {
			if err := conn.WriteMessage(websocket.BinaryMessage, buf[:n]); err != nil {
				return "", fmt.Errorf("failed to send audio chunk: %w", err)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return "", fmt.Errorf("failed to read audio source: %w", readErr)
		}
	}

	if err := conn.WriteJSON(gatewayFrame{Type: "end"}); err != nil {
		return "", fmt.Errorf("failed to send end frame: %w", err)
	}

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			return "", fmt.Errorf("failed to read ASR response: %w", err)
		}
		if msgType != websocket.TextMessage {
			continue
		}

		var frame gatewayFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			return "", fmt.Errorf("failed to decode ASR frame: %w", err)
		}

		switch frame.Type {
		case "result":
			return frame.Text, nil
		case "error":
			return "", fmt.Errorf("ASR gateway error: %s", frame.Message)
		default:
			log.Printf("[capture] unexpected ASR frame type: %s", frame.Type)
		}
	}
}
