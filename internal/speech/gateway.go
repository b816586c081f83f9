package speech

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// GatewayOptions configures the WebSocket speech gateway clients. The
// language is fixed for the process lifetime; there is no per-call locale.
type GatewayOptions struct {
	ASRURL           string
	TTSURL           string
	AppKey           string
	AccessKey        string
	Language         string
	Voice            string
	HandshakeTimeout time.Duration
}

// gatewayFrame is the JSON control frame shared by both directions of the
// gateway protocol. Audio flows as binary frames (ASR upload) or base64
// data fields (TTS download).
type gatewayFrame struct {
	Type            string  `json:"type"`
	Format          string  `json:"format,omitempty"`
	Language        string  `json:"language,omitempty"`
	Interim         bool    `json:"interim,omitempty"`
	MaxAlternatives int     `json:"max_alternatives,omitempty"`
	Text            string  `json:"text,omitempty"`
	Voice           string  `json:"voice,omitempty"`
	Data            string  `json:"data,omitempty"`
	Message         string  `json:"message,omitempty"`
	Confidence      float64 `json:"confidence,omitempty"`
	Duration        int64   `json:"duration,omitempty"`
}

func (o GatewayOptions) dialer() *websocket.Dialer {
	timeout := o.HandshakeTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &websocket.Dialer{HandshakeTimeout: timeout}
}

func (o GatewayOptions) header() http.Header {
	header := http.Header{}
	header.Set("X-Api-App-Key", o.AppKey)
	header.Set("X-Api-Access-Key", o.AccessKey)
	header.Set("X-Api-Connect-Id", uuid.NewString())
	return header
}
