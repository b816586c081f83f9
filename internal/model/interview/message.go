package interview

// Speaker identifies which side of the conversation produced a message.
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// Message is one entry in the transcript. The transcript is ordered and
// append-only; insertion order is display order.
type Message struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}
